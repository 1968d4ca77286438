package statemachine

import (
	"errors"

	"foodbridge-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.RequestStatus
	To    models.RequestStatus
	Actor string // "restaurant", "ngo"
}

// validTransitions is the authoritative state machine definition.
// Status only ever moves forward: pending → accepted → completed.
var validTransitions = []Transition{
	// NGO accepts a pending request
	{From: models.StatusPending, To: models.StatusAccepted, Actor: "ngo"},
	// Either the accepting NGO or the owning restaurant marks it collected
	{From: models.StatusAccepted, To: models.StatusCompleted, Actor: "ngo"},
	{From: models.StatusAccepted, To: models.StatusCompleted, Actor: "restaurant"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.RequestStatus
	To    models.RequestStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.RequestStatus) []models.RequestStatus {
	var nexts []models.RequestStatus
	seen := map[models.RequestStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.RequestStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.RequestStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
