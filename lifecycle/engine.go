// Package lifecycle implements the rules governing creation, visibility,
// acceptance and completion of food requests. Mutations are
// compare-and-swap updates conditioned on the expected current status,
// so a lost race surfaces as a conflict error instead of a silent
// overwrite.
package lifecycle

import (
	"errors"

	"foodbridge-api/live"
	"foodbridge-api/models"
	"foodbridge-api/statemachine"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means no request exists with the given id.
	ErrNotFound = errors.New("request not found")
	// ErrNameRequired means the caller's profile has no display name yet.
	ErrNameRequired = errors.New("display name required before acting on requests")
	// ErrAlreadyAccepted means another NGO won the acceptance race.
	ErrAlreadyAccepted = errors.New("request has already been accepted")
	// ErrNotAccepted means completion was attempted on a request nobody accepted.
	ErrNotAccepted = errors.New("request has not been accepted yet")
	// ErrNotParticipant means the caller is neither the owning restaurant
	// nor the accepting NGO.
	ErrNotParticipant = errors.New("only the owning restaurant or accepting NGO may complete a request")
)

// Engine owns all writes to the food request collection. Reads used by
// dashboards go through its list methods so every view applies the same
// filters as its live stream.
type Engine struct {
	db  *gorm.DB
	hub *live.Hub
}

func NewEngine(db *gorm.DB, hub *live.Hub) *Engine {
	return &Engine{db: db, hub: hub}
}

// Create inserts a new request owned by the given restaurant. Status is
// forced to pending and acceptor fields are left empty regardless of
// input. RestaurantName is snapshotted from ownerName at this moment and
// never re-synced with later profile changes.
func (e *Engine) Create(ownerID uint, ownerName, description, quantity, location string) (*models.FoodRequest, error) {
	if ownerName == "" {
		return nil, ErrNameRequired
	}
	req := models.FoodRequest{
		RestaurantID:    ownerID,
		RestaurantName:  ownerName,
		FoodDescription: description,
		Quantity:        quantity,
		Location:        location,
		Status:          models.StatusPending,
	}
	if err := e.db.Create(&req).Error; err != nil {
		return nil, err
	}
	e.hub.Publish(req)
	return &req, nil
}

// ListByOwner returns all requests created by the restaurant, newest first.
func (e *Engine) ListByOwner(ownerID uint) ([]models.FoodRequest, error) {
	var reqs []models.FoodRequest
	err := e.db.Where("restaurant_id = ?", ownerID).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// ListPending returns every pending request across all restaurants,
// newest first. This is the NGO-facing acceptance queue.
func (e *Engine) ListPending() ([]models.FoodRequest, error) {
	var reqs []models.FoodRequest
	err := e.db.Where("status = ?", models.StatusPending).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// ListAcceptedBy returns the requests an NGO has accepted, whether still
// in progress or already collected, newest first.
func (e *Engine) ListAcceptedBy(ngoID uint) ([]models.FoodRequest, error) {
	var reqs []models.FoodRequest
	err := e.db.Where("accepted_by = ? AND status IN ?",
		ngoID, []models.RequestStatus{models.StatusAccepted, models.StatusCompleted}).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

// Get returns a single request by id.
func (e *Engine) Get(id string) (*models.FoodRequest, error) {
	var req models.FoodRequest
	if err := e.db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Accept moves a pending request to accepted and attaches the NGO's
// identity. The update is conditioned on the request still being
// pending: if another NGO got there first the caller gets
// ErrAlreadyAccepted rather than overwriting their claim.
func (e *Engine) Accept(requestID string, ngoID uint, ngoName string) (*models.FoodRequest, error) {
	if ngoName == "" {
		return nil, ErrNameRequired
	}

	res := e.db.Model(&models.FoodRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":           models.StatusAccepted,
			"accepted_by":      ngoID,
			"accepted_by_name": ngoName,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the id is unknown or someone else already accepted.
		if _, err := e.Get(requestID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyAccepted
	}

	req, err := e.Get(requestID)
	if err != nil {
		return nil, err
	}
	e.hub.Publish(*req)
	return req, nil
}

// Complete marks an accepted request as collected. Either the owning
// restaurant or the accepting NGO may complete; anyone else is denied.
// Completing an already-completed request is an idempotent success.
// Completing a pending request is refused, since nobody has claimed it.
func (e *Engine) Complete(requestID string, actorID uint) (*models.FoodRequest, error) {
	req, err := e.Get(requestID)
	if err != nil {
		return nil, err
	}

	owner := req.RestaurantID == actorID
	acceptor := req.AcceptedBy != nil && *req.AcceptedBy == actorID
	if !owner && !acceptor {
		return nil, ErrNotParticipant
	}

	if req.Status == models.StatusCompleted {
		return req, nil
	}

	actor := "ngo"
	if owner {
		actor = "restaurant"
	}
	// The transition table rejects anything but accepted → completed
	// here, which is how a still-pending request gets refused.
	if err := statemachine.CanTransition(req.Status, models.StatusCompleted, actor); err != nil {
		return nil, ErrNotAccepted
	}

	res := e.db.Model(&models.FoodRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusAccepted).
		Update("status", models.StatusCompleted)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Raced with another completion; re-read and treat a completed
		// request as success.
		req, err = e.Get(requestID)
		if err != nil {
			return nil, err
		}
		if req.Status == models.StatusCompleted {
			return req, nil
		}
		return nil, ErrNotAccepted
	}

	req, err = e.Get(requestID)
	if err != nil {
		return nil, err
	}
	e.hub.Publish(*req)
	return req, nil
}
