package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus represents all possible states of a food request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusCompleted RequestStatus = "completed"
)

// FoodRequest is a single donation offer posted by a restaurant.
// RestaurantName and AcceptedByName are snapshots taken at write time;
// they are not kept in sync with later profile renames.
type FoodRequest struct {
	ID              string        `json:"id" gorm:"primaryKey"`
	RestaurantID    uint          `json:"restaurant_id" gorm:"not null;index"`
	RestaurantName  string        `json:"restaurant_name" gorm:"not null"`
	FoodDescription string        `json:"food_description" gorm:"not null"`
	Quantity        string        `json:"quantity" gorm:"not null"`
	Location        string        `json:"location" gorm:"not null"`
	Status          RequestStatus `json:"status" gorm:"not null;default:'pending';index"`
	AcceptedBy      *uint         `json:"accepted_by,omitempty" gorm:"index"`
	AcceptedByName  string        `json:"accepted_by_name,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// BeforeCreate assigns the store identifier, mirroring a document store
// handing back a generated id.
func (r *FoodRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
