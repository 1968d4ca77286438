package models

import (
	"time"
)

// UserRole defines allowed roles in the system. An empty role means the
// user has authenticated but not completed onboarding yet.
type UserRole string

const (
	RoleRestaurant UserRole = "restaurant"
	RoleNGO        UserRole = "ngo"
)

// ValidRole reports whether r is one of the two onboarding choices.
func ValidRole(r UserRole) bool {
	return r == RoleRestaurant || r == RoleNGO
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"default:''"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
