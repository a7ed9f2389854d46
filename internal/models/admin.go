package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin accounts are created directly in the database; there is no signup endpoint.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`

	IsActive bool `json:"is_active"`
}
