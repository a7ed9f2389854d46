package models

import (
	"time"

	"github.com/google/uuid"
)

type Therapist struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // Don't return password in JSON

	// License and professional info
	LicenseNumber     string  `json:"license_number"`
	LicenseState      string  `json:"license_state"`
	YearsOfExperience int     `json:"years_of_experience"`
	Specialization    string  `json:"specialization,omitempty"`
	Phone             string  `json:"phone"`
	SessionFee        float64 `json:"session_fee"`
	Bio               string  `json:"bio,omitempty"`
	ProfileImageURL   string  `json:"profile_image_url,omitempty"`

	// Approval status (admin-gated)
	IsApproved bool `json:"is_approved"`
	IsActive   bool `json:"is_active"`
}
