package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of a booking.
// Valid transitions: pending -> confirmed -> completed; pending|confirmed -> cancelled.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// SessionType is how the session is held.
type SessionType string

const (
	SessionVideo SessionType = "video"
	SessionAudio SessionType = "audio"
	SessionChat  SessionType = "chat"
)

type Appointment struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uuid.UUID         `json:"user_id"`
	TherapistID uuid.UUID         `json:"therapist_id"`
	StartsAt    time.Time         `json:"starts_at"`
	EndsAt      time.Time         `json:"ends_at"`
	Status      AppointmentStatus `json:"status"`
	SessionType SessionType       `json:"session_type"`
	Amount      float64           `json:"amount"`

	CancelReason string `json:"cancel_reason,omitempty"`
}

// Review is attached to a completed appointment, at most once
// (UNIQUE(appointment_id) at the data layer).
type Review struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	UserID        uuid.UUID `json:"user_id"`
	TherapistID   uuid.UUID `json:"therapist_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
}

// CanTransition reports whether a status change is allowed by the lifecycle.
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	switch s {
	case AppointmentPending:
		return to == AppointmentConfirmed || to == AppointmentCancelled
	case AppointmentConfirmed:
		return to == AppointmentCompleted || to == AppointmentCancelled
	default:
		return false
	}
}
