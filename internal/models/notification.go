package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what event produced the notification.
type NotificationType string

const (
	NotifyBooked    NotificationType = "appointment_booked"
	NotifyConfirmed NotificationType = "appointment_confirmed"
	NotifyCancelled NotificationType = "appointment_cancelled"
	NotifyCompleted NotificationType = "appointment_completed"
	NotifyReviewed  NotificationType = "review_received"
)

// Notification belongs to any account (user, therapist or admin id).
// Mutated only to flip the read flag.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UserID    uuid.UUID        `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
}
