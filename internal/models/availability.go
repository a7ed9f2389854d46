package models

import "github.com/google/uuid"

// DayAvailability is one weekday of a therapist's weekly schedule.
// StartTime/EndTime are "HH:MM" in the therapist's working timezone (UTC here).
type DayAvailability struct {
	TherapistID uuid.UUID `json:"therapist_id"`
	Weekday     int       `json:"weekday"` // 0 = Sunday ... 6 = Saturday, matching time.Weekday
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Enabled     bool      `json:"enabled"`
}

// WeeklyAvailability is the full 7-day schedule as stored and returned.
type WeeklyAvailability struct {
	TherapistID uuid.UUID         `json:"therapist_id"`
	Days        []DayAvailability `json:"days"`
}
