package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/models"
)

// SlotDuration is the fixed length of a bookable session.
const SlotDuration = time.Hour

// Slot is one bookable window for a therapist on a given date.
type Slot struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// BookedWindow is an existing pending/confirmed appointment window.
type BookedWindow struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// EnumerateSlots produces bookable start times for one date given the weekday's
// availability and the already-booked windows. Slots are enumerated on the hour
// from the window start while the slot still fits inside the window; a slot is
// excluded when it overlaps any booked window (start < bookedEnd && end > bookedStart)
// or, when now is inside the date, has already begun.
func EnumerateSlots(day models.DayAvailability, date time.Time, booked []BookedWindow, now time.Time) ([]Slot, error) {
	if !day.Enabled {
		return nil, nil
	}

	windowStart, err := atClock(date, day.StartTime)
	if err != nil {
		return nil, err
	}
	windowEnd, err := atClock(date, day.EndTime)
	if err != nil {
		return nil, err
	}
	if !windowStart.Before(windowEnd) {
		return nil, nil
	}

	var slots []Slot
	for cur := windowStart; !cur.Add(SlotDuration).After(windowEnd); cur = cur.Add(SlotDuration) {
		slot := Slot{StartsAt: cur, EndsAt: cur.Add(SlotDuration)}

		if !slot.StartsAt.After(now) {
			continue
		}
		if overlapsAny(slot, booked) {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func overlapsAny(s Slot, booked []BookedWindow) bool {
	for _, b := range booked {
		if s.StartsAt.Before(b.EndsAt) && s.EndsAt.After(b.StartsAt) {
			return true
		}
	}
	return false
}

// atClock anchors an "HH:MM" clock string onto a date (UTC).
func atClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// GetDayAvailability loads one weekday of a therapist's schedule.
// Returns a disabled day when no row exists.
func GetDayAvailability(ctx context.Context, therapistID uuid.UUID, weekday int) (models.DayAvailability, error) {
	day := models.DayAvailability{
		TherapistID: therapistID,
		Weekday:     weekday,
		StartTime:   "09:00",
		EndTime:     "17:00",
		Enabled:     false,
	}

	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT start_time, end_time, enabled FROM availability
		WHERE therapist_id = $1 AND weekday = $2
	`, therapistID, weekday).Scan(&day.StartTime, &day.EndTime, &day.Enabled)
	if err == sql.ErrNoRows {
		// No row means the therapist never enabled this weekday
		return day, nil
	}
	if err != nil {
		return day, err
	}
	return day, nil
}

// GetBookedWindows loads pending/confirmed appointment windows for a therapist
// overlapping the given date.
func GetBookedWindows(ctx context.Context, therapistID uuid.UUID, date time.Time) ([]BookedWindow, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT starts_at, ends_at FROM appointments
		WHERE therapist_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at
	`, therapistID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookedWindow
	for rows.Next() {
		var b BookedWindow
		if err := rows.Scan(&b.StartsAt, &b.EndsAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AvailableSlots computes the bookable slots for a therapist on a date.
func AvailableSlots(ctx context.Context, therapistID uuid.UUID, date time.Time) ([]Slot, error) {
	day, err := GetDayAvailability(ctx, therapistID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}
	booked, err := GetBookedWindows(ctx, therapistID, date)
	if err != nil {
		return nil, err
	}
	return EnumerateSlots(day, date, booked, time.Now().UTC())
}
