package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacecare/solace-backend/internal/models"
)

func day(start, end string, enabled bool) models.DayAvailability {
	return models.DayAvailability{
		StartTime: start,
		EndTime:   end,
		Enabled:   enabled,
	}
}

func TestEnumerateSlots_FullDay(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour) // well before the date

	slots, err := EnumerateSlots(day("09:00", "17:00", true), date, nil, now)
	require.NoError(t, err)

	// 09:00 through 16:00 starts, one per hour
	require.Len(t, slots, 8)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), slots[0].StartsAt)
	assert.Equal(t, time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC), slots[7].StartsAt)
	for _, s := range slots {
		assert.Equal(t, SlotDuration, s.EndsAt.Sub(s.StartsAt))
	}
}

func TestEnumerateSlots_DisabledDay(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slots, err := EnumerateSlots(day("09:00", "17:00", false), date, nil, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestEnumerateSlots_BookedWindowsExcluded(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)

	booked := []BookedWindow{
		{
			StartsAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		},
		{
			StartsAt: time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC),
		},
	}

	slots, err := EnumerateSlots(day("09:00", "17:00", true), date, booked, now)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	for _, s := range slots {
		for _, b := range booked {
			overlap := s.StartsAt.Before(b.EndsAt) && s.EndsAt.After(b.StartsAt)
			assert.False(t, overlap, "slot %v overlaps booked window %v", s, b)
		}
	}
}

func TestEnumerateSlots_PartialHourBookingBlocksBothNeighbors(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)

	// A window straddling 10:30–11:30 knocks out both the 10:00 and 11:00 slots.
	booked := []BookedWindow{
		{
			StartsAt: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC),
		},
	}

	slots, err := EnumerateSlots(day("09:00", "13:00", true), date, booked, now)
	require.NoError(t, err)

	starts := make([]int, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartsAt.Hour())
	}
	assert.Equal(t, []int{9, 12}, starts)
}

func TestEnumerateSlots_PastSlotsSkippedToday(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	// It's 11:30 on the requested date; 09:00, 10:00 and 11:00 have started.
	now := time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC)

	slots, err := EnumerateSlots(day("09:00", "17:00", true), date, nil, now)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, 12, slots[0].StartsAt.Hour())
	for _, s := range slots {
		assert.True(t, s.StartsAt.After(now))
	}
}

func TestEnumerateSlots_SlotMustFitInsideWindow(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	now := date.Add(-24 * time.Hour)

	// 09:00–09:30 window cannot fit a one-hour session.
	slots, err := EnumerateSlots(day("09:00", "09:30", true), date, nil, now)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// 09:00–10:00 fits exactly one.
	slots, err = EnumerateSlots(day("09:00", "10:00", true), date, nil, now)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 9, slots[0].StartsAt.Hour())
}

func TestEnumerateSlots_InvertedWindow(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	slots, err := EnumerateSlots(day("17:00", "09:00", true), date, nil, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestEnumerateSlots_BadClockString(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := EnumerateSlots(day("9am", "17:00", true), date, nil, time.Time{})
	assert.Error(t, err)
}
