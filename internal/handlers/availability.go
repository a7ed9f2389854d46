package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/models"
	"github.com/solacecare/solace-backend/internal/services"
	"github.com/solacecare/solace-backend/pkg/utils"
)

type dayAvailabilityInput struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

type setAvailabilityRequest struct {
	Days []dayAvailabilityInput `json:"days"`
}

// GetAvailability returns the authenticated therapist's weekly schedule.
// Weekdays never configured come back disabled with the default window.
func GetAvailability(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	days := make([]models.DayAvailability, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		day, err := services.GetDayAvailability(r.Context(), therapistID, weekday)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
		days = append(days, day)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"availability": models.WeeklyAvailability{TherapistID: therapistID, Days: days},
	})
}

// SetAvailability replaces the authenticated therapist's weekly schedule.
// Each submitted day is upserted; weekdays not submitted are left as they were.
func SetAvailability(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	var req setAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Days) == 0 {
		writeError(w, http.StatusBadRequest, "No days provided")
		return
	}

	seen := map[int]bool{}
	for _, day := range req.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			writeError(w, http.StatusBadRequest, "Weekday must be between 0 (Sunday) and 6 (Saturday)")
			return
		}
		if seen[day.Weekday] {
			writeError(w, http.StatusBadRequest, "Duplicate weekday in request")
			return
		}
		seen[day.Weekday] = true

		if err := utils.ValidateClockTime(day.StartTime); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := utils.ValidateClockTime(day.EndTime); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if day.StartTime >= day.EndTime {
			writeError(w, http.StatusBadRequest, "start_time must be before end_time")
			return
		}
	}

	tx, err := database.PostgresDB.BeginTx(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	for _, day := range req.Days {
		_, err := tx.ExecContext(r.Context(), `
			INSERT INTO availability (id, therapist_id, weekday, start_time, end_time, enabled)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (therapist_id, weekday)
			DO UPDATE SET start_time = $4, end_time = $5, enabled = $6
		`, uuid.New(), therapistID, day.Weekday, day.StartTime, day.EndTime, day.Enabled)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save availability")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save availability")
		return
	}

	GetAvailability(w, r)
}

// GetTherapistSlots returns the open one-hour slots for a therapist on a date.
// Public endpoint: GET /api/therapists/{id}/slots?date=YYYY-MM-DD
func GetTherapistSlots(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist ID")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required (YYYY-MM-DD)")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	// Only approved, active therapists are bookable.
	var exists bool
	err = database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT EXISTS(SELECT 1 FROM therapists WHERE id = $1 AND is_approved = TRUE AND is_active = TRUE)
	`, therapistID).Scan(&exists)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Therapist not found")
		return
	}

	slots, err := services.AvailableSlots(r.Context(), therapistID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute slots")
		return
	}
	if slots == nil {
		slots = []services.Slot{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"therapist_id": therapistID,
		"date":         dateStr,
		"slots":        slots,
	})
}
