package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/services"
)

// GetPlatformAnalytics serves the admin dashboard aggregates.
func GetPlatformAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := services.GetPlatformAnalytics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"analytics": analytics,
	})
}

// GetTherapistAnalytics serves the authenticated therapist's own dashboard.
func GetTherapistAnalytics(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	analytics, err := services.GetTherapistAnalytics(r.Context(), therapistID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"analytics": analytics,
	})
}
