package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/models"
)

// ListPendingTherapists returns therapist applications awaiting review.
func ListPendingTherapists(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.QueryContext(r.Context(), `
		SELECT id, created_at, updated_at, name, email, license_number, license_state,
			years_of_experience, specialization, phone, session_fee, bio, profile_image_url,
			is_approved, is_active
		FROM therapists
		WHERE is_approved = FALSE AND is_active = TRUE
		ORDER BY created_at ASC
	`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	therapists := []models.Therapist{}
	for rows.Next() {
		var t models.Therapist
		var specialization, bio, imageURL sql.NullString
		if err := rows.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Name, &t.Email, &t.LicenseNumber, &t.LicenseState,
			&t.YearsOfExperience, &specialization, &t.Phone, &t.SessionFee, &bio, &imageURL,
			&t.IsApproved, &t.IsActive); err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
		t.Specialization = specialization.String
		t.Bio = bio.String
		t.ProfileImageURL = imageURL.String
		therapists = append(therapists, t)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"therapists": therapists,
		"count":      len(therapists),
	})
}

// ApproveTherapist approves a pending therapist application.
func ApproveTherapist(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist ID")
		return
	}

	res, err := database.PostgresDB.ExecContext(r.Context(), `
		UPDATE therapists SET is_approved = TRUE, updated_at = $2
		WHERE id = $1 AND is_approved = FALSE
	`, therapistID, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve therapist")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "Pending therapist not found")
		return
	}

	log.Printf("✅ Therapist approved: %s", therapistID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Therapist approved",
	})
}

type RejectTherapistRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RejectTherapist rejects a pending application. The record is deactivated,
// not deleted, so the application trail survives.
func RejectTherapist(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist ID")
		return
	}

	var req RejectTherapistRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	res, err := database.PostgresDB.ExecContext(r.Context(), `
		UPDATE therapists SET is_active = FALSE, updated_at = $2
		WHERE id = $1 AND is_approved = FALSE
	`, therapistID, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reject therapist")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "Pending therapist not found")
		return
	}

	log.Printf("⚠️ Therapist application rejected: %s (reason: %s)", therapistID, req.Reason)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Therapist application rejected",
	})
}

// ListUsers returns all user accounts for the admin console.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.QueryContext(r.Context(), `
		SELECT id, created_at, updated_at, name, email, is_active, is_verified
		FROM users
		ORDER BY created_at DESC
		LIMIT 500
	`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.Email, &u.IsActive, &u.IsVerified); err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

// SetUserActive toggles a user's active flag. Deactivation blocks login;
// existing data is untouched.
func SetUserActive(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "is_active boolean is required")
		return
	}

	res, err := database.PostgresDB.ExecContext(r.Context(), `
		UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1
	`, userID, *req.IsActive, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	message := "User deactivated"
	if *req.IsActive {
		message = "User activated"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// DeleteUser permanently removes a user account and their dependent rows.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	tx, err := database.PostgresDB.BeginTx(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Dependent rows first, then the account itself.
	for _, stmt := range []string{
		`DELETE FROM reviews WHERE user_id = $1`,
		`DELETE FROM notifications WHERE user_id = $1`,
		`DELETE FROM appointments WHERE user_id = $1`,
	} {
		if _, err := tx.ExecContext(r.Context(), stmt, userID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete user data")
			return
		}
	}

	res, err := tx.ExecContext(r.Context(), `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	log.Printf("🧹 User account deleted: %s", userID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User account deleted",
	})
}
