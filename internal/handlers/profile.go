package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/models"
	"github.com/solacecare/solace-backend/pkg/utils"
)

type UpdateUserProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// GetUserProfile returns the authenticated user's profile.
func GetUserProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	var u models.User
	var phone, dob, bio, imageURL sql.NullString
	err := database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT id, created_at, updated_at, name, email, phone, date_of_birth, bio, profile_image_url, is_active, is_verified
		FROM users WHERE id = $1
	`, uid).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.Email, &phone, &dob, &bio, &imageURL, &u.IsActive, &u.IsVerified)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	u.Phone = phone.String
	u.DateOfBirth = dob.String
	u.Bio = bio.String
	u.ProfileImageURL = imageURL.String

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    u,
	})
}

// UpdateUserProfile applies partial updates to the authenticated user's profile.
func UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	var req UpdateUserProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		if err := utils.ValidateName(*req.Name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := database.PostgresDB.ExecContext(r.Context(), `
		UPDATE users SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			date_of_birth = COALESCE($4, date_of_birth),
			bio = COALESCE($5, bio),
			updated_at = $6
		WHERE id = $1
	`, uid, req.Name, req.Phone, req.DateOfBirth, req.Bio, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	GetUserProfile(w, r)
}

// UploadUserProfileImage replaces the authenticated user's profile picture.
func UploadUserProfileImage(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	if cloudinaryService == nil {
		writeError(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	_, header, err := r.FormFile("profile_image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No profile_image file provided")
		return
	}

	url, err := cloudinaryService.UploadFileFromHeader(r.Context(), header, "users")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to upload profile image")
		return
	}

	_, err = database.PostgresDB.ExecContext(r.Context(), `
		UPDATE users SET profile_image_url = $2, updated_at = $3 WHERE id = $1
	`, uid, url, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"message":           "Profile image updated",
		"profile_image_url": url,
	})
}

type UpdateTherapistProfileRequest struct {
	Name              *string  `json:"name,omitempty"`
	Phone             *string  `json:"phone,omitempty"`
	Specialization    *string  `json:"specialization,omitempty"`
	Bio               *string  `json:"bio,omitempty"`
	SessionFee        *float64 `json:"session_fee,omitempty"`
	YearsOfExperience *int     `json:"years_of_experience,omitempty"`
}

// GetTherapistProfile returns the authenticated therapist's own profile.
func GetTherapistProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	t, err := loadTherapist(r, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Therapist not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"therapist": t,
	})
}

// UpdateTherapistProfile applies partial updates to the authenticated therapist's profile.
// License fields are immutable after signup.
func UpdateTherapistProfile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	var req UpdateTherapistProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		if err := utils.ValidateName(*req.Name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.SessionFee != nil && *req.SessionFee < 0 {
		writeError(w, http.StatusBadRequest, "Session fee cannot be negative")
		return
	}

	res, err := database.PostgresDB.ExecContext(r.Context(), `
		UPDATE therapists SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			specialization = COALESCE($4, specialization),
			bio = COALESCE($5, bio),
			session_fee = COALESCE($6, session_fee),
			years_of_experience = COALESCE($7, years_of_experience),
			updated_at = $8
		WHERE id = $1
	`, uid, req.Name, req.Phone, req.Specialization, req.Bio, req.SessionFee, req.YearsOfExperience, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusNotFound, "Therapist not found")
		return
	}

	GetTherapistProfile(w, r)
}

// UploadTherapistProfileImage replaces the authenticated therapist's profile picture.
func UploadTherapistProfileImage(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	if cloudinaryService == nil {
		writeError(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	_, header, err := r.FormFile("profile_image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No profile_image file provided")
		return
	}

	url, err := cloudinaryService.UploadFileFromHeader(r.Context(), header, "therapists")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to upload profile image")
		return
	}

	_, err = database.PostgresDB.ExecContext(r.Context(), `
		UPDATE therapists SET profile_image_url = $2, updated_at = $3 WHERE id = $1
	`, uid, url, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"message":           "Profile image updated",
		"profile_image_url": url,
	})
}

func loadTherapist(r *http.Request, id string) (models.Therapist, error) {
	var t models.Therapist
	var specialization, bio, imageURL sql.NullString
	err := database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT id, created_at, updated_at, name, email, license_number, license_state,
			years_of_experience, specialization, phone, session_fee, bio, profile_image_url,
			is_approved, is_active
		FROM therapists WHERE id = $1
	`, id).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Name, &t.Email, &t.LicenseNumber, &t.LicenseState,
		&t.YearsOfExperience, &specialization, &t.Phone, &t.SessionFee, &bio, &imageURL,
		&t.IsApproved, &t.IsActive)
	if err != nil {
		return t, err
	}
	t.Specialization = specialization.String
	t.Bio = bio.String
	t.ProfileImageURL = imageURL.String
	return t, nil
}
