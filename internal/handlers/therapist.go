package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
)

// TherapistListing is the public directory view of a therapist.
type TherapistListing struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	YearsOfExperience int       `json:"years_of_experience"`
	Specialization    string    `json:"specialization,omitempty"`
	SessionFee        float64   `json:"session_fee"`
	Bio               string    `json:"bio,omitempty"`
	ProfileImageURL   string    `json:"profile_image_url,omitempty"`
	AverageRating     float64   `json:"average_rating"`
	ReviewCount       int       `json:"review_count"`
}

// ListTherapists returns the public directory of approved, active therapists.
// Supports an optional ?specialization= filter (case-insensitive substring).
func ListTherapists(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT t.id, t.name, t.years_of_experience, t.specialization, t.session_fee,
			t.bio, t.profile_image_url,
			COALESCE(AVG(rv.rating), 0) AS average_rating,
			COUNT(rv.id) AS review_count
		FROM therapists t
		LEFT JOIN reviews rv ON rv.therapist_id = t.id
		WHERE t.is_approved = TRUE AND t.is_active = TRUE`

	args := []interface{}{}
	if spec := strings.TrimSpace(r.URL.Query().Get("specialization")); spec != "" {
		query += ` AND t.specialization ILIKE $1`
		args = append(args, "%"+spec+"%")
	}
	query += `
		GROUP BY t.id
		ORDER BY average_rating DESC, t.name ASC`

	rows, err := database.PostgresDB.QueryContext(r.Context(), query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	therapists := []TherapistListing{}
	for rows.Next() {
		var t TherapistListing
		var specialization, bio, imageURL sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.YearsOfExperience, &specialization, &t.SessionFee,
			&bio, &imageURL, &t.AverageRating, &t.ReviewCount); err != nil {
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

// GetTherapistByID returns one therapist's public profile with recent reviews.
// Unapproved or deactivated therapists are not exposed.
func GetTherapistByID(w http.ResponseWriter, r *http.Request) {
	therapistID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist ID")
		return
	}

	var t TherapistListing
	var specialization, bio, imageURL sql.NullString
	err = database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT t.id, t.name, t.years_of_experience, t.specialization, t.session_fee,
			t.bio, t.profile_image_url,
			COALESCE(AVG(rv.rating), 0) AS average_rating,
			COUNT(rv.id) AS review_count
		FROM therapists t
		LEFT JOIN reviews rv ON rv.therapist_id = t.id
		WHERE t.id = $1 AND t.is_approved = TRUE AND t.is_active = TRUE
		GROUP BY t.id
	`, therapistID).Scan(&t.ID, &t.Name, &t.YearsOfExperience, &specialization, &t.SessionFee,
		&bio, &imageURL, &t.AverageRating, &t.ReviewCount)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Therapist not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	t.Specialization = specialization.String
	t.Bio = bio.String
	t.ProfileImageURL = imageURL.String

	reviews, err := recentReviews(r, therapistID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"therapist": t,
		"reviews":   reviews,
	})
}

type publicReview struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func recentReviews(r *http.Request, therapistID uuid.UUID) ([]publicReview, error) {
	rows, err := database.PostgresDB.QueryContext(r.Context(), `
		SELECT rating, comment, created_at
		FROM reviews
		WHERE therapist_id = $1
		ORDER BY created_at DESC
		LIMIT 20
	`, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []publicReview{}
	for rows.Next() {
		var rv publicReview
		var comment sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&rv.Rating, &comment, &createdAt); err != nil {
			return nil, err
		}
		rv.Comment = comment.String
		if createdAt.Valid {
			rv.CreatedAt = createdAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
