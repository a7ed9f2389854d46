package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/models"
	"github.com/solacecare/solace-backend/internal/services"
)

type BookAppointmentRequest struct {
	TherapistID string `json:"therapist_id"`
	StartsAt    string `json:"starts_at"` // RFC 3339
	SessionType string `json:"session_type"`
}

type UpdateAppointmentStatusRequest struct {
	Status       string `json:"status"`
	CancelReason string `json:"cancel_reason,omitempty"`
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// BookAppointment books a one-hour session with a therapist.
// The slot must be one the therapist currently offers; two concurrent
// bookings of the same slot race at the database and the loser gets 409.
func BookAppointment(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	therapistID, err := uuid.Parse(req.TherapistID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid therapist_id")
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid starts_at, expected RFC 3339 timestamp")
		return
	}
	startsAt = startsAt.UTC()

	sessionType := models.SessionType(req.SessionType)
	switch sessionType {
	case models.SessionVideo, models.SessionAudio, models.SessionChat:
	case "":
		sessionType = models.SessionVideo
	default:
		writeError(w, http.StatusBadRequest, "session_type must be video, audio or chat")
		return
	}

	if !startsAt.After(time.Now().UTC()) {
		writeError(w, http.StatusBadRequest, "Cannot book a session in the past")
		return
	}

	// Therapist must be approved and active, and we need the fee.
	var sessionFee float64
	err = database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT session_fee FROM therapists
		WHERE id = $1 AND is_approved = TRUE AND is_active = TRUE
	`, therapistID).Scan(&sessionFee)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Therapist not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// The start must be one of the therapist's currently open slots.
	slots, err := services.AvailableSlots(r.Context(), therapistID, startsAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute slots")
		return
	}
	var matched bool
	for _, s := range slots {
		if s.StartsAt.Equal(startsAt) {
			matched = true
			break
		}
	}
	if !matched {
		writeError(w, http.StatusConflict, "This slot is not available")
		return
	}

	appointment := models.Appointment{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
		UserID:      userID,
		TherapistID: therapistID,
		StartsAt:    startsAt,
		EndsAt:      startsAt.Add(services.SlotDuration),
		Status:      models.AppointmentPending,
		SessionType: sessionType,
		Amount:      sessionFee,
	}

	_, err = database.PostgresDB.ExecContext(r.Context(), `
		INSERT INTO appointments (id, created_at, updated_at, user_id, therapist_id, starts_at, ends_at, status, session_type, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, appointment.ID, appointment.CreatedAt, appointment.UpdatedAt, appointment.UserID, appointment.TherapistID,
		appointment.StartsAt, appointment.EndsAt, appointment.Status, appointment.SessionType, appointment.Amount)
	if err != nil {
		// Unique violation on the live-slot index means someone booked it first.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			writeError(w, http.StatusConflict, "This slot was just booked by someone else")
			return
		}
		log.Printf("ERROR: Failed to insert appointment: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to book appointment")
		return
	}

	services.CreateNotification(r.Context(), therapistID, models.NotifyBooked,
		fmt.Sprintf("New session request for %s", appointment.StartsAt.Format("Jan 2, 2006 at 15:04 MST")))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     "Appointment booked successfully",
		"appointment": appointment,
	})
}

// ListAppointments returns appointments scoped by role: users see their own
// bookings, therapists their own schedule, admins everything.
// Supports an optional ?status= filter.
func ListAppointments(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())
	role := middleware.RoleFrom(r.Context())

	query := `
		SELECT id, created_at, updated_at, user_id, therapist_id, starts_at, ends_at, status, session_type, amount, cancel_reason
		FROM appointments`
	args := []interface{}{}

	switch role {
	case services.RoleUser:
		query += ` WHERE user_id = $1`
		args = append(args, uid)
	case services.RoleTherapist:
		query += ` WHERE therapist_id = $1`
		args = append(args, uid)
	case services.RoleAdmin:
		query += ` WHERE TRUE`
	default:
		writeError(w, http.StatusForbidden, "You do not have access to this resource")
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		query += fmt.Sprintf(` AND status = $%d`, len(args)+1)
		args = append(args, status)
	}
	query += ` ORDER BY starts_at DESC LIMIT 200`

	rows, err := database.PostgresDB.QueryContext(r.Context(), query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Database error")
			return
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// GetAppointment returns one appointment. Non-participants get 404, not 403,
// so appointment IDs don't leak existence.
func GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	a, err := loadAppointment(r, appointmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Appointment not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !canSeeAppointment(r, a) {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"appointment": a,
	})
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
// Users may only cancel their own bookings; therapists may confirm, cancel,
// and complete their own sessions; completion requires the session to have ended.
func UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target := models.AppointmentStatus(req.Status)
	switch target {
	case models.AppointmentConfirmed, models.AppointmentCompleted, models.AppointmentCancelled:
	default:
		writeError(w, http.StatusBadRequest, "status must be confirmed, completed or cancelled")
		return
	}

	a, err := loadAppointment(r, appointmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Appointment not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !canSeeAppointment(r, a) {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	uid := middleware.UserIDFrom(r.Context())
	role := middleware.RoleFrom(r.Context())

	switch role {
	case services.RoleUser:
		if target != models.AppointmentCancelled {
			writeError(w, http.StatusForbidden, "Users can only cancel appointments")
			return
		}
	case services.RoleTherapist:
		if a.TherapistID.String() != uid {
			writeError(w, http.StatusNotFound, "Appointment not found")
			return
		}
	case services.RoleAdmin:
		// Admins may apply any valid transition.
	}

	if !a.Status.CanTransition(target) {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("Cannot change a %s appointment to %s", a.Status, target))
		return
	}

	if target == models.AppointmentCompleted && time.Now().UTC().Before(a.EndsAt) {
		writeError(w, http.StatusConflict, "Appointment cannot be completed before it ends")
		return
	}

	var cancelReason interface{}
	if target == models.AppointmentCancelled && req.CancelReason != "" {
		cancelReason = req.CancelReason
	}

	// Guard the transition in the WHERE clause so concurrent updates can't
	// both move the row.
	res, err := database.PostgresDB.ExecContext(r.Context(), `
		UPDATE appointments
		SET status = $2, cancel_reason = COALESCE($3, cancel_reason), updated_at = NOW()
		WHERE id = $1 AND status = $4
	`, appointmentID, target, cancelReason, a.Status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update appointment")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		writeError(w, http.StatusConflict, "Appointment status changed concurrently, please retry")
		return
	}

	notifyStatusChange(r, a, target, uid)

	a.Status = target
	if target == models.AppointmentCancelled && req.CancelReason != "" {
		a.CancelReason = req.CancelReason
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Appointment updated",
		"appointment": a,
	})
}

// SubmitReview attaches a rating to a completed appointment.
// One review per appointment; the second attempt gets 409.
func SubmitReview(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	uid := middleware.UserIDFrom(r.Context())

	a, err := loadAppointment(r, appointmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Appointment not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if a.UserID.String() != uid {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if a.Status != models.AppointmentCompleted {
		writeError(w, http.StatusConflict, "Only completed appointments can be reviewed")
		return
	}

	review := models.Review{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		AppointmentID: a.ID,
		UserID:        a.UserID,
		TherapistID:   a.TherapistID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	_, err = database.PostgresDB.ExecContext(r.Context(), `
		INSERT INTO reviews (id, created_at, appointment_id, user_id, therapist_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, review.ID, review.CreatedAt, review.AppointmentID, review.UserID, review.TherapistID, review.Rating, review.Comment)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			writeError(w, http.StatusConflict, "This appointment has already been reviewed")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	// The therapist analytics cache is now stale.
	services.Cache.Delete(r.Context(), services.CacheKey("analytics:therapist", a.TherapistID.String()))
	services.Cache.Delete(r.Context(), "analytics:platform")

	services.CreateNotification(r.Context(), a.TherapistID, models.NotifyReviewed,
		fmt.Sprintf("You received a %d-star review", req.Rating))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Review submitted",
		"review":  review,
	})
}

func scanAppointment(rows *sql.Rows) (models.Appointment, error) {
	var a models.Appointment
	var cancelReason sql.NullString
	err := rows.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.UserID, &a.TherapistID,
		&a.StartsAt, &a.EndsAt, &a.Status, &a.SessionType, &a.Amount, &cancelReason)
	a.CancelReason = cancelReason.String
	return a, err
}

func loadAppointment(r *http.Request, id uuid.UUID) (models.Appointment, error) {
	var a models.Appointment
	var cancelReason sql.NullString
	err := database.PostgresDB.QueryRowContext(r.Context(), `
		SELECT id, created_at, updated_at, user_id, therapist_id, starts_at, ends_at, status, session_type, amount, cancel_reason
		FROM appointments WHERE id = $1
	`, id).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.UserID, &a.TherapistID,
		&a.StartsAt, &a.EndsAt, &a.Status, &a.SessionType, &a.Amount, &cancelReason)
	a.CancelReason = cancelReason.String
	return a, err
}

func canSeeAppointment(r *http.Request, a models.Appointment) bool {
	uid := middleware.UserIDFrom(r.Context())
	switch middleware.RoleFrom(r.Context()) {
	case services.RoleAdmin:
		return true
	case services.RoleTherapist:
		return a.TherapistID.String() == uid
	default:
		return a.UserID.String() == uid
	}
}

func notifyStatusChange(r *http.Request, a models.Appointment, target models.AppointmentStatus, actorID string) {
	when := a.StartsAt.Format("Jan 2, 2006 at 15:04 MST")

	switch target {
	case models.AppointmentConfirmed:
		services.CreateNotification(r.Context(), a.UserID, models.NotifyConfirmed,
			fmt.Sprintf("Your session on %s has been confirmed", when))
	case models.AppointmentCompleted:
		services.CreateNotification(r.Context(), a.UserID, models.NotifyCompleted,
			fmt.Sprintf("Your session on %s is complete. You can now leave a review.", when))
	case models.AppointmentCancelled:
		// Notify the party who didn't cancel.
		if actorID == a.UserID.String() {
			services.CreateNotification(r.Context(), a.TherapistID, models.NotifyCancelled,
				fmt.Sprintf("The session on %s was cancelled by the client", when))
		} else {
			services.CreateNotification(r.Context(), a.UserID, models.NotifyCancelled,
				fmt.Sprintf("Your session on %s was cancelled", when))
		}
	}
}
