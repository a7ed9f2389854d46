package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/models"
	"github.com/solacecare/solace-backend/internal/services"
)

// ListNotifications returns the authenticated account's notifications, newest first.
// ?unread=true filters to unread only.
func ListNotifications(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := services.ListNotifications(r.Context(), uid, unreadOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkNotificationRead marks one of the account's notifications as read.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	ok, err := services.MarkNotificationRead(r.Context(), uid, notificationID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Notification not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsRead marks everything the account has as read.
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid account")
		return
	}

	updated, err := services.MarkAllNotificationsRead(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
