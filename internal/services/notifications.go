package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/models"
)

// CreateNotification records a backend event for an account.
// Failures are logged, not surfaced: notifications are best-effort.
func CreateNotification(ctx context.Context, userID uuid.UUID, typ models.NotificationType, message string) {
	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO notifications (id, created_at, user_id, type, message, is_read)
		VALUES ($1, NOW(), $2, $3, $4, FALSE)
	`, uuid.New(), userID, typ, message)
	if err != nil {
		log.Printf("WARNING: failed to create notification for %s: %v", userID, err)
	}
}

// ListNotifications returns an account's notifications, newest first.
// When unreadOnly is set, read notifications are filtered out.
func ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, created_at, user_id, type, message, is_read
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	rows, err := database.PostgresDB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.CreatedAt, &n.UserID, &n.Type, &n.Message, &n.IsRead); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag on one of the account's notifications.
// Returns false when no matching row exists.
func MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
	res, err := database.PostgresDB.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// MarkAllNotificationsRead flips the read flag on everything the account has.
func MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := database.PostgresDB.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartNotificationCleanup starts a background goroutine that deletes read
// notifications older than maxAgeDays, running every intervalHours.
// Unread notifications are never swept.
func StartNotificationCleanup(intervalHours, maxAgeDays int) {
	go func() {
		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()

		for {
			cleanupNotifications(maxAgeDays)
			<-ticker.C
		}
	}()
}

func cleanupNotifications(maxAgeDays int) {
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	res, err := database.PostgresDB.Exec(`
		DELETE FROM notifications WHERE is_read = TRUE AND created_at < $1
	`, cutoff)
	if err != nil {
		log.Printf("WARNING: notification cleanup failed: %v", err)
		return
	}

	if deleted, _ := res.RowsAffected(); deleted > 0 {
		log.Printf("🧹 Notification cleanup removed %d read notifications older than %d days", deleted, maxAgeDays)
	}
}
