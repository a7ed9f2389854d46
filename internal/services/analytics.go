package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
)

// PlatformAnalytics is the admin dashboard aggregate.
type PlatformAnalytics struct {
	TotalUsers          int64            `json:"total_users"`
	ActiveUsers         int64            `json:"active_users"`
	TotalTherapists     int64            `json:"total_therapists"`
	ApprovedTherapists  int64            `json:"approved_therapists"`
	AppointmentsByState map[string]int64 `json:"appointments_by_status"`
	MonthlyBookings     []MonthlyCount   `json:"monthly_bookings"`
	TotalRevenue        float64          `json:"total_revenue"`
	AverageRating       float64          `json:"average_rating"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// TherapistAnalytics is the per-therapist dashboard aggregate.
type TherapistAnalytics struct {
	TherapistID         uuid.UUID        `json:"therapist_id"`
	AppointmentsByState map[string]int64 `json:"appointments_by_status"`
	MonthlyBookings     []MonthlyCount   `json:"monthly_bookings"`
	TotalEarnings       float64          `json:"total_earnings"`
	AverageRating       float64          `json:"average_rating"`
	ReviewCount         int64            `json:"review_count"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// MonthlyCount is one month's booking count for the charts.
type MonthlyCount struct {
	Month string `json:"month"` // "2026-08"
	Count int64  `json:"count"`
}

// GetPlatformAnalytics computes the admin aggregates, served from cache when fresh.
func GetPlatformAnalytics(ctx context.Context) (*PlatformAnalytics, error) {
	const cacheKey = "analytics:platform"

	var cached PlatformAnalytics
	if hit, _ := Cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	out := &PlatformAnalytics{
		AppointmentsByState: map[string]int64{},
		GeneratedAt:         time.Now().UTC(),
	}

	err := database.PostgresDB.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM users
	`).Scan(&out.TotalUsers, &out.ActiveUsers)
	if err != nil {
		return nil, err
	}

	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_approved) FROM therapists
	`).Scan(&out.TotalTherapists, &out.ApprovedTherapists)
	if err != nil {
		return nil, err
	}

	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM appointments GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out.AppointmentsByState[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out.MonthlyBookings, err = monthlyBookings(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}

	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM appointments WHERE status = 'completed'
	`).Scan(&out.TotalRevenue)
	if err != nil {
		return nil, err
	}

	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM reviews
	`).Scan(&out.AverageRating)
	if err != nil {
		return nil, err
	}

	_ = Cache.Set(ctx, cacheKey, out)
	return out, nil
}

// GetTherapistAnalytics computes one therapist's aggregates, served from cache when fresh.
func GetTherapistAnalytics(ctx context.Context, therapistID uuid.UUID) (*TherapistAnalytics, error) {
	cacheKey := CacheKey("analytics:therapist", therapistID.String())

	var cached TherapistAnalytics
	if hit, _ := Cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	out := &TherapistAnalytics{
		TherapistID:         therapistID,
		AppointmentsByState: map[string]int64{},
		GeneratedAt:         time.Now().UTC(),
	}

	rows, err := database.PostgresDB.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM appointments WHERE therapist_id = $1 GROUP BY status
	`, therapistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out.AppointmentsByState[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out.MonthlyBookings, err = monthlyBookings(ctx, therapistID)
	if err != nil {
		return nil, err
	}

	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM appointments
		WHERE therapist_id = $1 AND status = 'completed'
	`, therapistID).Scan(&out.TotalEarnings)
	if err != nil {
		return nil, err
	}

	err = database.PostgresDB.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE therapist_id = $1
	`, therapistID).Scan(&out.AverageRating, &out.ReviewCount)
	if err != nil {
		return nil, err
	}

	_ = Cache.Set(ctx, cacheKey, out)
	return out, nil
}

// monthlyBookings returns the last 12 months of booking counts.
// A nil therapist id means platform-wide.
func monthlyBookings(ctx context.Context, therapistID uuid.UUID) ([]MonthlyCount, error) {
	query := `
		SELECT TO_CHAR(DATE_TRUNC('month', starts_at), 'YYYY-MM') AS month, COUNT(*)
		FROM appointments
		WHERE starts_at > NOW() - INTERVAL '12 months'`
	args := []any{}
	if therapistID != uuid.Nil {
		query += ` AND therapist_id = $1`
		args = append(args, therapistID)
	}
	query += ` GROUP BY month ORDER BY month`

	rows, err := database.PostgresDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyCount
	for rows.Next() {
		var m MonthlyCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
