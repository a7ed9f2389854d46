package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			phone VARCHAR(50),
			date_of_birth VARCHAR(10),
			bio TEXT,
			profile_image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		// Therapists table
		`CREATE TABLE IF NOT EXISTS therapists (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			license_number VARCHAR(255) NOT NULL,
			license_state VARCHAR(255) NOT NULL,
			years_of_experience INTEGER NOT NULL DEFAULT 0,
			specialization VARCHAR(255),
			phone VARCHAR(50) NOT NULL,
			session_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			bio TEXT,
			profile_image_url TEXT,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Admins table (accounts created directly in the database)
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		// Weekly availability: one row per therapist per weekday
		`CREATE TABLE IF NOT EXISTS availability (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			therapist_id UUID NOT NULL REFERENCES therapists(id) ON DELETE CASCADE,
			weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 0 AND 6),
			start_time VARCHAR(5) NOT NULL DEFAULT '09:00',
			end_time VARCHAR(5) NOT NULL DEFAULT '17:00',
			enabled BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE(therapist_id, weekday)
		)`,

		// Appointments table
		`CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			therapist_id UUID NOT NULL REFERENCES therapists(id) ON DELETE CASCADE,
			starts_at TIMESTAMP NOT NULL,
			ends_at TIMESTAMP NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			session_type VARCHAR(20) NOT NULL DEFAULT 'video',
			amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			cancel_reason TEXT
		)`,

		// Double-booking guard: at most one live booking per therapist slot.
		// Cancelled/completed rows fall out of the index, so the slot reopens.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
			ON appointments(therapist_id, starts_at)
			WHERE status IN ('pending', 'confirmed')`,

		// Reviews table: UNIQUE(appointment_id) enforces one review per appointment
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			appointment_id UUID NOT NULL UNIQUE REFERENCES appointments(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			therapist_id UUID NOT NULL REFERENCES therapists(id) ON DELETE CASCADE,
			rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT
		)`,

		// Notifications table
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id UUID NOT NULL,
			type VARCHAR(50) NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_therapists_email ON therapists(email)`,
		`CREATE INDEX IF NOT EXISTS idx_therapists_is_approved ON therapists(is_approved)`,
		`CREATE INDEX IF NOT EXISTS idx_admins_username ON admins(username)`,
		`CREATE INDEX IF NOT EXISTS idx_availability_therapist_id ON availability(therapist_id)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_user_id ON appointments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_therapist_id ON appointments(therapist_id)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_starts_at ON appointments(starts_at)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_therapist_id ON reviews(therapist_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_is_read ON notifications(is_read)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
