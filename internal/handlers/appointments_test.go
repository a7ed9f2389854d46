package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacecare/solace-backend/internal/config"
	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/handlers"
	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/services"
	"github.com/solacecare/solace-backend/pkg/utils"
)

const testJWTSecret = "handlers-test-secret"

// setup connects to a real PostgreSQL and wires the handlers. Skipped unless
// POSTGRES_URI is set, so the suite stays hermetic by default.
func setup(t *testing.T) *chi.Mux {
	t.Helper()
	_ = godotenv.Load("../../.env")
	postgresURI := os.Getenv("POSTGRES_URI")
	redisURI := os.Getenv("REDIS_URI")
	if postgresURI == "" || redisURI == "" {
		t.Skip("POSTGRES_URI or REDIS_URI not set")
	}

	if database.PostgresDB == nil {
		require.NoError(t, database.ConnectPostgres(postgresURI))
	}
	if database.RedisClient == nil {
		require.NoError(t, database.ConnectRedis(redisURI))
	}

	handlers.InitAuth(&config.Config{JWTSecret: testJWTSecret})

	r := chi.NewRouter()
	r.Post("/api/auth/user/signup", handlers.UserSignup)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(testJWTSecret, services.RoleUser))
		r.Post("/api/appointments", handlers.BookAppointment)
		r.Post("/api/appointments/{id}/review", handlers.SubmitReview)
	})
	return r
}

func signupTestUser(t *testing.T, r *chi.Mux) (userID uuid.UUID, token string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"name":     "Test User",
		"email":    fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8]),
		"password": "testpass123",
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/user/signup", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp handlers.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	id, err := uuid.Parse(resp.User["id"].(string))
	require.NoError(t, err)
	return id, resp.Token
}

// createTestTherapist inserts an approved therapist with a wide-open schedule
// on the given weekday.
func createTestTherapist(t *testing.T, weekday int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	hash, err := utils.HashPassword("testpass123")
	require.NoError(t, err)

	_, err = database.PostgresDB.Exec(`
		INSERT INTO therapists (id, name, email, password_hash, license_number, license_state, phone, session_fee, is_approved, is_active)
		VALUES ($1, 'Test Therapist', $2, $3, 'LIC-123', 'CA', '555-0100', 80, TRUE, TRUE)
	`, id, fmt.Sprintf("therapist-%s@test.com", id.String()[:8]), hash)
	require.NoError(t, err)

	_, err = database.PostgresDB.Exec(`
		INSERT INTO availability (id, therapist_id, weekday, start_time, end_time, enabled)
		VALUES ($1, $2, $3, '00:00', '23:00', TRUE)
	`, uuid.New(), id, weekday)
	require.NoError(t, err)

	return id
}

func bookingRequest(therapistID uuid.UUID, startsAt time.Time, token string) *http.Request {
	body, _ := json.Marshal(map[string]string{
		"therapist_id": therapistID.String(),
		"starts_at":    startsAt.Format(time.RFC3339),
		"session_type": "video",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestBookAppointment_ConcurrentSameSlot(t *testing.T) {
	r := setup(t)

	slot := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	therapistID := createTestTherapist(t, int(slot.Weekday()))

	const n = 8
	var wg sync.WaitGroup
	codes := make([]int, n)

	for i := 0; i < n; i++ {
		_, token := signupTestUser(t, r)
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, bookingRequest(therapistID, slot, token))
			codes[i] = rec.Code
		}(i, token)
	}
	wg.Wait()

	var successes, conflicts int
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			successes++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}

	assert.Equal(t, 1, successes, "exactly one booking must win the slot")
	assert.Equal(t, n-1, conflicts)
}

func TestBookAppointment_PastSlotRejected(t *testing.T) {
	r := setup(t)

	slot := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Hour)
	therapistID := createTestTherapist(t, int(slot.Weekday()))
	_, token := signupTestUser(t, r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bookingRequest(therapistID, slot, token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReview_OnceOnly(t *testing.T) {
	r := setup(t)

	userID, token := signupTestUser(t, r)
	slot := time.Now().UTC().Add(-72 * time.Hour).Truncate(time.Hour)
	therapistID := createTestTherapist(t, int(slot.Weekday()))

	// A completed past appointment, inserted directly.
	appointmentID := uuid.New()
	_, err := database.PostgresDB.Exec(`
		INSERT INTO appointments (id, user_id, therapist_id, starts_at, ends_at, status, session_type, amount)
		VALUES ($1, $2, $3, $4, $5, 'completed', 'video', 80)
	`, appointmentID, userID, therapistID, slot, slot.Add(time.Hour))
	require.NoError(t, err)

	review := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{"rating": 5, "comment": "very helpful"})
		req := httptest.NewRequest(http.MethodPost, "/api/appointments/"+appointmentID.String()+"/review", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	first := review()
	assert.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := review()
	assert.Equal(t, http.StatusConflict, second.Code)
}
