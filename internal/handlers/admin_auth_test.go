package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacecare/solace-backend/internal/config"
	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/pkg/utils"
)

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := database.PostgresDB
	database.PostgresDB = db
	t.Cleanup(func() {
		database.PostgresDB = prev
		db.Close()
	})
	return mock
}

func adminRows(t *testing.T, password string, isActive bool) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "created_at", "username", "password_hash", "is_active"}).
		AddRow(uuid.New().String(), time.Now(), "root", hash, isActive)
}

func postAdminSignin(email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rec := httptest.NewRecorder()
	AdminSignin(rec, httptest.NewRequest(http.MethodPost, "/api/auth/admin/signin", bytes.NewReader(body)))
	return rec
}

func TestAdminSignin_DeactivatedRejected(t *testing.T) {
	mock := withMockDB(t)
	InitAuth(&config.Config{JWTSecret: "admin-test-secret"})

	mock.ExpectQuery("SELECT id, created_at, username, password_hash, is_active").
		WithArgs("admin@test.com").
		WillReturnRows(adminRows(t, "adminpass123", false))

	rec := postAdminSignin("admin@test.com", "adminpass123")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminSignin_ActiveGetsToken(t *testing.T) {
	mock := withMockDB(t)
	InitAuth(&config.Config{JWTSecret: "admin-test-secret"})

	mock.ExpectQuery("SELECT id, created_at, username, password_hash, is_active").
		WithArgs("admin@test.com").
		WillReturnRows(adminRows(t, "adminpass123", true))

	rec := postAdminSignin("admin@test.com", "adminpass123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
}

func TestAdminSignin_WrongPassword(t *testing.T) {
	mock := withMockDB(t)
	InitAuth(&config.Config{JWTSecret: "admin-test-secret"})

	mock.ExpectQuery("SELECT id, created_at, username, password_hash, is_active").
		WithArgs("admin@test.com").
		WillReturnRows(adminRows(t, "adminpass123", true))

	rec := postAdminSignin("admin@test.com", "not-the-password")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
