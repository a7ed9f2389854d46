package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacecare/solace-backend/internal/database"
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

func TestGetDayAvailability_NoRowMeansDisabledDay(t *testing.T) {
	mock := withMockDB(t)
	therapistID := uuid.New()

	mock.ExpectQuery("SELECT start_time, end_time, enabled FROM availability").
		WithArgs(therapistID, 1).
		WillReturnError(sql.ErrNoRows)

	day, err := GetDayAvailability(context.Background(), therapistID, 1)
	require.NoError(t, err)
	assert.False(t, day.Enabled)
	assert.Equal(t, "09:00", day.StartTime)
	assert.Equal(t, "17:00", day.EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDayAvailability_DBErrorSurfaces(t *testing.T) {
	mock := withMockDB(t)
	therapistID := uuid.New()

	mock.ExpectQuery("SELECT start_time, end_time, enabled FROM availability").
		WithArgs(therapistID, 2).
		WillReturnError(errors.New("connection refused"))

	_, err := GetDayAvailability(context.Background(), therapistID, 2)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDayAvailability_ConfiguredRow(t *testing.T) {
	mock := withMockDB(t)
	therapistID := uuid.New()

	mock.ExpectQuery("SELECT start_time, end_time, enabled FROM availability").
		WithArgs(therapistID, 3).
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time", "enabled"}).
			AddRow("10:00", "16:00", true))

	day, err := GetDayAvailability(context.Background(), therapistID, 3)
	require.NoError(t, err)
	assert.True(t, day.Enabled)
	assert.Equal(t, "10:00", day.StartTime)
	assert.Equal(t, "16:00", day.EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
