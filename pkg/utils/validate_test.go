package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("someone@example.com"))
	assert.NoError(t, ValidateEmail("  padded@example.com  "))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("two@@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(""))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada Lovelace"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("x", MaxNameLength+1)))
}

func TestValidateClockTime(t *testing.T) {
	assert.NoError(t, ValidateClockTime("09:00"))
	assert.NoError(t, ValidateClockTime("23:59"))
	assert.NoError(t, ValidateClockTime("00:00"))

	assert.Error(t, ValidateClockTime("24:00"))
	assert.Error(t, ValidateClockTime("9:00"))
	assert.Error(t, ValidateClockTime("09:60"))
	assert.Error(t, ValidateClockTime("0900"))
	assert.Error(t, ValidateClockTime(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
