package utils

import (
	"regexp"
	"strings"
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 255
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	timeRegex  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)

	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}

	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Email format is invalid"}
	}

	return nil
}

// ValidatePassword validates password strength
// Rules: at least 8 characters
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}

	return nil
}

// ValidateName validates a display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}

	if len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: "Name is too long"}
	}

	return nil
}

// ValidateClockTime validates an "HH:MM" 24-hour clock string
func ValidateClockTime(value string) error {
	if !timeRegex.MatchString(value) {
		return &ValidationError{Field: "time", Message: "Time must be in HH:MM 24-hour format"}
	}
	return nil
}

// NormalizeEmail converts an email to lowercase for storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
