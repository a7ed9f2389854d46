package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/services"
	"github.com/solacecare/solace-backend/pkg/utils"
)

type AdminSigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminSignin handles admin login. Admins are provisioned out of band;
// there is no self-serve admin signup.
func AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var adminID uuid.UUID
	var username, passwordHash string
	var isActive bool
	var createdAt time.Time

	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, username, password_hash, is_active
		FROM admins WHERE email = $1
	`, utils.NormalizeEmail(req.Email)).Scan(&adminID, &createdAt, &username, &passwordHash, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !isActive {
		writeError(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := services.MakeToken(adminID.String(), services.RoleAdmin, jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"id":         adminID.String(),
			"name":       username,
			"email":      utils.NormalizeEmail(req.Email),
			"role":       services.RoleAdmin,
			"created_at": createdAt,
		},
	})
}
