package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/config"
	"github.com/solacecare/solace-backend/internal/database"
	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/services"
	"github.com/solacecare/solace-backend/pkg/utils"
)

var jwtSecret string

// InitAuth wires the JWT secret into the auth handlers.
func InitAuth(cfg *config.Config) {
	jwtSecret = cfg.JWTSecret
}

// User Signup Request
type UserSignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// Signin Request (users, therapists)
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Auth Response
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// UserSignup handles user registration
func UserSignup(w http.ResponseWriter, r *http.Request) {
	var req UserSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate required fields
	if err := utils.ValidateName(req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := utils.NormalizeEmail(req.Email)

	// Check if user already exists
	var existingEmail string
	err := database.PostgresDB.QueryRow("SELECT email FROM users WHERE email = $1", email).Scan(&existingEmail)
	if err == nil {
		writeError(w, http.StatusConflict, "User with this email already exists")
		return
	} else if err != sql.ErrNoRows {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// Create user
	userID := uuid.New()
	now := time.Now()

	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, updated_at, name, email, password_hash, phone, date_of_birth, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, FALSE)
	`, userID, now, now, req.Name, email, hashedPassword, req.Phone, req.DateOfBirth)
	if err != nil {
		log.Printf("ERROR: Failed to insert user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := services.MakeToken(userID.String(), services.RoleUser, jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		Token:   token,
		User: map[string]interface{}{
			"id":         userID.String(),
			"name":       req.Name,
			"email":      email,
			"role":       services.RoleUser,
			"created_at": now,
		},
	})
}

// UserSignin handles user login
func UserSignin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var userID uuid.UUID
	var name, passwordHash string
	var isActive bool
	var createdAt time.Time

	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, name, password_hash, is_active
		FROM users WHERE email = $1
	`, utils.NormalizeEmail(req.Email)).Scan(&userID, &createdAt, &name, &passwordHash, &isActive)
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

	token, err := services.MakeToken(userID.String(), services.RoleUser, jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"id":         userID.String(),
			"name":       name,
			"email":      utils.NormalizeEmail(req.Email),
			"role":       services.RoleUser,
			"created_at": createdAt,
		},
	})
}

// TherapistSignup handles therapist registration with multipart/form-data
// (profile image optional).
func TherapistSignup(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 20MB for image + form data)
	err := r.ParseMultipartForm(20 << 20) // 20MB
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	// Extract form values
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")
	licenseNumber := r.FormValue("license_number")
	licenseState := r.FormValue("license_state")
	phone := r.FormValue("phone")
	specialization := r.FormValue("specialization")
	bio := r.FormValue("bio")

	yearsOfExperience, _ := strconv.Atoi(r.FormValue("years_of_experience"))
	sessionFee, _ := strconv.ParseFloat(r.FormValue("session_fee"), 64)

	// Validate required fields
	if err := utils.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateEmail(email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidatePassword(password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if licenseNumber == "" || licenseState == "" || phone == "" {
		writeError(w, http.StatusBadRequest, "License number, license state and phone are required")
		return
	}

	email = utils.NormalizeEmail(email)

	// Check if therapist already exists
	var existingEmail string
	err = database.PostgresDB.QueryRow("SELECT email FROM therapists WHERE email = $1", email).Scan(&existingEmail)
	if err == nil {
		writeError(w, http.StatusConflict, "Therapist with this email already exists")
		return
	} else if err != sql.ErrNoRows {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Upload profile image if provided
	var profileImageURL string
	imageHeaders, imageExists := r.MultipartForm.File["profile_image"]
	if imageExists && len(imageHeaders) > 0 {
		if cloudinaryService == nil {
			writeError(w, http.StatusInternalServerError, "File upload service not available")
			return
		}

		header := imageHeaders[0]
		log.Printf("Uploading therapist profile image: %s, size: %d bytes", header.Filename, header.Size)

		profileImageURL, err = cloudinaryService.UploadFileFromHeader(r.Context(), header, "therapists")
		if err != nil {
			log.Printf("ERROR: Profile image upload failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to upload profile image")
			return
		}
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	therapistID := uuid.New()
	now := time.Now()

	_, err = database.PostgresDB.Exec(`
		INSERT INTO therapists (
			id, created_at, updated_at, name, email, password_hash, license_number, license_state,
			years_of_experience, specialization, phone, session_fee, bio, profile_image_url,
			is_approved, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, TRUE)
	`, therapistID, now, now, name, email, hashedPassword, licenseNumber, licenseState,
		yearsOfExperience, specialization, phone, sessionFee, bio, profileImageURL)
	if err != nil {
		log.Printf("ERROR: Failed to insert therapist: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create therapist")
		return
	}

	log.Printf("✅ Therapist application created: %s (%s)", name, therapistID.String())

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Therapist application submitted successfully. Awaiting approval.",
		User: map[string]interface{}{
			"id":                  therapistID.String(),
			"name":                name,
			"email":               email,
			"role":                services.RoleTherapist,
			"created_at":          now,
			"license_number":      licenseNumber,
			"license_state":       licenseState,
			"years_of_experience": yearsOfExperience,
			"specialization":      specialization,
			"phone":               phone,
			"session_fee":         sessionFee,
			"profile_image_url":   profileImageURL,
			"is_approved":         false,
		},
	})
}

// TherapistSignin handles therapist login. Unapproved therapists are rejected.
func TherapistSignin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var therapistID uuid.UUID
	var name, passwordHash string
	var isApproved, isActive bool
	var createdAt time.Time

	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, name, password_hash, is_approved, is_active
		FROM therapists WHERE email = $1
	`, utils.NormalizeEmail(req.Email)).Scan(&therapistID, &createdAt, &name, &passwordHash, &isApproved, &isActive)
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

	if !isApproved {
		writeError(w, http.StatusForbidden, "Your application is pending approval. Please wait for admin approval before logging in.")
		return
	}
	if !isActive {
		writeError(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := services.MakeToken(therapistID.String(), services.RoleTherapist, jwtSecret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"id":          therapistID.String(),
			"name":        name,
			"email":       utils.NormalizeEmail(req.Email),
			"role":        services.RoleTherapist,
			"created_at":  createdAt,
			"is_approved": isApproved,
		},
	})
}

// GetMe returns the authenticated account's identity from the token.
func GetMe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())
	role := middleware.RoleFrom(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var name, email string
	var query string
	switch role {
	case services.RoleTherapist:
		query = `SELECT name, email FROM therapists WHERE id = $1`
	case services.RoleAdmin:
		query = `SELECT username, email FROM admins WHERE id = $1`
	default:
		query = `SELECT name, email FROM users WHERE id = $1`
	}

	if err := database.PostgresDB.QueryRow(query, uid).Scan(&name, &email); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Account not found")
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"id":    uid,
			"name":  name,
			"email": email,
			"role":  role,
		},
	})
}
