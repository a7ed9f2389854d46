package handlers

import (
	"log"
	"net/http"

	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

// InitCloudinaryService initializes the Cloudinary service for file uploads
func InitCloudinaryService(cloudName, apiKey, apiSecret string) error {
	service, err := services.NewCloudinaryService(cloudName, apiKey, apiSecret)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

// UploadFile handles authenticated file uploads (multipart/form-data, field "file").
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		writeError(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	// Limit uploads to 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "uploads"
	}

	log.Printf("Uploading file %s (%d bytes) for account %s", header.Filename, header.Size, middleware.UserIDFrom(r.Context()))

	url, err := cloudinaryService.UploadFile(r.Context(), file, folder)
	if err != nil {
		log.Printf("ERROR: Upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "File uploaded successfully",
		"url":     url,
	})
}
