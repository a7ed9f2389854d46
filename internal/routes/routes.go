package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/solacecare/solace-backend/internal/config"
	"github.com/solacecare/solace-backend/internal/handlers"
	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/services"
)

func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	// Auth routes (public)
	r.Post("/api/auth/user/signup", handlers.UserSignup)
	r.Post("/api/auth/user/signin", handlers.UserSignin)
	r.Post("/api/auth/therapist/signup", handlers.TherapistSignup)
	r.Post("/api/auth/therapist/signin", handlers.TherapistSignin)
	// Admin accounts are provisioned directly in the database; signin only.
	r.Post("/api/auth/admin/signin", handlers.AdminSignin)

	// Public therapist directory
	r.Get("/api/therapists", handlers.ListTherapists)
	r.Get("/api/therapists/{id}", handlers.GetTherapistByID)
	r.Get("/api/therapists/{id}/slots", handlers.GetTherapistSlots)

	// Any authenticated account
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret))

		r.Get("/api/auth/me", handlers.GetMe)
		r.Post("/api/upload", handlers.UploadFile)

		// Notifications
		r.Get("/api/notifications", handlers.ListNotifications)
		r.Put("/api/notifications/{id}/read", handlers.MarkNotificationRead)
		r.Put("/api/notifications/read-all", handlers.MarkAllNotificationsRead)

		// Appointments (role scoping is enforced in the handlers)
		r.Get("/api/appointments", handlers.ListAppointments)
		r.Get("/api/appointments/{id}", handlers.GetAppointment)
		r.Put("/api/appointments/{id}/status", handlers.UpdateAppointmentStatus)
	})

	// User-only routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret, services.RoleUser))

		r.Get("/api/user/profile", handlers.GetUserProfile)
		r.Put("/api/user/profile", handlers.UpdateUserProfile)
		r.Post("/api/user/profile/image", handlers.UploadUserProfileImage)

		r.Post("/api/appointments", handlers.BookAppointment)
		r.Post("/api/appointments/{id}/review", handlers.SubmitReview)

		// Chatbot (MongoDB history)
		r.Post("/api/chat/send", handlers.SendChatMessage)
		r.Get("/api/chat/history", handlers.GetChatHistory)
		r.Get("/api/chat/sessions", handlers.GetChatSessions)
	})

	// Therapist-only routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret, services.RoleTherapist))

		r.Get("/api/therapist/profile", handlers.GetTherapistProfile)
		r.Put("/api/therapist/profile", handlers.UpdateTherapistProfile)
		r.Post("/api/therapist/profile/image", handlers.UploadTherapistProfileImage)

		r.Get("/api/therapist/availability", handlers.GetAvailability)
		r.Put("/api/therapist/availability", handlers.SetAvailability)

		r.Get("/api/therapist/analytics", handlers.GetTherapistAnalytics)
	})

	// Admin-only routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSecret, services.RoleAdmin))

		r.Get("/api/admin/therapists/pending", handlers.ListPendingTherapists)
		r.Put("/api/admin/therapists/{id}/approve", handlers.ApproveTherapist)
		r.Put("/api/admin/therapists/{id}/reject", handlers.RejectTherapist)
		r.Get("/api/admin/users", handlers.ListUsers)
		r.Put("/api/admin/users/{id}/active", handlers.SetUserActive)
		r.Delete("/api/admin/users/{id}", handlers.DeleteUser)
		r.Get("/api/admin/analytics", handlers.GetPlatformAnalytics)
	})

	// WebSocket endpoint for the chatbot (token via header or ?token=)
	r.Get("/ws/chat", handlers.ChatbotWebSocket(cfg.JWTSecret))
}
