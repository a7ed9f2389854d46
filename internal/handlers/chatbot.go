package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/models"
	"github.com/solacecare/solace-backend/internal/services"
)

const maxChatMessageLength = 2000

type ChatMessageRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// SendChatMessage handles one chatbot turn: the user's text is logged,
// classified, and answered with a canned reply which is also logged.
// Omitting session_id starts a new session.
func SendChatMessage(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if len(text) > maxChatMessageLength {
		writeError(w, http.StatusBadRequest, "Message is too long")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	now := time.Now().UTC()

	userTurn := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    uid,
		Sender:    models.SenderUser,
		Text:      text,
		Timestamp: now,
	}
	if _, err := services.SaveChatMessage(r.Context(), userTurn); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	category, reply := services.Classify(text)

	botTurn := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    uid,
		Sender:    models.SenderBot,
		Category:  category,
		Text:      reply,
		Timestamp: now.Add(time.Millisecond),
	}
	if _, err := services.SaveChatMessage(r.Context(), botTurn); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save reply")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"session_id": sessionID,
		"category":   category,
		"reply":      reply,
	})
}

// GetChatHistory returns paginated turns for one of the user's sessions.
// GET /api/chatbot/history?session_id=...&limit=50&before=RFC3339
func GetChatHistory(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	var limit int64 = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = parsed
		}
	}

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid before, expected RFC 3339 timestamp")
			return
		}
		before = &parsed
	}

	messages, hasMore, err := services.LoadChatMessages(r.Context(), uid, sessionID, before, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"session_id": sessionID,
		"messages":   messages,
		"has_more":   hasMore,
	})
}

// GetChatSessions lists the user's chat sessions, most recent activity first.
func GetChatSessions(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFrom(r.Context())

	sessions, err := services.ListChatSessions(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load sessions")
		return
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"sessions": sessions,
	})
}
