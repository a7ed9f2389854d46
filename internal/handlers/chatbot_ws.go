package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/solacecare/solace-backend/internal/middleware"
	"github.com/solacecare/solace-backend/internal/models"
	"github.com/solacecare/solace-backend/internal/services"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// ChatbotClientMessage represents frames coming from the frontend over WebSocket.
type ChatbotClientMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text,omitempty"`
}

// ChatbotServerMessage represents frames sent back to the frontend.
type ChatbotServerMessage struct {
	Type      string    `json:"type"` // "reply", "error", "pong"
	SessionID string    `json:"session_id,omitempty"`
	Category  string    `json:"category,omitempty"`
	Text      string    `json:"text,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatbotWebSocket handles the chatbot over a live connection.
// Authentication is done via the bearer token (Authorization header, or
// ?token= for browser WebSocket clients). Each "message" frame is logged,
// classified and answered with a "reply" frame.
func ChatbotWebSocket(jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			token = r.URL.Query().Get("token")
			if token == "" {
				http.Error(w, "missing authentication token", http.StatusUnauthorized)
				return
			}
		}

		claims, err := services.ParseToken(token, jwtSecret)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID

		// A connection is bound to one session; a missing session_id starts a new one.
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		conn, err := chatUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		conn.SetReadLimit(64 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		conn.SetPongHandler(func(appData string) error {
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
			return nil
		})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var msg ChatbotClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}

			if msg.SessionID != "" {
				sessionID = strings.TrimSpace(msg.SessionID)
			}

			switch msg.Type {
			case "message":
				handleChatbotTurn(ctx, conn, userID, sessionID, msg.Text)
			case "ping":
				_ = conn.WriteJSON(ChatbotServerMessage{
					Type:      "pong",
					Timestamp: time.Now().UTC(),
				})
			default:
				// Ignore unknown types
			}
		}
	}
}

// handleChatbotTurn persists the user turn, classifies it, persists the bot
// turn and pushes the reply down the connection.
func handleChatbotTurn(ctx context.Context, conn *websocket.Conn, userID, sessionID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(text) > maxChatMessageLength {
		_ = conn.WriteJSON(ChatbotServerMessage{
			Type:      "error",
			SessionID: sessionID,
			Error:     "message is too long",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	now := time.Now().UTC()

	userTurn := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Sender:    models.SenderUser,
		Text:      text,
		Timestamp: now,
	}
	if _, err := services.SaveChatMessage(ctx, userTurn); err != nil {
		_ = conn.WriteJSON(ChatbotServerMessage{
			Type:      "error",
			SessionID: sessionID,
			Error:     "failed to persist message",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	category, reply := services.Classify(text)

	botTurn := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Sender:    models.SenderBot,
		Category:  category,
		Text:      reply,
		Timestamp: now.Add(time.Millisecond),
	}
	_, _ = services.SaveChatMessage(ctx, botTurn)

	_ = conn.WriteJSON(ChatbotServerMessage{
		Type:      "reply",
		SessionID: sessionID,
		Category:  category,
		Text:      reply,
		Timestamp: botTurn.Timestamp,
	})
}
