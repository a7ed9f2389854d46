package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatSender is who produced a chat turn.
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is stored in MongoDB, one document per turn (user or bot).
// The log is append-only; a session is the set of turns sharing a session id.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Sender    ChatSender         `bson:"sender" json:"sender"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"` // classifier bucket, bot turns only
	Text      string             `bson:"text" json:"text"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// ChatSession summarizes one conversation for the sessions listing.
type ChatSession struct {
	SessionID    string    `bson:"_id" json:"session_id"`
	LastActivity time.Time `bson:"last_activity" json:"last_activity"`
	MessageCount int64     `bson:"message_count" json:"message_count"`
}
