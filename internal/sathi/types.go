// Package sathi defines the shared data model for the Siksha Sathi client.
// The backend speaks in turns; everything the terminal shows is derived
// from them.
package sathi

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a display message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Turn is a single exchange in backend-canonical form. Either side may
// be absent: saved sessions can contain user-only or system-only turns.
type Turn struct {
	User   string `json:"user,omitempty"`
	System string `json:"system,omitempty"`
}

// Message is the display projection of a turn half. Messages exist only
// on the client; the turn history is what goes over the wire.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a display message with a fresh UUID and the current time.
func NewMessage(text string, sender Sender) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}

// Profile holds the authenticated user's attributes as returned by the
// backend's /users/self endpoint.
type Profile struct {
	UserID   string `json:"user_id"`
	FullName string `json:"user_full_name"`
	Email    string `json:"user_email"`
	Phone    string `json:"user_phone"`
}

// SavedSession is a previously saved conversation as returned by the
// backend's chat list endpoint. Read-only from the client's perspective.
type SavedSession struct {
	ID          string           `json:"id"`
	ChatTitle   string           `json:"chat_title"`
	CreatedDate time.Time        `json:"created_date"`
	Data        SavedSessionData `json:"data"`
}

// SavedSessionData wraps the stored turn sequence.
type SavedSessionData struct {
	ChatHistory []Turn `json:"chat_history"`
}

// ValidTurns reports whether turns is a well-formed, non-empty history:
// every turn must have at least one of user/system populated.
func ValidTurns(turns []Turn) bool {
	if len(turns) == 0 {
		return false
	}
	for _, t := range turns {
		if t.User == "" && t.System == "" {
			return false
		}
	}
	return true
}

// TurnsToMessages projects a turn sequence into display messages in
// order. Timestamps are synthesized from base since the backend does not
// store per-turn times.
func TurnsToMessages(turns []Turn, base time.Time) []Message {
	var messages []Message
	for i, t := range turns {
		ts := base.Add(time.Duration(i) * time.Second)
		if t.User != "" {
			messages = append(messages, Message{
				ID:        uuid.New().String(),
				Text:      t.User,
				Sender:    SenderUser,
				Timestamp: ts,
			})
		}
		if t.System != "" {
			messages = append(messages, Message{
				ID:        uuid.New().String(),
				Text:      t.System,
				Sender:    SenderAI,
				Timestamp: ts,
			})
		}
	}
	return messages
}
