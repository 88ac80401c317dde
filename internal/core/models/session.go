package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session represents a named conversation thread scoped to one user.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	LastMessage  string    `json:"lastMessage"`
	Timestamp    time.Time `json:"timestamp"` // last activity
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DefaultSessionTitle is used when a session is created without an
// explicit title.
const DefaultSessionTitle = "New Chat"

// NewSession creates a session for userID with zero messages. An empty
// title falls back to DefaultSessionTitle.
func NewSession(userID, title string) *Session {
	if title == "" {
		title = DefaultSessionTitle
	}
	now := time.Now()
	return &Session{
		ID:        NewSessionID(),
		UserID:    userID,
		Title:     title,
		Timestamp: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewSessionID generates a session id from the creation instant plus a
// uniqueness suffix.
func NewSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if s.UserID == "" {
		return errors.New("user id is required")
	}
	if s.MessageCount < 0 {
		return fmt.Errorf("message count must not be negative, got %d", s.MessageCount)
	}
	return nil
}
