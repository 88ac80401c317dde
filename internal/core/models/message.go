package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of a conversation produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether the role is one of the known conversation roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message represents one turn of a conversation. Metadata and
// FullResponse are opaque payloads owned by the agent collaborator;
// the store passes them through unexamined.
type Message struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"sessionId"`
	UserID       string          `json:"userId"`
	Role         Role            `json:"role"`
	Content      string          `json:"content"`
	Timestamp    time.Time       `json:"timestamp"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	FullResponse json.RawMessage `json:"fullResponseData,omitempty"`
	IsLoading    bool            `json:"isLoading,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// NewMessageID generates a message id from the creation instant plus a
// uniqueness suffix.
func NewMessageID() string {
	return fmt.Sprintf("msg_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Validate checks if the message has required fields
func (m *Message) Validate() error {
	if m.ID == "" {
		return errors.New("message id is required")
	}
	if m.SessionID == "" {
		return errors.New("session id is required")
	}
	if m.UserID == "" {
		return errors.New("user id is required")
	}
	if !m.Role.Valid() {
		return fmt.Errorf("invalid role %q", m.Role)
	}
	return nil
}

// Snapshot is the export/import shape: every session and message owned
// by a single user.
type Snapshot struct {
	Sessions []Session `json:"sessions"`
	Messages []Message `json:"messages"`
}

// Truncate shortens s to at most n characters, appending an ellipsis
// when content was cut off.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
