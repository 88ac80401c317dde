package models

import "testing"

func TestMessageValidate(t *testing.T) {
	m := &Message{
		ID:        NewMessageID(),
		SessionID: "session-1",
		UserID:    "user-1",
		Role:      RoleUser,
		Content:   "hello",
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	m.Role = Role("robot")
	if err := m.Validate(); err == nil {
		t.Error("expected error for invalid role")
	}

	m.Role = RoleAssistant
	m.SessionID = ""
	if err := m.Validate(); err == nil {
		t.Error("expected error for missing session id")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"shorter than limit", "hello", 50, "hello"},
		{"exactly at limit", "12345", 5, "12345"},
		{"over limit", "Hello world, this is a longer message exceeding fifty characters total", 50,
			"Hello world, this is a longer message exceeding fi..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}
