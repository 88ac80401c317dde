package store

import (
	"testing"
	"time"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

func TestMemoryStore_SessionCRUD(t *testing.T) {
	s := NewMemoryStore()

	session := models.NewSession("user-1", "chat")
	if err := s.SaveSession(session); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSession(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Title != "chat" {
		t.Fatalf("unexpected session: %+v", got)
	}

	missing, err := s.GetSession("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestMemoryStore_CascadeDelete(t *testing.T) {
	s := NewMemoryStore()

	session := models.NewSession("user-1", "chat")
	if err := s.SaveSession(session); err != nil {
		t.Fatal(err)
	}
	saveTestMessage(t, s, session.ID, "user-1", models.RoleUser, "hi", time.Now())

	if err := s.DeleteSession(session.ID); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.GetAllMessages("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected cascade delete, found %d messages", len(msgs))
	}
}

func TestMemoryStore_SearchCaseInsensitive(t *testing.T) {
	s := NewMemoryStore()

	session := models.NewSession("user-1", "chat")
	if err := s.SaveSession(session); err != nil {
		t.Fatal(err)
	}
	saveTestMessage(t, s, session.ID, "user-1", models.RoleUser, "Deploy the Cluster", time.Now())

	results, err := s.SearchMessages("user-1", "deploy", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestMemoryStore_ImportValidates(t *testing.T) {
	s := NewMemoryStore()

	bad := &models.Snapshot{
		Sessions: []models.Session{{ID: "", UserID: "user-1"}},
	}
	if err := s.Import(bad, "user-1"); err == nil {
		t.Fatal("expected error for session without id")
	}
}
