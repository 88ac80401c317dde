package manager

import (
	"errors"
	"testing"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return New(store.NewMemoryStore(), "user-1")
}

func TestInitialize_Empty(t *testing.T) {
	m := newTestManager(t)

	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	st := m.State()
	if len(st.Sessions) != 0 || st.CurrentSession != nil {
		t.Errorf("expected empty state, got %+v", st)
	}
	if !st.Ready() {
		t.Errorf("expected ready state, got loading=%v error=%q", st.IsLoading, st.Error)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession("alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateSession("beta"); err != nil {
		t.Fatal(err)
	}

	if err := m.Initialize(); err != nil {
		t.Fatal(err)
	}
	first := m.State()

	if err := m.Initialize(); err != nil {
		t.Fatal(err)
	}
	second := m.State()

	if len(first.Sessions) != len(second.Sessions) {
		t.Fatalf("session count changed: %d vs %d", len(first.Sessions), len(second.Sessions))
	}
	for i := range first.Sessions {
		if first.Sessions[i].ID != second.Sessions[i].ID {
			t.Errorf("session order changed at %d", i)
		}
	}
	if first.CurrentSession.ID != second.CurrentSession.ID {
		t.Errorf("active session changed: %s vs %s", first.CurrentSession.ID, second.CurrentSession.ID)
	}
}

func TestInitialize_SelectsMostRecent(t *testing.T) {
	st := store.NewMemoryStore()
	m := New(st, "user-1")

	if _, err := m.CreateSession("older"); err != nil {
		t.Fatal(err)
	}
	newer, err := m.CreateSession("newer")
	if err != nil {
		t.Fatal(err)
	}

	// Fresh manager over the same store: no session active yet.
	m2 := New(st, "user-1")
	if err := m2.Initialize(); err != nil {
		t.Fatal(err)
	}

	state := m2.State()
	if state.CurrentSession == nil || state.CurrentSession.ID != newer.ID {
		t.Errorf("expected most recent session active, got %+v", state.CurrentSession)
	}
}

func TestCreateSession(t *testing.T) {
	m := newTestManager(t)

	session, err := m.CreateSession("")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.Title != "New Chat" {
		t.Errorf("expected default title, got %q", session.Title)
	}

	st := m.State()
	if st.CurrentSession == nil || st.CurrentSession.ID != session.ID {
		t.Error("created session should be active")
	}
	if len(st.Sessions) != 1 || st.Sessions[0].ID != session.ID {
		t.Error("created session should be prepended to the list")
	}
	if len(st.Messages) != 0 {
		t.Error("new session should have an empty message view")
	}
}

func TestSelectSession_NotFound(t *testing.T) {
	m := newTestManager(t)

	err := m.SelectSession("missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if m.State().Error == "" {
		t.Error("error should be recorded in observable state")
	}
}

func TestSelectSession_LoadsMessages(t *testing.T) {
	m := newTestManager(t)

	first, err := m.CreateSession("first")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "hello first"}); err != nil {
		t.Fatal(err)
	}

	if _, err := m.CreateSession("second"); err != nil {
		t.Fatal(err)
	}
	if len(m.State().Messages) != 0 {
		t.Fatal("second session should start with no messages")
	}

	if err := m.SelectSession(first.ID); err != nil {
		t.Fatalf("SelectSession() error = %v", err)
	}

	st := m.State()
	if st.CurrentSession.ID != first.ID {
		t.Error("first session should be active again")
	}
	if len(st.Messages) != 1 || st.Messages[0].Content != "hello first" {
		t.Errorf("expected first session's messages, got %+v", st.Messages)
	}
}

func TestAddMessage_NoActiveSession(t *testing.T) {
	m := newTestManager(t)

	_, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "hi"})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestAddMessage_TitleDerivation(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}

	content := "Hello world, this is a longer message exceeding fifty characters total"
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: content}); err != nil {
		t.Fatal(err)
	}

	want := "Hello world, this is a longer message exceeding fi..."
	if got := m.State().CurrentSession.Title; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}

func TestAddMessage_TitleOnlyFromFirstUserMessage(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "first"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "second"}); err != nil {
		t.Fatal(err)
	}

	if got := m.State().CurrentSession.Title; got != "first" {
		t.Errorf("title = %q, want %q", got, "first")
	}
}

func TestAddMessage_MessageCountInvariant(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 5; i++ {
		if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "ping"}); err != nil {
			t.Fatal(err)
		}
		if got := m.State().CurrentSession.MessageCount; got != i {
			t.Fatalf("after %d appends, MessageCount = %d", i, got)
		}
	}
}

func TestLoadingPlaceholderScenario(t *testing.T) {
	m := newTestManager(t)

	session, err := m.CreateSession("")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "ping"}); err != nil {
		t.Fatal(err)
	}
	placeholder, err := m.AddMessage(MessageInput{Role: models.RoleAssistant, Content: "", IsLoading: true})
	if err != nil {
		t.Fatal(err)
	}

	content := "pong"
	loading := false
	if err := m.UpdateMessage(placeholder.ID, MessageUpdate{Content: &content, IsLoading: &loading}); err != nil {
		t.Fatalf("UpdateMessage() error = %v", err)
	}

	st := m.State()
	if len(st.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(st.Messages))
	}
	if st.Messages[0].Content != "ping" || st.Messages[0].Role != models.RoleUser {
		t.Errorf("unexpected first message: %+v", st.Messages[0])
	}
	if st.Messages[1].Content != "pong" || st.Messages[1].Role != models.RoleAssistant || st.Messages[1].IsLoading {
		t.Errorf("unexpected second message: %+v", st.Messages[1])
	}
	if st.CurrentSession.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", st.CurrentSession.MessageCount)
	}
	if st.CurrentSession.LastMessage != "pong" {
		t.Errorf("LastMessage = %q, want %q", st.CurrentSession.LastMessage, "pong")
	}
	_ = session
}

func TestUpdateMessage_NotFound(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}

	content := "x"
	err := m.UpdateMessage("missing", MessageUpdate{Content: &content})
	if !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestDeleteMessage_Durable(t *testing.T) {
	st := store.NewMemoryStore()
	m := New(st, "user-1")

	session, err := m.CreateSession("")
	if err != nil {
		t.Fatal(err)
	}
	msg, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "oops"})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.DeleteMessage(msg.ID); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}

	state := m.State()
	if len(state.Messages) != 0 {
		t.Error("message still in cache")
	}
	if state.CurrentSession.MessageCount != 0 {
		t.Errorf("MessageCount = %d, want 0", state.CurrentSession.MessageCount)
	}

	// A reload must not resurrect the deleted message.
	if err := m.SelectSession(session.ID); err != nil {
		t.Fatal(err)
	}
	if got := len(m.State().Messages); got != 0 {
		t.Errorf("deleted message resurrected on reload: %d messages", got)
	}
}

func TestDeleteSession_ReselectsNextMostRecent(t *testing.T) {
	m := newTestManager(t)

	c, err := m.CreateSession("C")
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.CreateSession("B")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SelectSession(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "in b"}); err != nil {
		t.Fatal(err)
	}
	a, err := m.CreateSession("A")
	if err != nil {
		t.Fatal(err)
	}

	// A is newest and active; deleting it must activate B and load B's
	// messages.
	if err := m.DeleteSession(a.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	st := m.State()
	if st.CurrentSession == nil || st.CurrentSession.ID != b.ID {
		t.Fatalf("expected B active, got %+v", st.CurrentSession)
	}
	if len(st.Messages) != 1 || st.Messages[0].Content != "in b" {
		t.Errorf("expected B's messages loaded, got %+v", st.Messages)
	}
	_ = c
}

func TestDeleteSession_LastOneCreatesFreshSession(t *testing.T) {
	m := newTestManager(t)

	only, err := m.CreateSession("solo")
	if err != nil {
		t.Fatal(err)
	}

	if err := m.DeleteSession(only.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	st := m.State()
	if st.CurrentSession == nil {
		t.Fatal("expected a fresh session to be created")
	}
	if st.CurrentSession.ID == only.ID {
		t.Error("deleted session still active")
	}
	if st.CurrentSession.Title != "New Chat" {
		t.Errorf("fresh session title = %q, want %q", st.CurrentSession.Title, "New Chat")
	}
	if len(st.Sessions) != 1 {
		t.Errorf("expected exactly 1 session, got %d", len(st.Sessions))
	}
}

func TestDeleteSession_InactiveKeepsCurrent(t *testing.T) {
	m := newTestManager(t)

	old, err := m.CreateSession("old")
	if err != nil {
		t.Fatal(err)
	}
	active, err := m.CreateSession("active")
	if err != nil {
		t.Fatal(err)
	}

	if err := m.DeleteSession(old.ID); err != nil {
		t.Fatal(err)
	}

	st := m.State()
	if st.CurrentSession.ID != active.ID {
		t.Error("active session should be unchanged")
	}
	if len(st.Sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(st.Sessions))
	}
}

func TestExportImport_RoundTripThroughManager(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "ping"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleAssistant, Content: "pong"}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := m.ExportData()
	if err != nil {
		t.Fatalf("ExportData() error = %v", err)
	}

	if err := m.ClearAllData(); err != nil {
		t.Fatalf("ClearAllData() error = %v", err)
	}
	cleared := m.State()
	if len(cleared.Sessions) != 0 || cleared.CurrentSession != nil || len(cleared.Messages) != 0 {
		t.Fatalf("expected empty state after clear, got %+v", cleared)
	}

	if err := m.ImportData(snapshot); err != nil {
		t.Fatalf("ImportData() error = %v", err)
	}

	st := m.State()
	if len(st.Sessions) != 1 {
		t.Fatalf("expected 1 session after import, got %d", len(st.Sessions))
	}
	if st.CurrentSession == nil {
		t.Fatal("expected import to reselect a session")
	}
	if len(st.Messages) != 2 {
		t.Errorf("expected 2 messages after import, got %d", len(st.Messages))
	}
	if st.Sessions[0].MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", st.Sessions[0].MessageCount)
	}
}

func TestSubscribe(t *testing.T) {
	m := newTestManager(t)

	var notifications []State
	unsubscribe := m.Subscribe(func(s State) {
		notifications = append(notifications, s)
	})

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}
	if len(notifications) == 0 {
		t.Fatal("expected notifications during CreateSession")
	}
	last := notifications[len(notifications)-1]
	if last.CurrentSession == nil {
		t.Error("final notification should carry the new active session")
	}

	seen := len(notifications)
	unsubscribe()
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	if len(notifications) != seen {
		t.Errorf("received %d notifications after unsubscribe", len(notifications)-seen)
	}
}

func TestStorageStats(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateSession(""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddMessage(MessageInput{Role: models.RoleUser, Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	stats, err := m.StorageStats()
	if err != nil {
		t.Fatalf("StorageStats() error = %v", err)
	}
	if stats.SessionCount != 1 || stats.MessageCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
