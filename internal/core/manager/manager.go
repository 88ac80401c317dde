// Package manager coordinates the conversation store with an
// in-memory, observable projection of one user's sessions. Every
// successful mutation updates the cached view and notifies
// subscribers with a fresh state snapshot.
package manager

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/store"
)

var (
	// ErrNoActiveSession is returned by AddMessage when no session is
	// selected.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionNotFound is returned when a session id is absent from
	// the cached sessions list.
	ErrSessionNotFound = errors.New("session not found")
	// ErrMessageNotFound is returned when a message id is absent from
	// the active session's cached messages.
	ErrMessageNotFound = errors.New("message not found")
)

// Title and preview lengths derived by AddMessage.
const (
	titlePreviewLen = 50
	lastMessageLen  = 100
)

// State is the snapshot handed to subscribers. Slices and the current
// session are copies; mutating them does not affect the manager.
type State struct {
	Sessions       []models.Session
	CurrentSession *models.Session
	Messages       []models.Message
	IsLoading      bool
	Error          string
}

// Ready reports whether the manager is idle with no recorded error.
func (s State) Ready() bool {
	return !s.IsLoading && s.Error == ""
}

// Subscriber receives a state snapshot after every mutation.
type Subscriber func(State)

// Manager mediates between callers and the Store for a single user.
// The durable store owns the data; the manager owns only a cached
// projection reloaded on demand.
type Manager struct {
	store  store.Store
	userID string

	mu        sync.Mutex
	sessions  []models.Session
	current   *models.Session
	messages  []models.Message
	isLoading bool
	lastError string

	subs    map[int]Subscriber
	nextSub int
}

// New creates a manager for userID backed by the given store.
func New(s store.Store, userID string) *Manager {
	return &Manager{
		store:  s,
		userID: userID,
		subs:   make(map[int]Subscriber),
	}
}

// UserID returns the owning user id the manager is scoped to.
func (m *Manager) UserID() string {
	return m.userID
}

// Subscribe registers fn to be called synchronously with a state
// snapshot after every mutation. The returned function unsubscribes.
func (m *Manager) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// State returns the current snapshot without waiting for a
// notification.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	st := State{
		Sessions:  append([]models.Session(nil), m.sessions...),
		Messages:  append([]models.Message(nil), m.messages...),
		IsLoading: m.isLoading,
		Error:     m.lastError,
	}
	if m.current != nil {
		cur := *m.current
		st.CurrentSession = &cur
	}
	return st
}

// mutate runs fn with the lock held, then notifies every subscriber
// with the resulting snapshot. Subscribers run outside the lock so
// they may call back into the manager.
func (m *Manager) mutate(fn func()) {
	m.mu.Lock()
	fn()
	snap := m.snapshotLocked()
	subs := make([]Subscriber, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
}

func (m *Manager) setLoading() {
	m.mutate(func() {
		m.isLoading = true
		m.lastError = ""
	})
}

// fail records the error in the observable state and returns it
// wrapped for the immediate caller.
func (m *Manager) fail(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	m.mutate(func() {
		m.isLoading = false
		m.lastError = wrapped.Error()
	})
	return wrapped
}

// Initialize loads the user's sessions and, when none is active,
// selects the most recent one. Idempotent: re-invoking simply reloads.
func (m *Manager) Initialize() error {
	m.setLoading()

	sessions, err := m.store.GetAllSessions(m.userID)
	if err != nil {
		return m.fail("failed to initialize", err)
	}

	// Decide which session stays active before touching state.
	m.mu.Lock()
	var selected *models.Session
	if m.current != nil {
		for i := range sessions {
			if sessions[i].ID == m.current.ID {
				selected = &sessions[i]
				break
			}
		}
	}
	if selected == nil && len(sessions) > 0 {
		selected = &sessions[0]
	}
	m.mu.Unlock()

	var messages []models.Message
	if selected != nil {
		messages, err = m.store.GetMessagesForSession(selected.ID)
		if err != nil {
			return m.fail("failed to initialize", err)
		}
	}

	m.mutate(func() {
		m.sessions = sessions
		if selected != nil {
			cur := *selected
			m.current = &cur
		} else {
			m.current = nil
		}
		m.messages = messages
		m.isLoading = false
	})
	return nil
}

// CreateSession persists a new session, makes it active, and clears
// the message view. An empty title falls back to "New Chat".
func (m *Manager) CreateSession(title string) (*models.Session, error) {
	m.setLoading()

	session := models.NewSession(m.userID, title)
	if err := m.store.SaveSession(session); err != nil {
		return nil, m.fail("failed to create session", err)
	}

	m.mutate(func() {
		m.sessions = append([]models.Session{*session}, m.sessions...)
		cur := *session
		m.current = &cur
		m.messages = nil
		m.isLoading = false
	})

	created := *session
	return &created, nil
}

// SelectSession makes the session with the given id active and loads
// its messages. The cached sessions list is authoritative for the
// existence check; no store round-trip happens for unknown ids.
func (m *Manager) SelectSession(id string) error {
	m.mu.Lock()
	session := m.findSessionLocked(id)
	m.mu.Unlock()
	if session == nil {
		return m.fail("failed to select session", fmt.Errorf("%w: %s", ErrSessionNotFound, id))
	}

	m.setLoading()

	messages, err := m.store.GetMessagesForSession(id)
	if err != nil {
		return m.fail("failed to select session", err)
	}

	m.mutate(func() {
		m.current = session
		m.messages = messages
		m.isLoading = false
	})
	return nil
}

// findSessionLocked returns a copy of the cached session or nil.
func (m *Manager) findSessionLocked(id string) *models.Session {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			s := m.sessions[i]
			return &s
		}
	}
	return nil
}

// SessionUpdate carries the mutable session fields. Nil pointers leave
// the field untouched.
type SessionUpdate struct {
	Title        *string
	LastMessage  *string
	MessageCount *int
}

// UpdateSession merges the update into the cached session, persists
// it, and refreshes the cached list entry (and active reference when
// it is the active session).
func (m *Manager) UpdateSession(id string, update SessionUpdate) error {
	m.mu.Lock()
	session := m.findSessionLocked(id)
	m.mu.Unlock()
	if session == nil {
		return m.fail("failed to update session", fmt.Errorf("%w: %s", ErrSessionNotFound, id))
	}

	if update.Title != nil {
		session.Title = *update.Title
	}
	if update.LastMessage != nil {
		session.LastMessage = *update.LastMessage
	}
	if update.MessageCount != nil {
		session.MessageCount = *update.MessageCount
	}

	if err := m.store.SaveSession(session); err != nil {
		return m.fail("failed to update session", err)
	}

	m.mutate(func() {
		m.replaceSessionLocked(*session)
	})
	return nil
}

// replaceSessionLocked swaps the cached list entry and active
// reference for an updated session.
func (m *Manager) replaceSessionLocked(session models.Session) {
	for i := range m.sessions {
		if m.sessions[i].ID == session.ID {
			m.sessions[i] = session
			break
		}
	}
	if m.current != nil && m.current.ID == session.ID {
		cur := session
		m.current = &cur
	}
}

// DeleteSession cascades the delete through the store. When the
// deleted session was active the next most recent one is selected;
// when none remain a fresh "New Chat" session is created so there is
// always an active session to type into.
func (m *Manager) DeleteSession(id string) error {
	m.mu.Lock()
	session := m.findSessionLocked(id)
	wasActive := m.current != nil && m.current.ID == id
	m.mu.Unlock()
	if session == nil {
		return m.fail("failed to delete session", fmt.Errorf("%w: %s", ErrSessionNotFound, id))
	}

	m.setLoading()

	if err := m.store.DeleteSession(id); err != nil {
		return m.fail("failed to delete session", err)
	}

	m.mu.Lock()
	remaining := make([]models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.ID != id {
			remaining = append(remaining, s)
		}
	}
	m.sessions = remaining
	m.mu.Unlock()

	if !wasActive {
		m.mutate(func() { m.isLoading = false })
		return nil
	}

	if len(remaining) > 0 {
		next := remaining[0]
		messages, err := m.store.GetMessagesForSession(next.ID)
		if err != nil {
			return m.fail("failed to delete session", err)
		}
		m.mutate(func() {
			cur := next
			m.current = &cur
			m.messages = messages
			m.isLoading = false
		})
		return nil
	}

	m.mutate(func() {
		m.current = nil
		m.messages = nil
	})
	if _, err := m.CreateSession(""); err != nil {
		return err
	}
	return nil
}

// MessageInput carries the caller-supplied fields for a new message.
// Identity, timestamps, and ownership are generated by AddMessage.
type MessageInput struct {
	Role         models.Role
	Content      string
	Metadata     []byte
	FullResponse []byte
	IsLoading    bool
	Error        string
}

// AddMessage appends a message to the active session and derives the
// session metadata: the first user message becomes the title, every
// assistant message refreshes the preview, and the count and activity
// timestamp always advance. Returns the created message so callers
// can later resolve a loading placeholder.
func (m *Manager) AddMessage(input MessageInput) (*models.Message, error) {
	m.mu.Lock()
	var current *models.Session
	if m.current != nil {
		cur := *m.current
		current = &cur
	}
	m.mu.Unlock()
	if current == nil {
		return nil, m.fail("failed to add message", ErrNoActiveSession)
	}

	now := time.Now()
	message := &models.Message{
		ID:           models.NewMessageID(),
		SessionID:    current.ID,
		UserID:       m.userID,
		Role:         input.Role,
		Content:      input.Content,
		Timestamp:    now,
		Metadata:     input.Metadata,
		FullResponse: input.FullResponse,
		IsLoading:    input.IsLoading,
		Error:        input.Error,
	}
	if err := m.store.SaveMessage(message); err != nil {
		return nil, m.fail("failed to add message", err)
	}

	// Derive session metadata from the appended message.
	if current.MessageCount == 0 && input.Role == models.RoleUser {
		current.Title = models.Truncate(input.Content, titlePreviewLen)
	}
	if input.Role == models.RoleAssistant {
		current.LastMessage = models.Truncate(input.Content, lastMessageLen)
	}
	current.MessageCount++
	current.Timestamp = now

	if err := m.store.SaveSession(current); err != nil {
		return nil, m.fail("failed to add message", err)
	}

	m.mutate(func() {
		m.messages = append(m.messages, *message)
		m.promoteSessionLocked(*current)
	})

	created := *message
	return &created, nil
}

// promoteSessionLocked replaces the cached entry and moves the session
// to the front so the most-recent-activity ordering holds.
func (m *Manager) promoteSessionLocked(session models.Session) {
	rest := make([]models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.ID != session.ID {
			rest = append(rest, s)
		}
	}
	m.sessions = append([]models.Session{session}, rest...)
	if m.current != nil && m.current.ID == session.ID {
		cur := session
		m.current = &cur
	}
}

// MessageUpdate carries the mutable message fields. Nil pointers leave
// the field untouched; Metadata and FullResponse replace when non-nil.
type MessageUpdate struct {
	Content      *string
	Metadata     []byte
	FullResponse []byte
	IsLoading    *bool
	Error        *string
}

// UpdateMessage merges the update into a cached message and persists
// it. Titles never change here; the session preview is refreshed only
// when an assistant message's content changes, so resolving a loading
// placeholder leaves the preview consistent with what is shown.
func (m *Manager) UpdateMessage(id string, update MessageUpdate) error {
	m.mu.Lock()
	var message *models.Message
	for i := range m.messages {
		if m.messages[i].ID == id {
			msg := m.messages[i]
			message = &msg
			break
		}
	}
	m.mu.Unlock()
	if message == nil {
		return m.fail("failed to update message", fmt.Errorf("%w: %s", ErrMessageNotFound, id))
	}

	if update.Content != nil {
		message.Content = *update.Content
	}
	if update.Metadata != nil {
		message.Metadata = update.Metadata
	}
	if update.FullResponse != nil {
		message.FullResponse = update.FullResponse
	}
	if update.IsLoading != nil {
		message.IsLoading = *update.IsLoading
	}
	if update.Error != nil {
		message.Error = *update.Error
	}

	if err := m.store.SaveMessage(message); err != nil {
		return m.fail("failed to update message", err)
	}

	var updatedSession *models.Session
	if message.Role == models.RoleAssistant && update.Content != nil {
		m.mu.Lock()
		if m.current != nil && m.current.ID == message.SessionID {
			cur := *m.current
			cur.LastMessage = models.Truncate(message.Content, lastMessageLen)
			updatedSession = &cur
		}
		m.mu.Unlock()
		if updatedSession != nil {
			if err := m.store.SaveSession(updatedSession); err != nil {
				return m.fail("failed to update message", err)
			}
		}
	}

	m.mutate(func() {
		for i := range m.messages {
			if m.messages[i].ID == id {
				m.messages[i] = *message
				break
			}
		}
		if updatedSession != nil {
			m.replaceSessionLocked(*updatedSession)
		}
	})
	return nil
}

// DeleteMessage removes a message durably and from the cache, and
// decrements the active session's message count (floored at zero).
func (m *Manager) DeleteMessage(id string) error {
	m.mu.Lock()
	found := false
	for i := range m.messages {
		if m.messages[i].ID == id {
			found = true
			break
		}
	}
	var current *models.Session
	if m.current != nil {
		cur := *m.current
		current = &cur
	}
	m.mu.Unlock()
	if !found {
		return m.fail("failed to delete message", fmt.Errorf("%w: %s", ErrMessageNotFound, id))
	}

	if err := m.store.DeleteMessage(id); err != nil {
		return m.fail("failed to delete message", err)
	}

	if current != nil {
		if current.MessageCount > 0 {
			current.MessageCount--
		}
		if err := m.store.SaveSession(current); err != nil {
			return m.fail("failed to delete message", err)
		}
	}

	m.mutate(func() {
		kept := make([]models.Message, 0, len(m.messages))
		for _, msg := range m.messages {
			if msg.ID != id {
				kept = append(kept, msg)
			}
		}
		m.messages = kept
		if current != nil {
			m.replaceSessionLocked(*current)
		}
	})
	return nil
}

// ClearAllData wipes the user's durable data and resets the in-memory
// view to empty.
func (m *Manager) ClearAllData() error {
	m.setLoading()

	if err := m.store.ClearUserData(m.userID); err != nil {
		return m.fail("failed to clear data", err)
	}

	m.mutate(func() {
		m.sessions = nil
		m.current = nil
		m.messages = nil
		m.isLoading = false
	})
	return nil
}

// ExportData returns a snapshot of the user's sessions and messages.
func (m *Manager) ExportData() (*models.Snapshot, error) {
	snapshot, err := m.store.Export(m.userID)
	if err != nil {
		return nil, m.fail("failed to export data", err)
	}
	return snapshot, nil
}

// ImportData replaces the user's durable data with the snapshot and
// reloads the in-memory projection.
func (m *Manager) ImportData(snapshot *models.Snapshot) error {
	m.setLoading()

	if err := m.store.Import(snapshot, m.userID); err != nil {
		return m.fail("failed to import data", err)
	}

	// The active session may no longer exist; let Initialize reselect.
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	return m.Initialize()
}

// StorageStats reports counts and approximate serialized size for the
// user's data.
func (m *Manager) StorageStats() (*store.Stats, error) {
	stats, err := m.store.Stats(m.userID)
	if err != nil {
		return nil, m.fail("failed to get storage stats", err)
	}
	return stats, nil
}
