package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// MemoryStore is an in-memory Store used in tests and anywhere a
// throwaway backend is useful. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	messages map[string]models.Message
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
		messages: make(map[string]models.Message),
	}
}

func (m *MemoryStore) SaveSession(session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.UpdatedAt = time.Now()
	m.sessions[session.ID] = *session
	return nil
}

func (m *MemoryStore) GetSession(id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (m *MemoryStore) GetAllSessions(userID string) ([]models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sessions []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})
	return sessions, nil
}

func (m *MemoryStore) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	for msgID, msg := range m.messages {
		if msg.SessionID == id {
			delete(m.messages, msgID)
		}
	}
	return nil
}

func (m *MemoryStore) SaveMessage(message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[message.ID] = *message
	return nil
}

func (m *MemoryStore) DeleteMessage(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, id)
	return nil
}

func (m *MemoryStore) GetMessagesForSession(sessionID string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var messages []models.Message
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (m *MemoryStore) GetAllMessages(userID string) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var messages []models.Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (m *MemoryStore) SearchMessages(userID, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(query)
	var results []SearchResult
	for _, msg := range m.messages {
		if msg.UserID != userID || !strings.Contains(strings.ToLower(msg.Content), needle) {
			continue
		}
		var title string
		if s, ok := m.sessions[msg.SessionID]; ok {
			title = s.Title
		}
		results = append(results, SearchResult{Message: msg, SessionTitle: title})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Message.Timestamp.After(results[j].Message.Timestamp)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MemoryStore) Export(userID string) (*models.Snapshot, error) {
	sessions, err := m.GetAllSessions(userID)
	if err != nil {
		return nil, err
	}
	messages, err := m.GetAllMessages(userID)
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Sessions: sessions, Messages: messages}, nil
}

func (m *MemoryStore) Import(snapshot *models.Snapshot, userID string) error {
	if snapshot == nil {
		return fmt.Errorf("failed to import data: snapshot is nil")
	}
	for i := range snapshot.Sessions {
		snapshot.Sessions[i].UserID = userID
	}
	for i := range snapshot.Messages {
		snapshot.Messages[i].UserID = userID
	}
	if err := validateSnapshot(snapshot); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearUserLocked(userID)
	for _, s := range snapshot.Sessions {
		m.sessions[s.ID] = s
	}
	for _, msg := range snapshot.Messages {
		m.messages[msg.ID] = msg
	}
	return nil
}

func (m *MemoryStore) ClearUserData(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearUserLocked(userID)
	return nil
}

func (m *MemoryStore) clearUserLocked(userID string) {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	for id, msg := range m.messages {
		if msg.UserID == userID {
			delete(m.messages, id)
		}
	}
}

func (m *MemoryStore) ClearAllData() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]models.Session)
	m.messages = make(map[string]models.Message)
	return nil
}

func (m *MemoryStore) Stats(userID string) (*Stats, error) {
	snapshot, err := m.Export(userID)
	if err != nil {
		return nil, err
	}
	data, err := marshalSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to compute storage size: %w", err)
	}
	return &Stats{
		SessionCount: len(snapshot.Sessions),
		MessageCount: len(snapshot.Messages),
		TotalBytes:   int64(len(data)),
	}, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
