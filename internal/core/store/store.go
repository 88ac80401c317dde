// Package store defines the durable persistence boundary for
// conversation data. The Store port is injected into the session
// manager so callers can swap the SQLite engine for the in-memory
// implementation in tests.
package store

import (
	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// Stats summarizes a user's stored conversation data. TotalBytes is
// the length of the pretty-printed JSON export, an approximation of
// storage usage rather than exact engine accounting.
type Stats struct {
	SessionCount int   `json:"sessionCount"`
	MessageCount int   `json:"messageCount"`
	TotalBytes   int64 `json:"totalStorageSize"`
}

// SearchResult is a single message match from SearchMessages.
type SearchResult struct {
	Message      models.Message
	SessionTitle string
}

// Store is the durable persistence port for sessions and messages.
// Collections are scoped by owning-user id; deleting a session
// cascades to its messages atomically.
type Store interface {
	// SaveSession upserts by id and stamps UpdatedAt.
	SaveSession(session *models.Session) error
	// GetSession returns nil, nil when the id is unknown.
	GetSession(id string) (*models.Session, error)
	// GetAllSessions returns the user's sessions sorted by last
	// activity, most recent first.
	GetAllSessions(userID string) ([]models.Session, error)
	// DeleteSession removes the session and all of its messages in a
	// single transaction. No partial-cascade state is observable.
	DeleteSession(id string) error

	// SaveMessage upserts by id.
	SaveMessage(message *models.Message) error
	// DeleteMessage removes a single message by id.
	DeleteMessage(id string) error
	// GetMessagesForSession returns the session's messages sorted by
	// creation time ascending.
	GetMessagesForSession(sessionID string) ([]models.Message, error)
	// GetAllMessages returns every message owned by the user, in no
	// guaranteed order.
	GetAllMessages(userID string) ([]models.Message, error)

	// SearchMessages returns messages owned by the user whose content
	// matches query, most recent first.
	SearchMessages(userID, query string, limit int) ([]SearchResult, error)

	// Export returns a snapshot of the user's sessions and messages.
	Export(userID string) (*models.Snapshot, error)
	// Import validates the snapshot, then clears the user's existing
	// data, rewrites ownership on every incoming row, and persists the
	// whole snapshot in a single transaction. A failed import leaves
	// the user's previous data intact.
	Import(snapshot *models.Snapshot, userID string) error

	// ClearUserData deletes every session and message owned by userID.
	ClearUserData(userID string) error
	// ClearAllData deletes every session and message regardless of
	// owner.
	ClearAllData() error

	Stats(userID string) (*Stats, error)

	Close() error
}

// ExportBytes renders a snapshot the way Export files are written:
// pretty-printed JSON. Stats implementations use it to size a user's
// data.
func ExportBytes(snapshot *models.Snapshot) ([]byte, error) {
	return marshalSnapshot(snapshot)
}
