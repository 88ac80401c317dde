package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wsyeabsera/clear-ai-sub002/internal/core/models"
)

// timeFormat is the persisted representation of instants. A fixed
// format avoids the multi-format parsing dance SQLite DATETIME
// columns otherwise force on readers.
const timeFormat = time.RFC3339Nano

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at dbPath and
// initializes the schema.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open with WAL mode for concurrent reads
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{conn: conn}

	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Sessions table
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		last_message TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON sessions(timestamp);

	-- Messages table
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL,
		metadata TEXT,
		full_response TEXT,
		is_loading BOOLEAN NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id);
	CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages(user_id);
	CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);

	-- FTS5 table for full-text message search
	CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
		content,
		content=messages,
		tokenize='porter unicode61'
	);

	-- Triggers to keep FTS in sync
	CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
		INSERT INTO messages_fts(rowid, content) VALUES (new.rowid, new.content);
	END;

	CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
		INSERT INTO messages_fts(messages_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
	END;

	CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
		INSERT INTO messages_fts(messages_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
		INSERT INTO messages_fts(rowid, content) VALUES (new.rowid, new.content);
	END;
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// SaveSession upserts the session by id and stamps UpdatedAt.
func (s *SQLiteStore) SaveSession(session *models.Session) error {
	session.UpdatedAt = time.Now()
	_, err := s.conn.Exec(`
		INSERT INTO sessions (id, user_id, title, last_message, timestamp, message_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			title = excluded.title,
			last_message = excluded.last_message,
			timestamp = excluded.timestamp,
			message_count = excluded.message_count,
			updated_at = excluded.updated_at
	`, session.ID, session.UserID, session.Title, session.LastMessage,
		session.Timestamp.Format(timeFormat), session.MessageCount,
		session.CreatedAt.Format(timeFormat), session.UpdatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns nil, nil when the id is unknown.
func (s *SQLiteStore) GetSession(id string) (*models.Session, error) {
	row := s.conn.QueryRow(`
		SELECT id, user_id, title, last_message, timestamp, message_count, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetAllSessions returns the user's sessions, most recent activity first.
func (s *SQLiteStore) GetAllSessions(userID string) ([]models.Session, error) {
	rows, err := s.conn.Query(`
		SELECT id, user_id, title, last_message, timestamp, message_count, created_at, updated_at
		FROM sessions
		WHERE user_id = ?
		ORDER BY timestamp DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to get sessions: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes the session and its messages in one transaction.
func (s *SQLiteStore) DeleteSession(id string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SaveMessage upserts the message by id.
func (s *SQLiteStore) SaveMessage(message *models.Message) error {
	_, err := s.conn.Exec(`
		INSERT INTO messages (id, session_id, user_id, role, content, timestamp, metadata, full_response, is_loading, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			user_id = excluded.user_id,
			role = excluded.role,
			content = excluded.content,
			timestamp = excluded.timestamp,
			metadata = excluded.metadata,
			full_response = excluded.full_response,
			is_loading = excluded.is_loading,
			error = excluded.error
	`, message.ID, message.SessionID, message.UserID, string(message.Role),
		message.Content, message.Timestamp.Format(timeFormat),
		rawToNull(message.Metadata), rawToNull(message.FullResponse),
		message.IsLoading, message.Error)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// DeleteMessage removes a single message by id.
func (s *SQLiteStore) DeleteMessage(id string) error {
	if _, err := s.conn.Exec(`DELETE FROM messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// GetMessagesForSession returns the session's messages oldest first.
func (s *SQLiteStore) GetMessagesForSession(sessionID string) ([]models.Message, error) {
	rows, err := s.conn.Query(`
		SELECT id, session_id, user_id, role, content, timestamp, metadata, full_response, is_loading, error
		FROM messages
		WHERE session_id = ?
		ORDER BY timestamp ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// GetAllMessages returns every message owned by the user.
func (s *SQLiteStore) GetAllMessages(userID string) ([]models.Message, error) {
	rows, err := s.conn.Query(`
		SELECT id, session_id, user_id, role, content, timestamp, metadata, full_response, is_loading, error
		FROM messages
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// SearchMessages runs a full-text query over the user's messages,
// most recent first.
func (s *SQLiteStore) SearchMessages(userID, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.Query(`
		SELECT m.id, m.session_id, m.user_id, m.role, m.content, m.timestamp,
		       m.metadata, m.full_response, m.is_loading, m.error,
		       COALESCE(s.title, '')
		FROM messages_fts f
		JOIN messages m ON m.rowid = f.rowid
		LEFT JOIN sessions s ON s.id = m.session_id
		WHERE messages_fts MATCH ? AND m.user_id = ?
		ORDER BY m.timestamp DESC
		LIMIT ?
	`, ftsQuery(query), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			m        models.Message
			role     string
			ts       string
			metadata sql.NullString
			fullResp sql.NullString
			title    string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &role, &m.Content, &ts,
			&metadata, &fullResp, &m.IsLoading, &m.Error, &title); err != nil {
			return nil, fmt.Errorf("failed to search messages: %w", err)
		}
		m.Role = models.Role(role)
		m.Timestamp = parseTime(ts)
		m.Metadata = nullToRaw(metadata)
		m.FullResponse = nullToRaw(fullResp)
		results = append(results, SearchResult{Message: m, SessionTitle: title})
	}
	return results, rows.Err()
}

// ftsQuery quotes each term so user input with FTS operators cannot
// break the MATCH expression.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Export returns a snapshot of the user's sessions and messages.
func (s *SQLiteStore) Export(userID string) (*models.Snapshot, error) {
	sessions, err := s.GetAllSessions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}
	messages, err := s.GetAllMessages(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}
	return &models.Snapshot{Sessions: sessions, Messages: messages}, nil
}

// Import replaces the user's data with the snapshot in one transaction.
// Ownership on every incoming row is rewritten to userID; the whole
// import fails if any row is malformed, leaving existing data intact.
func (s *SQLiteStore) Import(snapshot *models.Snapshot, userID string) error {
	if snapshot == nil {
		return fmt.Errorf("failed to import data: snapshot is nil")
	}

	// Rewrite ownership before validation so rows exported by another
	// user still import cleanly.
	for i := range snapshot.Sessions {
		snapshot.Sessions[i].UserID = userID
	}
	for i := range snapshot.Messages {
		snapshot.Messages[i].UserID = userID
	}
	if err := validateSnapshot(snapshot); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	defer tx.Rollback()

	if err := clearUserDataTx(tx, userID); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	for i := range snapshot.Sessions {
		sess := &snapshot.Sessions[i]
		if _, err := tx.Exec(`
			INSERT INTO sessions (id, user_id, title, last_message, timestamp, message_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				user_id = excluded.user_id,
				title = excluded.title,
				last_message = excluded.last_message,
				timestamp = excluded.timestamp,
				message_count = excluded.message_count,
				updated_at = excluded.updated_at
		`, sess.ID, sess.UserID, sess.Title, sess.LastMessage,
			sess.Timestamp.Format(timeFormat), sess.MessageCount,
			sess.CreatedAt.Format(timeFormat), sess.UpdatedAt.Format(timeFormat)); err != nil {
			return fmt.Errorf("failed to import session %s: %w", sess.ID, err)
		}
	}

	for i := range snapshot.Messages {
		msg := &snapshot.Messages[i]
		if _, err := tx.Exec(`
			INSERT INTO messages (id, session_id, user_id, role, content, timestamp, metadata, full_response, is_loading, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				session_id = excluded.session_id,
				user_id = excluded.user_id,
				role = excluded.role,
				content = excluded.content,
				timestamp = excluded.timestamp,
				metadata = excluded.metadata,
				full_response = excluded.full_response,
				is_loading = excluded.is_loading,
				error = excluded.error
		`, msg.ID, msg.SessionID, msg.UserID, string(msg.Role), msg.Content,
			msg.Timestamp.Format(timeFormat), rawToNull(msg.Metadata),
			rawToNull(msg.FullResponse), msg.IsLoading, msg.Error); err != nil {
			return fmt.Errorf("failed to import message %s: %w", msg.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	return nil
}

// ClearUserData deletes every session and message owned by userID.
func (s *SQLiteStore) ClearUserData(userID string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to clear user data: %w", err)
	}
	defer tx.Rollback()

	if err := clearUserDataTx(tx, userID); err != nil {
		return fmt.Errorf("failed to clear user data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to clear user data: %w", err)
	}
	return nil
}

func clearUserDataTx(tx *sql.Tx, userID string) error {
	if _, err := tx.Exec(`DELETE FROM messages WHERE user_id = ?`, userID); err != nil {
		return err
	}
	_, err := tx.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// ClearAllData deletes every session and message regardless of owner.
func (s *SQLiteStore) ClearAllData() error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	return nil
}

// Stats returns counts and the approximate serialized size of the
// user's data.
func (s *SQLiteStore) Stats(userID string) (*Stats, error) {
	stats := &Stats{}

	err := s.conn.QueryRow(`SELECT COUNT(*) FROM sessions WHERE user_id = ?`, userID).Scan(&stats.SessionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM messages WHERE user_id = ?`, userID).Scan(&stats.MessageCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	snapshot, err := s.Export(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute storage size: %w", err)
	}
	data, err := marshalSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to compute storage size: %w", err)
	}
	stats.TotalBytes = int64(len(data))

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s                        models.Session
		ts, createdAt, updatedAt string
	)
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.LastMessage, &ts, &s.MessageCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	s.Timestamp = parseTime(ts)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

func collectMessages(rows *sql.Rows) ([]models.Message, error) {
	var messages []models.Message
	for rows.Next() {
		var (
			m        models.Message
			role     string
			ts       string
			metadata sql.NullString
			fullResp sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &role, &m.Content, &ts,
			&metadata, &fullResp, &m.IsLoading, &m.Error); err != nil {
			return nil, fmt.Errorf("failed to get messages: %w", err)
		}
		m.Role = models.Role(role)
		m.Timestamp = parseTime(ts)
		m.Metadata = nullToRaw(metadata)
		m.FullResponse = nullToRaw(fullResp)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		// Older rows may carry second precision
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

func rawToNull(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nullToRaw(ns sql.NullString) []byte {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return []byte(ns.String)
}
