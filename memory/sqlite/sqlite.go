// Package sqlite provides a Memory backed by a SQLite database so that
// conversation history survives process restarts.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vishnudev-k/bee-agent-framework/backend"
	"github.com/vishnudev-k/bee-agent-framework/memory"
)

// Memory persists conversation history in a SQLite table keyed by session.
//
// Rows are loaded once at construction and kept in a write-through cache, so
// Messages never touches the database. Add writes the row before updating
// the cache; a failed insert leaves the cache unchanged.
type Memory struct {
	mu        sync.RWMutex
	db        *sql.DB
	sessionID string
	ownsDB    bool
	messages  []backend.Message
}

var _ memory.Memory = (*Memory)(nil)

// New creates a Memory on an existing database handle, initializing the
// schema and loading any stored history for the session. The caller keeps
// ownership of db and must import a SQLite driver such as "modernc.org/sqlite".
func New(db *sql.DB, sessionID string) (*Memory, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}

	m := &Memory{db: db, sessionID: sessionID}
	if err := m.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return m, nil
}

// Open opens (or creates) the SQLite database at path and returns a Memory
// for the session. Close releases the database handle.
func Open(path, sessionID string) (*Memory, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_journal=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	m, err := New(db, sessionID)
	if err != nil {
		db.Close()
		return nil, err
	}

	m.ownsDB = true
	return m, nil
}

func (m *Memory) initSchema() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);`,
	)
	return err
}

func (m *Memory) load() error {
	rows, err := m.db.Query(`
		SELECT role, text, created_at FROM messages
		WHERE session_id = ? ORDER BY id`,
		m.sessionID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	var messages []backend.Message
	for rows.Next() {
		var (
			role      string
			text      string
			createdAt int64
		)
		if err := rows.Scan(&role, &text, &createdAt); err != nil {
			return err
		}
		messages = append(messages, backend.Message{
			Role:      backend.Role(role),
			Text:      text,
			CreatedAt: time.UnixMilli(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	m.messages = messages
	return nil
}

// Add persists a message and appends it to the cached history.
func (m *Memory) Add(ctx context.Context, msg backend.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO messages (session_id, role, text, created_at)
		VALUES (?, ?, ?, ?)`,
		m.sessionID,
		string(msg.Role),
		msg.Text,
		msg.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of the cached history in insertion order.
func (m *Memory) Messages() []backend.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]backend.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Reset deletes the session's rows and clears the cache.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.db.Exec(`DELETE FROM messages WHERE session_id = ?`, m.sessionID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}

	m.messages = nil
	return nil
}

// Close releases the database handle if this Memory opened it.
func (m *Memory) Close() error {
	if !m.ownsDB {
		return nil
	}
	return m.db.Close()
}
