// Package persistence provides SQLite-based session storage so a bakery
// survives process restarts. The aggregate is stored whole as a JSON column;
// the event log is additionally appended to its own table for history
// queries beyond the in-memory tail.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-bakery/internal/bakery"
	"github.com/talgya/mini-bakery/internal/event"
)

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		day INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		emoji TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSession writes the full aggregate state for a session (single-row
// replace).
func (db *DB) SaveSession(id uuid.UUID, b *bakery.Bakery) error {
	state, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = db.conn.Exec(`INSERT INTO sessions (id, name, created_at, day, state_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, day = excluded.day, state_json = excluded.state_json`,
		id.String(), b.Name, time.Now().UTC().Format(time.RFC3339), b.Day, string(state),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// LoadSession restores a bakery from its stored state.
func (db *DB) LoadSession(id uuid.UUID) (*bakery.Bakery, error) {
	var state string
	if err := db.conn.Get(&state, "SELECT state_json FROM sessions WHERE id = ?", id.String()); err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var b bakery.Bakery
	if err := json.Unmarshal([]byte(state), &b); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if b.Log == nil {
		b.Log = &event.Log{}
	}
	return &b, nil
}

// LatestSessionID returns the most recently created session.
func (db *DB) LatestSessionID() (uuid.UUID, error) {
	var raw string
	if err := db.conn.Get(&raw, "SELECT id FROM sessions ORDER BY created_at DESC, id DESC LIMIT 1"); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

// AppendEvents appends events to the session's history.
func (db *DB) AppendEvents(id uuid.UUID, day int, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("marshal event data: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO events (session_id, day, type, message, emoji, data_json) VALUES (?, ?, ?, ?, ?, ?)",
			id.String(), day, string(e.Type), e.Message, e.Emoji, string(data),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the latest stored events for a session, oldest first.
func (db *DB) RecentEvents(id uuid.UUID, limit int) ([]event.Event, error) {
	type row struct {
		Type    string `db:"type"`
		Message string `db:"message"`
		Emoji   string `db:"emoji"`
		Data    string `db:"data_json"`
	}

	var rows []row
	err := db.conn.Select(&rows,
		`SELECT type, message, emoji, data_json FROM events
		 WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		id.String(), limit,
	)
	if err != nil {
		return nil, err
	}

	events := make([]event.Event, len(rows))
	for i, r := range rows {
		e := event.Event{Type: event.Type(r.Type), Message: r.Message, Emoji: r.Emoji}
		if err := json.Unmarshal([]byte(r.Data), &e.Data); err != nil {
			return nil, fmt.Errorf("unmarshal event data: %w", err)
		}
		events[len(rows)-1-i] = e
	}
	return events, nil
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// SaveGame performs a full save: the aggregate state plus any event-log
// entries not yet flushed.
func (db *DB) SaveGame(id uuid.UUID, b *bakery.Bakery) error {
	slog.Info("saving session", "session", id, "day", b.Day, "events", b.Log.Len())

	if err := db.AppendEvents(id, b.Day, b.Log.Unsaved()); err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	b.Log.MarkSaved()

	if err := db.SaveSession(id, b); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
