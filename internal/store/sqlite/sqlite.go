package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/podium-live/podium-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	nick       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordEvent appends one journal entry.
func (s *SQLiteStore) RecordEvent(ctx context.Context, ev store.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	query := `
		INSERT INTO events (id, nick, kind, detail)
		VALUES (?, ?, ?, ?)
	`
	if !ev.CreatedAt.IsZero() {
		query = `
		INSERT INTO events (id, nick, kind, detail, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
		if _, err := s.db.ExecContext(ctx, query, ev.ID, ev.Nick, string(ev.Kind), ev.Detail, ev.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		return nil
	}

	if _, err := s.db.ExecContext(ctx, query, ev.ID, ev.Nick, string(ev.Kind), ev.Detail); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns up to limit entries, most recent first.
func (s *SQLiteStore) ListEvents(ctx context.Context, limit int) ([]store.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, nick, kind, detail, created_at
		FROM events
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []store.Event
	for rows.Next() {
		var ev store.Event
		var kind string
		if err := rows.Scan(&ev.ID, &ev.Nick, &kind, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = store.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
