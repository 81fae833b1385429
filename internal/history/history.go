// Package history keeps a SQLite ledger of release applications so that
// maintainers can see which releases made it into the catalog, which were
// rejected, and why.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS applications (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL,
    tag         TEXT NOT NULL,
    extension   TEXT NOT NULL,
    version     TEXT NOT NULL DEFAULT '',
    outcome     TEXT NOT NULL,
    error_kind  TEXT NOT NULL DEFAULT '',
    message     TEXT NOT NULL DEFAULT '',
    recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS applications_extension ON applications(extension);
`

// Outcome values.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
)

// Entry is one attempted release application.
type Entry struct {
	RunID      string
	Tag        string
	Extension  string
	Version    string
	Outcome    string
	ErrorKind  string
	Message    string
	RecordedAt time.Time
}

// Store is a SQLite-backed ledger.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// NewRunID returns an identifier grouping the entries of one update run.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry. A zero RecordedAt is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications
		(run_id, tag, extension, version, outcome, error_kind, message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Tag, e.Extension, e.Version, e.Outcome, e.ErrorKind, e.Message,
		e.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Tag, err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit <= 0 returns all.
// When extension is non-empty only that extension's entries are returned.
func (s *Store) List(ctx context.Context, extension string, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT run_id, tag, extension, version, outcome, error_kind, message, recorded_at
		FROM applications`
	var args []interface{}
	if extension != "" {
		query += ` WHERE extension = ?`
		args = append(args, extension)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt string
		if err := rows.Scan(&e.RunID, &e.Tag, &e.Extension, &e.Version, &e.Outcome,
			&e.ErrorKind, &e.Message, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.RecordedAt, _ = time.Parse(time.RFC3339Nano, recordedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
