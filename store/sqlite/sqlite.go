/*
Package sqlite provides the SQLite-backed request audit journal.

PURPOSE:
  The computation pipeline itself is stateless; the only thing the
  service persists is operational telemetry - one row per completed
  HTTP request. The performance endpoints read this journal back.

KEY TABLE:
  request_audit: append-only record of method, path, status and
  duration per request.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements exist for request_audit; the journal
  is insert-and-read only.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so the read path
  (performance history) never blocks the write path (middleware).

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - api/middleware.go: writes one entry per request
  - api/performance.go: reads the journal back
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed audit journal.
type Store struct {
	db *sql.DB
}

// AuditEntry is one completed request.
type AuditEntry struct {
	ID         string
	Method     string
	Path       string
	Status     int
	DurationMs float64
	CreatedAt  time.Time
}

// New creates a new audit store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases from fragmenting
	// across the pool and serializes writers.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS request_audit (
		id          TEXT PRIMARY KEY,
		method      TEXT NOT NULL,
		path        TEXT NOT NULL,
		status      INTEGER NOT NULL,
		duration_ms REAL NOT NULL,
		created_at  TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_request_audit_created_at
		ON request_audit(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRequest appends one entry to the journal. A missing ID is
// assigned; a missing CreatedAt defaults to now.
func (s *Store) RecordRequest(ctx context.Context, e AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_audit (id, method, path, status, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Method, e.Path, e.Status, e.DurationMs, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// RecentRequests returns the most recent entries, newest first.
func (s *Store) RecentRequests(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, method, path, status, duration_ms, created_at
		FROM request_audit
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query request audit: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Method, &e.Path, &e.Status, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
