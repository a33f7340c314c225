// Package sqlite implements the session ledger and its derived-statistics
// storage on an embedded libsql database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/tursodatabase/go-libsql"

	"focustrack/internal/migrate"
)

// timeLayout is how session timestamps are stored. Local wall-clock time
// without an offset keeps SQLite's date() and strftime() on the user's
// calendar day instead of shifting day boundaries to UTC. The columns are
// declared TEXT so the driver returns the stored string unchanged instead
// of decoding it as a UTC time.Time.
const timeLayout = "2006-01-02 15:04:05"

// Store owns the database handle shared by the repositories. All writes
// are serialized through a single mutex since the embedded store tolerates
// one writer at a time.
type Store struct {
	mu    sync.Mutex
	path  string // empty for in-memory stores
	db    *sql.DB
	stale bool
}

// Open opens (or creates) the database file and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := open(cleanPath)
	if err != nil {
		return nil, err
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

// OpenInMemory opens a private in-memory database with the schema applied.
// Stale-connection recovery is disabled: reopening would drop the data.
func OpenInMemory(ctx context.Context) (*Store, error) {
	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open in-memory db: %w", err)
	}
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return db, nil
}

// handle returns the live database handle, re-establishing the connection
// first when a previous transaction failure marked it stale.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale && s.path != "" {
		_ = s.db.Close()
		db, err := open(s.path)
		if err != nil {
			return nil, fmt.Errorf("reopen database: %w", err)
		}
		s.db = db
	}
	s.stale = false
	return s.db, nil
}

// markStale flags the connection for re-establishment before the next
// operation. Called after a failed transaction so one bad connection does
// not poison the rest of the process.
func (s *Store) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// withTx runs fn inside a transaction, rolling back and marking the
// connection stale on failure.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		s.markStale()
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		s.markStale()
		return err
	}

	if err := tx.Commit(); err != nil {
		s.markStale()
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ClearAll deletes every session, daily stat and user stat and resets all
// achievement progress. Destructive; callers confirm before invoking.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM sessions`,
			`DELETE FROM daily_stats`,
			`DELETE FROM user_stats`,
			`UPDATE achievements SET unlocked = 0, unlocked_date = NULL, progress = 0`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("clear all: %w", err)
			}
		}
		return nil
	})
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
