// Package storage persists fetch snapshots and the per-pair price history in
// an embedded single-file SQLite database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrNotConfigured indicates no database path was supplied.
var ErrNotConfigured = errors.New("storage: database not configured")

// Store wraps the SQLite handle. Writes are serialized with a mutex; reads
// go straight to the database so exporters and the dashboard CLI can run
// while a cycle is persisting (WAL mode).
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// Open opens (or creates) the database file and runs migrations.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, ErrNotConfigured
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL keeps concurrent readers off the writer's back.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger.With().Str("component", "storage").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("history store opened")
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS currency_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     TEXT NOT NULL,
			snapshot_data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS currency_history (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			currency_pair  TEXT NOT NULL,
			price          REAL,
			percent_change REAL,
			timestamp      TEXT NOT NULL,
			UNIQUE(currency_pair, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_pair ON currency_history(currency_pair)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
