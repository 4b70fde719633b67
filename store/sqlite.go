package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
);
`

// SQLiteStore keeps each collection as a single JSON blob in a local SQLite
// database, with quota accounting over the total payload size.
type SQLiteStore struct {
	db    *sql.DB
	quota int64
}

// Open initializes or connects to the database at path. quota bounds the
// combined size in bytes of all stored payloads.
func Open(path string, quota int64) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db, quota: quota}, nil
}

// Load returns the payload stored under key.
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM collections WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	return value, nil
}

// Save replaces the payload under key, rejecting the write with
// ErrCapacityExceeded if it would take the store over its quota.
func (s *SQLiteStore) Save(ctx context.Context, key string, payload []byte) error {
	var others int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(value)), 0) FROM collections WHERE key != ?`, key).Scan(&others)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if others+int64(len(payload)) > s.quota {
		return ErrCapacityExceeded
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, payload)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
