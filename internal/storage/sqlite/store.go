// Package sqlite provides the SQLite snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Sean220557/agentsim/internal/storage"
	"github.com/Sean220557/agentsim/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    saved_at   TIMESTAMP NOT NULL
);
`

// The store keeps exactly one current snapshot under a fixed key; Save
// overwrites it.
const snapshotKey = "current"

// Store implements storage.SnapshotStore on a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and ensures the schema exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	// SQLite supports one concurrent writer; a single connection serialises
	// writes and avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, snap *types.ManagerSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sqlite: marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		snapshotKey, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sqlite: save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or storage.ErrNoSnapshot when none was
// ever saved.
func (s *Store) Load(ctx context.Context) (*types.ManagerSnapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = ?`, snapshotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: %w", storage.ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load snapshot: %w", err)
	}

	var snap types.ManagerSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("sqlite: decode snapshot: %w", err)
	}
	return &snap, nil
}

var _ storage.SnapshotStore = (*Store)(nil)
