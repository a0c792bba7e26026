package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sean220557/agentsim/pkg/types"
)

// JSONFileStore persists the snapshot as one pretty-printed JSON file, the
// same shape the original exports used. Writes go through a temp file and
// rename so a crash mid-write never leaves a truncated snapshot behind.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore returns a store writing to the given path. The parent
// directory is created on first save.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Save writes the snapshot atomically.
func (s *JSONFileStore) Save(ctx context.Context, snap *types.ManagerSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file; a missing file means ErrNoSnapshot.
func (s *JSONFileStore) Load(ctx context.Context) (*types.ManagerSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("storage: %w: %s", ErrNoSnapshot, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read snapshot: %w", err)
	}

	var snap types.ManagerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}

var _ SnapshotStore = (*JSONFileStore)(nil)
