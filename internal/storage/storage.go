// Package storage defines snapshot persistence for the simulation core and
// hosts its backends: a JSON file for single-process runs, SQLite for local
// durability, and PostgreSQL (with optional pgvector mood indexing) for
// shared deployments.
package storage

import (
	"context"
	"errors"

	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrNoSnapshot is returned by Load when the backend holds no saved state.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotStore persists and restores the full manager state. Save replaces
// any previous snapshot; Load returns ErrNoSnapshot when nothing was saved.
type SnapshotStore interface {
	Save(ctx context.Context, snap *types.ManagerSnapshot) error
	Load(ctx context.Context) (*types.ManagerSnapshot, error)
}
