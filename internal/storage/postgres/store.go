// Package postgres provides the PostgreSQL snapshot store. When the pgvector
// extension is installed it additionally indexes each agent's latest emotion
// profile as a vector, enabling mood-similarity queries across agents.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/Sean220557/agentsim/internal/storage"
	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrVectorsUnavailable is returned by mood queries when the pgvector
// extension is not installed; snapshot persistence still works without it.
var ErrVectorsUnavailable = errors.New("pgvector extension not available")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key      TEXT PRIMARY KEY,
    payload  JSONB NOT NULL,
    saved_at TIMESTAMP NOT NULL
);
`

// moodSchema depends on the vector type and is only applied when pgvector is
// present. The dimension matches types.NumDimensions.
const moodSchema = `
CREATE TABLE IF NOT EXISTS agent_moods (
    agent_id   TEXT PRIMARY KEY,
    mood_vec   vector(19) NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const snapshotKey = "current"

// Store implements storage.SnapshotStore on PostgreSQL.
type Store struct {
	db                *sql.DB
	pgvectorAvailable bool
}

// Open connects, verifies the connection, and ensures the schema exists.
// pgvector support is feature-detected; its absence only disables mood
// vector indexing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: create schema: %w", err)
	}

	available := detectPgvector(db)
	if available {
		if _, err := db.Exec(moodSchema); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres: create mood schema: %w", err)
		}
	} else {
		log.Printf("postgres: pgvector extension not found, mood vector queries disabled")
	}

	return &Store{db: db, pgvectorAvailable: available}, nil
}

func detectPgvector(db *sql.DB) bool {
	var available bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'vector')`).Scan(&available)
	return err == nil && available
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// VectorsAvailable reports whether mood vector queries are supported.
func (s *Store) VectorsAvailable() bool {
	return s.pgvectorAvailable
}

// Save replaces the stored snapshot and, when pgvector is available, upserts
// each agent's latest emotion vector in the same transaction.
func (s *Store) Save(ctx context.Context, snap *types.ManagerSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("postgres: marshal snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, saved_at) VALUES ($1, $2, $3)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		snapshotKey, payload, now)
	if err != nil {
		return fmt.Errorf("postgres: save snapshot: %w", err)
	}

	if s.pgvectorAvailable {
		for agent, history := range snap.EmotionHistory {
			if len(history) == 0 {
				continue
			}
			latest := history[len(history)-1]
			_, err = tx.ExecContext(ctx, `
				INSERT INTO agent_moods (agent_id, mood_vec, updated_at) VALUES ($1, $2, $3)
				ON CONFLICT(agent_id) DO UPDATE SET mood_vec = excluded.mood_vec, updated_at = excluded.updated_at`,
				agent, moodVector(&latest), now)
			if err != nil {
				return fmt.Errorf("postgres: save mood vector for %q: %w", agent, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or storage.ErrNoSnapshot.
func (s *Store) Load(ctx context.Context) (*types.ManagerSnapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = $1`, snapshotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("postgres: %w", storage.ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}

	var snap types.ManagerSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("postgres: decode snapshot: %w", err)
	}
	return &snap, nil
}

// AgentMood is one row of a mood-similarity query.
type AgentMood struct {
	AgentID    string
	Similarity float64 // cosine similarity, 1 = identical mood
}

// NearestMoods returns the agents whose latest mood vector is closest to the
// given profile, most similar first.
func (s *Store) NearestMoods(ctx context.Context, profile *types.EmotionProfile, limit int) ([]AgentMood, error) {
	if !s.pgvectorAvailable {
		return nil, fmt.Errorf("postgres: %w", ErrVectorsUnavailable)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT agent_id, 1 - (mood_vec <=> $1) AS similarity
		FROM agent_moods
		ORDER BY mood_vec <=> $1
		LIMIT $2`,
		moodVector(profile), limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: mood query: %w", err)
	}
	defer rows.Close()

	var out []AgentMood
	for rows.Next() {
		var m AgentMood
		if err := rows.Scan(&m.AgentID, &m.Similarity); err != nil {
			return nil, fmt.Errorf("postgres: scan mood row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: mood rows: %w", err)
	}
	return out, nil
}

// moodVector packs a profile's dimensions into a pgvector value.
func moodVector(p *types.EmotionProfile) pgvector.Vector {
	dims := p.Dimensions()
	f32 := make([]float32, len(dims))
	for i, v := range dims {
		f32[i] = float32(v)
	}
	return pgvector.NewVector(f32)
}

var _ storage.SnapshotStore = (*Store)(nil)
