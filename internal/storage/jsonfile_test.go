package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sean220557/agentsim/pkg/types"
)

func sampleSnapshot() *types.ManagerSnapshot {
	mood := types.EmotionProfile{Valence: 0.5, Joy: 0.6, Context: "good day",
		Timestamp: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	mood.Normalize()

	return &types.ManagerSnapshot{
		Graph: types.GraphSnapshot{
			Agents: []string{"alice", "bob"},
			Relations: map[string]map[string]types.DirectedRelation{
				"alice": {
					"bob": {
						FromAgent: "alice", ToAgent: "bob",
						Trust: 0.8, Respect: 0.6, Affection: 0.4, Dependency: 0.2,
						Intimacy: 0.59, RelationType: "friend",
						PositiveInteractions: 3, InteractionCount: 3,
						LastUpdateTime: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
					},
				},
			},
		},
		EmotionHistory: map[string][]types.EmotionProfile{
			"alice": {mood},
		},
	}
}

func TestJSONFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshot.json")
	store := NewJSONFileStore(path)
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Graph.Agents, got.Graph.Agents)
	assert.Equal(t, want.Graph.Relations["alice"]["bob"].Trust, got.Graph.Relations["alice"]["bob"].Trust)
	assert.Len(t, got.EmotionHistory["alice"], 1)
	assert.InDelta(t, 0.5, got.EmotionHistory["alice"][0].Valence, 1e-9)
}

func TestJSONFileStore_LoadMissing(t *testing.T) {
	store := NewJSONFileStore(filepath.Join(t.TempDir(), "nope.json"))
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestJSONFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := NewJSONFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	second := sampleSnapshot()
	second.Graph.Agents = append(second.Graph.Agents, "carol")
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, got.Graph.Agents)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}
