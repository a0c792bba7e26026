package main

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sean220557/agentsim/internal/config"
	"github.com/Sean220557/agentsim/internal/emotion"
	"github.com/Sean220557/agentsim/internal/manager"
	"github.com/Sean220557/agentsim/pkg/types"
)

func testPersonas() []types.Persona {
	return []types.Persona{
		{ID: "alice", Name: "Alice", Description: "calm and thoughtful", Mood: "content"},
		{ID: "bob", Name: "Bob", Description: "volatile and outgoing", Mood: "excited"},
		{ID: "carol", Name: "Carol", Description: "steady and reliable"},
	}
}

func TestOpenStore_JSON(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Engine = "json"
	cfg.Storage.DataPath = t.TempDir()

	store, closeStore, err := openStore(cfg)
	require.NoError(t, err)
	defer closeStore()
	assert.NotNil(t, store)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Engine = "sqlite"
	cfg.Storage.DataPath = t.TempDir()

	store, closeStore, err := openStore(cfg)
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Save(context.Background(), &types.ManagerSnapshot{
		Graph: types.GraphSnapshot{Agents: []string{"alice"}},
	}))
}

func TestOpenStore_UnknownEngine(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Engine = "cassandra"
	_, _, err := openStore(cfg)
	assert.Error(t, err)
}

func TestSeedRoster(t *testing.T) {
	m := manager.NewManager(manager.Config{})
	gen := emotion.NewGenerator(nil)

	seedRoster(m, gen, testPersonas())

	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, m.Graph().Agents())
	assert.Len(t, m.EmotionHistory("alice"), 1)
	assert.Len(t, m.EmotionHistory("bob"), 1)
	// No declared mood, no seeded history.
	assert.Empty(t, m.EmotionHistory("carol"))
}

func TestRunRounds_Deterministic(t *testing.T) {
	ctx := context.Background()
	gen := emotion.NewGenerator(nil)

	run := func() string {
		m := manager.NewManager(manager.Config{})
		seedRoster(m, gen, testPersonas())
		runRounds(ctx, m, gen, testPersonas(), rand.New(rand.NewSource(42)), 30)
		return m.Graph().RenderMatrix()
	}

	first := run()
	assert.Equal(t, first, run())
	assert.NotEmpty(t, first)
}

func TestRunRounds_NeedsTwoPersonas(t *testing.T) {
	m := manager.NewManager(manager.Config{})
	gen := emotion.NewGenerator(nil)
	solo := testPersonas()[:1]
	seedRoster(m, gen, solo)

	runRounds(context.Background(), m, gen, solo, rand.New(rand.NewSource(1)), 5)
	assert.False(t, m.RelationSummary("alice", "alice").Exists)
}
