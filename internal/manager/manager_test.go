package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sean220557/agentsim/internal/relation"
	"github.com/Sean220557/agentsim/internal/storage"
	"github.com/Sean220557/agentsim/pkg/types"
)

func newTestManager(agents ...string) *Manager {
	m := NewManager(Config{})
	m.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	for _, id := range agents {
		m.AddAgent(id)
	}
	return m
}

func TestProcessInteractionEvent_BaseImpacts(t *testing.T) {
	m := newTestManager("alice", "bob")

	require.NoError(t, m.ProcessInteractionEvent(
		"alice", "bob", types.InteractionCooperation, nil, nil, "built a shelter"))

	rel := m.RelationSummary("alice", "bob")
	require.True(t, rel.Exists)
	// Cooperation deltas {0.8, 0.6, 0.4, 0.2} at base impact 0.8.
	assert.InDelta(t, 0.64, rel.Relation.Trust, 1e-9)
	assert.InDelta(t, 0.48, rel.Relation.Respect, 1e-9)
	assert.InDelta(t, 0.32, rel.Relation.Affection, 1e-9)
	assert.InDelta(t, 0.16, rel.Relation.Dependency, 1e-9)
	assert.InDelta(t,
		0.35*0.64+0.25*0.48+0.30*0.32+0.10*0.16, rel.Relation.Intimacy, 1e-9)
	assert.Equal(t, 1, rel.Relation.PositiveInteractions)

	back := m.RelationSummary("bob", "alice")
	require.True(t, back.Exists)
	assert.InDelta(t, rel.Relation.Intimacy, back.Relation.Intimacy, 1e-9)
}

func TestProcessInteractionEvent_RejectsUnknownType(t *testing.T) {
	m := newTestManager("alice", "bob")
	err := m.ProcessInteractionEvent("alice", "bob", types.InteractionType("gossip"), nil, nil, "")
	assert.Error(t, err)
	assert.False(t, m.RelationSummary("alice", "bob").Exists)
}

func TestProcessInteractionEvent_UnregisteredAgent(t *testing.T) {
	m := newTestManager("alice")
	err := m.ProcessInteractionEvent("alice", "nobody", types.InteractionHelp, nil, nil, "")
	assert.ErrorIs(t, err, relation.ErrUnregisteredAgent)
}

func TestInteractionImpacts_Modulation(t *testing.T) {
	calm := types.EmotionProfile{Valence: 0.3}
	calm.Normalize()
	same := calm

	// Identical emotions: similarity 1, so positive impacts gain the full
	// +30% and only the intensity band scales after that.
	fromImpact, toImpact := interactionImpacts(types.InteractionCooperation, &calm, &same)
	wantFactor := 1.3 * (0.7 + calm.Intensity*0.3)
	assert.InDelta(t, 0.8*wantFactor, fromImpact, 1e-9)
	assert.InDelta(t, 0.8*wantFactor, toImpact, 1e-9)

	// Dissimilar emotions amplify a negative impact instead.
	angry := types.EmotionProfile{Valence: -0.8, Arousal: 0.7, Anger: 0.9}
	angry.Normalize()

	hostile, _ := interactionImpacts(types.InteractionConflict, &calm, &angry)
	aligned, _ := interactionImpacts(types.InteractionConflict, &angry, &angry)
	assert.Negative(t, hostile)
	assert.Negative(t, aligned)

	similarity := calm.Similarity(&angry)
	intensity := (calm.Intensity + angry.Intensity) / 2
	want := -0.7 * (1 + (1-similarity)*0.3) * (0.7 + intensity*0.3)
	assert.InDelta(t, want, hostile, 1e-9)
}

func TestInteractionImpacts_NilEmotionsUseBase(t *testing.T) {
	fromImpact, toImpact := interactionImpacts(types.InteractionHelp, nil, nil)
	assert.InDelta(t, 0.6, fromImpact, 1e-9)
	assert.InDelta(t, 0.5, toImpact, 1e-9)
}

func TestProcessInteractionEvent_RecordsEmotions(t *testing.T) {
	m := newTestManager("alice", "bob")

	joy := types.EmotionProfile{Valence: 0.6, Joy: 0.7, Context: "won together"}
	joy.Normalize()

	require.NoError(t, m.ProcessInteractionEvent(
		"alice", "bob", types.InteractionCooperation, &joy, nil, "won together"))

	assert.Len(t, m.EmotionHistory("alice"), 1)
	assert.Empty(t, m.EmotionHistory("bob"))
	assert.Equal(t, "won together", m.EmotionHistory("alice")[0].Context)
}

func TestRecordEmotion_CapAndClock(t *testing.T) {
	m := NewManager(Config{HistoryCap: 3})
	m.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	m.AddAgent("alice")

	for i := 0; i < 5; i++ {
		p := types.EmotionProfile{Context: fmt.Sprintf("entry %d", i)}
		require.NoError(t, m.RecordEmotion("alice", p))
	}

	history := m.EmotionHistory("alice")
	require.Len(t, history, 3)
	assert.Equal(t, "entry 2", history[0].Context)
	assert.Equal(t, "entry 4", history[2].Context)
	assert.Equal(t, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), history[0].Timestamp)

	err := m.RecordEmotion("nobody", types.EmotionProfile{})
	assert.ErrorIs(t, err, relation.ErrUnregisteredAgent)
}

func TestMutualRelationSummary_Balance(t *testing.T) {
	m := newTestManager("alice", "bob", "carol", "dave")
	g := m.Graph()

	require.NoError(t, g.SetRelation("alice", "bob", 0.9, "friend"))
	require.NoError(t, g.SetRelation("bob", "alice", 0.2, "colleague"))
	require.NoError(t, g.SetRelation("alice", "carol", 0.5, "friend"))
	require.NoError(t, g.SetRelation("carol", "alice", 0.45, "friend"))
	require.NoError(t, g.SetRelation("alice", "dave", 0.9, "friend"))
	require.NoError(t, g.SetRelation("dave", "alice", -0.5, "rival"))

	lopsided := m.MutualRelationSummary("alice", "bob")
	assert.InDelta(t, 0.35, lopsided.AsymmetryScore, 1e-9)
	assert.Equal(t, "slightly_asymmetric", lopsided.Balance)
	assert.True(t, lopsided.AToB.Exists)
	assert.True(t, lopsided.BToA.Exists)

	even := m.MutualRelationSummary("alice", "carol")
	assert.Equal(t, "symmetric", even.Balance)

	opposed := m.MutualRelationSummary("alice", "dave")
	assert.InDelta(t, 0.7, opposed.AsymmetryScore, 1e-9)
	assert.Equal(t, "highly_asymmetric", opposed.Balance)
}

func TestAgentSocialProfile_Types(t *testing.T) {
	m := newTestManager("alice", "bob", "carol", "dave", "erin")
	g := m.Graph()

	require.NoError(t, g.SetRelation("alice", "bob", 0.8, "friend"))
	require.NoError(t, g.SetRelation("alice", "carol", 0.6, "friend"))
	require.NoError(t, g.SetRelation("alice", "dave", 0.7, "friend"))

	profile, err := m.AgentSocialProfile("alice")
	require.NoError(t, err)
	assert.Equal(t, "social_butterfly", profile.SocialType)
	assert.Greater(t, profile.RelationshipHealth, 0.7)

	require.NoError(t, g.SetRelation("bob", "carol", -0.8, "rival"))
	require.NoError(t, g.SetRelation("bob", "dave", -0.6, "rival"))

	profile, err = m.AgentSocialProfile("bob")
	require.NoError(t, err)
	assert.Equal(t, "isolated", profile.SocialType)
	assert.Less(t, profile.RelationshipHealth, 0.4)

	require.NoError(t, g.SetRelation("carol", "bob", 0.5, "friend"))
	require.NoError(t, g.SetRelation("carol", "dave", 0.1, "colleague"))

	profile, err = m.AgentSocialProfile("carol")
	require.NoError(t, err)
	assert.Equal(t, "balanced", profile.SocialType)

	profile, err = m.AgentSocialProfile("erin")
	require.NoError(t, err)
	assert.Equal(t, "neutral", profile.SocialType)
	assert.Zero(t, profile.RelationshipHealth)

	_, err = m.AgentSocialProfile("nobody")
	assert.ErrorIs(t, err, relation.ErrUnregisteredAgent)
}

func TestInitializeFromPersonas(t *testing.T) {
	m := newTestManager()
	m.InitializeFromPersonas([]types.Persona{
		{ID: "alice", Relations: map[string]types.PersonaRelation{
			"bob":   {Type: "friend", Strength: 0.9},
			"ghost": {Type: "enemy", Strength: 0.1},
		}},
		{ID: "bob"},
	})

	assert.ElementsMatch(t, []string{"alice", "bob"}, m.Graph().Agents())

	rel := m.RelationSummary("alice", "bob")
	require.True(t, rel.Exists)
	assert.InDelta(t, 0.8, rel.Relation.Intimacy, 1e-9)
	assert.Equal(t, "friend", rel.Relation.RelationType)

	// Declared relations seed one direction only.
	assert.False(t, m.RelationSummary("bob", "alice").Exists)
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := storage.NewJSONFileStore(filepath.Join(t.TempDir(), "snapshot.json"))
	ctx := context.Background()

	m := newTestManager("alice", "bob")
	joy := types.EmotionProfile{Valence: 0.5, Joy: 0.6}
	joy.Normalize()
	require.NoError(t, m.ProcessInteractionEvent(
		"alice", "bob", types.InteractionAlliance, &joy, &joy, "pact"))
	require.NoError(t, m.SaveSnapshot(ctx, store))

	restored := newTestManager()
	require.NoError(t, restored.LoadSnapshot(ctx, store))

	want := m.RelationSummary("alice", "bob").Relation
	got := restored.RelationSummary("alice", "bob").Relation
	assert.InDelta(t, want.Trust, got.Trust, 1e-9)
	assert.InDelta(t, want.Intimacy, got.Intimacy, 1e-9)
	assert.Len(t, restored.EmotionHistory("alice"), 1)
	assert.Len(t, restored.EmotionHistory("bob"), 1)
}

type stubStore struct {
	snap *types.ManagerSnapshot
	err  error
}

func (s *stubStore) Save(context.Context, *types.ManagerSnapshot) error { return s.err }
func (s *stubStore) Load(context.Context) (*types.ManagerSnapshot, error) {
	return s.snap, s.err
}

func TestLoadSnapshot_RejectsUnlistedHistoryAgent(t *testing.T) {
	bad := &stubStore{snap: &types.ManagerSnapshot{
		Graph: types.GraphSnapshot{Agents: []string{"alice"}},
		EmotionHistory: map[string][]types.EmotionProfile{
			"stranger": {{Valence: 0.1}},
		},
	}}

	m := newTestManager("alice", "bob")
	require.NoError(t, m.ProcessInteractionEvent(
		"alice", "bob", types.InteractionConversation, nil, nil, "small talk"))

	err := m.LoadSnapshot(context.Background(), bad)
	assert.ErrorIs(t, err, relation.ErrMalformedSnapshot)

	// Failed load leaves prior state intact.
	assert.True(t, m.RelationSummary("alice", "bob").Exists)
	assert.ElementsMatch(t, []string{"alice", "bob"}, m.Graph().Agents())
}

func TestLoadSnapshot_TruncatesOversizedHistory(t *testing.T) {
	history := make([]types.EmotionProfile, 5)
	for i := range history {
		history[i] = types.EmotionProfile{Context: fmt.Sprintf("entry %d", i)}
	}
	store := &stubStore{snap: &types.ManagerSnapshot{
		Graph:          types.GraphSnapshot{Agents: []string{"alice"}},
		EmotionHistory: map[string][]types.EmotionProfile{"alice": history},
	}}

	m := NewManager(Config{HistoryCap: 3})
	require.NoError(t, m.LoadSnapshot(context.Background(), store))

	got := m.EmotionHistory("alice")
	require.Len(t, got, 3)
	assert.Equal(t, "entry 2", got[0].Context)
}

func TestGenerateRelationReport(t *testing.T) {
	m := newTestManager("alice", "bob", "carol", "dave")
	g := m.Graph()

	require.NoError(t, g.SetRelation("alice", "bob", 0.8, "friend"))
	require.NoError(t, g.SetRelation("alice", "carol", 0.5, "friend"))
	require.NoError(t, g.SetRelation("alice", "dave", -0.6, "rival"))

	report, err := m.GenerateRelationReport("alice")
	require.NoError(t, err)
	assert.Contains(t, report, "=== relation report: alice ===")
	assert.Contains(t, report, "social type:")
	assert.Contains(t, report, "relationship health:")
	assert.Contains(t, report, "bob: intimacy +0.80")
	assert.Contains(t, report, "worst enemies:")
	assert.Contains(t, report, "dave: intimacy -0.60")

	// Without a clearly negative relation the enemies section disappears.
	require.NoError(t, g.SetRelation("bob", "carol", 0.4, "friend"))
	report, err = m.GenerateRelationReport("bob")
	require.NoError(t, err)
	assert.NotContains(t, report, "worst enemies:")

	report, err = m.GenerateRelationReport("dave")
	require.NoError(t, err)
	assert.Contains(t, report, "no relations recorded")

	_, err = m.GenerateRelationReport("nobody")
	assert.ErrorIs(t, err, relation.ErrUnregisteredAgent)
}
