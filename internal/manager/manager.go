// Package manager ties the relation graph and the emotion model together: it
// turns interaction events into emotion-modulated relation updates, keeps
// per-agent emotion histories, and derives social summaries and reports.
package manager

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Sean220557/agentsim/internal/relation"
	"github.com/Sean220557/agentsim/internal/storage"
	"github.com/Sean220557/agentsim/pkg/types"
)

// DefaultHistoryCap bounds each agent's emotion history.
const DefaultHistoryCap = 100

// Config holds manager tunables.
type Config struct {
	// HistoryCap bounds the per-agent emotion history (default 100).
	HistoryCap int
}

// Manager owns one relation graph and the per-agent emotion histories. It is
// not safe for concurrent use; the driving loop serializes access.
type Manager struct {
	graph      *relation.Graph
	history    map[string][]types.EmotionProfile
	historyCap int

	now func() time.Time
}

// NewManager returns an empty manager.
func NewManager(cfg Config) *Manager {
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultHistoryCap
	}
	return &Manager{
		graph:      relation.NewGraph(),
		history:    make(map[string][]types.EmotionProfile),
		historyCap: cfg.HistoryCap,
		now:        time.Now,
	}
}

// Graph exposes the underlying relation graph for queries and rendering.
func (m *Manager) Graph() *relation.Graph {
	return m.graph
}

// AddAgent registers an agent.
func (m *Manager) AddAgent(id string) {
	m.graph.AddAgent(id)
}

// InitializeFromPersonas registers every persona and seeds directed edges
// from their declared relations, mapping strength in [0, 1] onto intimacy in
// [-1, 1]. Relations pointing at agents absent from the roster are skipped:
// bootstrap files routinely reference characters that are not simulated.
func (m *Manager) InitializeFromPersonas(personas []types.Persona) {
	for _, p := range personas {
		m.graph.AddAgent(p.ID)
	}
	for _, p := range personas {
		for otherID, rel := range p.Relations {
			if !m.graph.HasAgent(otherID) {
				log.Printf("manager: persona %q declares relation to unknown agent %q, skipping", p.ID, otherID)
				continue
			}
			intimacy := rel.Strength*2 - 1
			if err := m.graph.SetRelation(p.ID, otherID, intimacy, rel.Type); err != nil {
				log.Printf("manager: seed relation %q -> %q: %v", p.ID, otherID, err)
			}
		}
	}
}

// baseImpacts is the per-type starting impact pair (initiator side, receiver
// side) before emotion modulation.
var baseImpacts = map[types.InteractionType][2]float64{
	types.InteractionCooperation:  {0.8, 0.8},
	types.InteractionConflict:     {-0.7, -0.7},
	types.InteractionHelp:         {0.6, 0.5},
	types.InteractionBetrayal:     {-1.0, -0.9},
	types.InteractionPraise:       {0.5, 0.6},
	types.InteractionCriticism:    {-0.4, -0.5},
	types.InteractionSupport:      {0.6, 0.7},
	types.InteractionRejection:    {-0.6, -0.8},
	types.InteractionCompetition:  {0.2, 0.2},
	types.InteractionAlliance:     {0.7, 0.7},
	types.InteractionConversation: {0.2, 0.2},
	types.InteractionIgnore:       {-0.3, -0.4},
}

// interactionImpacts derives the impact pair for an event. Positive base
// impacts grow with emotional similarity, negative ones with dissimilarity
// (up to +30% either way), and both scale with the pair's mean intensity
// (0.7 .. 1.0 band). The multipliers never flip the base sign.
func interactionImpacts(t types.InteractionType, fromEmotion, toEmotion *types.EmotionProfile) (float64, float64) {
	base := baseImpacts[t]
	impactFrom, impactTo := base[0], base[1]

	if fromEmotion == nil || toEmotion == nil {
		return impactFrom, impactTo
	}

	similarity := fromEmotion.Similarity(toEmotion)
	modulate := func(impact float64) float64 {
		if impact > 0 {
			return impact * (1 + similarity*0.3)
		}
		return impact * (1 + (1-similarity)*0.3)
	}
	impactFrom = modulate(impactFrom)
	impactTo = modulate(impactTo)

	intensity := (fromEmotion.Intensity + toEmotion.Intensity) / 2
	impactFrom *= 0.7 + intensity*0.3
	impactTo *= 0.7 + intensity*0.3

	return impactFrom, impactTo
}

// ProcessInteractionEvent applies one shared event to both directions of the
// pair. The impacts come from the per-type base table modulated by the
// participants' emotions; nil emotions mean the base impacts apply
// unmodulated. Each participant's emotion snapshot is appended to their own
// history.
func (m *Manager) ProcessInteractionEvent(from, to string, t types.InteractionType, fromEmotion, toEmotion *types.EmotionProfile, context string) error {
	if _, err := t.Deltas(); err != nil {
		return fmt.Errorf("manager: %w", err)
	}

	impactFrom, impactTo := interactionImpacts(t, fromEmotion, toEmotion)
	return m.applyEvent(from, to, t, impactFrom, impactTo, fromEmotion, toEmotion, context)
}

// ProcessInteractionEventWithImpact is ProcessInteractionEvent with an
// explicit impact pair, bypassing emotion modulation. The emotions are still
// recorded when present.
func (m *Manager) ProcessInteractionEventWithImpact(from, to string, t types.InteractionType, impactFrom, impactTo float64, fromEmotion, toEmotion *types.EmotionProfile, context string) error {
	if _, err := t.Deltas(); err != nil {
		return fmt.Errorf("manager: %w", err)
	}
	return m.applyEvent(from, to, t, impactFrom, impactTo, fromEmotion, toEmotion, context)
}

func (m *Manager) applyEvent(from, to string, t types.InteractionType, impactFrom, impactTo float64, fromEmotion, toEmotion *types.EmotionProfile, context string) error {
	if err := m.graph.AddBidirectionalInteraction(from, to, t, impactFrom, impactTo, context); err != nil {
		return err
	}
	if fromEmotion != nil {
		m.recordEmotion(from, *fromEmotion)
	}
	if toEmotion != nil {
		m.recordEmotion(to, *toEmotion)
	}
	return nil
}

// RecordEmotion appends a snapshot to an agent's emotion history.
func (m *Manager) RecordEmotion(agent string, p types.EmotionProfile) error {
	if !m.graph.HasAgent(agent) {
		return fmt.Errorf("manager: %w: %q", relation.ErrUnregisteredAgent, agent)
	}
	m.recordEmotion(agent, p)
	return nil
}

func (m *Manager) recordEmotion(agent string, p types.EmotionProfile) {
	if p.Timestamp.IsZero() {
		p.Timestamp = m.now()
	}
	history := append(m.history[agent], p)
	if n := len(history); n > m.historyCap {
		history = append(history[:0:0], history[n-m.historyCap:]...)
	}
	m.history[agent] = history
}

// EmotionHistory returns a copy of the agent's emotion history, oldest first.
func (m *Manager) EmotionHistory(agent string) []types.EmotionProfile {
	return append([]types.EmotionProfile(nil), m.history[agent]...)
}

// NormalizeAllRelations rescales every agent's outgoing relations.
func (m *Manager) NormalizeAllRelations(method relation.NormalizeMethod) error {
	return m.graph.NormalizeAllAgents(method)
}

// ApplyTimeDecay relaxes every relation toward neutral for the time elapsed
// since its last update.
func (m *Manager) ApplyTimeDecay(now time.Time, rate float64) {
	m.graph.ApplyTimeDecay(now, rate)
}

// SaveSnapshot persists the full manager state through the store.
func (m *Manager) SaveSnapshot(ctx context.Context, store storage.SnapshotStore) error {
	snap := &types.ManagerSnapshot{
		Graph:          m.graph.ExportSnapshot(),
		EmotionHistory: make(map[string][]types.EmotionProfile, len(m.history)),
	}
	for agent, history := range m.history {
		snap.EmotionHistory[agent] = append([]types.EmotionProfile(nil), history...)
	}
	return store.Save(ctx, snap)
}

// LoadSnapshot replaces the manager state from the store. The snapshot is
// validated before any mutation: on error the previous state stays intact.
func (m *Manager) LoadSnapshot(ctx context.Context, store storage.SnapshotStore) error {
	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(snap.Graph.Agents))
	for _, id := range snap.Graph.Agents {
		known[id] = struct{}{}
	}
	for agent := range snap.EmotionHistory {
		if _, ok := known[agent]; !ok {
			return fmt.Errorf("manager: %w: emotion history for unlisted agent %q",
				relation.ErrMalformedSnapshot, agent)
		}
	}

	if err := m.graph.ImportSnapshot(snap.Graph); err != nil {
		return err
	}

	m.history = make(map[string][]types.EmotionProfile, len(snap.EmotionHistory))
	for agent, history := range snap.EmotionHistory {
		if n := len(history); n > m.historyCap {
			history = history[n-m.historyCap:]
		}
		m.history[agent] = append([]types.EmotionProfile(nil), history...)
	}
	return nil
}
