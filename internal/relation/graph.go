// Package relation owns the directed, weighted relation graph between
// simulated agents. Every edge is an independent directed entity, so the two
// directions of a pair can — and usually do — diverge.
//
// The graph is a pure, synchronous in-memory structure. All mutation goes
// through its methods, which maintain two invariants: every bounded value
// stays inside its declared range, and an edge's intimacy always equals the
// weighted component formula after any update.
package relation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Sean220557/agentsim/pkg/types"
)

var (
	// ErrUnregisteredAgent is returned by edge and statistics operations
	// that reference an agent id never added to the graph.
	ErrUnregisteredAgent = errors.New("agent not registered")
)

// edgeKey identifies one directed edge.
type edgeKey struct {
	from, to string
}

// Graph is the directed relation graph. It owns the registered agent set and
// every directed edge. Edges exist only between registered agents and are
// created lazily on first write with zero components.
//
// Graph is not safe for concurrent use; the driving loop serializes access.
type Graph struct {
	agents   []string // registration order, drives deterministic iteration
	agentSet map[string]struct{}
	edges    map[edgeKey]*types.DirectedRelation

	now func() time.Time
}

// NewGraph returns an empty graph using the wall clock for interaction
// timestamps.
func NewGraph() *Graph {
	return &Graph{
		agentSet: make(map[string]struct{}),
		edges:    make(map[edgeKey]*types.DirectedRelation),
		now:      time.Now,
	}
}

// AddAgent registers an agent id. Registration is idempotent.
func (g *Graph) AddAgent(id string) {
	if _, ok := g.agentSet[id]; ok {
		return
	}
	g.agentSet[id] = struct{}{}
	g.agents = append(g.agents, id)
}

// HasAgent reports whether the id is registered.
func (g *Graph) HasAgent(id string) bool {
	_, ok := g.agentSet[id]
	return ok
}

// Agents returns the registered agent ids in registration order.
func (g *Graph) Agents() []string {
	return append([]string(nil), g.agents...)
}

// GetRelation returns a deep copy of the directed edge from → to, or false
// when no such edge exists. Mutation goes through the graph methods only.
func (g *Graph) GetRelation(from, to string) (types.DirectedRelation, bool) {
	rel, ok := g.edges[edgeKey{from, to}]
	if !ok {
		return types.DirectedRelation{}, false
	}
	return rel.Clone(), true
}

// checkRegistered validates that every listed agent is registered.
func (g *Graph) checkRegistered(ids ...string) error {
	for _, id := range ids {
		if !g.HasAgent(id) {
			return fmt.Errorf("relation: %w: %q", ErrUnregisteredAgent, id)
		}
	}
	return nil
}

// edge returns the directed edge from → to, creating it lazily with zero
// components. Callers must have validated registration.
func (g *Graph) edge(from, to string) *types.DirectedRelation {
	key := edgeKey{from, to}
	rel, ok := g.edges[key]
	if !ok {
		rel = &types.DirectedRelation{
			FromAgent:      from,
			ToAgent:        to,
			RelationType:   "stranger",
			LastUpdateTime: g.now(),
		}
		g.edges[key] = rel
	}
	return rel
}

// SetRelation creates or overwrites the edge from → to with the given
// intimacy and relation type.
//
// Policy for the intimacy override: the components are back-solved to the
// clamped intimacy value itself. The intimacy weights sum to 1, so the
// weighted formula reproduces the override exactly and the edge stays
// internally consistent — the next interaction evolves from components that
// agree with the stored intimacy.
func (g *Graph) SetRelation(from, to string, intimacy float64, relationType string) error {
	if err := g.checkRegistered(from, to); err != nil {
		return err
	}

	rel := g.edge(from, to)
	v := clamp(intimacy, -1, 1)
	rel.Trust = v
	rel.Respect = v
	rel.Affection = v
	rel.Dependency = v
	rel.RecomputeIntimacy()
	if relationType != "" {
		rel.RelationType = relationType
	}
	return nil
}

// AddInteraction records one directed interaction from → to and updates the
// edge: component deltas from the type table scaled by impact, clamped;
// intimacy recomputed; sign counter bumped; history appended (capped);
// LastUpdateTime set to the call time. Unknown types are rejected.
func (g *Graph) AddInteraction(from, to string, t types.InteractionType, impact float64, context string) error {
	if err := g.checkRegistered(from, to); err != nil {
		return err
	}
	if _, err := t.Deltas(); err != nil {
		return fmt.Errorf("relation: %w", err)
	}
	return g.edge(from, to).ApplyInteraction(t, impact, context, g.now())
}

// AddBidirectionalInteraction applies the same interaction type in both
// directions with independent impacts, modeling asymmetric perception of a
// single shared event.
func (g *Graph) AddBidirectionalInteraction(a, b string, t types.InteractionType, impactA, impactB float64, context string) error {
	if err := g.AddInteraction(a, b, t, impactA, context); err != nil {
		return err
	}
	return g.AddInteraction(b, a, t, impactB, context)
}

// outgoing returns the agent's outgoing edges ordered by to-agent id, for
// deterministic iteration.
func (g *Graph) outgoing(agent string) []*types.DirectedRelation {
	var out []*types.DirectedRelation
	for key, rel := range g.edges {
		if key.from == agent {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ToAgent < out[j].ToAgent })
	return out
}

// ApplyTimeDecay relaxes every edge toward neutral. Each component is scaled
// by exp(-rate * elapsedDays) where elapsed is measured from the edge's
// LastUpdateTime to now; negative elapsed counts as zero. Intimacy is
// recomputed. Decay does not touch LastUpdateTime or the counters.
func (g *Graph) ApplyTimeDecay(now time.Time, rate float64) {
	for _, rel := range g.edges {
		elapsed := now.Sub(rel.LastUpdateTime)
		if elapsed <= 0 {
			continue
		}
		days := elapsed.Hours() / 24
		rel.Decay(math.Exp(-rate * days))
	}
}

// MutualIntimacy returns the intimacy pair (a→b, b→a), zero for a missing
// direction.
func (g *Graph) MutualIntimacy(a, b string) (float64, float64) {
	var ab, ba float64
	if rel, ok := g.edges[edgeKey{a, b}]; ok {
		ab = rel.Intimacy
	}
	if rel, ok := g.edges[edgeKey{b, a}]; ok {
		ba = rel.Intimacy
	}
	return ab, ba
}

// AsymmetryScore measures how unevenly the pair relates: |i(a→b) - i(b→a)|/2,
// in [0, 1]. It is symmetric in its arguments and zero when both directions
// agree.
func (g *Graph) AsymmetryScore(a, b string) float64 {
	ab, ba := g.MutualIntimacy(a, b)
	return math.Abs(ab-ba) / 2
}

// PartnerIntimacy is one entry of an agent's ally/enemy ranking.
type PartnerIntimacy struct {
	Agent    string  `json:"agent"`
	Intimacy float64 `json:"intimacy"`
}

// Statistics aggregates one agent's outgoing edges.
type Statistics struct {
	AgentID           string            `json:"agent_id"`
	TotalRelations    int               `json:"total_relations"`
	PositiveRelations int               `json:"positive_relations"` // intimacy > 0.3
	NegativeRelations int               `json:"negative_relations"` // intimacy < -0.3
	NeutralRelations  int               `json:"neutral_relations"`
	AverageIntimacy   float64           `json:"average_intimacy"`
	IntimacyStdDev    float64           `json:"intimacy_std"`
	ClosestAllies     []PartnerIntimacy `json:"closest_allies"`
	WorstEnemies      []PartnerIntimacy `json:"worst_enemies"`
}

// AgentStatistics aggregates the agent's outgoing edges: counts, intimacy
// mean and standard deviation, and the top-3 most positive and most negative
// partners. Equal intimacies rank by partner id for determinism.
func (g *Graph) AgentStatistics(agent string) (Statistics, error) {
	if err := g.checkRegistered(agent); err != nil {
		return Statistics{}, err
	}

	edges := g.outgoing(agent)
	stats := Statistics{AgentID: agent, TotalRelations: len(edges)}
	if len(edges) == 0 {
		return stats, nil
	}

	var sum float64
	for _, rel := range edges {
		sum += rel.Intimacy
		switch {
		case rel.Intimacy > 0.3:
			stats.PositiveRelations++
		case rel.Intimacy < -0.3:
			stats.NegativeRelations++
		default:
			stats.NeutralRelations++
		}
	}
	mean := sum / float64(len(edges))
	stats.AverageIntimacy = mean

	var variance float64
	for _, rel := range edges {
		d := rel.Intimacy - mean
		variance += d * d
	}
	stats.IntimacyStdDev = math.Sqrt(variance / float64(len(edges)))

	ranked := make([]PartnerIntimacy, len(edges))
	for i, rel := range edges {
		ranked[i] = PartnerIntimacy{Agent: rel.ToAgent, Intimacy: rel.Intimacy}
	}
	// outgoing() pre-sorts by id, so a stable sort by intimacy keeps id
	// order inside ties.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Intimacy > ranked[j].Intimacy })

	top := len(ranked)
	if top > 3 {
		top = 3
	}
	stats.ClosestAllies = append([]PartnerIntimacy(nil), ranked[:top]...)

	enemies := append([]PartnerIntimacy(nil), ranked[len(ranked)-top:]...)
	for i, j := 0, len(enemies)-1; i < j; i, j = i+1, j-1 {
		enemies[i], enemies[j] = enemies[j], enemies[i]
	}
	stats.WorstEnemies = enemies

	return stats, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
