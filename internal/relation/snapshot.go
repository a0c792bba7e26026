package relation

import (
	"errors"
	"fmt"
	"math"

	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrMalformedSnapshot is returned when imported data is structurally
// invalid. Imports fail fast and leave the graph untouched rather than
// silently operating on corrupt state.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// ExportSnapshot serializes the full graph: registered agents in
// registration order and a deep copy of every edge with all its fields.
func (g *Graph) ExportSnapshot() types.GraphSnapshot {
	snap := types.GraphSnapshot{
		Agents:    g.Agents(),
		Relations: make(map[string]map[string]types.DirectedRelation, len(g.agents)),
	}
	for key, rel := range g.edges {
		byTo, ok := snap.Relations[key.from]
		if !ok {
			byTo = make(map[string]types.DirectedRelation)
			snap.Relations[key.from] = byTo
		}
		byTo[key.to] = rel.Clone()
	}
	return snap
}

// ImportSnapshot replaces the graph's whole state with the snapshot. The
// snapshot is validated in full before any mutation: a malformed snapshot
// (duplicate or empty agent ids, edges referencing unlisted agents,
// self-edges, non-finite numeric fields, negative counters, mismatched edge
// keys) fails with ErrMalformedSnapshot and leaves the current state intact.
//
// Component and intimacy values inside the declared ranges are taken as-is —
// including intimacy that disagrees with the component formula, which older
// exports produced after bare overrides. Finite values that drift slightly
// out of range are coerced by clamping.
func (g *Graph) ImportSnapshot(snap types.GraphSnapshot) error {
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	agents := make([]string, 0, len(snap.Agents))
	agentSet := make(map[string]struct{}, len(snap.Agents))
	for _, id := range snap.Agents {
		agentSet[id] = struct{}{}
		agents = append(agents, id)
	}

	edges := make(map[edgeKey]*types.DirectedRelation)
	for from, byTo := range snap.Relations {
		for to, rel := range byTo {
			clean := rel.Clone()
			clean.FromAgent = from
			clean.ToAgent = to
			clean.Trust = clamp(clean.Trust, -1, 1)
			clean.Respect = clamp(clean.Respect, -1, 1)
			clean.Affection = clamp(clean.Affection, -1, 1)
			clean.Dependency = clamp(clean.Dependency, -1, 1)
			clean.Intimacy = clamp(clean.Intimacy, -1, 1)
			if clean.RelationType == "" {
				clean.RelationType = "stranger"
			}
			edges[edgeKey{from, to}] = &clean
		}
	}

	g.agents = agents
	g.agentSet = agentSet
	g.edges = edges
	return nil
}

func validateSnapshot(snap types.GraphSnapshot) error {
	seen := make(map[string]struct{}, len(snap.Agents))
	for _, id := range snap.Agents {
		if id == "" {
			return fmt.Errorf("relation: %w: empty agent id", ErrMalformedSnapshot)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("relation: %w: duplicate agent id %q", ErrMalformedSnapshot, id)
		}
		seen[id] = struct{}{}
	}

	for from, byTo := range snap.Relations {
		if _, ok := seen[from]; !ok {
			return fmt.Errorf("relation: %w: edge references unlisted agent %q", ErrMalformedSnapshot, from)
		}
		for to, rel := range byTo {
			if _, ok := seen[to]; !ok {
				return fmt.Errorf("relation: %w: edge references unlisted agent %q", ErrMalformedSnapshot, to)
			}
			if from == to {
				return fmt.Errorf("relation: %w: self-edge for agent %q", ErrMalformedSnapshot, from)
			}
			if rel.FromAgent != "" && rel.FromAgent != from {
				return fmt.Errorf("relation: %w: edge %q->%q has mismatched from_agent %q",
					ErrMalformedSnapshot, from, to, rel.FromAgent)
			}
			if rel.ToAgent != "" && rel.ToAgent != to {
				return fmt.Errorf("relation: %w: edge %q->%q has mismatched to_agent %q",
					ErrMalformedSnapshot, from, to, rel.ToAgent)
			}
			if err := validateEdgeNumbers(from, to, rel); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEdgeNumbers(from, to string, rel types.DirectedRelation) error {
	fields := map[string]float64{
		"trust":      rel.Trust,
		"respect":    rel.Respect,
		"affection":  rel.Affection,
		"dependency": rel.Dependency,
		"intimacy":   rel.Intimacy,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("relation: %w: edge %q->%q has non-finite %s",
				ErrMalformedSnapshot, from, to, name)
		}
	}
	if rel.PositiveInteractions < 0 || rel.NegativeInteractions < 0 ||
		rel.NeutralInteractions < 0 || rel.InteractionCount < 0 {
		return fmt.Errorf("relation: %w: edge %q->%q has negative interaction counters",
			ErrMalformedSnapshot, from, to)
	}
	if len(rel.InteractionHistory) > types.MaxHistoryLength {
		return fmt.Errorf("relation: %w: edge %q->%q history exceeds cap %d",
			ErrMalformedSnapshot, from, to, types.MaxHistoryLength)
	}
	return nil
}
