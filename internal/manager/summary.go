package manager

import (
	"math"

	"github.com/Sean220557/agentsim/internal/relation"
	"github.com/Sean220557/agentsim/pkg/types"
)

// RelationSummary is a one-direction view of a pair.
type RelationSummary struct {
	Exists   bool                   `json:"exists"`
	Relation types.DirectedRelation `json:"relation,omitempty"`
}

// MutualSummary describes both directions of a pair plus how balanced they
// are.
type MutualSummary struct {
	AgentA string `json:"agent_a"`
	AgentB string `json:"agent_b"`

	AToB RelationSummary `json:"a_to_b"`
	BToA RelationSummary `json:"b_to_a"`

	AsymmetryScore float64 `json:"asymmetry_score"`
	Balance        string  `json:"balance"`
}

// SocialProfile extends the raw graph statistics with a coarse social type
// and a relationship health score.
type SocialProfile struct {
	relation.Statistics

	SocialType         string  `json:"social_type"`
	RelationshipHealth float64 `json:"relationship_health"`
}

// RelationSummary returns one direction of a pair. A never-interacted pair
// yields Exists == false rather than an implicit neutral edge.
func (m *Manager) RelationSummary(from, to string) RelationSummary {
	rel, ok := m.graph.GetRelation(from, to)
	if !ok {
		return RelationSummary{}
	}
	return RelationSummary{Exists: true, Relation: rel}
}

// MutualRelationSummary returns both directions of a pair with a balance
// label: symmetric below 0.2 asymmetry, slightly_asymmetric below 0.5,
// highly_asymmetric above.
func (m *Manager) MutualRelationSummary(a, b string) MutualSummary {
	out := MutualSummary{
		AgentA: a,
		AgentB: b,
		AToB:   m.RelationSummary(a, b),
		BToA:   m.RelationSummary(b, a),
	}
	out.AsymmetryScore = m.graph.AsymmetryScore(a, b)
	switch {
	case out.AsymmetryScore < 0.2:
		out.Balance = "symmetric"
	case out.AsymmetryScore < 0.5:
		out.Balance = "slightly_asymmetric"
	default:
		out.Balance = "highly_asymmetric"
	}
	return out
}

// AgentSocialProfile classifies the agent's social standing from its
// outgoing relations.
func (m *Manager) AgentSocialProfile(agent string) (SocialProfile, error) {
	stats, err := m.graph.AgentStatistics(agent)
	if err != nil {
		return SocialProfile{}, err
	}

	profile := SocialProfile{Statistics: stats}
	if stats.TotalRelations == 0 {
		profile.SocialType = "neutral"
		return profile, nil
	}

	total := float64(stats.TotalRelations)
	positiveRatio := float64(stats.PositiveRelations) / total
	negativeRatio := float64(stats.NegativeRelations) / total
	mean := stats.AverageIntimacy

	switch {
	case positiveRatio > 0.7:
		if mean > 0.5 {
			profile.SocialType = "social_butterfly"
		} else {
			profile.SocialType = "friendly"
		}
	case negativeRatio > 0.5:
		if mean < -0.3 {
			profile.SocialType = "isolated"
		} else {
			profile.SocialType = "conflict_prone"
		}
	case positiveRatio > 0.4 && negativeRatio < 0.2:
		profile.SocialType = "balanced"
	default:
		profile.SocialType = "neutral"
	}

	health := 0.4*positiveRatio + 0.4*(mean+1)/2 + 0.2*(1-math.Min(stats.IntimacyStdDev, 1))
	profile.RelationshipHealth = clamp01(health)

	return profile, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
