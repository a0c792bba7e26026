package manager

import (
	"fmt"
	"strings"
)

// GenerateRelationReport renders a plain-text social summary for one agent.
func (m *Manager) GenerateRelationReport(agent string) (string, error) {
	profile, err := m.AgentSocialProfile(agent)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== relation report: %s ===\n", agent)

	if profile.TotalRelations == 0 {
		b.WriteString("no relations recorded\n")
		return b.String(), nil
	}

	total := float64(profile.TotalRelations)
	fmt.Fprintf(&b, "relations: %d (positive %.1f%%, negative %.1f%%, neutral %.1f%%)\n",
		profile.TotalRelations,
		100*float64(profile.PositiveRelations)/total,
		100*float64(profile.NegativeRelations)/total,
		100*float64(profile.NeutralRelations)/total)

	b.WriteString("\nsocial features:\n")
	fmt.Fprintf(&b, "  average intimacy: %+.2f (stddev %.2f)\n",
		profile.AverageIntimacy, profile.IntimacyStdDev)
	fmt.Fprintf(&b, "  social type: %s\n", profile.SocialType)
	fmt.Fprintf(&b, "  relationship health: %.2f (%s)\n",
		profile.RelationshipHealth, healthLabel(profile.RelationshipHealth))

	if len(profile.ClosestAllies) > 0 && profile.ClosestAllies[0].Intimacy > 0 {
		b.WriteString("\nclosest allies:\n")
		for _, ally := range profile.ClosestAllies {
			if ally.Intimacy <= 0 {
				break
			}
			rel, ok := m.graph.GetRelation(agent, ally.Agent)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  %s: intimacy %+.2f (trust %+.2f, respect %+.2f, affection %+.2f)\n",
				ally.Agent, ally.Intimacy, rel.Trust, rel.Respect, rel.Affection)
		}
	}

	// Enemies only show up once someone is meaningfully below neutral.
	if len(profile.WorstEnemies) > 0 && profile.WorstEnemies[0].Intimacy < -0.1 {
		b.WriteString("\nworst enemies:\n")
		for _, enemy := range profile.WorstEnemies {
			if enemy.Intimacy >= -0.1 {
				break
			}
			fmt.Fprintf(&b, "  %s: intimacy %+.2f\n", enemy.Agent, enemy.Intimacy)
		}
	}

	return b.String(), nil
}

func healthLabel(health float64) string {
	switch {
	case health > 0.7:
		return "healthy"
	case health > 0.4:
		return "fair"
	default:
		return "poor"
	}
}
