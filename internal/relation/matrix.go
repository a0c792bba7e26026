package relation

import (
	"fmt"
	"strings"
)

// RenderMatrix returns a fixed-width text grid of intimacy values for every
// ordered agent pair, rows as from-agent and columns as to-agent, in
// registration order. The output is deterministic for a given graph state.
func (g *Graph) RenderMatrix() string {
	if len(g.agents) == 0 {
		return "no agents in graph"
	}

	var b strings.Builder
	b.WriteString("relation matrix (row: from, column: to)\n")
	b.WriteString(strings.Repeat("=", 80) + "\n")

	fmt.Fprintf(&b, "%-15s |", "agent")
	for _, to := range g.agents {
		fmt.Fprintf(&b, " %8s", truncate(to, 8))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 80) + "\n")

	for _, from := range g.agents {
		fmt.Fprintf(&b, "%-15s |", truncate(from, 15))
		for _, to := range g.agents {
			if from == to {
				b.WriteString("        -")
				continue
			}
			if rel, ok := g.edges[edgeKey{from, to}]; ok {
				fmt.Fprintf(&b, " %+8.3f", rel.Intimacy)
			} else {
				fmt.Fprintf(&b, " %8s", ".")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
