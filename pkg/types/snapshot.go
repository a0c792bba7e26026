package types

// GraphSnapshot is the serializable form of a directed relation graph:
// the registered agents in registration order and every directed edge,
// keyed by from-agent then to-agent.
type GraphSnapshot struct {
	Agents    []string                               `json:"agents"`
	Relations map[string]map[string]DirectedRelation `json:"relations"`
}

// ManagerSnapshot is the full persistent state of a relation manager:
// the graph plus each agent's bounded emotion history.
type ManagerSnapshot struct {
	Graph          GraphSnapshot               `json:"directed_graph"`
	EmotionHistory map[string][]EmotionProfile `json:"emotion_history,omitempty"`
}
