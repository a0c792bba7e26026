package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownInteractionType is returned when an interaction type outside the
// closed twelve-value set is used. Unknown types are rejected rather than
// silently treated as neutral.
var ErrUnknownInteractionType = errors.New("unknown interaction type")

// InteractionType is the closed set of interaction kinds an event can carry.
type InteractionType string

const (
	InteractionCooperation  InteractionType = "cooperation"
	InteractionConflict     InteractionType = "conflict"
	InteractionHelp         InteractionType = "help"
	InteractionBetrayal     InteractionType = "betrayal"
	InteractionPraise       InteractionType = "praise"
	InteractionCriticism    InteractionType = "criticism"
	InteractionSupport      InteractionType = "support"
	InteractionRejection    InteractionType = "rejection"
	InteractionCompetition  InteractionType = "competition"
	InteractionAlliance     InteractionType = "alliance"
	InteractionConversation InteractionType = "conversation"
	InteractionIgnore       InteractionType = "ignore"
)

// ComponentDeltas holds the per-component multipliers one interaction type
// applies to a directed relation. The effective delta for a component is
// multiplier * impact.
type ComponentDeltas struct {
	Trust      float64
	Respect    float64
	Affection  float64
	Dependency float64
}

// interactionDeltas maps every interaction type to its component multipliers.
var interactionDeltas = map[InteractionType]ComponentDeltas{
	InteractionCooperation:  {Trust: 0.8, Respect: 0.6, Affection: 0.4, Dependency: 0.2},
	InteractionConflict:     {Trust: -0.7, Respect: -0.5, Affection: -0.8, Dependency: 0.0},
	InteractionHelp:         {Trust: 0.6, Respect: 0.4, Affection: 0.7, Dependency: 0.5},
	InteractionBetrayal:     {Trust: -1.0, Respect: -0.6, Affection: -0.9, Dependency: -0.3},
	InteractionPraise:       {Trust: 0.3, Respect: 0.7, Affection: 0.5, Dependency: 0.0},
	InteractionCriticism:    {Trust: -0.2, Respect: -0.4, Affection: -0.3, Dependency: 0.0},
	InteractionSupport:      {Trust: 0.5, Respect: 0.4, Affection: 0.6, Dependency: 0.3},
	InteractionRejection:    {Trust: -0.4, Respect: -0.3, Affection: -0.8, Dependency: -0.2},
	InteractionCompetition:  {Trust: -0.2, Respect: 0.3, Affection: -0.1, Dependency: 0.0},
	InteractionAlliance:     {Trust: 0.7, Respect: 0.5, Affection: 0.3, Dependency: 0.6},
	InteractionConversation: {Trust: 0.1, Respect: 0.1, Affection: 0.2, Dependency: 0.0},
	InteractionIgnore:       {Trust: -0.2, Respect: -0.2, Affection: -0.3, Dependency: -0.1},
}

// ParseInteractionType validates a raw string against the closed type set.
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(s)
	if _, ok := interactionDeltas[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownInteractionType, s)
	}
	return t, nil
}

// Deltas returns the component multipliers for the interaction type.
func (t InteractionType) Deltas() (ComponentDeltas, error) {
	d, ok := interactionDeltas[t]
	if !ok {
		return ComponentDeltas{}, fmt.Errorf("%w: %q", ErrUnknownInteractionType, string(t))
	}
	return d, nil
}

// InteractionTypes returns all valid interaction types. Order is unspecified.
func InteractionTypes() []InteractionType {
	out := make([]InteractionType, 0, len(interactionDeltas))
	for t := range interactionDeltas {
		out = append(out, t)
	}
	return out
}

// Intimacy component weights. They sum to 1, so a relation whose four
// components share one value has exactly that intimacy.
const (
	WeightTrust      = 0.35
	WeightRespect    = 0.25
	WeightAffection  = 0.30
	WeightDependency = 0.10
)

// MaxHistoryLength caps the per-edge interaction history; the oldest record
// is evicted when a new one would exceed it.
const MaxHistoryLength = 100

// InteractionRecord is one entry in an edge's interaction history.
type InteractionRecord struct {
	ID             string          `json:"id"`
	Type           InteractionType `json:"type"`
	Impact         float64         `json:"impact"`
	Context        string          `json:"context,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	IntimacyBefore float64         `json:"intimacy_before"`
	IntimacyAfter  float64         `json:"intimacy_after"`
}

// DirectedRelation is one directed edge: how FromAgent relates to ToAgent.
// The reverse edge is an independent entity; asymmetry between the two is
// expected, not an error.
type DirectedRelation struct {
	FromAgent string `json:"from_agent"`
	ToAgent   string `json:"to_agent"`

	// Intimacy is derived from the four components via the fixed weights.
	// It is recomputed after every component change; SetRelation-style
	// overrides go through the graph, which keeps components consistent.
	Intimacy     float64 `json:"intimacy"`
	RelationType string  `json:"relation_type"`

	// Source components, each in [-1, 1].
	Trust      float64 `json:"trust"`
	Respect    float64 `json:"respect"`
	Affection  float64 `json:"affection"`
	Dependency float64 `json:"dependency"`

	PositiveInteractions int `json:"positive_interactions"`
	NegativeInteractions int `json:"negative_interactions"`
	NeutralInteractions  int `json:"neutral_interactions"`

	// InteractionCount is monotonic and counts every interaction ever
	// applied, unlike the history which is capped.
	InteractionCount   int                 `json:"interaction_count"`
	InteractionHistory []InteractionRecord `json:"interaction_history,omitempty"`

	LastUpdateTime time.Time `json:"last_update_time"`
}

// RecomputeIntimacy refreshes the derived intimacy from the components.
func (r *DirectedRelation) RecomputeIntimacy() {
	r.Intimacy = clamp(
		r.Trust*WeightTrust+
			r.Respect*WeightRespect+
			r.Affection*WeightAffection+
			r.Dependency*WeightDependency,
		-1, 1)
}

// ApplyInteraction updates the edge for one interaction: component deltas
// are multiplier*impact clamped into range, intimacy is recomputed, the
// positive/negative/neutral counter matching the sign of the net component
// delta is bumped, and a record is appended to the capped history.
func (r *DirectedRelation) ApplyInteraction(t InteractionType, impact float64, context string, now time.Time) error {
	deltas, err := t.Deltas()
	if err != nil {
		return err
	}

	before := r.Intimacy

	r.Trust = clamp(r.Trust+deltas.Trust*impact, -1, 1)
	r.Respect = clamp(r.Respect+deltas.Respect*impact, -1, 1)
	r.Affection = clamp(r.Affection+deltas.Affection*impact, -1, 1)
	r.Dependency = clamp(r.Dependency+deltas.Dependency*impact, -1, 1)
	r.RecomputeIntimacy()

	net := (deltas.Trust + deltas.Respect + deltas.Affection + deltas.Dependency) * impact
	const eps = 1e-9
	switch {
	case net > eps:
		r.PositiveInteractions++
	case net < -eps:
		r.NegativeInteractions++
	default:
		r.NeutralInteractions++
	}

	r.InteractionCount++
	r.appendRecord(InteractionRecord{
		ID:             uuid.NewString(),
		Type:           t,
		Impact:         impact,
		Context:        context,
		Timestamp:      now,
		IntimacyBefore: before,
		IntimacyAfter:  r.Intimacy,
	})
	r.LastUpdateTime = now
	return nil
}

// appendRecord is the single append path for the history; it enforces the
// cap by dropping the oldest entries.
func (r *DirectedRelation) appendRecord(rec InteractionRecord) {
	r.InteractionHistory = append(r.InteractionHistory, rec)
	if n := len(r.InteractionHistory); n > MaxHistoryLength {
		r.InteractionHistory = append(r.InteractionHistory[:0:0], r.InteractionHistory[n-MaxHistoryLength:]...)
	}
}

// Decay moves every component toward zero by the given factor in [0, 1]
// (1 = no decay) and recomputes intimacy. Counters, history and
// LastUpdateTime are untouched: decay models elapsed silence, not contact.
func (r *DirectedRelation) Decay(factor float64) {
	factor = clamp(factor, 0, 1)
	r.Trust *= factor
	r.Respect *= factor
	r.Affection *= factor
	r.Dependency *= factor
	r.RecomputeIntimacy()
}

// Clone returns a deep copy, including the interaction history.
func (r *DirectedRelation) Clone() DirectedRelation {
	out := *r
	if r.InteractionHistory != nil {
		out.InteractionHistory = append([]InteractionRecord(nil), r.InteractionHistory...)
	}
	return out
}
