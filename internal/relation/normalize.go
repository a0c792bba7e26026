package relation

import (
	"errors"
	"fmt"
	"math"

	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrUnknownNormalizeMethod is returned for a method outside the closed set.
var ErrUnknownNormalizeMethod = errors.New("unknown normalization method")

// NormalizeMethod selects the rescaling scheme for per-agent normalization.
type NormalizeMethod string

const (
	// NormalizeMinMax linearly rescales each component's observed range
	// across the agent's outgoing edges to [-1, 1]. Idempotent.
	NormalizeMinMax NormalizeMethod = "minmax"

	// NormalizeZScore centers each component on its mean, divides by the
	// standard deviation, and squashes with tanh into (-1, 1).
	NormalizeZScore NormalizeMethod = "zscore"

	// NormalizeSoftmax exponentially normalizes each component, keeping
	// relative ordering, then rescales the result into [-1, 1].
	NormalizeSoftmax NormalizeMethod = "softmax"
)

// ParseNormalizeMethod validates a raw method string.
func ParseNormalizeMethod(s string) (NormalizeMethod, error) {
	switch m := NormalizeMethod(s); m {
	case NormalizeMinMax, NormalizeZScore, NormalizeSoftmax:
		return m, nil
	default:
		return "", fmt.Errorf("relation: %w: %q", ErrUnknownNormalizeMethod, s)
	}
}

// components the normalization runs over, by canonical name.
var componentNames = [4]string{"trust", "respect", "affection", "dependency"}

func componentValue(rel *types.DirectedRelation, name string) float64 {
	switch name {
	case "trust":
		return rel.Trust
	case "respect":
		return rel.Respect
	case "affection":
		return rel.Affection
	default:
		return rel.Dependency
	}
}

func setComponentValue(rel *types.DirectedRelation, name string, v float64) {
	v = clamp(v, -1, 1)
	switch name {
	case "trust":
		rel.Trust = v
	case "respect":
		rel.Respect = v
	case "affection":
		rel.Affection = v
	default:
		rel.Dependency = v
	}
}

// NormalizeAgentRelations rescales the component vectors of the agent's
// outgoing edges with the chosen method and recomputes intimacy for every
// affected edge. Each component is normalized independently across the
// agent's edges. With one or zero outgoing edges there is no spread to
// normalize against, so the call is a no-op.
func (g *Graph) NormalizeAgentRelations(agent string, method NormalizeMethod) error {
	if err := g.checkRegistered(agent); err != nil {
		return err
	}
	if _, err := ParseNormalizeMethod(string(method)); err != nil {
		return err
	}

	edges := g.outgoing(agent)
	if len(edges) <= 1 {
		return nil
	}

	for _, name := range componentNames {
		values := make([]float64, len(edges))
		for i, rel := range edges {
			values[i] = componentValue(rel, name)
		}

		var rescaled []float64
		switch method {
		case NormalizeMinMax:
			rescaled = minmaxRescale(values)
		case NormalizeZScore:
			rescaled = zscoreRescale(values)
		case NormalizeSoftmax:
			rescaled = softmaxRescale(values)
		}
		if rescaled == nil {
			continue // no spread in this component
		}
		for i, rel := range edges {
			setComponentValue(rel, name, rescaled[i])
		}
	}

	for _, rel := range edges {
		rel.RecomputeIntimacy()
	}
	return nil
}

// NormalizeAllAgents normalizes every registered agent independently; each
// agent's rescaling only considers that agent's own outgoing edges.
func (g *Graph) NormalizeAllAgents(method NormalizeMethod) error {
	if _, err := ParseNormalizeMethod(string(method)); err != nil {
		return err
	}
	for _, agent := range g.agents {
		if err := g.NormalizeAgentRelations(agent, method); err != nil {
			return err
		}
	}
	return nil
}

// minmaxRescale maps the observed [min, max] linearly onto [-1, 1].
// Returns nil when all values coincide.
func minmaxRescale(values []float64) []float64 {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max <= min {
		return nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = 2*(v-min)/(max-min) - 1
	}
	return out
}

// zscoreRescale centers and scales by the standard deviation, then squashes
// with tanh so outliers land inside (-1, 1) instead of piling on the rails.
// Returns nil when the deviation vanishes.
func zscoreRescale(values []float64) []float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(values)))
	if std == 0 {
		return nil
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Tanh((v - mean) / std)
	}
	return out
}

// softmaxRescale applies a numerically stable softmax and maps the resulting
// (0, 1) shares onto [-1, 1], preserving relative ordering.
func softmaxRescale(values []float64) []float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	exps := make([]float64, len(values))
	var total float64
	for i, v := range values {
		exps[i] = math.Exp(v - max)
		total += exps[i]
	}

	out := make([]float64, len(values))
	for i := range values {
		out[i] = 2*exps[i]/total - 1
	}
	return out
}
