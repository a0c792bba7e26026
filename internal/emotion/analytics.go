package emotion

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrInsufficientHistory is returned by dynamics analysis when the history
// holds fewer than two samples.
var ErrInsufficientHistory = errors.New("not enough emotion samples")

// GenerateEmotionReport renders a deterministic text report over an agent's
// emotion history: aggregate dimension means, the primary-emotion
// distribution, volatility, and the current state. An empty history yields a
// "no emotion data" report rather than an error.
func GenerateEmotionReport(history []types.EmotionProfile, agentName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== emotion report: %s ===\n", agentName)

	if len(history) == 0 {
		b.WriteString("no emotion data recorded\n")
		return b.String()
	}
	fmt.Fprintf(&b, "samples: %d\n\n", len(history))

	b.WriteString("aggregate state:\n")
	for _, dim := range []string{"valence", "arousal", "joy", "sadness", "anger", "fear"} {
		var sum float64
		for i := range history {
			v, _ := history[i].Dimension(dim)
			sum += v
		}
		fmt.Fprintf(&b, "  mean %s: %+.3f\n", dim, sum/float64(len(history)))
	}
	b.WriteString("\n")

	b.WriteString("primary emotion distribution:\n")
	for _, ec := range primaryDistribution(history) {
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", ec.Emotion, ec.Count,
			100*float64(ec.Count)/float64(len(history)))
	}
	b.WriteString("\n")

	if len(history) >= 2 {
		var shift float64
		for i := 1; i < len(history); i++ {
			shift += math.Abs(history[i].Intensity - history[i-1].Intensity)
		}
		fmt.Fprintf(&b, "volatility: %.3f\n\n", shift/float64(len(history)-1))
	}

	current := history[len(history)-1]
	b.WriteString("current state:\n")
	fmt.Fprintf(&b, "  primary emotion: %s\n", current.PrimaryEmotion())
	fmt.Fprintf(&b, "  mood: %s\n", current.MoodDescription())
	fmt.Fprintf(&b, "  intensity: %.3f\n", current.Intensity)
	fmt.Fprintf(&b, "  quadrant: %s\n", current.EmotionQuadrant())

	return b.String()
}

// DimensionTrend describes how one dimension moved over a history window.
type DimensionTrend struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Change     float64 `json:"change"`
	Volatility float64 `json:"volatility"` // stddev over the window
}

// EmotionCount is one entry of a primary-emotion frequency ranking.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// MoodShift marks an abrupt transition between two adjacent samples.
type MoodShift struct {
	FromIndex   int     `json:"from_index"`
	ToIndex     int     `json:"to_index"`
	Magnitude   float64 `json:"magnitude"`
	FromEmotion string  `json:"from_emotion"`
	ToEmotion   string  `json:"to_emotion"`
}

// Dynamics is the structured result of history analysis.
type Dynamics struct {
	TotalSamples     int                       `json:"total_samples"`
	Trends           map[string]DimensionTrend `json:"emotion_trends"`
	PADStability     float64                   `json:"pad_stability"`
	DominantEmotions []EmotionCount            `json:"dominant_emotions"`
	MoodShifts       []MoodShift               `json:"mood_shifts"`
}

// AnalyzeDynamics computes per-dimension trends, PAD stability, the top-3
// dominant emotions, and abrupt mood shifts (|Δvalence| + |Δarousal| > 0.5
// between adjacent samples). Needs at least two samples.
func AnalyzeDynamics(history []types.EmotionProfile) (Dynamics, error) {
	if len(history) < 2 {
		return Dynamics{}, fmt.Errorf("emotion: %w: got %d", ErrInsufficientHistory, len(history))
	}

	d := Dynamics{
		TotalSamples: len(history),
		Trends:       make(map[string]DimensionTrend, types.NumDimensions),
	}

	for _, name := range types.DimensionNames() {
		values := make([]float64, len(history))
		for i := range history {
			values[i], _ = history[i].Dimension(name)
		}
		d.Trends[name] = DimensionTrend{
			Start:      values[0],
			End:        values[len(values)-1],
			Change:     values[len(values)-1] - values[0],
			Volatility: stddev(values),
		}
	}

	d.PADStability = 1 - (d.Trends["valence"].Volatility+
		d.Trends["arousal"].Volatility+
		d.Trends["dominance"].Volatility)/3

	dist := primaryDistribution(history)
	if len(dist) > 3 {
		dist = dist[:3]
	}
	d.DominantEmotions = dist

	for i := 1; i < len(history); i++ {
		prev, curr := &history[i-1], &history[i]
		magnitude := math.Abs(curr.Valence-prev.Valence) + math.Abs(curr.Arousal-prev.Arousal)
		if magnitude > 0.5 {
			d.MoodShifts = append(d.MoodShifts, MoodShift{
				FromIndex:   i - 1,
				ToIndex:     i,
				Magnitude:   magnitude,
				FromEmotion: prev.PrimaryEmotion(),
				ToEmotion:   curr.PrimaryEmotion(),
			})
		}
	}

	return d, nil
}

// primaryDistribution counts primary emotions over a history, most frequent
// first; equal counts order alphabetically for determinism.
func primaryDistribution(history []types.EmotionProfile) []EmotionCount {
	counts := make(map[string]int)
	for i := range history {
		counts[history[i].PrimaryEmotion()]++
	}

	out := make([]EmotionCount, 0, len(counts))
	for emotion, count := range counts {
		out = append(out, EmotionCount{Emotion: emotion, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

func stddev(values []float64) float64 {
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
	return math.Sqrt(variance / float64(len(values)))
}
