package types

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Dimension bounds. PAD axes, surprise, trust and anticipation span the full
// bipolar range; the remaining basic and compound emotions bottom out at -0.5
// (a mild opposite state rather than a full inversion).
const (
	DimensionMin = -1.0
	DimensionMax = 1.0
	NarrowMin    = -0.5
)

// EmotionProfile is an instantaneous affective state expressed over a fixed
// set of bounded dimensions. It combines the PAD model (valence, arousal,
// dominance), the six Ekman basic emotions, and a set of social/compound
// emotions derived from the Plutchik wheel.
//
// Construction does not clamp: callers assign raw values and must call
// Normalize before relying on the bounds or on Intensity.
type EmotionProfile struct {
	// PAD axes, each in [-1, 1].
	Valence   float64 `json:"valence"`   // displeasure .. pleasure
	Arousal   float64 `json:"arousal"`   // calm .. excited
	Dominance float64 `json:"dominance"` // submissive .. dominant

	// Basic emotions in [-0.5, 1]; surprise in [-1, 1] (negative = fully expected).
	Joy      float64 `json:"joy"`
	Sadness  float64 `json:"sadness"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Surprise float64 `json:"surprise"`
	Disgust  float64 `json:"disgust"`

	// Social emotions in [-1, 1] (negative = distrust / dread).
	Trust        float64 `json:"trust"`
	Anticipation float64 `json:"anticipation"`

	// Compound emotions in [-0.5, 1]; the negative end reads as the
	// opposite pole (pessimism, relaxation, pride-for-guilt, and so on).
	Optimism  float64 `json:"optimism"`
	Anxiety   float64 `json:"anxiety"`
	Guilt     float64 `json:"guilt"`
	Pride     float64 `json:"pride"`
	Shame     float64 `json:"shame"`
	Envy      float64 `json:"envy"`
	Gratitude float64 `json:"gratitude"`
	Hope      float64 `json:"hope"`

	// Intensity is a derived non-negative activation summary. It is
	// recomputed by Normalize and never settable on its own.
	Intensity float64 `json:"intensity"`

	Timestamp time.Time `json:"timestamp"`
	Context   string    `json:"context,omitempty"`
}

// NumDimensions is the number of bounded emotion dimensions in a profile.
const NumDimensions = 19

// dimensionNames lists every bounded dimension in declaration order. The
// order is load-bearing: it fixes primary-emotion tie breaks and the layout
// of Dimensions().
var dimensionNames = [NumDimensions]string{
	"valence", "arousal", "dominance",
	"joy", "sadness", "anger", "fear", "surprise", "disgust",
	"trust", "anticipation",
	"optimism", "anxiety", "guilt", "pride", "shame", "envy", "gratitude", "hope",
}

// emotionNames are the basic+compound dimensions considered for primary
// emotion selection (PAD axes excluded). Declaration order breaks ties.
var emotionNames = [16]string{
	"joy", "sadness", "anger", "fear", "surprise", "disgust",
	"trust", "anticipation",
	"optimism", "anxiety", "guilt", "pride", "shame", "envy", "gratitude", "hope",
}

// DimensionNames returns the canonical dimension name list in fixed order.
func DimensionNames() []string {
	out := make([]string, NumDimensions)
	copy(out, dimensionNames[:])
	return out
}

// Dimensions returns the profile's dimension values in the canonical order.
func (p *EmotionProfile) Dimensions() [NumDimensions]float64 {
	return [NumDimensions]float64{
		p.Valence, p.Arousal, p.Dominance,
		p.Joy, p.Sadness, p.Anger, p.Fear, p.Surprise, p.Disgust,
		p.Trust, p.Anticipation,
		p.Optimism, p.Anxiety, p.Guilt, p.Pride, p.Shame, p.Envy, p.Gratitude, p.Hope,
	}
}

// Dimension returns the value of a dimension by canonical name.
func (p *EmotionProfile) Dimension(name string) (float64, bool) {
	f := p.dimensionField(name)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// SetDimension assigns a dimension by canonical name. The value is stored
// raw; call Normalize afterwards to clamp and refresh Intensity.
func (p *EmotionProfile) SetDimension(name string, value float64) bool {
	f := p.dimensionField(name)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// AddDimension adds a delta to a dimension by canonical name.
func (p *EmotionProfile) AddDimension(name string, delta float64) bool {
	f := p.dimensionField(name)
	if f == nil {
		return false
	}
	*f += delta
	return true
}

func (p *EmotionProfile) dimensionField(name string) *float64 {
	switch name {
	case "valence":
		return &p.Valence
	case "arousal":
		return &p.Arousal
	case "dominance":
		return &p.Dominance
	case "joy":
		return &p.Joy
	case "sadness":
		return &p.Sadness
	case "anger":
		return &p.Anger
	case "fear":
		return &p.Fear
	case "surprise":
		return &p.Surprise
	case "disgust":
		return &p.Disgust
	case "trust":
		return &p.Trust
	case "anticipation":
		return &p.Anticipation
	case "optimism":
		return &p.Optimism
	case "anxiety":
		return &p.Anxiety
	case "guilt":
		return &p.Guilt
	case "pride":
		return &p.Pride
	case "shame":
		return &p.Shame
	case "envy":
		return &p.Envy
	case "gratitude":
		return &p.Gratitude
	case "hope":
		return &p.Hope
	}
	return nil
}

// DimensionRange returns the [min, max] bounds for a dimension name.
func DimensionRange(name string) (min, max float64, ok bool) {
	switch name {
	case "valence", "arousal", "dominance", "surprise", "trust", "anticipation":
		return DimensionMin, DimensionMax, true
	case "joy", "sadness", "anger", "fear", "disgust",
		"optimism", "anxiety", "guilt", "pride", "shame", "envy", "gratitude", "hope":
		return NarrowMin, DimensionMax, true
	}
	return 0, 0, false
}

// Normalize clamps every dimension into its declared range in place and
// recomputes Intensity. It is idempotent: normalizing an already-normalized
// profile changes nothing.
func (p *EmotionProfile) Normalize() {
	for _, name := range dimensionNames {
		min, max, _ := DimensionRange(name)
		f := p.dimensionField(name)
		*f = clamp(*f, min, max)
	}
	p.Intensity = p.computeIntensity()
}

// computeIntensity blends the PAD vector magnitude with the mean absolute
// activation of the eight basic/social emotions, yielding a value in [0, 1].
func (p *EmotionProfile) computeIntensity() float64 {
	pad := math.Sqrt(p.Valence*p.Valence+p.Arousal*p.Arousal+p.Dominance*p.Dominance) / math.Sqrt(3)

	basics := [8]float64{p.Joy, p.Sadness, p.Anger, p.Fear, p.Surprise, p.Disgust, p.Trust, p.Anticipation}
	var sum float64
	for _, v := range basics {
		sum += math.Abs(v)
	}
	return (pad + sum/float64(len(basics))) / 2
}

// DimensionValue pairs a dimension name with its current value.
type DimensionValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PrimaryEmotions returns up to three basic/compound emotions whose absolute
// magnitude exceeds 0.2, strongest first. Ties are broken by the fixed
// dimension declaration order (joy first, hope last), so the result is
// deterministic for equal magnitudes.
func (p *EmotionProfile) PrimaryEmotions() []DimensionValue {
	significant := make([]DimensionValue, 0, len(emotionNames))
	for _, name := range emotionNames {
		v, _ := p.Dimension(name)
		if math.Abs(v) > 0.2 {
			significant = append(significant, DimensionValue{Name: name, Value: v})
		}
	}
	sort.SliceStable(significant, func(i, j int) bool {
		return math.Abs(significant[i].Value) > math.Abs(significant[j].Value)
	})
	if len(significant) > 3 {
		significant = significant[:3]
	}
	return significant
}

// PrimaryEmotion returns the single strongest emotion name, or "neutral"
// when no dimension is significant.
func (p *EmotionProfile) PrimaryEmotion() string {
	primaries := p.PrimaryEmotions()
	if len(primaries) == 0 {
		return "neutral"
	}
	return primaries[0].Name
}

// MoodDescription maps the profile to a short qualitative phrase. Profiles
// with a strong PAD signal are described on the PAD axes; otherwise the
// primary emotions are listed with an intensity adverb.
func (p *EmotionProfile) MoodDescription() string {
	primaries := p.PrimaryEmotions()

	if math.Abs(p.Valence) > 0.4 || math.Abs(p.Arousal) > 0.4 || math.Abs(p.Dominance) > 0.4 {
		valence := "neutral"
		if p.Valence > 0.3 {
			valence = "positive"
		} else if p.Valence < -0.3 {
			valence = "negative"
		}
		arousal := "balanced"
		if p.Arousal > 0.3 {
			arousal = "excited"
		} else if p.Arousal < -0.3 {
			arousal = "calm"
		}
		dominance := "moderate"
		if p.Dominance > 0.3 {
			dominance = "confident"
		} else if p.Dominance < -0.3 {
			dominance = "submissive"
		}
		return fmt.Sprintf("%s and %s (%s)", valence, arousal, dominance)
	}

	if len(primaries) == 0 {
		return "neutral"
	}

	strength := math.Abs(primaries[0].Value)
	var adverb string
	switch {
	case strength > 0.8:
		adverb = "extremely "
	case strength > 0.6:
		adverb = "very "
	case strength > 0.4:
		adverb = "moderately "
	case strength > 0.2:
		adverb = "slightly "
	}

	names := make([]string, len(primaries))
	for i, dv := range primaries {
		names[i] = dv.Name
	}
	switch len(names) {
	case 1:
		return adverb + names[0]
	case 2:
		return adverb + names[0] + " and " + names[1]
	default:
		return adverb + strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

// EmotionQuadrant classifies the profile into one of the four PAD-derived
// quadrants using the signs of valence and arousal, with a +/-0.2 dead zone
// around the origin.
func (p *EmotionProfile) EmotionQuadrant() string {
	switch {
	case p.Valence > 0.2 && p.Arousal > 0.2:
		return "excited"
	case p.Valence > 0.2 && p.Arousal < -0.2:
		return "relaxed"
	case p.Valence < -0.2 && p.Arousal > 0.2:
		return "anxious"
	case p.Valence < -0.2 && p.Arousal < -0.2:
		return "depressed"
	default:
		return "neutral"
	}
}

// EmotionalBalance summarizes the split between positively and negatively
// valenced emotions and how evenly they are matched.
type EmotionalBalance struct {
	Positive  float64 `json:"positive_balance"`
	Negative  float64 `json:"negative_balance"`
	Stability float64 `json:"emotional_stability"`
}

// Balance computes the emotional balance across the positive emotion set
// (joy, optimism, pride, gratitude, hope) and the negative one (sadness,
// anger, fear, disgust, shame, envy). All zeros when both sums vanish.
func (p *EmotionProfile) Balance() EmotionalBalance {
	positive := p.Joy + p.Optimism + p.Pride + p.Gratitude + p.Hope
	negative := p.Sadness + p.Anger + p.Fear + p.Disgust + p.Shame + p.Envy

	total := positive + negative
	if total <= 0 {
		return EmotionalBalance{}
	}
	return EmotionalBalance{
		Positive:  positive / total,
		Negative:  negative / total,
		Stability: 1 - math.Abs(positive-negative)/total,
	}
}

// Similarity returns a normalized similarity in [0, 1] between two profiles:
// 1 for identical dimension vectors, 0 for maximally distant ones given the
// dimension ranges.
func (p *EmotionProfile) Similarity(other *EmotionProfile) float64 {
	a := p.Dimensions()
	b := other.Dimensions()

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	distance := math.Sqrt(sum)
	maxDistance := math.Sqrt(float64(NumDimensions) * 4) // every dimension spans at most 2

	return clamp(1-distance/maxDistance, 0, 1)
}

// BlendWith returns a new normalized profile interpolated between p and
// other: every dimension is p*(1-weight) + other*weight. The blend keeps
// p's timestamp; callers stamping history entries overwrite it.
func (p *EmotionProfile) BlendWith(other *EmotionProfile, weight float64) EmotionProfile {
	blended := EmotionProfile{
		Timestamp: p.Timestamp,
		Context:   fmt.Sprintf("blend of %q and %q", p.Context, other.Context),
	}
	a := p.Dimensions()
	b := other.Dimensions()
	for i, name := range dimensionNames {
		blended.SetDimension(name, a[i]*(1-weight)+b[i]*weight)
	}
	blended.Normalize()
	return blended
}

// Summary renders a one-line human-readable digest of the profile: mood
// phrase, notable PAD axes, significant emotions, intensity and context.
func (p *EmotionProfile) Summary() string {
	parts := []string{p.MoodDescription()}

	var pad []string
	if math.Abs(p.Valence) > 0.2 {
		pad = append(pad, fmt.Sprintf("valence: %+.2f", p.Valence))
	}
	if math.Abs(p.Arousal) > 0.2 {
		pad = append(pad, fmt.Sprintf("arousal: %+.2f", p.Arousal))
	}
	if math.Abs(p.Dominance) > 0.2 {
		pad = append(pad, fmt.Sprintf("dominance: %+.2f", p.Dominance))
	}
	if len(pad) > 0 {
		parts = append(parts, "("+strings.Join(pad, ", ")+")")
	}

	var strong []string
	for _, name := range emotionNames {
		v, _ := p.Dimension(name)
		if math.Abs(v) > 0.3 {
			strong = append(strong, fmt.Sprintf("%s: %+.2f", name, v))
		}
	}
	if len(strong) > 0 {
		parts = append(parts, "["+strings.Join(strong, " ")+"]")
	}

	if p.Intensity > 0.1 {
		parts = append(parts, fmt.Sprintf("intensity: %.2f", p.Intensity))
	}
	if p.Context != "" {
		parts = append(parts, "context: "+p.Context)
	}
	return strings.Join(parts, " | ")
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
