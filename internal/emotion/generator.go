package emotion

import (
	"context"
	"log"
	"math/rand"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sean220557/agentsim/pkg/types"
)

// Synthesizer produces an emotion profile for a context/personality pair,
// typically backed by an LLM. A failing synthesizer is an expected condition;
// the generator falls back to its keyword appraisal.
type Synthesizer interface {
	Synthesize(ctx context.Context, contextText string, personality types.Personality) (*types.EmotionProfile, error)
}

const synthesisCacheSize = 256

// Generator produces emotion profiles from templates, free-text context, and
// evolution of a prior state. A nil synthesizer is valid and means the
// keyword appraisal is always used.
type Generator struct {
	synth Synthesizer
	cache *lru.Cache[string, types.EmotionProfile]

	now func() time.Time
}

// NewGenerator returns a generator around an optional synthesizer.
func NewGenerator(synth Synthesizer) *Generator {
	cache, _ := lru.New[string, types.EmotionProfile](synthesisCacheSize)
	return &Generator{
		synth: synth,
		cache: cache,
		now:   time.Now,
	}
}

// GenerateFromTemplate returns the named preset, normalized and stamped. The
// context overrides the template's default description when non-empty.
// Template lookup is deterministic; callers wanting the classic jitter apply
// Vary with their own rand source.
func (g *Generator) GenerateFromTemplate(name, context string) (types.EmotionProfile, error) {
	p, err := templateProfile(name)
	if err != nil {
		return types.EmotionProfile{}, err
	}
	if context != "" {
		p.Context = context
	}
	p.Timestamp = g.now()
	return p, nil
}

// ParseMood maps a legacy one-word mood label to a template profile.
// Unrecognized words read as neutral rather than failing: the legacy persona
// format carried free-form mood strings.
func (g *Generator) ParseMood(word string) types.EmotionProfile {
	name, ok := moodTemplates[normalizeMoodWord(word)]
	if !ok {
		name = "neutral"
	}
	p, _ := g.GenerateFromTemplate(name, "mood: "+word)
	return p
}

// EvolveEmotion advances a current state under a new context. The update is
// deterministic: each dimension becomes
//
//	current*stability*decay + appraisal*(1-stability)
//
// with stability derived from personality traits and a fixed decay of 0.9
// pulling lingering emotion toward neutral.
func (g *Generator) EvolveEmotion(current types.EmotionProfile, contextText string, personality types.Personality) types.EmotionProfile {
	const decay = 0.9

	appraisal := combineAppraisal(personality, contextText)
	stability := emotionalStability(personality)

	next := types.EmotionProfile{
		Context:   "evolved: " + contextText,
		Timestamp: g.now(),
	}
	cur := current.Dimensions()
	app := appraisal.Dimensions()
	for i, name := range types.DimensionNames() {
		next.SetDimension(name, cur[i]*stability*decay+app[i]*(1-stability))
	}
	next.Normalize()
	return next
}

// GenerateFromContext produces a profile for a context/personality pair. The
// synthesizer is consulted first when present, with successful results cached
// per (personality, context); any synthesizer failure falls back to the
// deterministic keyword appraisal. This method never returns an error.
func (g *Generator) GenerateFromContext(ctx context.Context, contextText string, personality types.Personality) types.EmotionProfile {
	if g.synth != nil {
		key := personality.Name + "\x00" + personality.Description + "\x00" + contextText
		if cached, ok := g.cache.Get(key); ok {
			cached.Timestamp = g.now()
			return cached
		}

		p, err := g.synth.Synthesize(ctx, contextText, personality)
		if err == nil && p != nil {
			p.Normalize()
			if p.Context == "" {
				p.Context = "synthesized: " + contextText
			}
			g.cache.Add(key, *p)
			out := *p
			out.Timestamp = g.now()
			return out
		}
		log.Printf("emotion: synthesizer failed, using keyword appraisal: %v", err)
	}

	p := combineAppraisal(personality, contextText)
	p.Timestamp = g.now()
	return p
}

// Vary jitters every dimension of a profile by a uniform offset in
// [-amount, amount] drawn from rng, then renormalizes. The input profile is
// not modified.
func Vary(p types.EmotionProfile, amount float64, rng *rand.Rand) types.EmotionProfile {
	out := p
	for _, name := range types.DimensionNames() {
		out.AddDimension(name, (rng.Float64()*2-1)*amount)
	}
	out.Normalize()
	return out
}
