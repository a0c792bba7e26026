// Package emotion generates and analyzes EmotionProfile values: a library of
// named template states, deterministic keyword-driven evolution, an optional
// LLM-backed synthesizer with a local fallback, and history analytics.
package emotion

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrUnknownTemplate is returned for a template name outside the library.
var ErrUnknownTemplate = errors.New("unknown emotion template")

// templates is the preset library. Grouped loosely: basic states, social
// states, Plutchik compounds, appraisal-driven states. Values are raw and get
// normalized on generation.
var templates = map[string]types.EmotionProfile{
	"neutral": {
		Context: "neutral emotional state",
	},
	"calm": {
		Valence: 0.3, Arousal: -0.3, Dominance: 0.2, Trust: 0.4, Anxiety: -0.4,
		Context: "calm and relaxed",
	},
	"excited": {
		Valence: 0.8, Arousal: 0.8, Dominance: 0.4, Joy: 0.8, Anticipation: 0.6, Hope: 0.5,
		Context: "excited and energetic",
	},
	"anxious": {
		Valence: -0.4, Arousal: 0.7, Dominance: -0.3, Anxiety: 0.8, Fear: 0.5, Anticipation: -0.4,
		Context: "anxious and worried",
	},
	"angry": {
		Valence: -0.7, Arousal: 0.8, Dominance: 0.6, Anger: 0.9, Disgust: 0.4,
		Context: "angry and frustrated",
	},
	"sad": {
		Valence: -0.8, Arousal: -0.4, Dominance: -0.5, Sadness: 0.9, Hope: -0.5, Optimism: -0.5,
		Context: "sad and melancholic",
	},
	"fearful": {
		Valence: -0.6, Arousal: 0.8, Dominance: -0.7, Fear: 0.9, Anxiety: 0.7, Surprise: -0.3,
		Context: "fearful and scared",
	},
	"surprised": {
		Valence: 0.3, Arousal: 0.9, Surprise: 0.9, Anticipation: 0.4,
		Context: "surprised and amazed",
	},
	"disgusted": {
		Valence: -0.6, Arousal: 0.4, Dominance: 0.2, Disgust: 0.9, Anger: 0.5,
		Context: "disgusted and repelled",
	},

	"trusting": {
		Valence: 0.5, Arousal: -0.2, Dominance: 0.3, Trust: 0.8, Gratitude: 0.4,
		Context: "trusting and faithful",
	},
	"suspicious": {
		Valence: -0.4, Arousal: 0.3, Dominance: -0.2, Trust: -0.7, Anxiety: 0.5, Anticipation: -0.3,
		Context: "suspicious and distrustful",
	},
	"confident": {
		Valence: 0.7, Arousal: 0.4, Dominance: 0.8, Pride: 0.7, Optimism: 0.6,
		Context: "confident and assured",
	},
	"shy": {
		Valence: -0.2, Arousal: -0.4, Dominance: -0.6, Shame: 0.4, Anxiety: 0.3,
		Context: "shy and timid",
	},

	"hopeful": {
		Valence: 0.6, Arousal: 0.3, Dominance: 0.4, Hope: 0.8, Anticipation: 0.5, Optimism: 0.7,
		Context: "hopeful and optimistic",
	},
	"guilty": {
		Valence: -0.5, Arousal: -0.3, Dominance: -0.4, Guilt: 0.8, Shame: 0.6, Sadness: 0.4,
		Context: "guilty and remorseful",
	},
	"proud": {
		Valence: 0.7, Arousal: 0.5, Dominance: 0.7, Pride: 0.9, Joy: 0.6, Gratitude: 0.4,
		Context: "proud and accomplished",
	},
	"envious": {
		Valence: -0.3, Arousal: 0.4, Dominance: -0.2, Envy: 0.8, Sadness: 0.4, Anger: 0.3,
		Context: "envious and jealous",
	},
	"grateful": {
		Valence: 0.8, Arousal: 0.3, Dominance: 0.4, Gratitude: 0.9, Joy: 0.6, Trust: 0.5,
		Context: "grateful and appreciative",
	},

	"threatened": {
		Valence: -0.6, Arousal: 0.8, Dominance: -0.5, Fear: 0.8, Anger: 0.5, Anxiety: 0.7,
		Context: "threatened and defensive",
	},
	"challenged": {
		Valence: 0.2, Arousal: 0.7, Dominance: 0.6, Anticipation: 0.6, Hope: 0.4, Pride: 0.3,
		Context: "challenged and motivated",
	},
	"supported": {
		Valence: 0.7, Arousal: 0.2, Dominance: 0.4, Gratitude: 0.7, Trust: 0.6, Joy: 0.5,
		Context: "supported and valued",
	},
	"ignored": {
		Valence: -0.4, Arousal: -0.3, Dominance: -0.3, Sadness: 0.6, Shame: 0.4, Envy: 0.3,
		Context: "ignored and insignificant",
	},

	"curious": {
		Valence: 0.4, Arousal: 0.5, Dominance: 0.1, Surprise: 0.4, Anticipation: 0.7, Hope: 0.3,
		Context: "curious and inquisitive",
	},
	"content": {
		Valence: 0.5, Arousal: -0.3, Dominance: 0.2, Joy: 0.4, Gratitude: 0.3, Anxiety: -0.3,
		Context: "content and satisfied",
	},
	"determined": {
		Valence: 0.3, Arousal: 0.6, Dominance: 0.7, Anticipation: 0.5, Hope: 0.5, Pride: 0.3,
		Context: "determined and focused",
	},
	"lonely": {
		Valence: -0.5, Arousal: -0.4, Dominance: -0.4, Sadness: 0.7, Trust: -0.3, Envy: 0.2,
		Context: "lonely and isolated",
	},
	"nostalgic": {
		Valence: 0.1, Arousal: -0.3, Sadness: 0.3, Gratitude: 0.4, Hope: 0.2,
		Context: "nostalgic and wistful",
	},
}

// TemplateNames returns the template library's names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func templateProfile(name string) (types.EmotionProfile, error) {
	base, ok := templates[name]
	if !ok {
		return types.EmotionProfile{}, fmt.Errorf("emotion: %w: %q", ErrUnknownTemplate, name)
	}
	base.Normalize()
	return base, nil
}
