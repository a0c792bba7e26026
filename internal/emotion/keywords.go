package emotion

import (
	"strings"

	"github.com/Sean220557/agentsim/pkg/types"
)

// positiveKeywords and negativeKeywords map an emotion dimension to trigger
// words; a match adds matchedFraction*0.8 to that dimension.
var positiveKeywords = map[string][]string{
	"joy":       {"happy", "joy", "delighted", "pleased", "satisfied", "love"},
	"gratitude": {"thankful", "grateful", "appreciative"},
	"pride":     {"proud", "accomplished", "successful"},
	"hope":      {"hopeful", "optimistic", "looking forward"},
	"trust":     {"trust", "reliable", "dependable"},
}

var negativeKeywords = map[string][]string{
	"sadness": {"sad", "unhappy", "depressed", "melancholy", "sorrow"},
	"anger":   {"angry", "mad", "frustrated", "irritated", "annoyed"},
	"fear":    {"scared", "frightened", "terrified", "afraid"},
	"disgust": {"disgusted", "repelled", "revolted"},
	"shame":   {"ashamed", "embarrassed", "humiliated"},
	"guilt":   {"guilty", "remorseful", "regretful"},
	"envy":    {"envious", "jealous", "covetous"},
	"anxiety": {"anxious", "nervous", "worried", "stressed"},
}

// situationKeywords detect the appraisal class of a context; each class has a
// fixed multi-dimension adjustment applied in applySituation.
var situationKeywords = map[string][]string{
	"threat":    {"threat", "danger", "risk", "menace", "hazard"},
	"challenge": {"challenge", "obstacle", "difficulty", "problem"},
	"support":   {"support", "help", "assistance", "aid"},
	"rejection": {"rejected", "ignored", "excluded", "dismissed"},
	"success":   {"success", "achievement", "victory", "triumph"},
	"failure":   {"failure", "defeat", "loss", "disappointment"},
	"surprise":  {"surprise", "unexpected", "sudden", "shocking"},
}

// personalityBaseline derives a resting emotional bias from trait words in
// the personality description.
func personalityBaseline(personality types.Personality) types.EmotionProfile {
	p := types.EmotionProfile{Context: "personality baseline"}
	desc := strings.ToLower(personality.Description)

	if containsAny(desc, "optimistic", "positive", "hopeful") {
		p.Valence += 0.3
		p.Optimism += 0.4
		p.Hope += 0.3
	}
	if containsAny(desc, "pessimistic", "negative", "cynical") {
		p.Valence -= 0.3
		p.Optimism -= 0.4
		p.Anxiety += 0.2
	}
	if containsAny(desc, "confident", "assertive", "bold") {
		p.Dominance += 0.3
		p.Pride += 0.2
	}
	if containsAny(desc, "shy", "timid") {
		p.Dominance -= 0.3
		p.Shame += 0.2
		p.Arousal -= 0.2
	}
	if containsAny(desc, "extroverted", "outgoing", "sociable") {
		p.Arousal += 0.2
		p.Anticipation += 0.2
	}
	if containsAny(desc, "introverted", "reserved", "quiet") {
		p.Arousal -= 0.2
	}

	p.Normalize()
	return p
}

// contextEmotions scores the emotional content of a free-text context using
// the keyword and situation tables.
func contextEmotions(contextText string) types.EmotionProfile {
	p := types.EmotionProfile{Context: "context: " + contextText}
	text := strings.ToLower(contextText)

	for dim, words := range positiveKeywords {
		if frac := matchedFraction(text, words); frac > 0 {
			p.AddDimension(dim, frac*0.8)
		}
	}
	for dim, words := range negativeKeywords {
		if frac := matchedFraction(text, words); frac > 0 {
			p.AddDimension(dim, frac*0.8)
		}
	}
	for situation, words := range situationKeywords {
		if matchedFraction(text, words) > 0 {
			applySituation(&p, situation)
		}
	}

	p.Normalize()
	return p
}

func applySituation(p *types.EmotionProfile, situation string) {
	switch situation {
	case "threat":
		p.Fear += 0.6
		p.Anxiety += 0.4
		p.Valence -= 0.4
		p.Arousal += 0.5
	case "challenge":
		p.Anticipation += 0.5
		p.Hope += 0.3
		p.Arousal += 0.3
	case "support":
		p.Gratitude += 0.5
		p.Trust += 0.4
		p.Valence += 0.3
	case "rejection":
		p.Shame += 0.4
		p.Sadness += 0.3
		p.Valence -= 0.4
	case "success":
		p.Pride += 0.6
		p.Joy += 0.5
		p.Valence += 0.5
	case "failure":
		p.Sadness += 0.6
		p.Shame += 0.3
		p.Valence -= 0.5
	case "surprise":
		p.Surprise += 0.7
		p.Arousal += 0.4
	}
}

// combineAppraisal merges the personality baseline (40%) with the context
// reading (60%).
func combineAppraisal(personality types.Personality, contextText string) types.EmotionProfile {
	base := personalityBaseline(personality)
	ctx := contextEmotions(contextText)
	combined := base.BlendWith(&ctx, 0.6)
	combined.Context = "appraisal: " + contextText
	return combined
}

// emotionalStability maps trait words to a stability coefficient in
// [0.3, 0.9]; higher means the current state resists context pressure more.
func emotionalStability(personality types.Personality) float64 {
	desc := strings.ToLower(personality.Description)

	stability := 0.7
	if containsAny(desc, "stable", "calm", "steady", "reliable") {
		stability += 0.2
	}
	if containsAny(desc, "volatile", "moody", "unstable", "emotional") {
		stability -= 0.2
	}
	if containsAny(desc, "introverted", "reserved", "thoughtful") {
		stability += 0.1
	}
	if containsAny(desc, "extroverted", "outgoing", "energetic") {
		stability -= 0.05
	}

	if stability < 0.3 {
		return 0.3
	}
	if stability > 0.9 {
		return 0.9
	}
	return stability
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func matchedFraction(text string, words []string) float64 {
	matched := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}
