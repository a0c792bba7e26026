package emotion

import "strings"

// moodTemplates maps legacy free-form mood words onto template names. The
// table favors recall over precision: near-synonyms collapse onto the closest
// preset.
var moodTemplates = map[string]string{
	"calm":    "calm",
	"neutral": "neutral",

	"happy":    "excited",
	"joyful":   "excited",
	"cheerful": "excited",
	"excited":  "excited",
	"ecstatic": "excited",
	"loved":    "excited",

	"anxious":      "anxious",
	"worried":      "anxious",
	"nervous":      "anxious",
	"agitated":     "anxious",
	"restless":     "anxious",
	"tense":        "anxious",
	"stressed":     "anxious",
	"overwhelmed":  "anxious",
	"apprehensive": "anxious",
	"uneasy":       "anxious",
	"insecure":     "anxious",

	"angry":      "angry",
	"mad":        "angry",
	"frustrated": "angry",
	"furious":    "angry",
	"bitter":     "angry",
	"resentful":  "angry",
	"indignant":  "angry",

	"sad":          "sad",
	"depressed":    "sad",
	"melancholy":   "sad",
	"hopeless":     "sad",
	"devastated":   "sad",
	"heartbroken":  "sad",
	"miserable":    "sad",
	"despairing":   "sad",
	"defeated":     "sad",
	"discouraged":  "sad",
	"disheartened": "sad",
	"pessimistic":  "sad",

	"fearful":     "fearful",
	"scared":      "fearful",
	"terrified":   "fearful",
	"panicked":    "fearful",
	"petrified":   "fearful",
	"horrified":   "fearful",
	"vulnerable":  "fearful",
	"exposed":     "fearful",
	"intimidated": "fearful",

	"surprised": "surprised",
	"shocked":   "surprised",
	"confused":  "surprised",
	"amazed":    "surprised",

	"disgusted": "disgusted",
	"repelled":  "disgusted",

	"confident": "confident",

	"suspicious":  "suspicious",
	"distrustful": "suspicious",
	"skeptical":   "suspicious",
	"doubtful":    "suspicious",
	"wary":        "suspicious",

	"hopeful":    "hopeful",
	"optimistic": "hopeful",
	"inspired":   "hopeful",

	"proud":        "proud",
	"valued":       "proud",
	"respected":    "proud",
	"admired":      "proud",
	"accomplished": "proud",
	"successful":   "proud",
	"victorious":   "proud",

	"ashamed":     "guilty",
	"guilty":      "guilty",
	"embarrassed": "guilty",
	"humiliated":  "guilty",
	"regretful":   "guilty",
	"remorseful":  "guilty",

	"envious":      "envious",
	"jealous":      "envious",
	"covetous":     "envious",
	"dissatisfied": "envious",

	"grateful":     "grateful",
	"thankful":     "grateful",
	"cherished":    "grateful",
	"sentimental":  "grateful",
	"appreciative": "grateful",
	"indebted":     "grateful",
	"obliged":      "grateful",

	"trusting": "trusting",
	"faithful": "trusting",
	"loyal":    "trusting",
	"devoted":  "trusting",

	"shy":      "shy",
	"timid":    "shy",
	"bashful":  "shy",
	"reserved": "shy",

	"threatened": "threatened",
	"bullied":    "threatened",
	"victimized": "threatened",
	"betrayed":   "threatened",

	"challenged": "challenged",
	"motivated":  "challenged",

	"supported":  "supported",
	"included":   "supported",
	"welcomed":   "supported",
	"accepted":   "supported",
	"encouraged": "supported",

	"ignored":     "ignored",
	"rejected":    "ignored",
	"excluded":    "ignored",
	"isolated":    "ignored",
	"abandoned":   "ignored",
	"demotivated": "ignored",

	"curious": "curious",

	"content":   "content",
	"satisfied": "content",
	"relaxed":   "content",
	"peaceful":  "content",

	"determined": "determined",

	"lonely": "lonely",

	"nostalgic": "nostalgic",
}

func normalizeMoodWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
