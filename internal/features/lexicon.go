package features

import "regexp"

// Fixed lexicons driving the linguistic and emotional feature counts. These
// are policy tables, set once at construction and never mutated.

var powerWords = []string{
	"proven", "secret", "instant", "guaranteed", "exclusive", "ultimate",
	"essential", "effortless", "powerful", "breakthrough", "remarkable",
	"free", "new", "discover", "unlock", "transform", "skyrocket",
}

var urgencyWords = []string{
	"now", "today", "hurry", "deadline", "limited", "expires", "last chance",
	"act fast", "don't miss", "before it's too late", "ending soon", "urgent",
}

var socialProofWords = []string{
	"everyone", "thousands", "millions", "most people", "top performers",
	"experts agree", "studies show", "research shows", "proven by",
	"trusted by", "join", "community",
}

var curiosityGapWords = []string{
	"what happened next", "you won't believe", "the truth about",
	"nobody talks about", "here's why", "the real reason", "what i learned",
	"surprising", "little-known", "hidden",
}

var relatabilityWords = []string{
	"we've all", "you know the feeling", "been there", "sound familiar",
	"me too", "same here", "honestly", "let's be real", "real talk",
}

var timeSensitivityWords = []string{
	"breaking", "just announced", "this week", "this morning", "right now",
	"today", "tonight", "happening", "live", "update",
}

var professionalTerms = []string{
	"strategy", "leadership", "stakeholder", "roi", "kpi", "b2b",
	"enterprise", "hiring", "career", "productivity", "management",
	"revenue", "pipeline", "networking", "growth",
}

var visualCueWords = []string{
	"photo", "video", "watch", "look", "see", "swipe", "behind the scenes",
	"tutorial", "before and after", "reveal",
}

var memeCueWords = []string{
	"pov:", "nobody:", "me:", "when you", "that moment when", "tell me",
	"ratio", "based", "vibes",
}

// emotionLexicon maps each emotional category to its trigger words.
// Polarity: joy/trust/anticipation positive; anger/fear/sadness/disgust negative.
var emotionLexicon = map[string][]string{
	"joy":          {"happy", "joy", "excited", "thrilled", "love", "celebrate", "amazing", "wonderful", "delighted"},
	"trust":        {"trust", "reliable", "honest", "proven", "authentic", "credible", "dependable"},
	"anticipation": {"soon", "upcoming", "can't wait", "excited for", "looking forward", "launch", "preview"},
	"anger":        {"angry", "furious", "outraged", "hate", "disgusted", "unacceptable", "ridiculous", "infuriating"},
	"fear":         {"afraid", "scared", "terrified", "worried", "anxious", "dangerous", "threat", "warning", "risk"},
	"sadness":      {"sad", "heartbroken", "devastated", "disappointed", "loss", "grief", "miserable"},
	"surprise":     {"shocking", "unbelievable", "unexpected", "stunned", "wow", "mind-blowing", "plot twist"},
}

var positiveEmotions = map[string]bool{"joy": true, "trust": true, "anticipation": true}

// uncertaintyWords feed the fear/uncertainty risk trigger alongside the
// "fear" emotion category.
var uncertaintyWords = []string{
	"uncertain", "unclear", "maybe", "might", "unknown", "unpredictable",
	"volatile", "doubt", "risky", "gamble",
}

// Content-type phrase patterns, checked in the classification precedence
// order defined by classify().
var (
	controversyPhrases = regexp.MustCompile(`(?i)\b(unpopular opinion|hot take|controversial|fight me|everyone is wrong|change my mind)\b`)
	storyPhrases       = regexp.MustCompile(`(?i)\b(a few years ago|when i started|my journey|i remember|true story|let me tell you|once upon)\b`)
	advicePhrases      = regexp.MustCompile(`(?i)\b(how to|you should|tips for|steps to|here's how|my advice|do this|avoid these)\b`)
	insightPhrases     = regexp.MustCompile(`(?i)\b(i learned|i realized|the lesson|key insight|what this means|the takeaway|turns out)\b`)
	callToActionRe     = regexp.MustCompile(`(?i)\b(comment below|share this|follow for|tag someone|link in bio|sign up|subscribe|dm me|let me know|retweet)\b`)
	hashtagRe          = regexp.MustCompile(`#\w+`)
	mentionRe          = regexp.MustCompile(`@\w+`)
	urlRe              = regexp.MustCompile(`https?://\S+`)
	sentenceSplitRe    = regexp.MustCompile(`[.!?]+\s`)
)
