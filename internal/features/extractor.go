// Package features derives the flat numeric feature map that drives the viral
// prediction model, plus a content-type classification. Extraction is a pure
// function of (text, platform, concepts, context) given an injected clock and
// trending snapshot.
package features

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/domain"
)

// TrendProvider supplies the current trending topics for the
// trending_topic_overlap feature. Implementations must be safe for
// concurrent use.
type TrendProvider interface {
	Topics() []string
}

// FeatureSet is the extractor output: named numeric features plus the
// classified content type.
type FeatureSet struct {
	Values      map[string]float64 `json:"values"`
	ContentType domain.ContentType `json:"content_type"`
}

// Get returns a feature value, 0 when absent.
func (fs FeatureSet) Get(name string) float64 {
	return fs.Values[name]
}

// Completeness is the fraction of features with a non-zero value. The viral
// engine blends it into prediction confidence.
func (fs FeatureSet) Completeness() float64 {
	if len(fs.Values) == 0 {
		return 0
	}
	nonZero := 0
	for _, v := range fs.Values {
		if v != 0 {
			nonZero++
		}
	}
	return float64(nonZero) / float64(len(fs.Values))
}

// Extractor computes feature sets. The zero value is not usable; construct
// with NewExtractor.
type Extractor struct {
	trends TrendProvider
	now    func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTrendProvider wires a trending-topics source into temporal features.
func WithTrendProvider(p TrendProvider) Option {
	return func(e *Extractor) { e.trends = p }
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates a feature extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract derives all features for a piece of content.
func (e *Extractor) Extract(text string, platform domain.Platform, entities []concepts.ConceptualEntity, _ map[string]string) FeatureSet {
	v := make(map[string]float64, 48)
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	// Length and structure.
	v["char_count"] = float64(len(text))
	v["word_count"] = float64(len(words))
	v["sentence_count"] = float64(countSentences(text))
	v["paragraph_count"] = float64(countParagraphs(text))
	v["avg_word_length"] = avgWordLength(words)
	v["hashtag_count"] = float64(len(hashtagRe.FindAllString(text, -1)))
	v["mention_count"] = float64(len(mentionRe.FindAllString(text, -1)))
	v["url_count"] = float64(len(urlRe.FindAllString(text, -1)))
	v["exclamation_count"] = float64(strings.Count(text, "!"))
	v["question_mark_count"] = float64(strings.Count(text, "?"))
	v["caps_ratio"] = capsRatio(text)

	// Linguistic triggers.
	v["power_word_count"] = float64(countPhrases(lower, powerWords))
	v["urgency_word_count"] = float64(countPhrases(lower, urgencyWords))
	v["social_proof_count"] = float64(countPhrases(lower, socialProofWords))
	v["curiosity_gap_count"] = float64(countPhrases(lower, curiosityGapWords))

	// Emotional categories and derived signals.
	e.extractEmotions(lower, v)

	// Concept-derived counts.
	e.extractConceptFeatures(entities, v)

	// Engagement-driving patterns.
	v["call_to_action_count"] = float64(len(callToActionRe.FindAllString(text, -1)))
	v["relatability_count"] = float64(countPhrases(lower, relatabilityWords))
	if isQuestionForm(text) {
		v["question_form"] = 1
	} else {
		v["question_form"] = 0
	}

	// Platform-specific sub-features.
	e.extractPlatformFeatures(lower, platform, v)

	// Temporal features.
	e.extractTemporalFeatures(lower, v)

	return FeatureSet{
		Values:      v,
		ContentType: classify(text, entities),
	}
}

func (e *Extractor) extractEmotions(lower string, v map[string]float64) {
	var total, positive, negative float64
	categories := make(map[string]float64, len(emotionLexicon))
	for category, triggers := range emotionLexicon {
		count := float64(countPhrases(lower, triggers))
		categories[category] = count
		v["emotion_"+category] = count
		total += count
		if positiveEmotions[category] {
			positive += count
		} else {
			negative += count
		}
	}

	v["negative_emotion_count"] = negative
	v["fear_uncertainty_count"] = categories["fear"] + float64(countPhrases(lower, uncertaintyWords))
	v["emotional_intensity"] = clamp01(total / 10.0)
	if total > 0 {
		// Polarity in [0,1]: 0 fully negative, 0.5 balanced, 1 fully positive.
		v["emotional_polarity"] = positive / total
		// Volatility: how evenly the text mixes opposing emotions.
		v["emotional_volatility"] = clamp01(2 * minF(positive, negative) / total * clamp01(total/5.0))
	} else {
		v["emotional_polarity"] = 0.5
		v["emotional_volatility"] = 0
	}
}

func (e *Extractor) extractConceptFeatures(entities []concepts.ConceptualEntity, v map[string]float64) {
	v["hot_take_count"] = float64(concepts.CountByType(entities, concepts.ConceptHotTake))
	v["belief_count"] = float64(concepts.CountByType(entities, concepts.ConceptBelief))

	if len(entities) == 0 {
		v["avg_concept_confidence"] = 0
		v["avg_engagement_potential"] = 0
		v["max_engagement_potential"] = 0
		return
	}

	var confSum, engSum, engMax float64
	for _, ent := range entities {
		confSum += ent.Confidence
		eng := ent.EngagementPotential()
		engSum += eng
		if eng > engMax {
			engMax = eng
		}
	}
	v["avg_concept_confidence"] = confSum / float64(len(entities))
	v["avg_engagement_potential"] = engSum / float64(len(entities))
	v["max_engagement_potential"] = engMax
}

func (e *Extractor) extractPlatformFeatures(lower string, platform domain.Platform, v map[string]float64) {
	switch platform {
	case domain.PlatformLinkedIn:
		v["professional_term_count"] = float64(countPhrases(lower, professionalTerms))
	case domain.PlatformTwitter:
		// Long-form content signals thread potential on Twitter.
		v["thread_potential"] = clamp01(v["word_count"] / 200.0)
		v["trending_hashtag_score"] = minF(1.0, v["hashtag_count"]/3.0)
		v["meme_potential"] = clamp01(float64(countPhrases(lower, memeCueWords)) / 2.0)
	case domain.PlatformInstagram, domain.PlatformTikTok:
		v["visual_cue_count"] = float64(countPhrases(lower, visualCueWords))
	}
}

// Fixed desirability tables: engagement-prime posting windows by hour (UTC
// buckets of the caller's locale) and by weekday.
var hourDesirability = [24]float64{
	0.1, 0.1, 0.1, 0.1, 0.1, 0.2, 0.4, 0.6, 0.8, 1.0, 0.9, 0.9,
	1.0, 0.8, 0.7, 0.7, 0.8, 0.9, 0.7, 0.5, 0.4, 0.3, 0.2, 0.1,
}

var dayDesirability = [7]float64{0.4, 0.8, 1.0, 1.0, 0.9, 0.6, 0.4} // Sunday..Saturday

func (e *Extractor) extractTemporalFeatures(lower string, v map[string]float64) {
	v["time_sensitivity_count"] = float64(countPhrases(lower, timeSensitivityWords))

	now := e.now()
	v["hour_desirability"] = hourDesirability[now.Hour()]
	v["day_desirability"] = dayDesirability[int(now.Weekday())]

	overlap := 0.0
	if e.trends != nil {
		for _, topic := range e.trends.Topics() {
			if topic != "" && strings.Contains(lower, strings.ToLower(topic)) {
				overlap++
			}
		}
	}
	v["trending_topic_overlap"] = minF(1.0, overlap/3.0)
}

// classify picks a content type with fixed precedence: explicit concept tags,
// then phrase patterns in order, defaulting to insight.
func classify(text string, entities []concepts.ConceptualEntity) domain.ContentType {
	if concepts.CountByType(entities, concepts.ConceptHotTake) > 0 {
		return domain.ContentHotTake
	}
	if concepts.CountByType(entities, concepts.ConceptBelief) > 0 {
		return domain.ContentBelief
	}
	switch {
	case controversyPhrases.MatchString(text):
		return domain.ContentControversial
	case isQuestionForm(text):
		return domain.ContentQuestion
	case storyPhrases.MatchString(text):
		return domain.ContentStory
	case advicePhrases.MatchString(text):
		return domain.ContentAdvice
	case insightPhrases.MatchString(text):
		return domain.ContentInsight
	default:
		return domain.ContentInsight
	}
}

func isQuestionForm(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasSuffix(trimmed, "?")
}

func countSentences(text string) int {
	n := len(sentenceSplitRe.FindAllString(text+" ", -1))
	if n == 0 && strings.TrimSpace(text) != "" {
		return 1
	}
	return n
}

func countParagraphs(text string) int {
	n := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

func avgWordLength(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += len(w)
	}
	return float64(total) / float64(len(words))
}

func capsRatio(text string) float64 {
	letters, caps := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				caps++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(caps) / float64(letters)
}

// countPhrases counts occurrences of each phrase in the (lowercased) text.
// Multi-word phrases use substring matching; single words match on word
// boundaries to avoid counting fragments.
func countPhrases(lower string, phrases []string) int {
	total := 0
	for _, phrase := range phrases {
		if strings.ContainsRune(phrase, ' ') || strings.ContainsRune(phrase, ':') {
			total += strings.Count(lower, phrase)
			continue
		}
		total += countWord(lower, phrase)
	}
	return total
}

func countWord(lower, word string) int {
	count := 0
	start := 0
	for {
		idx := strings.Index(lower[start:], word)
		if idx < 0 {
			return count
		}
		abs := start + idx
		prev, _ := utf8.DecodeLastRuneInString(lower[:abs])
		before := abs == 0 || !isWordChar(prev)
		afterIdx := abs + len(word)
		next, _ := utf8.DecodeRuneInString(lower[afterIdx:])
		after := afterIdx >= len(lower) || !isWordChar(next)
		if before && after {
			count++
		}
		start = abs + len(word)
		if start >= len(lower) {
			return count
		}
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
