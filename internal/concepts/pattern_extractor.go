package concepts

import (
	"context"
	"regexp"
	"strings"
)

// PatternExtractor is the default deterministic concept extractor. It finds
// hot takes and beliefs through fixed phrase patterns so the whole scoring
// pipeline stays a pure function of its input text.
type PatternExtractor struct {
	hotTakePatterns []*regexp.Regexp
	beliefPatterns  []*regexp.Regexp
	negativeWords   map[string]struct{}
	positiveWords   map[string]struct{}
}

// NewPatternExtractor compiles the fixed pattern tables.
func NewPatternExtractor() *PatternExtractor {
	compile := func(exprs []string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(exprs))
		for _, e := range exprs {
			out = append(out, regexp.MustCompile(e))
		}
		return out
	}
	return &PatternExtractor{
		hotTakePatterns: compile([]string{
			`(?i)\bhot take\b`,
			`(?i)\bunpopular opinion\b`,
			`(?i)\bcontroversial (?:take|opinion|view)\b`,
			`(?i)\bnobody wants to (?:hear|admit) (?:this|it)\b`,
			`(?i)\b(?:everyone|everybody) is wrong about\b`,
			`(?i)\bfight me\b`,
		}),
		beliefPatterns: compile([]string{
			`(?i)\bi (?:truly |firmly |strongly )?believe\b`,
			`(?i)\bin my (?:honest |humble )?opinion\b`,
			`(?i)\bi'?m convinced\b`,
			`(?i)\bmy core (?:belief|value|principle)\b`,
			`(?i)\bi stand by\b`,
		}),
		negativeWords: wordSet("hate", "terrible", "awful", "worst", "wrong", "broken", "failing", "dead", "useless", "scam"),
		positiveWords: wordSet("love", "great", "amazing", "best", "excellent", "powerful", "win", "growth", "success", "opportunity"),
	}
}

// Extract is pure: identical text always yields identical entities.
func (p *PatternExtractor) Extract(_ context.Context, text string, _ map[string]string) ([]ConceptualEntity, error) {
	var out []ConceptualEntity
	out = append(out, p.match(text, p.hotTakePatterns, ConceptHotTake, 0.85, 0.8)...)
	out = append(out, p.match(text, p.beliefPatterns, ConceptBelief, 0.75, 0.6)...)
	return out, nil
}

func (p *PatternExtractor) match(text string, patterns []*regexp.Regexp, t ConceptType, confidence, engagement float64) []ConceptualEntity {
	var out []ConceptualEntity
	for _, re := range patterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		out = append(out, ConceptualEntity{
			Type:       t,
			Text:       text[loc[0]:loc[1]],
			Confidence: confidence,
			Sentiment:  p.sentimentAround(text),
			Properties: map[string]float64{
				"engagement_potential": engagement,
			},
			ContextWindow: contextWindow(text, loc[0], loc[1]),
		})
	}
	return out
}

// sentimentAround does a coarse whole-text polarity read; the fine-grained
// emotional signal lives in the feature extractor.
func (p *PatternExtractor) sentimentAround(text string) Sentiment {
	pos, neg := 0, 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'")
		if _, ok := p.positiveWords[w]; ok {
			pos++
		}
		if _, ok := p.negativeWords[w]; ok {
			neg++
		}
	}
	switch {
	case neg > pos:
		return SentimentNegative
	case pos > neg:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

func contextWindow(text string, start, end int) string {
	const pad = 40
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
