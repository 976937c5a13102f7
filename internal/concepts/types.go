// Package concepts defines the concept-extraction boundary the scoring engine
// consumes. The engine only depends on the Extractor interface; the default
// implementation is a deterministic pattern matcher, with an optional AWS
// Bedrock implementation for richer extraction.
package concepts

import "context"

// ConceptType tags a conceptual entity.
type ConceptType string

const (
	ConceptHotTake ConceptType = "HOT_TAKE"
	ConceptBelief  ConceptType = "BELIEF"
	ConceptTopic   ConceptType = "TOPIC"
	ConceptClaim   ConceptType = "CLAIM"
)

// Sentiment tags the emotional lean of a concept.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ConceptualEntity is one extracted concept. Properties carries free-form
// numeric signals; "engagement_potential" is the one the viral engine reads.
type ConceptualEntity struct {
	Type          ConceptType        `json:"type"`
	Text          string             `json:"text"`
	Confidence    float64            `json:"confidence"`
	Sentiment     Sentiment          `json:"sentiment"`
	Properties    map[string]float64 `json:"properties,omitempty"`
	ContextWindow string             `json:"context_window,omitempty"`
}

// EngagementPotential returns the entity's engagement_potential property,
// or 0 when absent.
func (c ConceptualEntity) EngagementPotential() float64 {
	if c.Properties == nil {
		return 0
	}
	return c.Properties["engagement_potential"]
}

// Extractor extracts conceptual entities from raw text.
type Extractor interface {
	Extract(ctx context.Context, text string, context map[string]string) ([]ConceptualEntity, error)
}

// CountByType returns how many entities carry the given type tag.
func CountByType(entities []ConceptualEntity, t ConceptType) int {
	n := 0
	for _, e := range entities {
		if e.Type == t {
			n++
		}
	}
	return n
}
