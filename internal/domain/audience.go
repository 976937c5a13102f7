package domain

import "time"

// AudienceSegment describes a named audience with its preferences. Segments
// arrive from the (external) audience research layer; the engine treats them
// as read-only input.
type AudienceSegment struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Size               int                `json:"size"`
	EngagementRate     float64            `json:"engagement_rate"`
	ValueScore         float64            `json:"value_score"`
	ContentPreferences map[string]float64 `json:"content_preferences"` // topic -> affinity 0-1
	FormatPreferences  map[string]float64 `json:"format_preferences"`  // format -> affinity 0-1
	PreferredPlatforms []Platform         `json:"preferred_platforms"`
	Interests          []string           `json:"interests"`
}

// ContentItem is a previously published piece of content used to estimate
// topic and format coverage.
type ContentItem struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Platform    Platform    `json:"platform"`
	ContentType ContentType `json:"content_type,omitempty"`
	Topics      []string    `json:"topics,omitempty"`
	Format      string      `json:"format,omitempty"`
	PublishedAt time.Time   `json:"published_at"`
	Engagement  float64     `json:"engagement,omitempty"`
}

// CompetitorWeakness is externally supplied competitive intelligence used to
// seed competitive gaps.
type CompetitorWeakness struct {
	Competitor  string   `json:"competitor"`
	Topic       string   `json:"topic"`
	Description string   `json:"description"`
	Severity    float64  `json:"severity"` // 0-1, how exposed the competitor is
	Platforms   []Platform `json:"platforms,omitempty"`
}

// CompetitiveAnalysis bundles the competitive inputs the strategy pipeline
// can consume. All fields are optional.
type CompetitiveAnalysis struct {
	Weaknesses       []CompetitorWeakness `json:"weaknesses,omitempty"`
	MarketSaturation float64              `json:"market_saturation,omitempty"` // 0-1
	CompetitorCount  int                  `json:"competitor_count,omitempty"`
}
