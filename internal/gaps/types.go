// Package gaps identifies and prioritizes content-gap opportunities: audience
// needs, platform and format openings, and competitive weaknesses, each scored
// through a weighted opportunity formula.
package gaps

import "github.com/ignite/content-strategist/internal/domain"

// GapType names where a gap came from.
type GapType string

const (
	GapPreference    GapType = "preference"
	GapPlatform      GapType = "platform"
	GapFormat        GapType = "format"
	GapCompetitive   GapType = "competitive"
	GapCrossAudience GapType = "cross_audience"
)

// ContentGap is one scored opportunity. Created by the Analyzer, re-scored
// and prioritized during the scoring pass, read-only afterwards.
type ContentGap struct {
	ID          string  `json:"id"`
	Type        GapType `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`

	AudienceSegmentID string             `json:"audience_segment_id,omitempty"`
	ContentType       domain.ContentType `json:"content_type,omitempty"`
	Platform          domain.Platform    `json:"platform,omitempty"`

	// Opportunity-shaping scores.
	OpportunityScore     float64 `json:"opportunity_score"`
	CompetitionIntensity float64 `json:"competition_intensity"`
	MarketDemand         float64 `json:"market_demand"`
	BrandFit             float64 `json:"brand_fit"`

	// Performance potential (from the viral engine on a synthetic sample).
	ViralPotential         float64 `json:"viral_potential"`
	ExpectedEngagementRate float64 `json:"expected_engagement_rate"`
	EstimatedReach         float64 `json:"estimated_reach"`
	PlatformOptimization   float64 `json:"platform_optimization"`

	// Risk.
	ExecutionDifficulty float64 `json:"execution_difficulty"`
	BrandRisk           float64 `json:"brand_risk"`

	// ResourceRequirements maps resource type to effort 0-1.
	ResourceRequirements map[string]float64 `json:"resource_requirements"`

	Priority       domain.GapPriority `json:"priority"`
	BusinessImpact float64            `json:"business_impact"`
	Confidence     float64            `json:"confidence"`

	RecommendedFormats  []string `json:"recommended_formats,omitempty"`
	RecommendedAngles   []string `json:"recommended_angles,omitempty"`
	RecommendedKeywords []string `json:"recommended_keywords,omitempty"`
}
