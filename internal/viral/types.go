// Package viral implements the viral potential prediction engine: a
// deterministic feature-weighted model producing engagement, reach, velocity
// and controversy scores, combined into a risk-adjusted overall prediction.
package viral

import (
	"time"

	"github.com/ignite/content-strategist/internal/domain"
)

// BaseScores are the four dimension scores produced by the model, each in [0,1].
type BaseScores struct {
	Engagement  float64 `json:"engagement"`
	Reach       float64 `json:"reach"`
	Velocity    float64 `json:"velocity"`
	Controversy float64 `json:"controversy"`
}

// KeyFeature names a signal that materially drove the prediction.
type KeyFeature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}

// ViralPrediction is the immutable result of one prediction call.
type ViralPrediction struct {
	ContentID   string             `json:"content_id"`
	Platform    domain.Platform    `json:"platform"`
	ContentType domain.ContentType `json:"content_type"`

	Scores            BaseScores `json:"scores"`
	OverallViralScore float64    `json:"overall_viral_score"`
	RiskAdjustedScore float64    `json:"risk_adjusted_score"`
	Confidence        float64    `json:"confidence"`

	RiskLevel   domain.RiskLevel `json:"risk_level"`
	RiskFactors []string         `json:"risk_factors"`

	TemporalBoost          float64    `json:"temporal_boost"`
	NextOptimalPostingTime *time.Time `json:"next_optimal_posting_time,omitempty"`

	KeyFeatures            []KeyFeature `json:"key_features"`
	ImprovementSuggestions []string     `json:"improvement_suggestions"`

	PlatformOptimizationScore float64 `json:"platform_optimization_score"`
	ExpectedEngagementRate    float64 `json:"expected_engagement_rate"`

	// Degraded marks a safe-default prediction produced after an internal
	// failure, so callers can tell it apart from a fully computed one.
	Degraded bool `json:"degraded,omitempty"`
}
