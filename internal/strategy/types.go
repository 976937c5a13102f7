// Package strategy composes gap analysis, resource planning, performance
// forecasting and milestone scheduling into strategic recommendations through
// an eight-phase pipeline with graceful degradation at every stage.
package strategy

import (
	"time"

	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/gaps"
)

// Objective is the primary goal a strategy optimizes for.
type Objective string

const (
	ObjectiveBrandAwareness    Objective = "brand_awareness"
	ObjectiveLeadGeneration    Objective = "lead_generation"
	ObjectiveEngagement        Objective = "engagement"
	ObjectiveThoughtLeadership Objective = "thought_leadership"
	ObjectiveCommunityGrowth   Objective = "community_growth"
	ObjectiveConversion        Objective = "conversion"
)

// ParseObjective falls back to ObjectiveEngagement for unknown input.
func ParseObjective(s string) Objective {
	switch Objective(s) {
	case ObjectiveBrandAwareness, ObjectiveLeadGeneration, ObjectiveEngagement,
		ObjectiveThoughtLeadership, ObjectiveCommunityGrowth, ObjectiveConversion:
		return Objective(s)
	default:
		return ObjectiveEngagement
	}
}

// CompetitivePosition places the brand in its market.
type CompetitivePosition string

const (
	PositionLeader     CompetitivePosition = "leader"
	PositionChallenger CompetitivePosition = "challenger"
	PositionFollower   CompetitivePosition = "follower"
	PositionNiche      CompetitivePosition = "niche"
)

// MilestoneType categorizes a strategic milestone.
type MilestoneType string

const (
	MilestoneContentLaunch          MilestoneType = "content_launch"
	MilestoneCampaignStart          MilestoneType = "campaign_start"
	MilestonePerformanceReview      MilestoneType = "performance_review"
	MilestoneOptimizationCheckpoint MilestoneType = "optimization_checkpoint"
	MilestoneGoalAchievement        MilestoneType = "goal_achievement"
)

// MilestoneStatus tracks milestone lifecycle.
type MilestoneStatus string

const (
	MilestonePlanned    MilestoneStatus = "planned"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneDelayed    MilestoneStatus = "delayed"
	MilestoneCancelled  MilestoneStatus = "cancelled"
)

// StrategicMilestone is one dated checkpoint in the content calendar.
// Milestones form a linear dependency chain by construction: ordered by
// target date, each depends on its immediate predecessor.
type StrategicMilestone struct {
	ID               string             `json:"id"`
	Type             MilestoneType      `json:"type"`
	Name             string             `json:"name"`
	TargetDate       time.Time          `json:"target_date"`
	Duration         time.Duration      `json:"duration"`
	SuccessMetrics   map[string]float64 `json:"success_metrics,omitempty"`
	SuccessThreshold float64            `json:"success_threshold"`
	DependsOn        []string           `json:"depends_on,omitempty"`
	Status           MilestoneStatus    `json:"status"`
	CompletionPct    float64            `json:"completion_pct"`
	BusinessImpact   float64            `json:"business_impact"`
}

// ContentCalendar is the milestone timeline plus cadence targets.
type ContentCalendar struct {
	StartDate  time.Time            `json:"start_date"`
	EndDate    time.Time            `json:"end_date"`
	Milestones []StrategicMilestone `json:"milestones"`

	// WeeklyContentTargets maps week number (1-based) to pieces per week.
	WeeklyContentTargets map[int]int `json:"weekly_content_targets"`
	// PlatformDistribution sums to 1.0 across the target platform set.
	PlatformDistribution map[domain.Platform]float64 `json:"platform_distribution"`
	ThemeRotation        []string                    `json:"theme_rotation,omitempty"`

	ReviewDates        []time.Time `json:"review_dates"`
	OptimizationDates  []time.Time `json:"optimization_dates"`
	PivotDecisionDates []time.Time `json:"pivot_decision_dates"`

	// KPIProgress keys are always a subset of KPITargets keys.
	KPITargets  map[string]float64 `json:"kpi_targets"`
	KPIProgress map[string]float64 `json:"kpi_progress"`
}

// ResourcePlan allocates people, hours and budget across activities. Derived
// totals are computed at construction from the constituent fields; use
// NewResourcePlan (or Recompute after changing inputs) so they never go
// stale.
type ResourcePlan struct {
	Personnel   map[string]int     `json:"personnel"`    // role -> headcount
	WeeklyHours map[string]float64 `json:"weekly_hours"` // activity -> hours/week
	Budget      map[string]float64 `json:"budget"`       // activity -> monthly budget

	TotalPersonnel     int     `json:"total_personnel"`
	TotalWeeklyHours   float64 `json:"total_weekly_hours"`
	TotalMonthlyBudget float64 `json:"total_monthly_budget"`
}

// NewResourcePlan builds a plan and derives its totals.
func NewResourcePlan(personnel map[string]int, weeklyHours, budget map[string]float64) ResourcePlan {
	p := ResourcePlan{Personnel: personnel, WeeklyHours: weeklyHours, Budget: budget}
	p.Recompute()
	return p
}

// Recompute re-derives the totals from the constituent fields.
func (p *ResourcePlan) Recompute() {
	p.TotalPersonnel = 0
	for _, n := range p.Personnel {
		p.TotalPersonnel += n
	}
	p.TotalWeeklyHours = 0
	for _, h := range p.WeeklyHours {
		p.TotalWeeklyHours += h
	}
	p.TotalMonthlyBudget = 0
	for _, b := range p.Budget {
		p.TotalMonthlyBudget += b
	}
}

// Range is an ordered forecast triple with Low ≤ Expected ≤ High.
type Range struct {
	Low      float64 `json:"low"`
	Expected float64 `json:"expected"`
	High     float64 `json:"high"`
}

// NewRange builds a range around an expected value using multiplicative
// spread factors.
func NewRange(expected, lowFactor, highFactor float64) Range {
	return Range{Low: expected * lowFactor, Expected: expected, High: expected * highFactor}
}

// PerformancePrediction is the range-valued forecast for a strategy.
type PerformancePrediction struct {
	Reach           Range `json:"reach"`             // people per month
	EngagementRate  Range `json:"engagement_rate"`   // 0-1
	ClickRate       Range `json:"click_rate"`        // 0-1
	ConversionRate  Range `json:"conversion_rate"`   // 0-1
	FollowerGrowth  Range `json:"follower_growth"`   // per horizon
	MentionIncrease Range `json:"mention_increase"`  // relative, 0-1+
	TrafficIncrease Range `json:"traffic_increase"`  // visits per month
	Leads           Range `json:"leads"`             // per horizon
	Revenue         Range `json:"revenue"`           // currency per horizon
	CostPerLead     Range `json:"cost_per_lead"`     // currency
	ROI             Range `json:"roi"`               // multiple

	MarketVolatilityRisk    float64 `json:"market_volatility_risk"`
	CompetitiveResponseRisk float64 `json:"competitive_response_risk"`
	AlgorithmChangeRisk     float64 `json:"algorithm_change_risk"`
	BrandSafetyRisk         float64 `json:"brand_safety_risk"`

	PredictionConfidence float64 `json:"prediction_confidence"`
	DataQualityScore     float64 `json:"data_quality_score"`
	ForecastStability    float64 `json:"forecast_stability"`

	HorizonMonths int           `json:"horizon_months"`
	ReviewCadence time.Duration `json:"review_cadence"`
}

// StrategicRecommendation is the root aggregate of one strategy run.
type StrategicRecommendation struct {
	ID string `json:"id"`

	Objective           Objective           `json:"objective"`
	SecondaryObjectives []Objective         `json:"secondary_objectives"`
	CompetitivePosition CompetitivePosition `json:"competitive_position"`

	TargetAudiences    []domain.AudienceSegment `json:"target_audiences"`
	TargetPlatforms    []domain.Platform        `json:"target_platforms"`
	TargetContentTypes []domain.ContentType     `json:"target_content_types"`
	Themes             []string                 `json:"themes"`
	MessagingFramework map[string]string        `json:"messaging_framework"`

	Calendar ContentCalendar `json:"calendar"`

	Gaps []gaps.ContentGap `json:"gaps"`
	// OpportunityPrioritization lists gap ids sorted by opportunity score
	// descending.
	OpportunityPrioritization []string `json:"opportunity_prioritization"`

	Resources   ResourcePlan          `json:"resources"`
	Performance PerformancePrediction `json:"performance"`

	ImplementationPhases     []string           `json:"implementation_phases"`
	RiskMitigationStrategies []string           `json:"risk_mitigation_strategies"`
	SuccessMetrics           map[string]float64 `json:"success_metrics"`

	// Cross-domain integration scores.
	BeliefAlignmentScore   float64 `json:"belief_alignment_score"`
	BrandSafetyScore       float64 `json:"brand_safety_score"`
	AudienceResonanceScore float64 `json:"audience_resonance_score"`
	ViralPotentialScore    float64 `json:"viral_potential_score"`

	Confidence         float64 `json:"confidence"`
	DataQuality        float64 `json:"data_quality"`
	StrategicCoherence float64 `json:"strategic_coherence"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Degraded marks the fixed fallback recommendation produced when the
	// pipeline could not complete.
	Degraded bool `json:"degraded,omitempty"`
}

// BusinessContext is the caller-supplied input to strategy generation.
type BusinessContext struct {
	CompanyName        string                   `json:"company_name"`
	CompanyStage       string                   `json:"company_stage"` // startup, growth, enterprise
	Industry           string                   `json:"industry"`
	MonthlyBudget      float64                  `json:"monthly_budget"`
	BusinessObjectives []string                 `json:"business_objectives,omitempty"`
	TargetAudiences    []domain.AudienceSegment `json:"target_audiences"`
	ExistingContent    []domain.ContentItem     `json:"existing_content,omitempty"`
	BrandProfile       domain.BrandProfile      `json:"brand_profile,omitempty"`
}

// HistoricalPerformance summarizes past campaign data for forecasting.
type HistoricalPerformance struct {
	CampaignCount  int                `json:"campaign_count"`
	AverageMetrics map[string]float64 `json:"average_metrics,omitempty"`
}

// PerformanceData carries observed metrics for strategy re-optimization,
// keyed like the recommendation's SuccessMetrics.
type PerformanceData struct {
	ActualMetrics map[string]float64 `json:"actual_metrics"`
}

// MetricStanding classifies actual vs predicted performance.
type MetricStanding string

const (
	MetricOverPerforming  MetricStanding = "over_performing"
	MetricOnTrack         MetricStanding = "on_track"
	MetricUnderPerforming MetricStanding = "under_performing"
)
