package strategy

import (
	"time"

	"github.com/ignite/content-strategist/internal/gaps"
)

// PredictorConfig carries the forecasting policy constants.
type PredictorConfig struct {
	AverageDealValue    float64 `yaml:"average_deal_value"`
	LeadToCustomerRate  float64 `yaml:"lead_to_customer_rate"`
	DefaultViralScore   float64 `yaml:"default_viral_score"`
	DefaultEngagement   float64 `yaml:"default_engagement"`
	DefaultReach        float64 `yaml:"default_reach"`
	FallbackCostPerLead float64 `yaml:"fallback_cost_per_lead"`
}

// DefaultPredictorConfig returns the tuned defaults.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		AverageDealValue:    5000,
		LeadToCustomerRate:  0.2,
		DefaultViralScore:   0.5,
		DefaultEngagement:   0.03,
		DefaultReach:        5000,
		FallbackCostPerLead: 50,
	}
}

// Seed carries the strategy-quality signals the predictor scales by.
type Seed struct {
	StrategyConfidence float64
	AudienceResonance  float64
	BrandSafety        float64
	DataQuality        float64
	Objective          Objective
	Position           CompetitivePosition
	PlatformCount      int
	HorizonMonths      int
}

// Predictor turns gaps, a resource plan and strategy-quality signals into
// range-valued forecasts. Stateless; safe for concurrent use.
type Predictor struct {
	cfg PredictorConfig
}

// NewPredictor creates a performance predictor.
func NewPredictor(cfg PredictorConfig) *Predictor {
	return &Predictor{cfg: cfg}
}

// Predict builds the full forecast. Each derivation step widens the
// multiplicative spread: reach is less certain than engagement, conversions
// less certain than clicks.
func (p *Predictor) Predict(seed Seed, gapList []gaps.ContentGap, plan ResourcePlan, historical *HistoricalPerformance) PerformancePrediction {
	horizon := seed.HorizonMonths
	if horizon <= 0 {
		horizon = 3
	}

	avgViral, avgEngagement, avgReach, avgOpportunity := p.gapAverages(gapList)
	multiplier := seed.StrategyConfidence*0.5 + seed.AudienceResonance*0.3 + seed.BrandSafety*0.2

	engagementExpected := clamp01(avgEngagement * (0.5 + multiplier))
	reachExpected := avgReach * (1 + avgViral) * multiplier
	clickExpected := engagementExpected * 0.3
	conversionExpected := clickExpected * 0.05

	engagement := NewRange(engagementExpected, 0.6, 1.5)
	reach := NewRange(reachExpected, 0.5, 2.0)
	click := NewRange(clickExpected, 0.55, 2.5)
	conversion := NewRange(conversionExpected, 0.5, 5.0)

	weeklyGrowth := 50 * seed.StrategyConfidence * avgOpportunity
	followerGrowth := NewRange(weeklyGrowth*float64(horizon)*4.33, 0.5, 2.0)
	mentionIncrease := NewRange(avgViral*0.5, 0.5, 2.0)
	trafficIncrease := NewRange(clickExpected*reachExpected, 0.5, 2.5)

	leadsExpected := reachExpected * conversionExpected * float64(horizon)
	leads := NewRange(leadsExpected, 0.5, 2.0)
	revenue := NewRange(leadsExpected*p.cfg.AverageDealValue*p.cfg.LeadToCustomerRate, 0.5, 2.5)

	totalBudget := plan.TotalMonthlyBudget * float64(horizon)
	var costPerLead, roi Range
	if leadsExpected > 0 && totalBudget > 0 {
		cplExpected := totalBudget / leadsExpected
		costPerLead = NewRange(cplExpected, 0.7, 1.8)
		roiExpected := (revenue.Expected - totalBudget) / totalBudget
		roi = Range{Low: roiExpected * 0.4, Expected: roiExpected, High: roiExpected * 2.0}
		if roiExpected < 0 {
			// Negative ROI: low is the deeper loss.
			roi = Range{Low: roiExpected * 2.0, Expected: roiExpected, High: roiExpected * 0.4}
		}
	} else {
		costPerLead = NewRange(p.cfg.FallbackCostPerLead, 0.7, 1.8)
		roi = Range{Low: -0.5, Expected: 0, High: 0.5}
	}

	return PerformancePrediction{
		Reach:           reach,
		EngagementRate:  engagement,
		ClickRate:       click,
		ConversionRate:  conversion,
		FollowerGrowth:  followerGrowth,
		MentionIncrease: mentionIncrease,
		TrafficIncrease: trafficIncrease,
		Leads:           leads,
		Revenue:         revenue,
		CostPerLead:     costPerLead,
		ROI:             roi,

		MarketVolatilityRisk:    objectiveVolatility(seed.Objective),
		CompetitiveResponseRisk: positionResponseRisk(seed.Position),
		AlgorithmChangeRisk:     clamp01(float64(seed.PlatformCount) * 0.15),
		BrandSafetyRisk:         clamp01(1 - seed.BrandSafety),

		PredictionConfidence: p.confidence(seed, historical),
		DataQualityScore:     clamp01(seed.DataQuality),
		ForecastStability: clamp01(1 - 0.8*mean4(
			objectiveVolatility(seed.Objective),
			positionResponseRisk(seed.Position),
			clamp01(float64(seed.PlatformCount)*0.15),
			clamp01(1-seed.BrandSafety),
		)),

		HorizonMonths: horizon,
		ReviewCadence: 14 * 24 * time.Hour,
	}
}

// gapAverages averages viral score, engagement rate, reach and opportunity
// across the top-10 gaps, with fixed defaults when none exist.
func (p *Predictor) gapAverages(gapList []gaps.ContentGap) (viral, engagement, reach, opportunity float64) {
	if len(gapList) == 0 {
		return p.cfg.DefaultViralScore, p.cfg.DefaultEngagement, p.cfg.DefaultReach, 0.5
	}
	n := len(gapList)
	if n > 10 {
		n = 10
	}
	for _, g := range gapList[:n] {
		viral += g.ViralPotential
		engagement += g.ExpectedEngagementRate
		reach += g.EstimatedReach
		opportunity += g.OpportunityScore
	}
	f := float64(n)
	return viral / f, engagement / f, reach / f, opportunity / f
}

// confidence is the mean of five independent factors.
func (p *Predictor) confidence(seed Seed, historical *HistoricalPerformance) float64 {
	richness := 0.3
	if historical != nil {
		switch {
		case historical.CampaignCount > 3:
			richness = 0.9
		case historical.CampaignCount > 0:
			richness = 0.6
		}
	}
	return clamp01((seed.StrategyConfidence + seed.DataQuality + richness +
		seed.AudienceResonance + seed.BrandSafety) / 5.0)
}

func objectiveVolatility(o Objective) float64 {
	switch o {
	case ObjectiveConversion, ObjectiveLeadGeneration:
		return 0.6
	case ObjectiveBrandAwareness, ObjectiveCommunityGrowth:
		return 0.4
	default:
		return 0.5
	}
}

func positionResponseRisk(p CompetitivePosition) float64 {
	switch p {
	case PositionLeader:
		return 0.3
	case PositionChallenger:
		return 0.6
	case PositionFollower:
		return 0.5
	default:
		return 0.4
	}
}

func mean4(a, b, c, d float64) float64 {
	return (a + b + c + d) / 4.0
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
