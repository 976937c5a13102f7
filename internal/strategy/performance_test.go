package strategy

import (
	"testing"

	"github.com/ignite/content-strategist/internal/gaps"
)

func testSeed() Seed {
	return Seed{
		StrategyConfidence: 0.7,
		AudienceResonance:  0.6,
		BrandSafety:        0.8,
		DataQuality:        0.6,
		Objective:          ObjectiveEngagement,
		Position:           PositionChallenger,
		PlatformCount:      2,
		HorizonMonths:      3,
	}
}

func rangeOrdered(r Range) bool {
	return r.Low <= r.Expected && r.Expected <= r.High
}

// ============================================================
// Forecast shape
// ============================================================

func TestPredictRangesOrdered(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())
	gapList := []gaps.ContentGap{
		{ViralPotential: 0.6, ExpectedEngagementRate: 0.04, EstimatedReach: 8000, OpportunityScore: 0.7},
		{ViralPotential: 0.4, ExpectedEngagementRate: 0.02, EstimatedReach: 3000, OpportunityScore: 0.5},
	}
	plan := NewResourcePlan(nil, nil, map[string]float64{"content_creation": 4000})

	perf := p.Predict(testSeed(), gapList, plan, nil)

	ranges := map[string]Range{
		"reach": perf.Reach, "engagement": perf.EngagementRate,
		"click": perf.ClickRate, "conversion": perf.ConversionRate,
		"followers": perf.FollowerGrowth, "mentions": perf.MentionIncrease,
		"traffic": perf.TrafficIncrease, "leads": perf.Leads,
		"revenue": perf.Revenue, "cost_per_lead": perf.CostPerLead, "roi": perf.ROI,
	}
	for name, r := range ranges {
		if !rangeOrdered(r) {
			t.Errorf("%s range not ordered: %+v", name, r)
		}
	}
	if perf.EngagementRate.Expected < 0 || perf.EngagementRate.Expected > 1 {
		t.Errorf("engagement expected = %v, out of [0,1]", perf.EngagementRate.Expected)
	}
	if perf.HorizonMonths != 3 {
		t.Errorf("horizon = %d, want 3", perf.HorizonMonths)
	}
}

func TestPredictNegativeROIOrdering(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())
	// A tiny audience against a heavy budget forces a loss.
	gapList := []gaps.ContentGap{
		{ViralPotential: 0.1, ExpectedEngagementRate: 0.01, EstimatedReach: 100, OpportunityScore: 0.2},
	}
	plan := NewResourcePlan(nil, nil, map[string]float64{"distribution": 50000})

	perf := p.Predict(testSeed(), gapList, plan, nil)
	if perf.ROI.Expected >= 0 {
		t.Fatalf("expected a negative ROI, got %v", perf.ROI.Expected)
	}
	if !rangeOrdered(perf.ROI) {
		t.Errorf("negative ROI range not ordered: %+v", perf.ROI)
	}
}

func TestPredictDefaultsWithoutGapsOrBudget(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())
	perf := p.Predict(testSeed(), nil, ResourcePlan{}, nil)

	if perf.ROI.Expected != 0 || perf.ROI.Low != -0.5 || perf.ROI.High != 0.5 {
		t.Errorf("fallback ROI = %+v, want {-0.5, 0, 0.5}", perf.ROI)
	}
	if perf.CostPerLead.Expected != DefaultPredictorConfig().FallbackCostPerLead {
		t.Errorf("cost per lead = %v, want fallback", perf.CostPerLead.Expected)
	}
	if perf.Reach.Expected <= 0 {
		t.Errorf("reach = %v, want positive from defaults", perf.Reach.Expected)
	}
}

func TestPredictZeroHorizonDefaultsToThree(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())
	seed := testSeed()
	seed.HorizonMonths = 0
	perf := p.Predict(seed, nil, ResourcePlan{}, nil)
	if perf.HorizonMonths != 3 {
		t.Errorf("horizon = %d, want 3", perf.HorizonMonths)
	}
}

// ============================================================
// Gap averages
// ============================================================

func TestGapAveragesTopTenOnly(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())

	var gapList []gaps.ContentGap
	for i := 0; i < 10; i++ {
		gapList = append(gapList, gaps.ContentGap{ViralPotential: 1.0, OpportunityScore: 1.0})
	}
	// An eleventh zero-score gap must not dilute the averages.
	gapList = append(gapList, gaps.ContentGap{})

	viral, _, _, opportunity := p.gapAverages(gapList)
	if viral != 1.0 {
		t.Errorf("avg viral = %v, want 1.0", viral)
	}
	if opportunity != 1.0 {
		t.Errorf("avg opportunity = %v, want 1.0", opportunity)
	}
}

func TestGapAveragesDefaults(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())
	viral, engagement, reach, opportunity := p.gapAverages(nil)
	cfg := DefaultPredictorConfig()
	if viral != cfg.DefaultViralScore || engagement != cfg.DefaultEngagement || reach != cfg.DefaultReach || opportunity != 0.5 {
		t.Errorf("defaults = %v/%v/%v/%v", viral, engagement, reach, opportunity)
	}
}

// ============================================================
// Confidence and risks
// ============================================================

func TestPredictConfidenceHistoricalRichness(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())

	tests := []struct {
		name       string
		historical *HistoricalPerformance
		richness   float64
	}{
		{"no history", nil, 0.3},
		{"thin history", &HistoricalPerformance{CampaignCount: 2}, 0.6},
		{"rich history", &HistoricalPerformance{CampaignCount: 5}, 0.9},
	}
	seed := testSeed()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := (seed.StrategyConfidence + seed.DataQuality + tt.richness +
				seed.AudienceResonance + seed.BrandSafety) / 5.0
			if got := p.confidence(seed, tt.historical); got != want {
				t.Errorf("confidence = %v, want %v", got, want)
			}
		})
	}
}

func TestPredictRiskFactors(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())

	seed := testSeed()
	seed.Objective = ObjectiveLeadGeneration
	seed.Position = PositionLeader
	seed.PlatformCount = 8
	seed.BrandSafety = 0.3

	perf := p.Predict(seed, nil, ResourcePlan{}, nil)
	if perf.MarketVolatilityRisk != 0.6 {
		t.Errorf("market volatility = %v, want 0.6", perf.MarketVolatilityRisk)
	}
	if perf.CompetitiveResponseRisk != 0.3 {
		t.Errorf("competitive response = %v, want 0.3", perf.CompetitiveResponseRisk)
	}
	if perf.AlgorithmChangeRisk != 1.0 {
		t.Errorf("algorithm change = %v, want clamped 1.0", perf.AlgorithmChangeRisk)
	}
	if perf.BrandSafetyRisk != 0.7 {
		t.Errorf("brand safety risk = %v, want 0.7", perf.BrandSafetyRisk)
	}
	if perf.ForecastStability < 0 || perf.ForecastStability > 1 {
		t.Errorf("stability = %v, out of [0,1]", perf.ForecastStability)
	}
}

func TestForecastStabilityFallsWithRisk(t *testing.T) {
	p := NewPredictor(DefaultPredictorConfig())

	calm := testSeed()
	calm.Objective = ObjectiveBrandAwareness
	calm.Position = PositionLeader
	calm.PlatformCount = 1
	calm.BrandSafety = 1.0

	risky := testSeed()
	risky.Objective = ObjectiveConversion
	risky.Position = PositionChallenger
	risky.PlatformCount = 6
	risky.BrandSafety = 0.2

	calmPerf := p.Predict(calm, nil, ResourcePlan{}, nil)
	riskyPerf := p.Predict(risky, nil, ResourcePlan{}, nil)
	if riskyPerf.ForecastStability >= calmPerf.ForecastStability {
		t.Errorf("risky stability %v should be below calm %v", riskyPerf.ForecastStability, calmPerf.ForecastStability)
	}
}
