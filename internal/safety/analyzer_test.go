package safety

import (
	"context"
	"testing"
	"time"

	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/features"
	"github.com/ignite/content-strategist/internal/viral"
)

type panicConceptExtractor struct{}

func (panicConceptExtractor) Extract(context.Context, string, map[string]string) ([]concepts.ConceptualEntity, error) {
	panic("concept extraction exploded")
}

func testViralEngine(t *testing.T) *viral.Engine {
	t.Helper()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	fx := features.NewExtractor(features.WithClock(func() time.Time { return now }))
	return viral.NewEngine(fx, viral.DefaultEngineConfig(),
		viral.WithEngineClock(func() time.Time { return now }),
		viral.WithIDGenerator(func() string { return "content-1" }),
	)
}

func testAnalyzer(t *testing.T, profile domain.BrandProfile, opts ...AnalyzerOption) *Analyzer {
	t.Helper()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	base := []AnalyzerOption{
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string { return "content-1" }),
	}
	return NewAnalyzer(profile, testViralEngine(t), append(base, opts...)...)
}

// ============================================================
// Safety levels
// ============================================================

func TestSafetyLevelByProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.BrandProfile
		overall float64
		want    domain.SafetyLevel
	}{
		{"conservative flags mid risk", domain.ProfileConservative, 0.45, domain.SafetyRisk},
		{"moderate allows mid risk with caution", domain.ProfileModerate, 0.45, domain.SafetyCaution},
		{"aggressive allows mid risk with caution", domain.ProfileAggressive, 0.45, domain.SafetyCaution},
		{"conservative safe floor", domain.ProfileConservative, 0.20, domain.SafetySafe},
		{"conservative danger ceiling", domain.ProfileConservative, 0.61, domain.SafetyDanger},
		{"aggressive tolerates more before danger", domain.ProfileAggressive, 0.61, domain.SafetyRisk},
		{"boundary values are inclusive", domain.ProfileModerate, 0.50, domain.SafetyCaution},
		{"zero risk is safe everywhere", domain.ProfileConservative, 0, domain.SafetySafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAnalyzer(t, tt.profile)
			if got := a.safetyLevel(tt.overall); got != tt.want {
				t.Errorf("safetyLevel(%v) for %s = %s, want %s", tt.overall, tt.profile, got, tt.want)
			}
		})
	}
}

func TestSafetyLevelUnknownProfileFallsBackToModerate(t *testing.T) {
	a := testAnalyzer(t, domain.BrandProfile("experimental"))
	if got := a.safetyLevel(0.45); got != domain.SafetyCaution {
		t.Errorf("safetyLevel = %s, want %s", got, domain.SafetyCaution)
	}
}

// ============================================================
// Assess
// ============================================================

func TestAssessCleanContent(t *testing.T) {
	a := testAnalyzer(t, domain.ProfileModerate)

	got := a.Assess(context.Background(), "Excited to share our quarterly community update. Thank you all!", domain.PlatformLinkedIn, "c1", nil, nil)

	if got.Degraded {
		t.Fatal("clean content should not degrade")
	}
	if got.SafetyLevel != domain.SafetySafe {
		t.Errorf("safety level = %s, want %s", got.SafetyLevel, domain.SafetySafe)
	}
	if got.Risk.Overall < 0 || got.Risk.Overall > 1 {
		t.Errorf("overall risk = %v, out of [0,1]", got.Risk.Overall)
	}
	if got.ViralPrediction == nil {
		t.Fatal("missing viral prediction")
	}
	if got.RiskAdjustedViralScore > got.ViralPrediction.OverallViralScore {
		t.Errorf("risk-adjusted %v exceeds raw viral %v", got.RiskAdjustedViralScore, got.ViralPrediction.OverallViralScore)
	}
	if got.ContentID != "c1" {
		t.Errorf("content id = %q, want c1", got.ContentID)
	}
}

func TestAssessHostileContentEscalates(t *testing.T) {
	a := testAnalyzer(t, domain.ProfileConservative)

	clean := a.Assess(context.Background(), "Our team shipped a great release this week.", domain.PlatformTwitter, "c1", nil, nil)
	hostile := a.Assess(context.Background(), "I hate you, go kill yourself", domain.PlatformTwitter, "c2", nil, nil)

	if hostile.Risk.Overall <= clean.Risk.Overall {
		t.Errorf("hostile overall risk %v should exceed clean %v", hostile.Risk.Overall, clean.Risk.Overall)
	}
	if len(hostile.RedFlags) == 0 {
		t.Error("hostile content should raise red flags")
	}
	if len(hostile.RiskFactors) == 0 {
		t.Error("hostile content should list risk factors")
	}
}

func TestAssessIsIdempotent(t *testing.T) {
	a := testAnalyzer(t, domain.ProfileModerate)
	text := "Unpopular opinion: layoffs are a leadership failure. #business"

	first := a.Assess(context.Background(), text, domain.PlatformTwitter, "c1", nil, nil)
	second := a.Assess(context.Background(), text, domain.PlatformTwitter, "c1", nil, nil)

	if first.Risk.Overall != second.Risk.Overall {
		t.Errorf("overall risk drifted: %v vs %v", first.Risk.Overall, second.Risk.Overall)
	}
	if first.SafetyLevel != second.SafetyLevel {
		t.Errorf("safety level drifted: %s vs %s", first.SafetyLevel, second.SafetyLevel)
	}
	if first.Classification != second.Classification {
		t.Errorf("classification drifted: %s vs %s", first.Classification, second.Classification)
	}
}

func TestAssessRecoversToCautionDefault(t *testing.T) {
	a := testAnalyzer(t, domain.ProfileModerate, WithConceptExtractor(panicConceptExtractor{}))

	got := a.Assess(context.Background(), "any text", domain.PlatformTwitter, "c-panic", nil, nil)

	if !got.Degraded {
		t.Fatal("expected degraded assessment")
	}
	if got.SafetyLevel != domain.SafetyCaution {
		t.Errorf("safety level = %s, want %s", got.SafetyLevel, domain.SafetyCaution)
	}
	if got.Confidence > 0.2 {
		t.Errorf("confidence = %v, want <= 0.2", got.Confidence)
	}
	if got.Risk.Overall != 0.4 {
		t.Errorf("overall risk = %v, want 0.4", got.Risk.Overall)
	}
	if got.ContentID != "c-panic" {
		t.Errorf("content id = %q, want c-panic", got.ContentID)
	}
	if len(got.MonitoringKeywords) == 0 {
		t.Error("degraded assessment should keep the fixed monitoring keywords")
	}
}

func TestAssessSurvivesViralBranchFailure(t *testing.T) {
	// A nil engine makes the viral branch panic; the branch default keeps
	// the overall assessment intact.
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	a := NewAnalyzer(domain.ProfileModerate, nil, WithClock(func() time.Time { return now }))

	got := a.Assess(context.Background(), "A perfectly ordinary product update for our customers.", domain.PlatformLinkedIn, "c1", nil, nil)

	if got.Degraded {
		t.Fatal("branch failure should not degrade the whole assessment")
	}
	if got.ViralPrediction == nil || !got.ViralPrediction.Degraded {
		t.Fatal("expected the degraded viral prediction substitute")
	}
	if got.ViralPrediction.OverallViralScore != 0.1 {
		t.Errorf("substitute viral score = %v, want 0.1", got.ViralPrediction.OverallViralScore)
	}
}

// ============================================================
// Risk aggregation
// ============================================================

func TestAggregateRiskBoundsAndMonotonicity(t *testing.T) {
	low := aggregateRisk(
		ToxicityAssessment{},
		ControversyAnalysis{},
		StakeholderAnalysis{Groups: map[StakeholderGroup]GroupImpact{}},
	)
	high := aggregateRisk(
		ToxicityAssessment{ToxicityScore: 0.9, SevereToxicityScore: 0.8, ThreatScore: 0.7},
		ControversyAnalysis{ControversyScore: 0.8, BacklashPotential: 0.8, SensitivityAreas: []string{"discrimination"}},
		StakeholderAnalysis{Groups: map[StakeholderGroup]GroupImpact{
			StakeholderInvestors: {Score: 0.9, NegativeHits: 3, Status: ImpactCrisis},
			StakeholderCustomers: {Score: 0.6, NegativeHits: 2, Status: ImpactNegative},
			StakeholderEmployees: {Score: 0.6, NegativeHits: 2, Status: ImpactNegative},
			StakeholderPublic:    {Score: 0.9, NegativeHits: 3, Status: ImpactCrisis},
		}},
	)

	for name, v := range map[string]float64{
		"low overall": low.Overall, "high overall": high.Overall,
		"high reputational": high.Reputational, "high legal": high.Legal,
		"high financial": high.Financial, "high operational": high.Operational,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, out of [0,1]", name, v)
		}
	}
	if low.Overall != 0 {
		t.Errorf("zero inputs overall = %v, want 0", low.Overall)
	}
	if high.Overall <= low.Overall {
		t.Errorf("high %v should exceed low %v", high.Overall, low.Overall)
	}
	if high.Legal == 0 {
		t.Error("severe toxicity and discrimination should raise legal risk")
	}
}

// ============================================================
// Classification and crisis
// ============================================================

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		tox    ToxicityAssessment
		contro ControversyAnalysis
		want   domain.ContentClassification
	}{
		{"toxic wins", "in my opinion", ToxicityAssessment{ToxicityScore: 0.8}, ControversyAnalysis{ControversyScore: 0.9}, domain.ClassToxic},
		{"controversial before opinion", "in my opinion", ToxicityAssessment{}, ControversyAnalysis{ControversyScore: 0.7}, domain.ClassControversial},
		{"opinion phrase", "I think remote work is better", ToxicityAssessment{}, ControversyAnalysis{}, domain.ClassOpinion},
		{"personal phrase", "Sharing a life update from my family", ToxicityAssessment{}, ControversyAnalysis{}, domain.ClassPersonal},
		{"default professional", "Q3 results are published", ToxicityAssessment{}, ControversyAnalysis{}, domain.ClassProfessional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyContent(tt.text, tt.tox, tt.contro); got != tt.want {
				t.Errorf("classifyContent = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCrisisRiskUrgencyBuckets(t *testing.T) {
	tests := []struct {
		name       string
		escalation float64
		urgency    domain.ResponseUrgency
		window     time.Duration
	}{
		{"severe", 0.85, domain.UrgencyImmediate, time.Hour},
		{"elevated", 0.65, domain.UrgencyWithinHours, 6 * time.Hour},
		{"routine", 0.2, domain.UrgencyWithinDays, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := crisisRisk(
				ToxicityAssessment{SevereToxicityScore: tt.escalation},
				ControversyAnalysis{},
				viral.ViralPrediction{},
			)
			if got.ResponseUrgency != tt.urgency {
				t.Errorf("urgency = %s, want %s", got.ResponseUrgency, tt.urgency)
			}
			if got.MitigationWindow != tt.window {
				t.Errorf("window = %v, want %v", got.MitigationWindow, tt.window)
			}
			if got.EscalationProbability != tt.escalation {
				t.Errorf("escalation = %v, want %v", got.EscalationProbability, tt.escalation)
			}
		})
	}
}

func TestAlertThresholdsTightenWithLevel(t *testing.T) {
	safe := alertThresholds(domain.SafetySafe)
	danger := alertThresholds(domain.SafetyDanger)
	for k := range safe {
		if danger[k] >= safe[k] {
			t.Errorf("%s: danger threshold %v should be below safe %v", k, danger[k], safe[k])
		}
	}
	if safe["negative_sentiment"] != 0.60 {
		t.Errorf("safe negative_sentiment = %v, want 0.60", safe["negative_sentiment"])
	}
	if danger["negative_sentiment"] != 0.30 {
		t.Errorf("danger negative_sentiment = %v, want 0.30", danger["negative_sentiment"])
	}
}
