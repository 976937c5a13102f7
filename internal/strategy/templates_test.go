package strategy

import (
	"strings"
	"testing"

	"github.com/ignite/content-strategist/internal/domain"
)

func TestImplementationPhasesRender(t *testing.T) {
	r := NewRenderer()
	calendar := ContentCalendar{
		WeeklyContentTargets: map[int]int{1: 1, 2: 1, 3: 3, 4: 3},
	}
	perf := PerformancePrediction{EngagementRate: NewRange(0.045, 0.6, 1.5)}

	phases := r.ImplementationPhases(
		ObjectiveLeadGeneration,
		[]string{"case studies", "how-to guides"},
		[]domain.Platform{domain.PlatformLinkedIn, domain.PlatformTwitter},
		calendar, perf,
	)

	if len(phases) != len(phaseTemplates) {
		t.Fatalf("phases = %d, want %d", len(phases), len(phaseTemplates))
	}
	for i, phase := range phases {
		if strings.Contains(phase, "{{") {
			t.Errorf("phase %d contains unrendered template: %q", i, phase)
		}
	}
	if !strings.Contains(phases[0], "lead generation") {
		t.Errorf("phase 1 should humanize the objective: %q", phases[0])
	}
	if !strings.Contains(phases[1], `"case studies"`) {
		t.Errorf("phase 2 should name the lead theme: %q", phases[1])
	}
	if !strings.Contains(phases[1], "linkedin, twitter") {
		t.Errorf("phase 2 should list the platforms: %q", phases[1])
	}
	if !strings.Contains(phases[2], "4.5%") {
		t.Errorf("phase 3 should format the engagement target: %q", phases[2])
	}
}

func TestRiskMitigationsFilterByFloor(t *testing.T) {
	r := NewRenderer()

	perf := PerformancePrediction{
		MarketVolatilityRisk:    0.6,
		CompetitiveResponseRisk: 0.2,
		AlgorithmChangeRisk:     0.45,
		BrandSafetyRisk:         0.1,
	}
	out := r.RiskMitigations(ObjectiveBrandAwareness, perf)
	if len(out) != 2 {
		t.Fatalf("mitigations = %d, want 2: %v", len(out), out)
	}
	// Fixed dimension order: market volatility first.
	if !strings.Contains(out[0], "Market volatility") {
		t.Errorf("first mitigation = %q, want market volatility", out[0])
	}
	if !strings.Contains(out[0], "60.0%") {
		t.Errorf("mitigation should render the score: %q", out[0])
	}
	if !strings.Contains(out[1], "Algorithm change") {
		t.Errorf("second mitigation = %q, want algorithm change", out[1])
	}
}

func TestRiskMitigationsFallbackLine(t *testing.T) {
	r := NewRenderer()
	out := r.RiskMitigations(ObjectiveEngagement, PerformancePrediction{})
	if len(out) != 1 {
		t.Fatalf("mitigations = %d, want the single fallback line", len(out))
	}
	if !strings.Contains(out[0], "No elevated risks") {
		t.Errorf("fallback = %q", out[0])
	}
}

func TestRenderCachesTemplates(t *testing.T) {
	r := NewRenderer()
	src := `{{ score | percentage }}`
	first := r.render(src, map[string]interface{}{"score": 0.5})
	second := r.render(src, map[string]interface{}{"score": 0.25})
	if first != "50.0%" || second != "25.0%" {
		t.Errorf("renders = %q, %q", first, second)
	}
	if _, ok := r.cache.Load(src); !ok {
		t.Error("parsed template not cached")
	}
}

func TestRenderFallsBackToSourceOnParseError(t *testing.T) {
	r := NewRenderer()
	src := `{% broken`
	if got := r.render(src, nil); got != src {
		t.Errorf("render = %q, want the raw source back", got)
	}
}
