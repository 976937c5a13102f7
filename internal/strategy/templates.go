package strategy

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/osteele/liquid"

	"github.com/ignite/content-strategist/internal/domain"
)

// phaseTemplates are the implementation-phase descriptions, rendered in
// order. Each phase names the weeks it covers and the work it contains.
var phaseTemplates = []string{
	`Phase 1 (weeks 1-2): Foundation - audit existing {{ objective | humanize }} content, finalize the {{ theme_count }} content themes and set up tracking for {{ platforms }}.`,
	`Phase 2 (weeks 3-6): Launch - ramp to {{ weekly_target }} posts per week across {{ platforms }}, leading with "{{ lead_theme }}".`,
	`Phase 3 (weeks 7-10): Optimization - double down on formats beating a {{ engagement_target | percentage }} engagement rate and retire underperformers.`,
	`Phase 4 (weeks 11-{{ total_weeks }}): Scale - extend winning themes to secondary platforms and review against the {{ objective | humanize }} targets.`,
}

// mitigationTemplates map a risk dimension to its playbook line. Only
// dimensions above mitigationRiskFloor are rendered.
var mitigationTemplates = map[string]string{
	"market_volatility":    `Market volatility ({{ score | percentage }}): hold {{ reserve | percentage }} of budget in reserve and re-forecast every {{ cadence_days }} days.`,
	"competitive_response": `Competitive response ({{ score | percentage }}): monitor competitor publishing weekly and keep two counter-positioning themes drafted.`,
	"algorithm_change":     `Algorithm change ({{ score | percentage }}): diversify across {{ platform_count }} platforms and grow owned channels (email, community).`,
	"brand_safety":         `Brand safety ({{ score | percentage }}): route {{ objective | humanize }} content above the caution threshold through pre-publication review.`,
}

const (
	mitigationRiskFloor  = 0.35
	mitigationReserve    = 0.10
	mitigationCadenceDays = 14
)

// Renderer produces human-readable strategy text from liquid templates.
// Parsed templates are cached; rendering is safe for concurrent use.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // template source -> *liquid.Template
}

// NewRenderer creates a renderer with the strategy filters registered.
func NewRenderer() *Renderer {
	r := &Renderer{engine: liquid.NewEngine()}

	// {{ rate | percentage }} -> "12.5%"
	r.engine.RegisterFilter("percentage", func(value interface{}) string {
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		case int:
			f = float64(v)
		default:
			return fmt.Sprintf("%v", value)
		}
		return fmt.Sprintf("%.1f%%", f*100)
	})

	// {{ objective | humanize }} -> "lead generation"
	r.engine.RegisterFilter("humanize", func(s string) string {
		return strings.ReplaceAll(s, "_", " ")
	})

	return r
}

// ImplementationPhases renders the phase plan for a recommendation.
func (r *Renderer) ImplementationPhases(objective Objective, themes []string, platforms []domain.Platform, calendar ContentCalendar, perf PerformancePrediction) []string {
	leadTheme := "core positioning"
	if len(themes) > 0 {
		leadTheme = themes[0]
	}
	weeklyTarget := 0
	for _, n := range calendar.WeeklyContentTargets {
		if n > weeklyTarget {
			weeklyTarget = n
		}
	}

	ctx := map[string]interface{}{
		"objective":         string(objective),
		"theme_count":       len(themes),
		"lead_theme":        leadTheme,
		"platforms":         platformList(platforms),
		"weekly_target":     weeklyTarget,
		"engagement_target": perf.EngagementRate.Expected,
		"total_weeks":       len(calendar.WeeklyContentTargets),
	}

	phases := make([]string, 0, len(phaseTemplates))
	for _, tpl := range phaseTemplates {
		phases = append(phases, r.render(tpl, ctx))
	}
	return phases
}

// RiskMitigations renders one playbook line per elevated risk dimension,
// in a fixed dimension order so output is deterministic.
func (r *Renderer) RiskMitigations(objective Objective, perf PerformancePrediction) []string {
	scores := []struct {
		key   string
		score float64
	}{
		{"market_volatility", perf.MarketVolatilityRisk},
		{"competitive_response", perf.CompetitiveResponseRisk},
		{"algorithm_change", perf.AlgorithmChangeRisk},
		{"brand_safety", perf.BrandSafetyRisk},
	}

	var out []string
	for _, s := range scores {
		if s.score < mitigationRiskFloor {
			continue
		}
		ctx := map[string]interface{}{
			"score":          s.score,
			"objective":      string(objective),
			"reserve":        mitigationReserve,
			"cadence_days":   mitigationCadenceDays,
			"platform_count": "3+",
		}
		out = append(out, r.render(mitigationTemplates[s.key], ctx))
	}
	if len(out) == 0 {
		out = append(out, "No elevated risks identified; review the forecast at the standard cadence.")
	}
	return out
}

// render parses with caching and falls back to the raw template text on
// error so a bad template never fails a strategy run.
func (r *Renderer) render(source string, ctx map[string]interface{}) string {
	var tpl *liquid.Template
	if cached, ok := r.cache.Load(source); ok {
		tpl = cached.(*liquid.Template)
	} else {
		parsed, err := r.engine.ParseString(source)
		if err != nil {
			log.Printf("strategy: template parse error: %v", err)
			return source
		}
		r.cache.Store(source, parsed)
		tpl = parsed
	}

	out, err := tpl.RenderString(ctx)
	if err != nil {
		log.Printf("strategy: template render error: %v", err)
		return source
	}
	return out
}

func platformList(platforms []domain.Platform) string {
	if len(platforms) == 0 {
		return string(domain.PlatformGeneral)
	}
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
