package strategy

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/gaps"
)

// Planner builds the milestone timeline and cadence calendar for a strategy.
// Deterministic given an injected clock and id generator.
type Planner struct {
	newID func() string
	now   func() time.Time
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPlannerIDGenerator overrides milestone-id generation.
func WithPlannerIDGenerator(gen func() string) PlannerOption {
	return func(p *Planner) { p.newID = gen }
}

// WithPlannerClock overrides the wall clock, mainly for tests.
func WithPlannerClock(now func() time.Time) PlannerOption {
	return func(p *Planner) { p.now = now }
}

// NewPlanner creates a planner.
func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Calendar horizon and the fixed week offsets of the phase template.
const (
	calendarWeeks        = 12
	setupWeek            = 2
	executionStartWeek   = 3
	maxExecutionGaps     = 5
	contentRampWeek      = 3 // full weekly target from this week onward
)

var (
	reviewWeeks       = []int{4, 8, 12}
	optimizationMilestoneWeeks = []int{6, 10}
	optimizationDateWeeks      = []int{6, 12}
	pivotWeeks                 = []int{8, 16}
)

// BuildTimeline produces the content calendar for an objective, its themes
// and resource plan, and the prioritized gap list.
func (p *Planner) BuildTimeline(objective Objective, themes []string, plan ResourcePlan, gapList []gaps.ContentGap, platforms []domain.Platform, perf PerformancePrediction) ContentCalendar {
	start := p.now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, calendarWeeks*7)

	milestones := p.buildMilestones(objective, gapList, start)

	cal := ContentCalendar{
		StartDate:            start,
		EndDate:              end,
		Milestones:           milestones,
		WeeklyContentTargets: weeklyTargets(plan),
		PlatformDistribution: uniformDistribution(platforms),
		ThemeRotation:        themes,
		ReviewDates:          weekDates(start, reviewWeeks, end),
		OptimizationDates:    weekDates(start, optimizationDateWeeks, end),
		PivotDecisionDates:   weekDates(start, pivotWeeks, end),
		KPITargets:           kpiTargets(perf),
	}

	cal.KPIProgress = make(map[string]float64, len(cal.KPITargets))
	for k := range cal.KPITargets {
		cal.KPIProgress[k] = 0
	}
	return cal
}

// buildMilestones lays out the deterministic phase template, sorts by date
// and chains each milestone to its immediate predecessor.
func (p *Planner) buildMilestones(objective Objective, gapList []gaps.ContentGap, start time.Time) []StrategicMilestone {
	var milestones []StrategicMilestone

	milestones = append(milestones, StrategicMilestone{
		ID:               fmt.Sprintf("ms-%s", p.newID()),
		Type:             MilestoneCampaignStart,
		Name:             fmt.Sprintf("Strategy setup for %s complete", objective),
		TargetDate:       start.AddDate(0, 0, setupWeek*7),
		Duration:         14 * 24 * time.Hour,
		SuccessThreshold: 0.8,
		SuccessMetrics:   map[string]float64{"setup_tasks_complete": 1.0},
		Status:           MilestonePlanned,
		BusinessImpact:   0.5,
	})

	execWeek := executionStartWeek
	added := 0
	for _, gap := range gapList {
		if added == maxExecutionGaps {
			break
		}
		if gap.Priority != domain.GapPriorityCritical && gap.Priority != domain.GapPriorityHigh {
			continue
		}
		milestones = append(milestones, StrategicMilestone{
			ID:               fmt.Sprintf("ms-%s", p.newID()),
			Type:             MilestoneContentLaunch,
			Name:             fmt.Sprintf("Launch: %s", gap.Title),
			TargetDate:       start.AddDate(0, 0, execWeek*7),
			Duration:         7 * 24 * time.Hour,
			SuccessThreshold: 0.7,
			SuccessMetrics: map[string]float64{
				"pieces_published":   1,
				"engagement_rate":    gap.ExpectedEngagementRate,
				"opportunity_capture": gap.OpportunityScore,
			},
			Status:         MilestonePlanned,
			BusinessImpact: gap.BusinessImpact,
		})
		execWeek++
		added++
	}

	for _, w := range reviewWeeks {
		milestones = append(milestones, StrategicMilestone{
			ID:               fmt.Sprintf("ms-%s", p.newID()),
			Type:             MilestonePerformanceReview,
			Name:             fmt.Sprintf("Week %d performance review", w),
			TargetDate:       start.AddDate(0, 0, w*7),
			Duration:         24 * time.Hour,
			SuccessThreshold: 0.6,
			Status:           MilestonePlanned,
			BusinessImpact:   0.4,
		})
	}
	for _, w := range optimizationMilestoneWeeks {
		milestones = append(milestones, StrategicMilestone{
			ID:               fmt.Sprintf("ms-%s", p.newID()),
			Type:             MilestoneOptimizationCheckpoint,
			Name:             fmt.Sprintf("Week %d optimization checkpoint", w),
			TargetDate:       start.AddDate(0, 0, w*7),
			Duration:         24 * time.Hour,
			SuccessThreshold: 0.6,
			Status:           MilestonePlanned,
			BusinessImpact:   0.4,
		})
	}

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].TargetDate.Before(milestones[j].TargetDate)
	})
	for i := 1; i < len(milestones); i++ {
		milestones[i].DependsOn = []string{milestones[i-1].ID}
	}
	return milestones
}

// weeklyTargets ramps output: half the base target for weeks 1-2, full from
// week 3. Base derives from content-creation hours.
func weeklyTargets(plan ResourcePlan) map[int]int {
	contentHours := plan.WeeklyHours["content_creation"]
	var base int
	switch {
	case contentHours > 15:
		base = 5
	case contentHours < 10:
		base = 2
	default:
		base = 3
	}

	ramp := base / 2
	if ramp < 1 {
		ramp = 1
	}
	targets := make(map[int]int, calendarWeeks)
	for w := 1; w <= calendarWeeks; w++ {
		if w < contentRampWeek {
			targets[w] = ramp
		} else {
			targets[w] = base
		}
	}
	return targets
}

// uniformDistribution spreads weight evenly over the target platforms; the
// values sum to 1.0 for any non-empty set.
func uniformDistribution(platforms []domain.Platform) map[domain.Platform]float64 {
	if len(platforms) == 0 {
		return map[domain.Platform]float64{}
	}
	share := 1.0 / float64(len(platforms))
	out := make(map[domain.Platform]float64, len(platforms))
	for _, p := range platforms {
		out[p] = share
	}
	return out
}

// weekDates converts week offsets to dates, clipping anything past the
// calendar window.
func weekDates(start time.Time, weeks []int, end time.Time) []time.Time {
	var out []time.Time
	for _, w := range weeks {
		d := start.AddDate(0, 0, w*7)
		if d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// kpiTargets copies the expected value from each forecast range.
func kpiTargets(perf PerformancePrediction) map[string]float64 {
	return map[string]float64{
		"reach":            perf.Reach.Expected,
		"engagement_rate":  perf.EngagementRate.Expected,
		"click_rate":       perf.ClickRate.Expected,
		"conversion_rate":  perf.ConversionRate.Expected,
		"follower_growth":  perf.FollowerGrowth.Expected,
		"mention_increase": perf.MentionIncrease.Expected,
		"traffic_increase": perf.TrafficIncrease.Expected,
		"leads":            perf.Leads.Expected,
		"revenue":          perf.Revenue.Expected,
		"roi":              perf.ROI.Expected,
	}
}
