package strategy

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/gaps"
	"github.com/ignite/content-strategist/internal/safety"
	"github.com/ignite/content-strategist/internal/viral"
)

// OptimizerConfig carries the orchestration policy constants.
type OptimizerConfig struct {
	// BudgetSplit divides a supplied monthly budget across activities.
	// Values sum to 1.0.
	BudgetSplit map[string]float64 `yaml:"budget_split"`

	// Budget thresholds for objective inference when the caller supplies
	// no explicit business objectives.
	AwarenessBudgetFloor float64 `yaml:"awareness_budget_floor"`
	LeadGenBudgetFloor   float64 `yaml:"leadgen_budget_floor"`

	// Fixed defaults for integration scores when phase-1 analysis
	// produced no usable signal.
	DefaultBeliefAlignment   float64 `yaml:"default_belief_alignment"`
	DefaultBrandSafety       float64 `yaml:"default_brand_safety"`
	DefaultAudienceResonance float64 `yaml:"default_audience_resonance"`
	DefaultViralPotential    float64 `yaml:"default_viral_potential"`

	HorizonMonths int `yaml:"horizon_months"`
	MaxThemes     int `yaml:"max_themes"`

	// Predictor carries the forecasting policy constants. The zero value
	// falls back to DefaultPredictorConfig.
	Predictor PredictorConfig `yaml:"predictor"`
}

// DefaultOptimizerConfig returns the tuned defaults.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		BudgetSplit: map[string]float64{
			"content_creation": 0.30,
			"design":           0.20,
			"video":            0.20,
			"distribution":     0.25,
			"tools":            0.05,
		},
		AwarenessBudgetFloor:     20000,
		LeadGenBudgetFloor:       8000,
		DefaultBeliefAlignment:   0.7,
		DefaultBrandSafety:       0.8,
		DefaultAudienceResonance: 0.6,
		DefaultViralPotential:    0.5,
		HorizonMonths:            3,
		MaxThemes:                5,
		Predictor:                DefaultPredictorConfig(),
	}
}

// secondaryObjectives maps a primary objective to its fixed companions.
var secondaryObjectives = map[Objective][]Objective{
	ObjectiveBrandAwareness:    {ObjectiveEngagement, ObjectiveCommunityGrowth},
	ObjectiveLeadGeneration:    {ObjectiveConversion, ObjectiveThoughtLeadership},
	ObjectiveEngagement:        {ObjectiveCommunityGrowth, ObjectiveBrandAwareness},
	ObjectiveThoughtLeadership: {ObjectiveBrandAwareness, ObjectiveLeadGeneration},
	ObjectiveCommunityGrowth:   {ObjectiveEngagement, ObjectiveBrandAwareness},
	ObjectiveConversion:        {ObjectiveLeadGeneration, ObjectiveEngagement},
}

// objectivePlatforms maps an objective to its natural platform set, later
// intersected with audience-preferred platforms.
var objectivePlatforms = map[Objective][]domain.Platform{
	ObjectiveBrandAwareness:    {domain.PlatformLinkedIn, domain.PlatformTwitter, domain.PlatformInstagram},
	ObjectiveLeadGeneration:    {domain.PlatformLinkedIn, domain.PlatformTwitter},
	ObjectiveEngagement:        {domain.PlatformTwitter, domain.PlatformInstagram, domain.PlatformTikTok},
	ObjectiveThoughtLeadership: {domain.PlatformLinkedIn, domain.PlatformTwitter, domain.PlatformYouTube},
	ObjectiveCommunityGrowth:   {domain.PlatformTwitter, domain.PlatformInstagram, domain.PlatformFacebook},
	ObjectiveConversion:        {domain.PlatformLinkedIn, domain.PlatformInstagram, domain.PlatformFacebook},
}

// objectiveThemes seeds the theme list before positioning and belief
// additions.
var objectiveThemes = map[Objective][]string{
	ObjectiveBrandAwareness:    {"brand story", "industry trends"},
	ObjectiveLeadGeneration:    {"case studies", "how-to guides"},
	ObjectiveEngagement:        {"community questions", "behind the scenes"},
	ObjectiveThoughtLeadership: {"original research", "industry commentary"},
	ObjectiveCommunityGrowth:   {"user spotlights", "community challenges"},
	ObjectiveConversion:        {"product education", "customer proof"},
}

// objectiveContentTypes maps an objective to the content types it favors.
var objectiveContentTypes = map[Objective][]domain.ContentType{
	ObjectiveBrandAwareness:    {domain.ContentStory, domain.ContentInsight},
	ObjectiveLeadGeneration:    {domain.ContentAdvice, domain.ContentInsight},
	ObjectiveEngagement:        {domain.ContentQuestion, domain.ContentHotTake},
	ObjectiveThoughtLeadership: {domain.ContentInsight, domain.ContentBelief},
	ObjectiveCommunityGrowth:   {domain.ContentQuestion, domain.ContentStory},
	ObjectiveConversion:        {domain.ContentAdvice, domain.ContentStory},
}

// Optimizer is the root orchestrator: eight forward-only phases from business
// context to a StrategicRecommendation. Immutable after construction and safe
// for concurrent use.
type Optimizer struct {
	cfg         OptimizerConfig
	viralEngine *viral.Engine
	gapAnalyzer *gaps.Analyzer
	planner     *Planner
	predictor   *Predictor
	renderer    *Renderer
	conceptEx   concepts.Extractor

	// One safety analyzer per brand profile, built once.
	safetyAnalyzers map[domain.BrandProfile]*safety.Analyzer

	newID func() string
	now   func() time.Time
}

// OptimizerOption customizes an Optimizer.
type OptimizerOption func(*Optimizer)

// WithOptimizerIDGenerator replaces the recommendation id generator.
func WithOptimizerIDGenerator(gen func() string) OptimizerOption {
	return func(o *Optimizer) { o.newID = gen }
}

// WithOptimizerClock replaces the wall clock.
func WithOptimizerClock(now func() time.Time) OptimizerOption {
	return func(o *Optimizer) { o.now = now }
}

// WithSafetyAnalyzers replaces the built-in default analyzers so the
// pipeline shares the caller's configured thresholds and concept extractor.
// Missing profiles keep their defaults.
func WithSafetyAnalyzers(analyzers map[domain.BrandProfile]*safety.Analyzer) OptimizerOption {
	return func(o *Optimizer) {
		for profile, a := range analyzers {
			if a != nil {
				o.safetyAnalyzers[profile] = a
			}
		}
	}
}

// NewOptimizer wires the full strategy pipeline.
func NewOptimizer(cfg OptimizerConfig, viralEngine *viral.Engine, gapAnalyzer *gaps.Analyzer, conceptEx concepts.Extractor, opts ...OptimizerOption) *Optimizer {
	if cfg.Predictor == (PredictorConfig{}) {
		cfg.Predictor = DefaultPredictorConfig()
	}
	o := &Optimizer{
		cfg:         cfg,
		viralEngine: viralEngine,
		gapAnalyzer: gapAnalyzer,
		planner:     NewPlanner(),
		predictor:   NewPredictor(cfg.Predictor),
		renderer:    NewRenderer(),
		conceptEx:   conceptEx,
		safetyAnalyzers: map[domain.BrandProfile]*safety.Analyzer{
			domain.ProfileConservative: safety.NewAnalyzer(domain.ProfileConservative, viralEngine),
			domain.ProfileModerate:     safety.NewAnalyzer(domain.ProfileModerate, viralEngine),
			domain.ProfileAggressive:   safety.NewAnalyzer(domain.ProfileAggressive, viralEngine),
		},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// baselines is the joined result of the phase-1 fan-out.
type baselines struct {
	beliefConcepts    []concepts.ConceptualEntity
	beliefAlignment   float64
	audienceResonance float64
	brandSafety       float64
	viralPotential    float64
	position          CompetitivePosition
}

// GenerateStrategy runs the eight-phase pipeline. Always returns a usable
// recommendation: any phase failure degrades to a fixed fallback instead of
// an error.
func (o *Optimizer) GenerateStrategy(ctx context.Context, bc BusinessContext, samples []domain.ContentItem, competitive *domain.CompetitiveAnalysis, historical *HistoricalPerformance) (rec StrategicRecommendation) {
	id := o.newID()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("strategy: pipeline failed for %s (%s): %v; returning fallback", id, bc.CompanyName, r)
			rec = o.fallbackRecommendation(id, bc)
		}
	}()

	if len(samples) == 0 {
		samples = bc.ExistingContent
	}

	// Phase 1: concurrent baseline analysis.
	base := o.analyzeBaselines(ctx, bc, samples, competitive)

	// Phase 2: objective optimization.
	objective := o.selectObjective(bc, base)
	secondary := secondaryObjectives[objective]
	platforms := o.selectPlatforms(objective, bc.TargetAudiences)
	themes := o.selectThemes(objective, base)

	// Phase 3: gap analysis.
	gapList := o.gapAnalyzer.IdentifyGaps(ctx, bc.TargetAudiences, samples, competitive)

	// Phase 4: resource planning.
	plan := o.buildResourcePlan(bc.MonthlyBudget, gapList)

	// Phase 5: performance prediction.
	perf := o.predictor.Predict(Seed{
		StrategyConfidence: o.strategyConfidence(bc, base),
		AudienceResonance:  base.audienceResonance,
		BrandSafety:        base.brandSafety,
		DataQuality:        o.dataQuality(bc, samples, competitive, historical),
		Objective:          objective,
		Position:           base.position,
		PlatformCount:      len(platforms),
		HorizonMonths:      o.cfg.HorizonMonths,
	}, gapList, plan, historical)

	// Phase 6: timeline.
	calendar := o.planner.BuildTimeline(objective, themes, plan, gapList, platforms, perf)

	// Phase 7: integration scoring happens in the baselines; phase 8
	// blends them into the final confidence and coherence figures.
	confidence := perf.PredictionConfidence*0.4 + o.dataQuality(bc, samples, competitive, historical)*0.3 + base.brandSafety*0.3
	coherence := o.strategicCoherence(base)

	prioritization := make([]string, len(gapList))
	for i, g := range gapList {
		prioritization[i] = g.ID
	}

	now := o.now()
	return StrategicRecommendation{
		ID:                  id,
		Objective:           objective,
		SecondaryObjectives: secondary,
		CompetitivePosition: base.position,

		TargetAudiences:    bc.TargetAudiences,
		TargetPlatforms:    platforms,
		TargetContentTypes: objectiveContentTypes[objective],
		Themes:             themes,
		MessagingFramework: o.messagingFramework(objective, bc),

		Calendar: calendar,

		Gaps:                      gapList,
		OpportunityPrioritization: prioritization,

		Resources:   plan,
		Performance: perf,

		ImplementationPhases:     o.renderer.ImplementationPhases(objective, themes, platforms, calendar, perf),
		RiskMitigationStrategies: o.renderer.RiskMitigations(objective, perf),
		SuccessMetrics:           copyMetrics(calendar.KPITargets),

		BeliefAlignmentScore:   base.beliefAlignment,
		BrandSafetyScore:       base.brandSafety,
		AudienceResonanceScore: base.audienceResonance,
		ViralPotentialScore:    base.viralPotential,

		Confidence:         clamp01(confidence),
		DataQuality:        o.dataQuality(bc, samples, competitive, historical),
		StrategicCoherence: coherence,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// analyzeBaselines fans out the four phase-1 analyses and joins them. Each
// branch recovers to the configured default so a single failure never stalls
// the pipeline.
func (o *Optimizer) analyzeBaselines(ctx context.Context, bc BusinessContext, samples []domain.ContentItem, competitive *domain.CompetitiveAnalysis) baselines {
	base := baselines{
		beliefAlignment:   o.cfg.DefaultBeliefAlignment,
		audienceResonance: o.cfg.DefaultAudienceResonance,
		brandSafety:       o.cfg.DefaultBrandSafety,
		viralPotential:    o.cfg.DefaultViralPotential,
	}

	type branch struct {
		name string
		run  func()
	}
	branches := []branch{
		{"beliefs", func() {
			entities, alignment, ok := o.beliefBaseline(ctx, samples)
			if ok {
				base.beliefConcepts = entities
				base.beliefAlignment = alignment
			}
		}},
		{"audience", func() {
			if r, ok := audienceResonance(bc.TargetAudiences); ok {
				base.audienceResonance = r
			}
		}},
		{"safety", func() {
			if s, ok := o.safetyBaseline(ctx, bc, samples); ok {
				base.brandSafety = s
			}
		}},
		{"viral", func() {
			if v, ok := o.viralBaseline(ctx, samples); ok {
				base.viralPotential = v
			}
		}},
	}

	// Branches write disjoint fields of base, so the join needs no lock.
	done := make(chan string, len(branches))
	for _, b := range branches {
		b := b
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("strategy: %s baseline failed: %v; using default", b.name, r)
				}
				done <- b.name
			}()
			b.run()
		}()
	}
	for range branches {
		<-done
	}

	base.position = competitivePosition(bc, competitive)
	return base
}

// beliefBaseline extracts concepts from the samples and averages belief
// confidence.
func (o *Optimizer) beliefBaseline(ctx context.Context, samples []domain.ContentItem) ([]concepts.ConceptualEntity, float64, bool) {
	if o.conceptEx == nil || len(samples) == 0 {
		return nil, 0, false
	}
	var all []concepts.ConceptualEntity
	for _, s := range samples {
		entities, err := o.conceptEx.Extract(ctx, s.Text, nil)
		if err != nil {
			log.Printf("strategy: concept extraction failed for sample %s: %v", s.ID, err)
			continue
		}
		all = append(all, entities...)
	}
	var sum float64
	n := 0
	for _, e := range all {
		if e.Type == concepts.ConceptBelief || e.Type == concepts.ConceptHotTake {
			sum += e.Confidence
			n++
		}
	}
	if n == 0 {
		return all, 0, false
	}
	return all, clamp01(sum / float64(n)), true
}

// audienceResonance is the size-weighted blend of engagement quality and
// value score across segments.
func audienceResonance(audiences []domain.AudienceSegment) (float64, bool) {
	if len(audiences) == 0 {
		return 0, false
	}
	var weighted, total float64
	for _, a := range audiences {
		w := float64(a.Size)
		if w <= 0 {
			w = 1
		}
		quality := clamp01(a.EngagementRate*5)*0.5 + clamp01(a.ValueScore)*0.5
		weighted += quality * w
		total += w
	}
	return clamp01(weighted / total), true
}

// safetyBaseline assesses each sample against the brand profile and returns
// 1 - average overall risk.
func (o *Optimizer) safetyBaseline(ctx context.Context, bc BusinessContext, samples []domain.ContentItem) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	profile := bc.BrandProfile
	if profile == "" {
		profile = domain.ProfileModerate
	}
	analyzer, ok := o.safetyAnalyzers[profile]
	if !ok {
		analyzer = o.safetyAnalyzers[domain.ProfileModerate]
	}
	var sum float64
	for _, s := range samples {
		assessment := analyzer.Assess(ctx, s.Text, s.Platform, s.ID, nil, nil)
		sum += assessment.Risk.Overall
	}
	return clamp01(1 - sum/float64(len(samples))), true
}

// viralBaseline averages the overall viral score across the samples.
func (o *Optimizer) viralBaseline(ctx context.Context, samples []domain.ContentItem) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range samples {
		prediction := o.viralEngine.Predict(ctx, s.Text, s.Platform, s.ID, nil)
		sum += prediction.OverallViralScore
	}
	return clamp01(sum / float64(len(samples))), true
}

// selectObjective takes the first explicit business objective, else infers
// one from budget and baseline signals.
func (o *Optimizer) selectObjective(bc BusinessContext, base baselines) Objective {
	if len(bc.BusinessObjectives) > 0 {
		return ParseObjective(strings.ToLower(strings.TrimSpace(bc.BusinessObjectives[0])))
	}
	switch {
	case bc.MonthlyBudget >= o.cfg.AwarenessBudgetFloor:
		return ObjectiveBrandAwareness
	case bc.MonthlyBudget >= o.cfg.LeadGenBudgetFloor:
		return ObjectiveLeadGeneration
	case base.audienceResonance > 0.6:
		return ObjectiveCommunityGrowth
	default:
		return ObjectiveEngagement
	}
}

// selectPlatforms intersects the objective's platform map with the union of
// audience-preferred platforms, falling back to the objective map when the
// intersection is empty.
func (o *Optimizer) selectPlatforms(objective Objective, audiences []domain.AudienceSegment) []domain.Platform {
	preferred := map[domain.Platform]bool{}
	for _, a := range audiences {
		for _, p := range a.PreferredPlatforms {
			preferred[p] = true
		}
	}
	candidates := objectivePlatforms[objective]
	if len(preferred) == 0 {
		return candidates
	}
	var out []domain.Platform
	for _, p := range candidates {
		if preferred[p] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return candidates
	}
	return out
}

// selectThemes starts from the objective's fixed themes, adds a positioning
// theme and belief-derived themes, capped at MaxThemes.
func (o *Optimizer) selectThemes(objective Objective, base baselines) []string {
	themes := append([]string{}, objectiveThemes[objective]...)

	switch base.position {
	case PositionLeader:
		themes = append(themes, "category leadership")
	case PositionChallenger:
		themes = append(themes, "challenger comparisons")
	case PositionNiche:
		themes = append(themes, "niche expertise")
	default:
		themes = append(themes, "differentiated value")
	}

	// Strongest belief concepts become themes of their own.
	beliefs := append([]concepts.ConceptualEntity{}, base.beliefConcepts...)
	sort.SliceStable(beliefs, func(i, j int) bool { return beliefs[i].Confidence > beliefs[j].Confidence })
	for _, b := range beliefs {
		if b.Type != concepts.ConceptBelief {
			continue
		}
		theme := strings.ToLower(strings.TrimSpace(b.Text))
		if theme != "" && !containsString(themes, theme) {
			themes = append(themes, theme)
		}
	}

	if len(themes) > o.cfg.MaxThemes {
		themes = themes[:o.cfg.MaxThemes]
	}
	return themes
}

// buildResourcePlan aggregates per-gap resource requirements into weekly
// hours and splits the monthly budget across the fixed proportions.
func (o *Optimizer) buildResourcePlan(monthlyBudget float64, gapList []gaps.ContentGap) ResourcePlan {
	weeklyHours := map[string]float64{
		"content_creation":     10,
		"community_management": 5,
	}
	for _, g := range gapList {
		for resource, effort := range g.ResourceRequirements {
			weeklyHours[resource] += effort * 8
		}
	}
	for resource, h := range weeklyHours {
		if h > 40 {
			weeklyHours[resource] = 40
		}
	}

	personnel := map[string]int{
		"content_strategist": 1,
		"content_creator":    1 + int(weeklyHours["content_creation"]/30),
	}
	if weeklyHours["design"] > 10 {
		personnel["designer"] = 1
	}
	if weeklyHours["video"] > 10 {
		personnel["video_producer"] = 1
	}

	budget := map[string]float64{}
	if monthlyBudget > 0 {
		for activity, share := range o.cfg.BudgetSplit {
			budget[activity] = monthlyBudget * share
		}
	}

	return NewResourcePlan(personnel, weeklyHours, budget)
}

// strategyConfidence reflects how much signal the caller supplied.
func (o *Optimizer) strategyConfidence(bc BusinessContext, base baselines) float64 {
	confidence := 0.4
	if len(bc.TargetAudiences) > 0 {
		confidence += 0.2
	}
	if len(bc.ExistingContent) > 0 {
		confidence += 0.15
	}
	if bc.MonthlyBudget > 0 {
		confidence += 0.1
	}
	if len(base.beliefConcepts) > 0 {
		confidence += 0.15
	}
	return clamp01(confidence)
}

// dataQuality is the fraction of optional inputs actually supplied.
func (o *Optimizer) dataQuality(bc BusinessContext, samples []domain.ContentItem, competitive *domain.CompetitiveAnalysis, historical *HistoricalPerformance) float64 {
	score := 0.0
	if len(bc.TargetAudiences) > 0 {
		score += 0.25
	}
	if len(samples) > 0 {
		score += 0.25
	}
	if competitive != nil {
		score += 0.2
	}
	if historical != nil && historical.CampaignCount > 0 {
		score += 0.2
	}
	if bc.MonthlyBudget > 0 {
		score += 0.1
	}
	return score
}

// strategicCoherence rewards integration scores that are both high and
// mutually consistent.
func (o *Optimizer) strategicCoherence(base baselines) float64 {
	scores := []float64{base.beliefAlignment, base.brandSafety, base.audienceResonance, base.viralPotential}
	lo, hi, sum := scores[0], scores[0], 0.0
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
		sum += s
	}
	mean := sum / float64(len(scores))
	return clamp01(mean*0.5 + (1-(hi-lo))*0.5)
}

func (o *Optimizer) messagingFramework(objective Objective, bc BusinessContext) map[string]string {
	industry := bc.Industry
	if industry == "" {
		industry = "your industry"
	}
	return map[string]string{
		"value_proposition": "Practical, trustworthy expertise in " + industry,
		"tone":              toneFor(objective),
		"proof_points":      "customer outcomes, original data, consistent delivery",
	}
}

func toneFor(objective Objective) string {
	switch objective {
	case ObjectiveThoughtLeadership:
		return "authoritative and opinionated"
	case ObjectiveEngagement, ObjectiveCommunityGrowth:
		return "conversational and inclusive"
	case ObjectiveConversion, ObjectiveLeadGeneration:
		return "direct and benefit-led"
	default:
		return "confident and approachable"
	}
}

// competitivePosition derives market position from company stage and market
// saturation.
func competitivePosition(bc BusinessContext, competitive *domain.CompetitiveAnalysis) CompetitivePosition {
	saturation := 0.5
	if competitive != nil && competitive.MarketSaturation > 0 {
		saturation = competitive.MarketSaturation
	}
	switch bc.CompanyStage {
	case "enterprise":
		return PositionLeader
	case "growth":
		if saturation < 0.5 {
			return PositionChallenger
		}
		return PositionFollower
	case "startup":
		if saturation > 0.7 {
			return PositionNiche
		}
		return PositionChallenger
	default:
		if saturation > 0.7 {
			return PositionNiche
		}
		return PositionFollower
	}
}

// fallbackRecommendation is the fixed degraded output for a whole-pipeline
// failure. Low confidence markers let callers detect it.
func (o *Optimizer) fallbackRecommendation(id string, bc BusinessContext) StrategicRecommendation {
	now := o.now()
	plan := NewResourcePlan(
		map[string]int{"content_strategist": 1, "content_creator": 1},
		map[string]float64{"content_creation": 10, "community_management": 5},
		map[string]float64{},
	)
	perf := o.predictor.Predict(Seed{
		StrategyConfidence: 0.2,
		AudienceResonance:  o.cfg.DefaultAudienceResonance,
		BrandSafety:        o.cfg.DefaultBrandSafety,
		DataQuality:        0.1,
		Objective:          ObjectiveEngagement,
		Position:           PositionFollower,
		PlatformCount:      1,
		HorizonMonths:      o.cfg.HorizonMonths,
	}, nil, plan, nil)
	platforms := []domain.Platform{domain.PlatformGeneral}
	themes := []string{"consistent publishing", "audience listening"}
	calendar := o.planner.BuildTimeline(ObjectiveEngagement, themes, plan, nil, platforms, perf)

	return StrategicRecommendation{
		ID:                  id,
		Objective:           ObjectiveEngagement,
		CompetitivePosition: PositionFollower,
		TargetAudiences:     bc.TargetAudiences,
		TargetPlatforms:     platforms,
		TargetContentTypes:  objectiveContentTypes[ObjectiveEngagement],
		Themes:              themes,
		MessagingFramework:  o.messagingFramework(ObjectiveEngagement, bc),
		Calendar:            calendar,
		Resources:           plan,
		Performance:         perf,
		ImplementationPhases: []string{
			"Phase 1: establish a consistent publishing baseline and gather performance data.",
		},
		RiskMitigationStrategies: []string{
			"Collect more input data and regenerate the strategy before scaling spend.",
		},
		SuccessMetrics:         copyMetrics(calendar.KPITargets),
		BeliefAlignmentScore:   o.cfg.DefaultBeliefAlignment,
		BrandSafetyScore:       o.cfg.DefaultBrandSafety,
		AudienceResonanceScore: o.cfg.DefaultAudienceResonance,
		ViralPotentialScore:    o.cfg.DefaultViralPotential,
		Confidence:             0.2,
		DataQuality:            0.1,
		StrategicCoherence:     0.3,
		CreatedAt:              now,
		UpdatedAt:              now,
		Degraded:               true,
	}
}

const (
	overPerformRatio  = 1.1
	underPerformRatio = 0.9
	viralThemeBump    = 0.1
)

// OptimizeExisting compares actual metrics against a recommendation's
// targets and applies template adjustments to a copy. The full pipeline is
// not re-run.
func (o *Optimizer) OptimizeExisting(rec StrategicRecommendation, performance PerformanceData, marketChanges map[string]float64) (StrategicRecommendation, map[string]MetricStanding) {
	out := rec
	out.Themes = append([]string{}, rec.Themes...)
	out.SuccessMetrics = copyMetrics(rec.SuccessMetrics)
	out.RiskMitigationStrategies = append([]string{}, rec.RiskMitigationStrategies...)
	out.Calendar.KPIProgress = copyMetrics(rec.Calendar.KPIProgress)

	standings := make(map[string]MetricStanding)
	for metric, predicted := range rec.SuccessMetrics {
		actual, ok := performance.ActualMetrics[metric]
		if !ok || predicted == 0 {
			continue
		}
		ratio := actual / predicted
		switch {
		case ratio > overPerformRatio:
			standings[metric] = MetricOverPerforming
		case ratio < underPerformRatio:
			standings[metric] = MetricUnderPerforming
		default:
			standings[metric] = MetricOnTrack
		}
		if _, tracked := out.Calendar.KPIProgress[metric]; tracked {
			out.Calendar.KPIProgress[metric] = actual
		}
	}

	if standings["reach"] == MetricUnderPerforming || standings["engagement_rate"] == MetricUnderPerforming {
		if !containsString(out.Themes, "trending topics") {
			out.Themes = append(out.Themes, "trending topics")
		}
		out.ViralPotentialScore = clamp01(out.ViralPotentialScore + viralThemeBump)
	}
	if standings["conversion_rate"] == MetricUnderPerforming || standings["leads"] == MetricUnderPerforming {
		if !containsString(out.Themes, "customer proof") {
			out.Themes = append(out.Themes, "customer proof")
		}
	}

	over := 0
	for _, s := range standings {
		if s == MetricOverPerforming {
			over++
		}
	}
	if len(standings) > 0 && over*2 > len(standings) {
		out.Confidence = clamp01(out.Confidence + 0.05)
	}

	if v, ok := marketChanges["market_volatility"]; ok && v > 0.6 {
		out.RiskMitigationStrategies = append(out.RiskMitigationStrategies,
			"Market volatility is elevated: shorten the review cadence and hold budget in reserve.")
	}

	out.UpdatedAt = o.now()
	return out, standings
}

func copyMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
