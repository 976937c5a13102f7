package safety

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/viral"
)

// ProfileThresholds are the cumulative safety-level cut points for one brand
// profile: overall risk ≤ Safe → safe, ≤ Caution → caution, ≤ Risk → risk,
// above → danger. Thresholds widen as risk tolerance increases.
type ProfileThresholds struct {
	Safe    float64 `yaml:"safe"`
	Caution float64 `yaml:"caution"`
	Risk    float64 `yaml:"risk"`
}

// DefaultProfileThresholds returns the per-profile threshold tables.
func DefaultProfileThresholds() map[domain.BrandProfile]ProfileThresholds {
	return map[domain.BrandProfile]ProfileThresholds{
		domain.ProfileConservative: {Safe: 0.20, Caution: 0.40, Risk: 0.60},
		domain.ProfileModerate:     {Safe: 0.30, Caution: 0.50, Risk: 0.70},
		domain.ProfileAggressive:   {Safe: 0.40, Caution: 0.60, Risk: 0.80},
	}
}

// Dimension blend weights for the overall risk score.
const (
	reputationalWeight = 0.35
	legalWeight        = 0.25
	financialWeight    = 0.25
	operationalWeight  = 0.15
)

var fixedSafetyKeywords = []string{"brand", "reputation", "backlash", "apology", "statement"}

var (
	opinionPhrases  = regexp.MustCompile(`(?i)\b(i think|in my opinion|i believe|my take|personally|imho|if you ask me)\b`)
	personalPhrases = regexp.MustCompile(`(?i)\b(my family|my weekend|my life|my kids|my journey|personal update|life update|i'?m excited to share)\b`)
)

// Analyzer runs the toxicity, controversy and stakeholder analyzers plus the
// viral engine concurrently and aggregates their outputs. The brand profile
// is fixed at construction; the analyzer holds only immutable tables and is
// safe to share across concurrent calls.
type Analyzer struct {
	profile     domain.BrandProfile
	thresholds  map[domain.BrandProfile]ProfileThresholds
	toxicity    *ToxicityDetector
	controversy *ControversyDetector
	stakeholder *StakeholderAnalyzer
	viralEngine *viral.Engine
	conceptEx   concepts.Extractor
	newID       func() string
	now         func() time.Time
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithThresholds overrides the profile threshold tables.
func WithThresholds(t map[domain.BrandProfile]ProfileThresholds) AnalyzerOption {
	return func(a *Analyzer) { a.thresholds = t }
}

// WithIDGenerator overrides content-id generation.
func WithIDGenerator(gen func() string) AnalyzerOption {
	return func(a *Analyzer) { a.newID = gen }
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) { a.now = now }
}

// WithConceptExtractor wires a concept extractor; defaults to the
// deterministic pattern extractor.
func WithConceptExtractor(ex concepts.Extractor) AnalyzerOption {
	return func(a *Analyzer) { a.conceptEx = ex }
}

// NewAnalyzer creates a brand safety analyzer for the given profile.
func NewAnalyzer(profile domain.BrandProfile, viralEngine *viral.Engine, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		profile:     profile,
		thresholds:  DefaultProfileThresholds(),
		toxicity:    NewToxicityDetector(),
		controversy: NewControversyDetector(),
		stakeholder: NewStakeholderAnalyzer(),
		viralEngine: viralEngine,
		conceptEx:   concepts.NewPatternExtractor(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Profile returns the analyzer's fixed brand profile.
func (a *Analyzer) Profile() domain.BrandProfile { return a.profile }

// Assess produces a complete brand safety assessment. The contract is total:
// any whole-call failure returns the fixed caution default, never an error.
func (a *Analyzer) Assess(ctx context.Context, text string, platform domain.Platform, contentID string, entities []concepts.ConceptualEntity, contextMap map[string]string) (assessment BrandSafetyAssessment) {
	if contentID == "" {
		contentID = a.newID()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("safety: assessment failed for content=%s platform=%s, returning caution default: %v", contentID, platform, r)
			assessment = a.cautionDefault(contentID, platform)
		}
	}()

	if entities == nil {
		var err error
		entities, err = a.conceptEx.Extract(ctx, text, contextMap)
		if err != nil {
			log.Printf("safety: concept extraction failed for content=%s, assessing without concepts: %v", contentID, err)
			entities = nil
		}
	}

	tox, contro, stake, prediction := a.fanOut(ctx, text, platform, contentID, entities, contextMap)

	risk := aggregateRisk(tox, contro, stake)
	level := a.safetyLevel(risk.Overall)
	classification := classifyContent(text, tox, contro)
	crisis := crisisRisk(tox, contro, prediction)

	assessment = BrandSafetyAssessment{
		ContentID:      contentID,
		Platform:       platform,
		BrandProfile:   a.profile,
		SafetyLevel:    level,
		Classification: classification,
		Risk:           risk,
		Confidence:     clamp01(stake.Confidence*0.5 + prediction.Confidence*0.5),
		Stakeholders:   stake,
		Toxicity:       tox,
		Controversy:    contro,
		CrisisRisk:     crisis,

		BrandAlignmentScore:     clamp01(1 - risk.Overall),
		MessageConsistencyScore: clamp01(1 - contro.PolarizationRisk*0.5 - contro.ControversyScore*0.5),

		RiskFactors:    riskFactors(tox, contro, stake),
		CrisisTriggers: crisisTriggers(tox, contro, stake),
		RedFlags:       redFlags(tox, contro),

		ViralPrediction:        &prediction,
		RiskAdjustedViralScore: prediction.OverallViralScore * (1 - risk.Overall*0.5),

		Mitigation:              mitigationFor(level),
		ModificationSuggestions: modificationSuggestions(tox, contro),
		ApprovalWorkflow:        mitigationFor(level).ApprovalWorkflow,

		MonitoringKeywords: monitoringKeywords(text, entities),
		AlertThresholds:    alertThresholds(level),

		CreatedAt: a.now(),
	}
	return assessment
}

// fanOut dispatches the four independent sub-analyses concurrently and joins
// all branches. A failed branch logs and substitutes its safe default; the
// join never short-circuits.
func (a *Analyzer) fanOut(ctx context.Context, text string, platform domain.Platform, contentID string, entities []concepts.ConceptualEntity, contextMap map[string]string) (ToxicityAssessment, ControversyAnalysis, StakeholderAnalysis, viral.ViralPrediction) {
	var (
		tox        ToxicityAssessment
		contro     ControversyAnalysis
		stake      StakeholderAnalysis
		prediction viral.ViralPrediction
	)

	type branchResult struct {
		name string
		run  func()
	}
	branches := []branchResult{
		{"toxicity", func() { tox = a.toxicity.Analyze(text) }},
		{"controversy", func() { contro = a.controversy.Analyze(text, entities) }},
		{"stakeholder", func() { stake = a.stakeholder.Analyze(text, entities) }},
		{"viral", func() { prediction = a.viralEngine.Predict(ctx, text, platform, contentID, contextMap) }},
	}

	done := make(chan string, len(branches))
	for _, b := range branches {
		b := b
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("safety: %s branch failed for content=%s, using default: %v", b.name, contentID, r)
				}
				done <- b.name
			}()
			b.run()
		}()
	}
	for range branches {
		<-done
	}

	// A panicked branch leaves its zero value; give viral the documented
	// degraded shape so downstream blends stay meaningful.
	if prediction.ContentID == "" {
		prediction = viral.ViralPrediction{
			ContentID:         contentID,
			Platform:          platform,
			OverallViralScore: 0.1,
			RiskAdjustedScore: 0.1,
			Confidence:        0.1,
			RiskLevel:         domain.RiskLow,
			Degraded:          true,
		}
	}
	if stake.Groups == nil {
		stake = StakeholderAnalysis{Groups: map[StakeholderGroup]GroupImpact{}, Confidence: 0.1}
	}
	return tox, contro, stake, prediction
}

// aggregateRisk blends the sub-assessments into the four risk dimensions and
// the weighted overall.
func aggregateRisk(tox ToxicityAssessment, contro ControversyAnalysis, stake StakeholderAnalysis) RiskScore {
	publicCrisis := 0.0
	if stake.CrisisLevel(StakeholderPublic) {
		publicCrisis = 1.0
	}
	discrimination := 0.0
	for _, area := range contro.SensitivityAreas {
		if area == "discrimination" {
			discrimination = 1.0
			break
		}
	}

	reputational := clamp01(tox.ToxicityScore*0.35 + contro.ControversyScore*0.25 + contro.BacklashPotential*0.25 + publicCrisis*0.15)
	legal := clamp01(tox.SevereToxicityScore*0.5 + tox.ThreatScore*0.3 + discrimination*0.2)
	financial := clamp01(stake.GroupScore(StakeholderInvestors)*0.4 + stake.GroupScore(StakeholderCustomers)*0.3 + contro.ControversyScore*0.3)
	operational := clamp01(stake.GroupScore(StakeholderEmployees)*0.4 + stake.GroupScore(StakeholderPartners)*0.3 + tox.ToxicityScore*0.3)

	return RiskScore{
		Reputational: reputational,
		Legal:        legal,
		Financial:    financial,
		Operational:  operational,
		Overall: clamp01(reputational*reputationalWeight +
			legal*legalWeight +
			financial*financialWeight +
			operational*operationalWeight),
	}
}

// safetyLevel is a pure function of (overall risk, profile thresholds).
func (a *Analyzer) safetyLevel(overall float64) domain.SafetyLevel {
	t, ok := a.thresholds[a.profile]
	if !ok {
		t = DefaultProfileThresholds()[domain.ProfileModerate]
	}
	switch {
	case overall <= t.Safe:
		return domain.SafetySafe
	case overall <= t.Caution:
		return domain.SafetyCaution
	case overall <= t.Risk:
		return domain.SafetyRisk
	default:
		return domain.SafetyDanger
	}
}

// classifyContent applies the fixed classification precedence.
func classifyContent(text string, tox ToxicityAssessment, contro ControversyAnalysis) domain.ContentClassification {
	switch {
	case tox.ToxicityScore > 0.7:
		return domain.ClassToxic
	case contro.ControversyScore > 0.6:
		return domain.ClassControversial
	case opinionPhrases.MatchString(text):
		return domain.ClassOpinion
	case personalPhrases.MatchString(text):
		return domain.ClassPersonal
	default:
		return domain.ClassProfessional
	}
}

// crisisRisk: escalation probability is the max of four inputs; urgency
// buckets at 0.8/0.6.
func crisisRisk(tox ToxicityAssessment, contro ControversyAnalysis, prediction viral.ViralPrediction) CrisisRiskAssessment {
	escalation := max3(tox.SevereToxicityScore, contro.BacklashPotential, contro.PolarizationRisk)
	if prediction.Scores.Controversy > escalation {
		escalation = prediction.Scores.Controversy
	}

	switch {
	case escalation >= 0.8:
		return CrisisRiskAssessment{EscalationProbability: escalation, ResponseUrgency: domain.UrgencyImmediate, MitigationWindow: 1 * time.Hour}
	case escalation >= 0.6:
		return CrisisRiskAssessment{EscalationProbability: escalation, ResponseUrgency: domain.UrgencyWithinHours, MitigationWindow: 6 * time.Hour}
	default:
		return CrisisRiskAssessment{EscalationProbability: escalation, ResponseUrgency: domain.UrgencyWithinDays, MitigationWindow: 24 * time.Hour}
	}
}

// mitigationFor is the fixed 4-state lookup keyed by safety level.
func mitigationFor(level domain.SafetyLevel) MitigationStrategy {
	switch level {
	case domain.SafetyDanger:
		return MitigationStrategy{
			Priority: domain.MitigationCritical,
			RequiredActions: []string{
				"Do not publish until reviewed",
				"Escalate to brand and legal leads",
				"Prepare a holding statement",
			},
			ApprovalRequired: true,
			ApprovalWorkflow: []string{"content lead review", "legal review", "executive sign-off"},
			ResponseDeadline: 1 * time.Hour,
			MonitoringRequired: true,
		}
	case domain.SafetyRisk:
		return MitigationStrategy{
			Priority: domain.MitigationHigh,
			RequiredActions: []string{
				"Soften the flagged passages before publishing",
				"Brief the social team on likely pushback",
			},
			ApprovalRequired: true,
			ApprovalWorkflow: []string{"content lead review"},
			ResponseDeadline: 6 * time.Hour,
			MonitoringRequired: true,
		}
	case domain.SafetyCaution:
		return MitigationStrategy{
			Priority: domain.MitigationMedium,
			RequiredActions: []string{
				"Review the flagged passages",
				"Monitor the first hours after publishing",
			},
			ApprovalRequired:   false,
			ResponseDeadline:   24 * time.Hour,
			MonitoringRequired: true,
		}
	default:
		return MitigationStrategy{
			Priority:           domain.MitigationLow,
			RequiredActions:    []string{"Publish as planned"},
			ApprovalRequired:   false,
			MonitoringRequired: false,
		}
	}
}

func riskFactors(tox ToxicityAssessment, contro ControversyAnalysis, stake StakeholderAnalysis) []string {
	var out []string
	if tox.ToxicityScore > 0.3 {
		out = append(out, "toxic language detected")
	}
	if contro.ControversyScore > 0.3 {
		out = append(out, "controversial "+string(contro.DominantCategory)+" framing")
	}
	if contro.BacklashPotential > 0.5 {
		out = append(out, "elevated backlash potential")
	}
	for _, group := range AllStakeholderGroups() {
		if g, ok := stake.Groups[group]; ok && (g.Status == ImpactNegative || g.Status == ImpactCrisis) {
			out = append(out, "negative reception predicted for "+string(group))
		}
	}
	return out
}

func crisisTriggers(tox ToxicityAssessment, contro ControversyAnalysis, stake StakeholderAnalysis) []string {
	var out []string
	if tox.SevereToxicityScore > 0.5 {
		out = append(out, "severe toxicity")
	}
	if contro.BacklashPotential > 0.7 {
		out = append(out, "high backlash potential")
	}
	for _, group := range AllStakeholderGroups() {
		if stake.CrisisLevel(group) {
			out = append(out, string(group)+" crisis signal")
		}
	}
	return out
}

func redFlags(tox ToxicityAssessment, contro ControversyAnalysis) []string {
	var out []string
	if tox.ThreatScore > 0 {
		out = append(out, "threatening language")
	}
	if tox.HateSpeechScore > 0 {
		out = append(out, "hate speech markers")
	}
	out = append(out, contro.SensitivityAreas...)
	return out
}

func modificationSuggestions(tox ToxicityAssessment, contro ControversyAnalysis) []string {
	var out []string
	if tox.ProfanityScore > 0 {
		out = append(out, "Remove profanity; it narrows distribution on most platforms")
	}
	if tox.HarassmentScore > 0 || tox.ThreatScore > 0 {
		out = append(out, "Rewrite hostile passages; direct attacks invite platform moderation")
	}
	if contro.PolarizationRisk > 0.5 {
		out = append(out, "Replace absolute claims with qualified language to reduce polarization")
	}
	if len(contro.SensitivityAreas) > 0 {
		out = append(out, "Add context or a sensitivity note for: "+strings.Join(contro.SensitivityAreas, ", "))
	}
	return out
}

// monitoringKeywords merges top long words from the text, up to 3 concept
// texts, and the fixed safety keywords, deduplicated and capped at 10.
func monitoringKeywords(text string, entities []concepts.ConceptualEntity) []string {
	var candidates []string

	var longWords []string
	seen := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()#@")
		if len(w) > 6 {
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				longWords = append(longWords, w)
			}
		}
	}
	sort.Slice(longWords, func(i, j int) bool {
		if len(longWords[i]) != len(longWords[j]) {
			return len(longWords[i]) > len(longWords[j])
		}
		return longWords[i] < longWords[j]
	})
	candidates = append(candidates, longWords...)

	for i, e := range entities {
		if i == 3 {
			break
		}
		candidates = append(candidates, strings.ToLower(e.Text))
	}
	candidates = append(candidates, fixedSafetyKeywords...)

	out := dedupe(candidates)
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// alertThresholds scales the fixed base table by the safety-level
// multiplier; lower thresholds fire alerts sooner as risk increases.
func alertThresholds(level domain.SafetyLevel) map[string]float64 {
	base := map[string]float64{
		"negative_sentiment": 0.60,
		"mention_spike":      0.70,
		"complaint_rate":     0.50,
		"share_velocity":     0.80,
	}
	var multiplier float64
	switch level {
	case domain.SafetyDanger:
		multiplier = 0.5
	case domain.SafetyRisk:
		multiplier = 0.7
	case domain.SafetyCaution:
		multiplier = 0.8
	default:
		multiplier = 1.0
	}
	out := make(map[string]float64, len(base))
	for k, v := range base {
		out[k] = v * multiplier
	}
	return out
}

// cautionDefault is the fixed degraded assessment.
func (a *Analyzer) cautionDefault(contentID string, platform domain.Platform) BrandSafetyAssessment {
	return BrandSafetyAssessment{
		ContentID:      contentID,
		Platform:       platform,
		BrandProfile:   a.profile,
		SafetyLevel:    domain.SafetyCaution,
		Classification: domain.ClassProfessional,
		Risk:           RiskScore{Reputational: 0.4, Legal: 0.4, Financial: 0.4, Operational: 0.4, Overall: 0.4},
		Confidence:     0.1,
		Stakeholders:   StakeholderAnalysis{Groups: map[StakeholderGroup]GroupImpact{}, Confidence: 0.1},
		CrisisRisk: CrisisRiskAssessment{
			EscalationProbability: 0.4,
			ResponseUrgency:       domain.UrgencyWithinDays,
			MitigationWindow:      24 * time.Hour,
		},
		BrandAlignmentScore:     0.5,
		MessageConsistencyScore: 0.5,
		Mitigation:              mitigationFor(domain.SafetyCaution),
		MonitoringKeywords:      fixedSafetyKeywords,
		AlertThresholds:         alertThresholds(domain.SafetyCaution),
		CreatedAt:               a.now(),
		Degraded:                true,
	}
}
