package viral

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/content-strategist/internal/concepts"
	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/features"
)

// PlatformWeights scale the four base scores for a platform. Each dimension
// is weighted independently: controversy travels further on Twitter than on
// LinkedIn, reach compounds harder on TikTok, and so on.
type PlatformWeights struct {
	Engagement  float64 `yaml:"engagement" json:"engagement"`
	Reach       float64 `yaml:"reach" json:"reach"`
	Velocity    float64 `yaml:"velocity" json:"velocity"`
	Controversy float64 `yaml:"controversy" json:"controversy"`
}

// EngineConfig carries the policy constants of the prediction engine. The
// exact values are tuning choices, not algorithmic invariants, so they are
// named and overridable rather than inlined.
type EngineConfig struct {
	PlatformWeights     map[domain.Platform]PlatformWeights `yaml:"platform_weights"`
	PlatformBaseRates   map[domain.Platform]float64         `yaml:"platform_base_rates"`
	OptimalPostingHours []int                               `yaml:"optimal_posting_hours"`
	MaxEngagementRate   float64                             `yaml:"max_engagement_rate"`
}

// DefaultEngineConfig returns the tuned defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PlatformWeights: map[domain.Platform]PlatformWeights{
			domain.PlatformGeneral:   {Engagement: 1.0, Reach: 1.0, Velocity: 1.0, Controversy: 1.0},
			domain.PlatformLinkedIn:  {Engagement: 1.1, Reach: 0.9, Velocity: 0.8, Controversy: 0.7},
			domain.PlatformTwitter:   {Engagement: 1.0, Reach: 1.1, Velocity: 1.3, Controversy: 1.2},
			domain.PlatformInstagram: {Engagement: 1.2, Reach: 1.0, Velocity: 0.9, Controversy: 0.8},
			domain.PlatformTikTok:    {Engagement: 1.2, Reach: 1.3, Velocity: 1.3, Controversy: 1.0},
			domain.PlatformYouTube:   {Engagement: 0.9, Reach: 1.1, Velocity: 0.7, Controversy: 0.9},
			domain.PlatformFacebook:  {Engagement: 0.9, Reach: 1.0, Velocity: 0.9, Controversy: 1.1},
		},
		PlatformBaseRates: map[domain.Platform]float64{
			domain.PlatformGeneral:   0.02,
			domain.PlatformLinkedIn:  0.02,
			domain.PlatformTwitter:   0.015,
			domain.PlatformInstagram: 0.03,
			domain.PlatformTikTok:    0.05,
			domain.PlatformYouTube:   0.02,
			domain.PlatformFacebook:  0.01,
		},
		OptimalPostingHours: []int{9, 12, 17},
		MaxEngagementRate:   0.15,
	}
}

// Overall combination weights and the risk discount table are fixed
// algorithmic contracts, not tunables.
const (
	overallEngagementWeight  = 0.30
	overallReachWeight       = 0.25
	overallVelocityWeight    = 0.25
	overallControversyWeight = 0.20
	temporalAmplification    = 0.30
)

var riskDiscounts = map[domain.RiskLevel]float64{
	domain.RiskLow:     1.0,
	domain.RiskMedium:  0.9,
	domain.RiskHigh:    0.7,
	domain.RiskExtreme: 0.5,
}

// Engine orchestrates feature extraction and the prediction model into a
// complete ViralPrediction. Safe for concurrent use: it holds only immutable
// configuration.
type Engine struct {
	extractor *features.Extractor
	conceptEx concepts.Extractor
	cfg       EngineConfig
	newID     func() string
	now       func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator overrides content-id generation. IDs are opaque and fresh
// per call; nothing may depend on them being reproducible across runs.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) { e.newID = gen }
}

// WithEngineClock overrides the wall clock, mainly for tests.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithConceptExtractor wires a concept extractor; defaults to the
// deterministic pattern extractor.
func WithConceptExtractor(ex concepts.Extractor) EngineOption {
	return func(e *Engine) { e.conceptEx = ex }
}

// NewEngine creates a prediction engine.
func NewEngine(extractor *features.Extractor, cfg EngineConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		extractor: extractor,
		conceptEx: concepts.NewPatternExtractor(),
		cfg:       cfg,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Predict scores a piece of content. The contract is total: any internal
// failure yields a safe default prediction instead of an error.
func (e *Engine) Predict(ctx context.Context, text string, platform domain.Platform, contentID string, contextMap map[string]string) (prediction ViralPrediction) {
	if contentID == "" {
		contentID = e.newID()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("viral: prediction failed for content=%s platform=%s, returning safe default: %v", contentID, platform, r)
			prediction = e.safeDefault(contentID, platform)
		}
	}()

	entities, err := e.conceptEx.Extract(ctx, text, contextMap)
	if err != nil {
		// Upstream dependency failure: score without concepts.
		log.Printf("viral: concept extraction failed for content=%s, scoring without concepts: %v", contentID, err)
		entities = nil
	}

	fs := e.extractor.Extract(text, platform, entities, contextMap)
	base := Score(fs)
	weighted := e.applyPlatformWeights(base, platform)
	boost := e.temporalBoost(fs)

	overall := weighted.Engagement*overallEngagementWeight +
		weighted.Reach*overallReachWeight +
		weighted.Velocity*overallVelocityWeight +
		weighted.Controversy*overallControversyWeight
	overall = clamp01(overall * (1 + boost*temporalAmplification))

	riskLevel, riskFactors := assessRisk(fs, weighted)
	riskAdjusted := overall * riskDiscounts[riskLevel]

	engagementRate := e.expectedEngagementRate(platform, weighted.Engagement)
	next := e.nextOptimalPostingTime()

	return ViralPrediction{
		ContentID:                 contentID,
		Platform:                  platform,
		ContentType:               fs.ContentType,
		Scores:                    weighted,
		OverallViralScore:         overall,
		RiskAdjustedScore:         riskAdjusted,
		Confidence:                confidence(fs),
		RiskLevel:                 riskLevel,
		RiskFactors:               riskFactors,
		TemporalBoost:             boost,
		NextOptimalPostingTime:    &next,
		KeyFeatures:               keyFeatures(fs),
		ImprovementSuggestions:    suggestions(fs, weighted),
		PlatformOptimizationScore: platformOptimization(fs, platform),
		ExpectedEngagementRate:    engagementRate,
	}
}

func (e *Engine) applyPlatformWeights(base BaseScores, platform domain.Platform) BaseScores {
	pw, ok := e.cfg.PlatformWeights[platform]
	if !ok {
		pw = e.cfg.PlatformWeights[domain.PlatformGeneral]
	}
	if pw == (PlatformWeights{}) {
		pw = PlatformWeights{Engagement: 1, Reach: 1, Velocity: 1, Controversy: 1}
	}
	return BaseScores{
		Engagement:  clamp01(base.Engagement * pw.Engagement),
		Reach:       clamp01(base.Reach * pw.Reach),
		Velocity:    clamp01(base.Velocity * pw.Velocity),
		Controversy: clamp01(base.Controversy * pw.Controversy),
	}
}

// temporalBoost blends five timing sub-factors with fixed weights.
func (e *Engine) temporalBoost(fs features.FeatureSet) float64 {
	trending := fs.Get("trending_topic_overlap")
	hour := fs.Get("hour_desirability")
	day := fs.Get("day_desirability")
	seasonal := seasonalFactor(e.now().Month())
	recency := clamp01(fs.Get("time_sensitivity_count") / 3.0)

	return clamp01(trending*0.30 + hour*0.20 + day*0.20 + seasonal*0.15 + recency*0.15)
}

// seasonalFactor reflects broad content-consumption seasonality: January
// planning peaks, summer lull, Q4 ramp.
func seasonalFactor(m time.Month) float64 {
	switch m {
	case time.January, time.September, time.October:
		return 0.8
	case time.February, time.March, time.April, time.May, time.November:
		return 0.6
	case time.December:
		return 0.5
	default: // June, July, August
		return 0.4
	}
}

// assessRisk accumulates points from five independent triggers and buckets
// the capped sum at 0.8/0.6/0.3.
func assessRisk(fs features.FeatureSet, scores BaseScores) (domain.RiskLevel, []string) {
	points := 0.0
	var factors []string

	if scores.Controversy > 0.7 {
		points += 0.30
		factors = append(factors, "high controversy score")
	}
	if fs.Get("emotional_volatility") > 0.6 {
		points += 0.20
		factors = append(factors, "high emotional volatility")
	}
	if fs.Get("negative_emotion_count") > 3 {
		points += 0.20
		factors = append(factors, "heavy negative emotional language")
	}
	if fs.Get("fear_uncertainty_count") > 2 {
		points += 0.15
		factors = append(factors, "fear and uncertainty framing")
	}
	if fs.Get("hot_take_count") > 1 {
		points += 0.15
		factors = append(factors, "multiple hot takes")
	}

	if points > 1.0 {
		points = 1.0
	}

	switch {
	case points >= 0.8:
		return domain.RiskExtreme, factors
	case points >= 0.6:
		return domain.RiskHigh, factors
	case points >= 0.3:
		return domain.RiskMedium, factors
	default:
		return domain.RiskLow, factors
	}
}

// confidence blends feature completeness with a fixed signal-strength
// checklist.
func confidence(fs features.FeatureSet) float64 {
	checks := []bool{
		fs.Get("word_count") >= 20,
		fs.Get("emotional_intensity") > 0,
		fs.Get("hot_take_count") > 0 || fs.Get("belief_count") > 0,
		fs.Get("call_to_action_count") > 0 || fs.Get("question_form") > 0,
		fs.Get("hashtag_count") > 0 || fs.Get("trending_topic_overlap") > 0,
	}
	hit := 0
	for _, ok := range checks {
		if ok {
			hit++
		}
	}
	signal := float64(hit) / float64(len(checks))
	return clamp01(fs.Completeness()*0.5 + signal*0.5)
}

func (e *Engine) expectedEngagementRate(platform domain.Platform, engagement float64) float64 {
	base, ok := e.cfg.PlatformBaseRates[platform]
	if !ok {
		base = e.cfg.PlatformBaseRates[domain.PlatformGeneral]
	}
	rate := base * (1 + 4*engagement)
	if max := e.cfg.MaxEngagementRate; max > 0 && rate > max {
		rate = max
	}
	return rate
}

// keyFeatureChecklist is the fixed priority order for surfacing drivers.
var keyFeatureChecklist = []struct {
	name      string
	threshold float64
	note      string
}{
	{"hot_take_count", 1, "contains a hot take, a strong engagement driver"},
	{"emotional_intensity", 0.3, "emotionally charged language"},
	{"trending_topic_overlap", 0.3, "overlaps current trending topics"},
	{"call_to_action_count", 1, "includes explicit calls to action"},
	{"curiosity_gap_count", 1, "opens a curiosity gap"},
	{"power_word_count", 2, "dense in persuasive power words"},
	{"question_form", 1, "poses a direct question to the audience"},
	{"social_proof_count", 1, "leans on social proof"},
	{"hashtag_count", 2, "hashtag coverage extends reach"},
	{"urgency_word_count", 1, "urgency framing accelerates early engagement"},
}

func keyFeatures(fs features.FeatureSet) []KeyFeature {
	var out []KeyFeature
	for _, c := range keyFeatureChecklist {
		if v := fs.Get(c.name); v >= c.threshold {
			out = append(out, KeyFeature{Name: c.name, Value: v, Note: c.note})
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

// suggestionChecklist maps missing signals to improvement advice, in fixed
// priority order.
var suggestionChecklist = []struct {
	applies func(features.FeatureSet, BaseScores) bool
	text    string
}{
	{func(fs features.FeatureSet, _ BaseScores) bool { return fs.Get("call_to_action_count") == 0 },
		"Add a clear call to action (ask a question, invite comments, or prompt shares)"},
	{func(fs features.FeatureSet, _ BaseScores) bool { return fs.Get("emotional_intensity") < 0.2 },
		"Strengthen the emotional hook - flat language rarely spreads"},
	{func(fs features.FeatureSet, _ BaseScores) bool { return fs.Get("hashtag_count") == 0 },
		"Add 2-3 relevant hashtags to improve discoverability"},
	{func(fs features.FeatureSet, _ BaseScores) bool { return fs.Get("curiosity_gap_count") == 0 },
		"Open with a curiosity gap so readers need to finish the post"},
	{func(fs features.FeatureSet, _ BaseScores) bool { return fs.Get("word_count") < 20 },
		"Expand the post - very short content gives algorithms little to work with"},
	{func(_ features.FeatureSet, s BaseScores) bool { return s.Velocity < 0.3 },
		"Add timeliness - tie the post to something happening now"},
	{func(fs features.FeatureSet, _ BaseScores) bool { return fs.Get("social_proof_count") == 0 },
		"Reference results, numbers, or known names to add social proof"},
}

func suggestions(fs features.FeatureSet, scores BaseScores) []string {
	var out []string
	for _, s := range suggestionChecklist {
		if s.applies(fs, scores) {
			out = append(out, s.text)
			if len(out) == 4 {
				break
			}
		}
	}
	return out
}

// platformOptimization scores how well the content exploits the platform's
// native mechanics.
func platformOptimization(fs features.FeatureSet, platform domain.Platform) float64 {
	switch platform {
	case domain.PlatformLinkedIn:
		return clamp01(0.3 + clamp01(fs.Get("professional_term_count")/5.0)*0.4 + clamp01(fs.Get("word_count")/150.0)*0.3)
	case domain.PlatformTwitter:
		return clamp01(0.2 + fs.Get("trending_hashtag_score")*0.4 + fs.Get("meme_potential")*0.2 + fs.Get("thread_potential")*0.2)
	case domain.PlatformInstagram, domain.PlatformTikTok:
		return clamp01(0.3 + clamp01(fs.Get("visual_cue_count")/3.0)*0.5 + clamp01(fs.Get("hashtag_count")/5.0)*0.2)
	default:
		return clamp01(0.4 + fs.Get("emotional_intensity")*0.3 + clamp01(fs.Get("call_to_action_count")/2.0)*0.3)
	}
}

// nextOptimalPostingTime returns the first future slot among the configured
// daily hours, else the first slot tomorrow.
func (e *Engine) nextOptimalPostingTime() time.Time {
	now := e.now()
	hours := e.cfg.OptimalPostingHours
	if len(hours) == 0 {
		hours = []int{9, 12, 17}
	}
	for _, h := range hours {
		slot := time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, now.Location())
		if slot.After(now) {
			return slot
		}
	}
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), hours[0], 0, 0, 0, now.Location())
}

// safeDefault is the fixed degraded prediction: low scores, low confidence.
func (e *Engine) safeDefault(contentID string, platform domain.Platform) ViralPrediction {
	return ViralPrediction{
		ContentID:         contentID,
		Platform:          platform,
		ContentType:       domain.ContentInsight,
		Scores:            BaseScores{Engagement: 0.1, Reach: 0.1, Velocity: 0.1, Controversy: 0.1},
		OverallViralScore: 0.1,
		RiskAdjustedScore: 0.1,
		Confidence:        0.1,
		RiskLevel:         domain.RiskLow,
		ExpectedEngagementRate: func() float64 {
			if r, ok := e.cfg.PlatformBaseRates[platform]; ok {
				return r
			}
			return 0.02
		}(),
		PlatformOptimizationScore: 0.3,
		Degraded:                  true,
	}
}
