package gaps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/viral"
)

// Config carries the gap analyzer's policy constants. Values are tuning
// choices, named and overridable rather than inlined.
type Config struct {
	SatisfactionThreshold   float64 `yaml:"satisfaction_threshold"`    // preference gap cut
	PlatformCoverageCut     float64 `yaml:"platform_coverage_cut"`     // platform gap cut
	FormatPreferenceFloor   float64 `yaml:"format_preference_floor"`   // format gap: min preference
	FormatCoverageCut       float64 `yaml:"format_coverage_cut"`       // format gap: max coverage
	DefaultBrandFit         float64 `yaml:"default_brand_fit"`
	AudienceMultiplierCap   float64 `yaml:"audience_multiplier_cap"`
	ResearchCompetitionBar  float64 `yaml:"research_competition_bar"`  // research effort above this
	BaselineCommunityEffort float64 `yaml:"baseline_community_effort"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		SatisfactionThreshold:   0.6,
		PlatformCoverageCut:     0.5,
		FormatPreferenceFloor:   0.6,
		FormatCoverageCut:       0.4,
		DefaultBrandFit:         0.8,
		AudienceMultiplierCap:   1.5,
		ResearchCompetitionBar:  0.7,
		BaselineCommunityEffort: 0.2,
	}
}

// Analyzer derives and scores content gaps. Holds only immutable
// configuration; safe for concurrent use.
type Analyzer struct {
	cfg         Config
	viralEngine *viral.Engine
	newID       func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithIDGenerator overrides gap-id generation.
func WithIDGenerator(gen func() string) Option {
	return func(a *Analyzer) { a.newID = gen }
}

// NewAnalyzer creates a gap analyzer.
func NewAnalyzer(cfg Config, viralEngine *viral.Engine, opts ...Option) *Analyzer {
	a := &Analyzer{cfg: cfg, viralEngine: viralEngine, newID: uuid.NewString}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IdentifyGaps derives every gap class for each audience segment, scores
// them, and returns the list sorted by opportunity score descending.
func (a *Analyzer) IdentifyGaps(ctx context.Context, audiences []domain.AudienceSegment, existing []domain.ContentItem, competitive *domain.CompetitiveAnalysis) []ContentGap {
	var gaps []ContentGap

	for _, segment := range audiences {
		gaps = append(gaps, a.preferenceGaps(segment, existing)...)
		gaps = append(gaps, a.platformGaps(ctx, segment, existing)...)
		gaps = append(gaps, a.formatGaps(segment, existing)...)
	}
	if competitive != nil {
		gaps = append(gaps, a.competitiveGaps(competitive.Weaknesses)...)
	}
	gaps = append(gaps, a.crossAudienceGaps(audiences)...)

	for i := range gaps {
		a.scoreGap(ctx, &gaps[i], audiences)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].OpportunityScore > gaps[j].OpportunityScore
	})
	return gaps
}

// preferenceGaps: the segment's top-3 content preferences whose estimated
// satisfaction against existing content falls below the threshold.
func (a *Analyzer) preferenceGaps(segment domain.AudienceSegment, existing []domain.ContentItem) []ContentGap {
	type pref struct {
		topic    string
		affinity float64
	}
	prefs := make([]pref, 0, len(segment.ContentPreferences))
	for topic, affinity := range segment.ContentPreferences {
		prefs = append(prefs, pref{topic, affinity})
	}
	sort.Slice(prefs, func(i, j int) bool {
		if prefs[i].affinity != prefs[j].affinity {
			return prefs[i].affinity > prefs[j].affinity
		}
		return prefs[i].topic < prefs[j].topic
	})
	if len(prefs) > 3 {
		prefs = prefs[:3]
	}

	var out []ContentGap
	for _, p := range prefs {
		satisfaction := topicSatisfaction(p.topic, existing)
		if satisfaction >= a.cfg.SatisfactionThreshold {
			continue
		}
		out = append(out, ContentGap{
			ID:                fmt.Sprintf("gap-%s", a.newID()),
			Type:              GapPreference,
			Title:             fmt.Sprintf("Underserved topic: %s", p.topic),
			Description:       fmt.Sprintf("Segment %q rates %s at %.2f affinity but existing content satisfies only %.2f of that demand.", segment.Name, p.topic, p.affinity, satisfaction),
			AudienceSegmentID: segment.ID,
			MarketDemand:      p.affinity,
			CompetitionIntensity: 0.5,
			ExecutionDifficulty:  0.3,
			BrandFit:             a.cfg.DefaultBrandFit,
			BusinessImpact:       p.affinity * segment.ValueScore,
			Confidence:           0.7,
			RecommendedKeywords:  []string{p.topic},
			RecommendedAngles:    []string{fmt.Sprintf("practical %s guidance for %s", p.topic, segment.Name)},
			RecommendedFormats:   []string{"article"},
		})
	}
	return out
}

// topicSatisfaction is the resonance estimate: how well existing content
// already covers a topic, weighted by observed engagement.
func topicSatisfaction(topic string, existing []domain.ContentItem) float64 {
	if len(existing) == 0 {
		return 0
	}
	topicLower := strings.ToLower(topic)
	covered := 0.0
	for _, item := range existing {
		hit := strings.Contains(strings.ToLower(item.Text), topicLower)
		for _, t := range item.Topics {
			if strings.EqualFold(t, topic) {
				hit = true
				break
			}
		}
		if hit {
			covered += 0.5 + clamp01(item.Engagement)*0.5
		}
	}
	return clamp01(covered / 3.0)
}

// platformGaps: preferred platforms whose platform-optimization coverage by
// existing content falls below the cut.
func (a *Analyzer) platformGaps(ctx context.Context, segment domain.AudienceSegment, existing []domain.ContentItem) []ContentGap {
	var out []ContentGap
	for _, platform := range segment.PreferredPlatforms {
		coverage := a.platformCoverage(ctx, platform, existing)
		if coverage >= a.cfg.PlatformCoverageCut {
			continue
		}
		out = append(out, ContentGap{
			ID:                fmt.Sprintf("gap-%s", a.newID()),
			Type:              GapPlatform,
			Title:             fmt.Sprintf("Weak presence on %s", platform),
			Description:       fmt.Sprintf("Segment %q prefers %s but existing content is only %.2f optimized for it.", segment.Name, platform, coverage),
			AudienceSegmentID: segment.ID,
			Platform:          platform,
			MarketDemand:      segment.EngagementRate,
			CompetitionIntensity: 0.4,
			ExecutionDifficulty:  0.4,
			BrandFit:             a.cfg.DefaultBrandFit,
			BusinessImpact:       segment.ValueScore * 0.8,
			Confidence:           0.65,
			RecommendedFormats:   platformFormats(platform),
			RecommendedAngles:    []string{fmt.Sprintf("native %s formats for %s", platform, segment.Name)},
		})
	}
	return out
}

// platformCoverage averages the viral engine's platform-optimization score
// over existing content for the platform.
func (a *Analyzer) platformCoverage(ctx context.Context, platform domain.Platform, existing []domain.ContentItem) float64 {
	var sum float64
	n := 0
	for _, item := range existing {
		if item.Platform != platform {
			continue
		}
		p := a.viralEngine.Predict(ctx, item.Text, platform, item.ID, nil)
		sum += p.PlatformOptimizationScore
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// formatGaps: preferred media formats with strong preference but thin
// coverage in the existing library.
func (a *Analyzer) formatGaps(segment domain.AudienceSegment, existing []domain.ContentItem) []ContentGap {
	var out []ContentGap
	formats := make([]string, 0, len(segment.FormatPreferences))
	for f := range segment.FormatPreferences {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, format := range formats {
		preference := segment.FormatPreferences[format]
		if preference <= a.cfg.FormatPreferenceFloor {
			continue
		}
		coverage := formatCoverage(format, existing)
		if coverage >= a.cfg.FormatCoverageCut {
			continue
		}
		out = append(out, ContentGap{
			ID:                fmt.Sprintf("gap-%s", a.newID()),
			Type:              GapFormat,
			Title:             fmt.Sprintf("Missing format: %s", format),
			Description:       fmt.Sprintf("Segment %q prefers %s content (%.2f) but only %.2f of the library uses it.", segment.Name, format, preference, coverage),
			AudienceSegmentID: segment.ID,
			MarketDemand:      preference,
			CompetitionIntensity: 0.5,
			ExecutionDifficulty:  formatDifficulty(format),
			BrandFit:             a.cfg.DefaultBrandFit,
			BusinessImpact:       preference * segment.ValueScore,
			Confidence:           0.6,
			RecommendedFormats:   []string{format},
		})
	}
	return out
}

func formatCoverage(format string, existing []domain.ContentItem) float64 {
	if len(existing) == 0 {
		return 0
	}
	n := 0
	for _, item := range existing {
		if strings.EqualFold(item.Format, format) {
			n++
		}
	}
	return float64(n) / float64(len(existing))
}

// competitiveGaps turn externally supplied competitor weaknesses into
// opportunities.
func (a *Analyzer) competitiveGaps(weaknesses []domain.CompetitorWeakness) []ContentGap {
	var out []ContentGap
	for _, w := range weaknesses {
		platform := domain.PlatformGeneral
		if len(w.Platforms) > 0 {
			platform = w.Platforms[0]
		}
		out = append(out, ContentGap{
			ID:          fmt.Sprintf("gap-%s", a.newID()),
			Type:        GapCompetitive,
			Title:       fmt.Sprintf("Competitor opening: %s", w.Topic),
			Description: fmt.Sprintf("%s is weak on %s: %s", w.Competitor, w.Topic, w.Description),
			Platform:    platform,
			MarketDemand: clamp01(w.Severity),
			// A weak competitor means thin competition on the topic.
			CompetitionIntensity: clamp01(1 - w.Severity),
			ExecutionDifficulty:  0.5,
			BrandFit:             a.cfg.DefaultBrandFit,
			BusinessImpact:       clamp01(w.Severity) * 0.9,
			Confidence:           0.55,
			RecommendedKeywords:  []string{w.Topic},
			RecommendedAngles:    []string{fmt.Sprintf("own the %s conversation %s is ceding", w.Topic, w.Competitor)},
		})
	}
	return out
}

// crossAudienceGaps surface interests shared by at least two segments.
func (a *Analyzer) crossAudienceGaps(audiences []domain.AudienceSegment) []ContentGap {
	counts := map[string]int{}
	demand := map[string]float64{}
	for _, segment := range audiences {
		seen := map[string]struct{}{}
		for _, interest := range segment.Interests {
			key := strings.ToLower(interest)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
			demand[key] += segment.EngagementRate
		}
	}

	shared := make([]string, 0, len(counts))
	for interest, n := range counts {
		if n >= 2 {
			shared = append(shared, interest)
		}
	}
	sort.Strings(shared)

	var out []ContentGap
	for _, interest := range shared {
		out = append(out, ContentGap{
			ID:          fmt.Sprintf("gap-%s", a.newID()),
			Type:        GapCrossAudience,
			Title:       fmt.Sprintf("Shared interest: %s", interest),
			Description: fmt.Sprintf("%d audience segments share an interest in %s; one piece can serve all of them.", counts[interest], interest),
			MarketDemand: clamp01(demand[interest] / float64(counts[interest]) * 2),
			CompetitionIntensity: 0.5,
			ExecutionDifficulty:  0.35,
			BrandFit:             a.cfg.DefaultBrandFit,
			BusinessImpact:       clamp01(float64(counts[interest]) / 3.0),
			Confidence:           0.6,
			RecommendedKeywords:  []string{interest},
		})
	}
	return out
}

// scoreGap runs the comprehensive opportunity formula, estimates performance
// potential on a synthetic sample, assigns resource requirements, and buckets
// the final priority.
func (a *Analyzer) scoreGap(ctx context.Context, gap *ContentGap, audiences []domain.AudienceSegment) {
	opportunity := gap.MarketDemand*0.25 +
		gap.BrandFit*0.20 +
		(1-gap.CompetitionIntensity)*0.15 +
		(1-gap.ExecutionDifficulty)*0.15 +
		gap.BusinessImpact*0.25
	opportunity *= a.audienceMultiplier(gap.AudienceSegmentID, audiences)
	gap.OpportunityScore = clamp01(opportunity)

	// Performance potential from a synthetic sample of the gap's content.
	platform := gap.Platform
	if platform == "" {
		platform = domain.PlatformGeneral
	}
	sample := syntheticSample(gap)
	p := a.viralEngine.Predict(ctx, sample, platform, gap.ID, nil)
	gap.ViralPotential = p.OverallViralScore
	gap.ExpectedEngagementRate = p.ExpectedEngagementRate
	gap.PlatformOptimization = p.PlatformOptimizationScore
	gap.EstimatedReach = estimatedReach(gap, audiences)
	gap.BrandRisk = discountByRisk(p.RiskLevel)

	gap.ResourceRequirements = a.resourceRequirements(gap)

	priorityScore := gap.OpportunityScore*0.4 +
		gap.BusinessImpact*0.3 +
		gap.ViralPotential*0.2 +
		(1-gap.ExecutionDifficulty)*0.1
	switch {
	case priorityScore >= 0.8:
		gap.Priority = domain.GapPriorityCritical
	case priorityScore >= 0.6:
		gap.Priority = domain.GapPriorityHigh
	case priorityScore >= 0.4:
		gap.Priority = domain.GapPriorityMedium
	default:
		gap.Priority = domain.GapPriorityLow
	}
}

// audienceMultiplier scales opportunity by the quality of the linked
// segment, capped by config.
func (a *Analyzer) audienceMultiplier(segmentID string, audiences []domain.AudienceSegment) float64 {
	if segmentID == "" {
		return 1.0
	}
	for _, segment := range audiences {
		if segment.ID != segmentID {
			continue
		}
		m := 1.0 + segment.ValueScore*0.3 + clamp01(segment.EngagementRate*5)*0.2
		if m > a.cfg.AudienceMultiplierCap {
			m = a.cfg.AudienceMultiplierCap
		}
		return m
	}
	return 1.0
}

func syntheticSample(gap *ContentGap) string {
	var sb strings.Builder
	sb.WriteString(gap.Title)
	sb.WriteString(". ")
	sb.WriteString(gap.Description)
	if len(gap.RecommendedKeywords) > 0 {
		sb.WriteString(" Keywords: ")
		sb.WriteString(strings.Join(gap.RecommendedKeywords, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}

func estimatedReach(gap *ContentGap, audiences []domain.AudienceSegment) float64 {
	for _, segment := range audiences {
		if segment.ID == gap.AudienceSegmentID {
			return float64(segment.Size) * clamp01(gap.MarketDemand)
		}
	}
	return 5000 * clamp01(gap.MarketDemand)
}

func discountByRisk(level domain.RiskLevel) float64 {
	switch level {
	case domain.RiskExtreme:
		return 0.8
	case domain.RiskHigh:
		return 0.6
	case domain.RiskMedium:
		return 0.35
	default:
		return 0.15
	}
}

// resourceRequirements maps recommended formats to effort, adds research
// effort for contested topics and baseline community management.
func (a *Analyzer) resourceRequirements(gap *ContentGap) map[string]float64 {
	req := map[string]float64{
		"community_management": a.cfg.BaselineCommunityEffort,
	}
	for _, format := range gap.RecommendedFormats {
		switch strings.ToLower(format) {
		case "video", "short_video", "reel":
			req["video_production"] = 0.8
			req["design"] = 0.4
		case "image", "carousel", "infographic":
			req["design"] = 0.6
		default:
			req["content_creation"] = 0.5
		}
	}
	if _, ok := req["content_creation"]; !ok && len(gap.RecommendedFormats) == 0 {
		req["content_creation"] = 0.5
	}
	if gap.CompetitionIntensity > a.cfg.ResearchCompetitionBar {
		req["research"] = 0.6
	}
	return req
}

func platformFormats(platform domain.Platform) []string {
	switch platform {
	case domain.PlatformTikTok, domain.PlatformInstagram:
		return []string{"short_video"}
	case domain.PlatformYouTube:
		return []string{"video"}
	case domain.PlatformTwitter:
		return []string{"thread"}
	case domain.PlatformLinkedIn:
		return []string{"article"}
	default:
		return []string{"article"}
	}
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
