package safety

import (
	"strings"

	"github.com/ignite/content-strategist/internal/concepts"
)

// stakeholderLexicon holds per-group sensitivity keywords, positive and
// negative.
type stakeholderLexicon struct {
	positive []string
	negative []string
}

// StakeholderAnalyzer predicts per-group reception by counting positive vs
// negative sensitivity-keyword hits. Stateless after construction.
type StakeholderAnalyzer struct {
	lexicons map[StakeholderGroup]stakeholderLexicon
}

// NewStakeholderAnalyzer builds the fixed per-group keyword tables.
func NewStakeholderAnalyzer() *StakeholderAnalyzer {
	return &StakeholderAnalyzer{
		lexicons: map[StakeholderGroup]stakeholderLexicon{
			StakeholderCustomers: {
				positive: []string{"customer first", "thank you", "improved", "free upgrade", "listening to feedback", "better experience"},
				negative: []string{"price increase", "discontinued", "outage", "recall", "refund denied", "terms change", "downgrade"},
			},
			StakeholderEmployees: {
				positive: []string{"hiring", "promotion", "benefits", "raise", "work-life balance", "proud of our team"},
				negative: []string{"layoffs", "restructuring", "pay cut", "overworked", "burnout", "return to office", "downsizing"},
			},
			StakeholderInvestors: {
				positive: []string{"growth", "profit", "record quarter", "expansion", "partnership", "milestone"},
				negative: []string{"loss", "missed targets", "lawsuit", "investigation", "write-down", "dilution", "churn"},
			},
			StakeholderPartners: {
				positive: []string{"collaboration", "partnership", "integration", "joint venture", "ecosystem"},
				negative: []string{"exclusivity", "terminated agreement", "competing directly", "breach of contract", "vendor lock"},
			},
			StakeholderPublic: {
				positive: []string{"community", "donation", "sustainability", "transparency", "giving back"},
				negative: []string{"scandal", "cover-up", "pollution", "exploitation", "misleading", "controversy", "boycott"},
			},
		},
	}
}

// Crisis thresholds: general groups flip to crisis above 2 negative hits,
// the public above 1 (viral amplification makes it the most volatile group).
const (
	crisisNegativeThreshold       = 2
	publicCrisisNegativeThreshold = 1
)

// Analyze scores all five groups. Hot-take concepts count as negative hits
// for the public read.
func (a *StakeholderAnalyzer) Analyze(text string, entities []concepts.ConceptualEntity) StakeholderAnalysis {
	lower := strings.ToLower(text)
	groups := make(map[StakeholderGroup]GroupImpact, len(a.lexicons))

	for group, lex := range a.lexicons {
		pos := countHits(lower, lex.positive)
		neg := countHits(lower, lex.negative)

		threshold := crisisNegativeThreshold
		if group == StakeholderPublic {
			neg += concepts.CountByType(entities, concepts.ConceptHotTake)
			threshold = publicCrisisNegativeThreshold
		}

		var status ImpactStatus
		switch {
		case neg > threshold:
			status = ImpactCrisis
		case neg > pos:
			status = ImpactNegative
		case pos > neg:
			status = ImpactPositive
		default:
			status = ImpactNeutral
		}

		groups[group] = GroupImpact{
			Group:        group,
			Status:       status,
			PositiveHits: pos,
			NegativeHits: neg,
			Score:        clamp01(float64(neg) * 0.3),
		}
	}

	return StakeholderAnalysis{
		Groups:     groups,
		Confidence: lengthConfidence(len(strings.Fields(text))),
	}
}

// lengthConfidence: short texts give the keyword counters little to work
// with.
func lengthConfidence(wordCount int) float64 {
	switch {
	case wordCount < 10:
		return 0.3
	case wordCount < 50:
		return 0.6
	default:
		return 0.85
	}
}

func countHits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(lower, kw)
	}
	return n
}
