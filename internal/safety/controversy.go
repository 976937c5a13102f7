package safety

import (
	"sort"
	"strings"

	"github.com/ignite/content-strategist/internal/concepts"
)

// ControversyDetector scores how divisive content is and in which domain.
// Stateless after construction; safe to share across concurrent calls.
type ControversyDetector struct {
	categories       map[ControversyCategory][]string
	divisiveKeywords []string
	sensitivityAreas map[string][]string
}

// NewControversyDetector builds the fixed keyword tables.
func NewControversyDetector() *ControversyDetector {
	return &ControversyDetector{
		categories: map[ControversyCategory][]string{
			ControversyPolitical: {
				"election", "government", "policy", "politician", "vote",
				"left wing", "right wing", "liberal", "conservative", "regime",
				"immigration", "tax", "corruption",
			},
			ControversySocial: {
				"inequality", "privilege", "protest", "rights", "justice",
				"cancel culture", "woke", "gender", "race", "class divide",
			},
			ControversyBusiness: {
				"layoffs", "exploitation", "monopoly", "greed", "underpaid",
				"union", "strike", "scandal", "fraud", "lawsuit", "bankruptcy",
			},
			ControversyCultural: {
				"religion", "tradition", "values", "offensive", "appropriation",
				"boycott", "taboo", "heritage", "identity",
			},
		},
		divisiveKeywords: []string{
			"always", "never", "everyone", "nobody", "wrong", "stupid",
			"ridiculous", "disgrace", "shameful", "outrage", "unacceptable",
			"controversial", "divisive",
		},
		sensitivityAreas: map[string][]string{
			"mental health":  {"depression", "anxiety", "suicide", "self-harm", "mental illness", "trauma"},
			"violence":       {"violence", "attack", "assault", "weapon", "shooting", "abuse"},
			"discrimination": {"racism", "sexism", "discrimination", "bigotry", "prejudice", "slur"},
			"children":       {"children", "kids", "minors", "child safety", "school"},
			"health":         {"cancer", "vaccine", "pandemic", "disease", "medical", "diagnosis"},
		},
	}
}

// Per-hit weights for the bounded partial scores.
const (
	categoryMatchWeight  = 0.25
	divisiveMatchWeight  = 0.20
	hotTakeBacklashBoost = 0.20
)

// categoryOrder fixes the scan order so ties resolve the same way on every
// call. Earlier categories win ties.
var categoryOrder = []ControversyCategory{
	ControversyPolitical,
	ControversySocial,
	ControversyBusiness,
	ControversyCultural,
}

// Analyze scores text; entities feed the hot-take backlash boost.
func (d *ControversyDetector) Analyze(text string, entities []concepts.ConceptualEntity) ControversyAnalysis {
	lower := strings.ToLower(text)

	scores := make(map[ControversyCategory]float64, len(d.categories))
	var divisiveTopics []string
	dominant := ControversyNone
	maxScore := 0.0

	for _, category := range categoryOrder {
		hits := 0
		for _, kw := range d.categories[category] {
			n := strings.Count(lower, kw)
			if n > 0 {
				hits += n
				divisiveTopics = append(divisiveTopics, kw)
			}
		}
		score := clamp01(float64(hits) * categoryMatchWeight)
		scores[category] = score
		if score > maxScore {
			maxScore = score
			dominant = category
		}
	}

	divisiveHits := 0
	for _, kw := range d.divisiveKeywords {
		divisiveHits += strings.Count(lower, kw)
	}
	polarization := clamp01(float64(divisiveHits) * divisiveMatchWeight)

	backlash := clamp01(maxScore*0.5 + polarization*0.3)
	if concepts.CountByType(entities, concepts.ConceptHotTake) > 0 {
		backlash = clamp01(backlash + hotTakeBacklashBoost)
	}

	var areas []string
	for area, keywords := range d.sensitivityAreas {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				areas = append(areas, area)
				break
			}
		}
	}
	sort.Strings(areas)

	sort.Strings(divisiveTopics)
	if len(divisiveTopics) > 5 {
		divisiveTopics = divisiveTopics[:5]
	}

	return ControversyAnalysis{
		ControversyScore:  maxScore,
		DominantCategory:  dominant,
		CategoryScores:    scores,
		PolarizationRisk:  polarization,
		BacklashPotential: backlash,
		DivisiveTopics:    divisiveTopics,
		SensitivityAreas:  areas,
	}
}
