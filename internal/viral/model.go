package viral

import "github.com/ignite/content-strategist/internal/features"

// featureWeight pairs a model weight with the divisor that normalizes raw
// count features into [0,1] before weighting. Ratio-type features use
// divisor 1.
type featureWeight struct {
	Weight  float64
	Divisor float64
}

// The four dimension weight tables. Scores use effective-weight
// normalization: the weighted sum divides by the total weight of features
// actually present in the feature map, not by the full table, so a score
// reflects only the signals a given text produced.
var engagementWeights = map[string]featureWeight{
	"power_word_count":         {0.15, 5},
	"question_form":            {0.10, 1},
	"call_to_action_count":     {0.15, 3},
	"relatability_count":       {0.10, 3},
	"emotional_intensity":      {0.20, 1},
	"curiosity_gap_count":      {0.10, 3},
	"social_proof_count":       {0.10, 3},
	"avg_engagement_potential": {0.10, 1},
}

var reachWeights = map[string]featureWeight{
	"hashtag_count":            {0.15, 5},
	"trending_topic_overlap":   {0.20, 1},
	"social_proof_count":       {0.10, 3},
	"url_count":                {0.05, 2},
	"word_count":               {0.10, 200},
	"max_engagement_potential": {0.20, 1},
	"professional_term_count":  {0.10, 5},
	"trending_hashtag_score":   {0.10, 1},
}

var velocityWeights = map[string]featureWeight{
	"urgency_word_count":     {0.20, 3},
	"time_sensitivity_count": {0.20, 3},
	"trending_topic_overlap": {0.15, 1},
	"emotional_intensity":    {0.15, 1},
	"exclamation_count":      {0.10, 3},
	"meme_potential":         {0.10, 1},
	"hour_desirability":      {0.10, 1},
}

var controversyWeights = map[string]featureWeight{
	"emotion_anger":          {0.20, 3},
	"emotional_volatility":   {0.20, 1},
	"hot_take_count":         {0.25, 2},
	"caps_ratio":             {0.10, 1},
	"negative_emotion_count": {0.15, 5},
	"question_mark_count":    {0.10, 3},
}

// Score computes all four base scores from a feature set.
func Score(fs features.FeatureSet) BaseScores {
	return BaseScores{
		Engagement:  weightedScore(fs, engagementWeights),
		Reach:       weightedScore(fs, reachWeights),
		Velocity:    weightedScore(fs, velocityWeights),
		Controversy: weightedScore(fs, controversyWeights),
	}
}

func weightedScore(fs features.FeatureSet, table map[string]featureWeight) float64 {
	var sum, applied float64
	for name, fw := range table {
		value, ok := fs.Values[name]
		if !ok {
			continue
		}
		sum += clamp01(value/fw.Divisor) * fw.Weight
		applied += fw.Weight
	}
	if applied == 0 {
		return 0
	}
	return clamp01(sum / applied)
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
