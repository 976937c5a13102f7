package safety

import (
	"regexp"
	"strings"
)

// Weights blending the toxicity sub-scores into the overall score.
const (
	hateSpeechWeight     = 0.30
	harassmentWeight     = 0.20
	threatWeight         = 0.25
	identityAttackWeight = 0.15
	profanityWeight      = 0.10
)

// ToxicityDetector matches fixed pattern tables over raw text. Stateless
// after construction; safe to share across concurrent calls.
type ToxicityDetector struct {
	hateSpeech     []*regexp.Regexp
	harassment     []*regexp.Regexp
	threats        []*regexp.Regexp
	identityAttack []*regexp.Regexp
	profanity      []*regexp.Regexp
}

// NewToxicityDetector compiles the pattern tables.
func NewToxicityDetector() *ToxicityDetector {
	return &ToxicityDetector{
		hateSpeech: compileAll(
			`(?i)\bi hate (?:you|him|her|them|everyone|all of you)\b`,
			`(?i)\b(?:you|they) (?:all )?(?:disgust|sicken) me\b`,
			`(?i)\bsubhuman\b`,
			`(?i)\bvermin\b`,
			`(?i)\bdeserve to (?:die|suffer|rot)\b`,
		),
		harassment: compileAll(
			`(?i)\bkill yourself\b`,
			`(?i)\bgo (?:die|away and never come back)\b`,
			`(?i)\bnobody (?:likes|wants) you\b`,
			`(?i)\byou(?:'re| are) (?:pathetic|worthless|a loser|an idiot|stupid|trash|garbage)\b`,
			`(?i)\bshut up\b`,
		),
		threats: compileAll(
			`(?i)\bkill yourself\b`,
			`(?i)\bi(?:'ll| will) (?:hurt|destroy|ruin|end|find) you\b`,
			`(?i)\byou(?:'ll| will) (?:pay|regret|suffer)\b`,
			`(?i)\bwatch your back\b`,
			`(?i)\bor else\b`,
		),
		identityAttack: compileAll(
			`(?i)\ball (?:women|men|immigrants|foreigners|old people|young people) are\b`,
			`(?i)\bpeople like (?:you|them) don'?t belong\b`,
			`(?i)\bgo back to (?:your|where)\b`,
			`(?i)\byour kind\b`,
		),
		profanity: compileAll(
			`(?i)\b(?:damn|hell|crap|bullshit|bastard|piss(?:ed)? off)\b`,
			`(?i)\bf[*u]ck`,
			`(?i)\bsh[*i]t\b`,
			`(?i)\ba[*s]shole\b`,
		),
	}
}

// perMatchWeights: each pattern hit contributes its weight, capped at 1.0.
const (
	hateMatchWeight       = 0.40
	harassmentMatchWeight = 0.40
	threatMatchWeight     = 0.50
	identityMatchWeight   = 0.40
	profanityMatchWeight  = 0.25
)

// Analyze is pure: identical text yields identical scores.
func (d *ToxicityDetector) Analyze(text string) ToxicityAssessment {
	var matched []string

	hate := matchScore(text, d.hateSpeech, hateMatchWeight, &matched)
	harassment := matchScore(text, d.harassment, harassmentMatchWeight, &matched)
	threat := matchScore(text, d.threats, threatMatchWeight, &matched)
	identity := matchScore(text, d.identityAttack, identityMatchWeight, &matched)
	profanity := matchScore(text, d.profanity, profanityMatchWeight, &matched)

	overall := hate*hateSpeechWeight +
		harassment*harassmentWeight +
		threat*threatWeight +
		identity*identityAttackWeight +
		profanity*profanityWeight

	return ToxicityAssessment{
		HateSpeechScore:     hate,
		HarassmentScore:     harassment,
		ThreatScore:         threat,
		IdentityAttackScore: identity,
		ProfanityScore:      profanity,
		ToxicityScore:       clamp01(overall),
		SevereToxicityScore: max3(hate, threat, identity),
		MatchedTerms:        dedupe(matched),
	}
}

func matchScore(text string, patterns []*regexp.Regexp, perMatch float64, matched *[]string) float64 {
	score := 0.0
	for _, re := range patterns {
		hits := re.FindAllString(text, -1)
		if len(hits) == 0 {
			continue
		}
		score += float64(len(hits)) * perMatch
		for _, h := range hits {
			*matched = append(*matched, strings.ToLower(h))
		}
	}
	return clamp01(score)
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
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
