package safety

import "testing"

// ============================================================
// Detection
// ============================================================

func TestToxicityDetection(t *testing.T) {
	d := NewToxicityDetector()

	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, a ToxicityAssessment)
	}{
		{
			"hostile attack scores across dimensions",
			"I hate you, go kill yourself",
			func(t *testing.T, a ToxicityAssessment) {
				if a.HateSpeechScore <= 0 {
					t.Error("hate speech score should be positive")
				}
				if a.HarassmentScore <= 0 {
					t.Error("harassment score should be positive")
				}
				if a.ThreatScore <= 0 {
					t.Error("threat score should be positive")
				}
				if a.ToxicityScore <= 0.3 {
					t.Errorf("overall toxicity = %v, want > 0.3", a.ToxicityScore)
				}
				if len(a.MatchedTerms) == 0 {
					t.Error("expected matched terms")
				}
			},
		},
		{
			"clean text scores zero",
			"Excited to announce our new product line this quarter.",
			func(t *testing.T, a ToxicityAssessment) {
				if a.ToxicityScore != 0 {
					t.Errorf("toxicity = %v, want 0", a.ToxicityScore)
				}
				if a.MatchedTerms != nil {
					t.Errorf("matched terms = %v, want none", a.MatchedTerms)
				}
			},
		},
		{
			"profanity alone stays mild",
			"This damn printer is broken again.",
			func(t *testing.T, a ToxicityAssessment) {
				if a.ProfanityScore <= 0 {
					t.Error("profanity score should be positive")
				}
				if a.ToxicityScore > 0.3 {
					t.Errorf("toxicity = %v, want <= 0.3 for profanity alone", a.ToxicityScore)
				}
				if a.SevereToxicityScore != 0 {
					t.Errorf("severe toxicity = %v, want 0", a.SevereToxicityScore)
				}
			},
		},
		{
			"threats drive severe toxicity",
			"Watch your back. I will find you.",
			func(t *testing.T, a ToxicityAssessment) {
				if a.ThreatScore <= 0 {
					t.Error("threat score should be positive")
				}
				if a.SevereToxicityScore != a.ThreatScore {
					t.Errorf("severe = %v, want threat score %v", a.SevereToxicityScore, a.ThreatScore)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, d.Analyze(tt.text))
		})
	}
}

func TestToxicityScoresBounded(t *testing.T) {
	d := NewToxicityDetector()
	// Every pattern table hit repeatedly still clamps at 1.
	text := "I hate you. I hate you. kill yourself, kill yourself, kill yourself. " +
		"I will destroy you, watch your back or else. your kind, go back to where. " +
		"damn damn hell crap bullshit."
	a := d.Analyze(text)
	for name, v := range map[string]float64{
		"hate": a.HateSpeechScore, "harassment": a.HarassmentScore,
		"threat": a.ThreatScore, "identity": a.IdentityAttackScore,
		"profanity": a.ProfanityScore, "overall": a.ToxicityScore,
		"severe": a.SevereToxicityScore,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, out of [0,1]", name, v)
		}
	}
}

func TestToxicityAnalyzeIsIdempotent(t *testing.T) {
	d := NewToxicityDetector()
	text := "You are pathetic. Shut up or else."
	first := d.Analyze(text)
	second := d.Analyze(text)
	if first.ToxicityScore != second.ToxicityScore {
		t.Errorf("scores drifted: %v vs %v", first.ToxicityScore, second.ToxicityScore)
	}
	if len(first.MatchedTerms) != len(second.MatchedTerms) {
		t.Errorf("matched terms drifted: %v vs %v", first.MatchedTerms, second.MatchedTerms)
	}
}
