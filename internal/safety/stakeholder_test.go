package safety

import (
	"strings"
	"testing"

	"github.com/ignite/content-strategist/internal/concepts"
)

func TestStakeholderImpactStatus(t *testing.T) {
	a := NewStakeholderAnalyzer()

	tests := []struct {
		name   string
		text   string
		group  StakeholderGroup
		status ImpactStatus
	}{
		{"positive employee news", "We are hiring and rolling out better benefits.", StakeholderEmployees, ImpactPositive},
		{"negative employee news", "Restructuring continues and burnout is up.", StakeholderEmployees, ImpactNegative},
		{"employee crisis above threshold", "Layoffs, restructuring and a pay cut in one quarter.", StakeholderEmployees, ImpactCrisis},
		{"public flips to crisis faster", "The scandal and the cover-up are out.", StakeholderPublic, ImpactCrisis},
		{"untouched group stays neutral", "We are hiring and rolling out better benefits.", StakeholderInvestors, ImpactNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(tt.text, nil)
			impact, ok := got.Groups[tt.group]
			if !ok {
				t.Fatalf("missing group %s", tt.group)
			}
			if impact.Status != tt.status {
				t.Errorf("%s status = %s, want %s", tt.group, impact.Status, tt.status)
			}
		})
	}
}

func TestStakeholderHotTakesCountAgainstPublic(t *testing.T) {
	a := NewStakeholderAnalyzer()
	text := "Everything about this industry needs to change."
	entities := []concepts.ConceptualEntity{
		{Type: concepts.ConceptHotTake, Text: "a"},
		{Type: concepts.ConceptHotTake, Text: "b"},
	}

	got := a.Analyze(text, entities)
	if got.Groups[StakeholderPublic].Status != ImpactCrisis {
		t.Errorf("public status = %s, want %s", got.Groups[StakeholderPublic].Status, ImpactCrisis)
	}
	// Other groups are unaffected by concepts.
	if got.Groups[StakeholderCustomers].Status != ImpactNeutral {
		t.Errorf("customers status = %s, want %s", got.Groups[StakeholderCustomers].Status, ImpactNeutral)
	}
}

func TestStakeholderLengthConfidence(t *testing.T) {
	a := NewStakeholderAnalyzer()

	short := a.Analyze("Brief note.", nil)
	if short.Confidence != 0.3 {
		t.Errorf("short confidence = %v, want 0.3", short.Confidence)
	}

	medium := a.Analyze(strings.Repeat("word ", 20), nil)
	if medium.Confidence != 0.6 {
		t.Errorf("medium confidence = %v, want 0.6", medium.Confidence)
	}

	long := a.Analyze(strings.Repeat("word ", 60), nil)
	if long.Confidence != 0.85 {
		t.Errorf("long confidence = %v, want 0.85", long.Confidence)
	}
}
