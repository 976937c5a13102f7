// Package safety implements the brand safety analyzers: toxicity, controversy
// and stakeholder-impact pattern matchers, aggregated with the viral engine
// into a multi-dimensional BrandSafetyAssessment.
package safety

import (
	"time"

	"github.com/ignite/content-strategist/internal/domain"
	"github.com/ignite/content-strategist/internal/viral"
)

// ToxicityAssessment holds the per-category and blended toxicity scores.
type ToxicityAssessment struct {
	HateSpeechScore     float64  `json:"hate_speech_score"`
	HarassmentScore     float64  `json:"harassment_score"`
	ThreatScore         float64  `json:"threat_score"`
	IdentityAttackScore float64  `json:"identity_attack_score"`
	ProfanityScore      float64  `json:"profanity_score"`
	ToxicityScore       float64  `json:"toxicity_score"`        // weighted blend
	SevereToxicityScore float64  `json:"severe_toxicity_score"` // max(hate, threat, identity)
	MatchedTerms        []string `json:"matched_terms,omitempty"`
}

// ControversyCategory names the dominant controversy domain.
type ControversyCategory string

const (
	ControversyPolitical ControversyCategory = "political"
	ControversySocial    ControversyCategory = "social"
	ControversyBusiness  ControversyCategory = "business"
	ControversyCultural  ControversyCategory = "cultural"
	ControversyNone      ControversyCategory = "none"
)

// ControversyAnalysis captures how divisive the content is and where.
type ControversyAnalysis struct {
	ControversyScore  float64                         `json:"controversy_score"`
	DominantCategory  ControversyCategory             `json:"dominant_category"`
	CategoryScores    map[ControversyCategory]float64 `json:"category_scores"`
	PolarizationRisk  float64                         `json:"polarization_risk"`
	BacklashPotential float64                         `json:"backlash_potential"`
	DivisiveTopics    []string                        `json:"divisive_topics,omitempty"`
	SensitivityAreas  []string                        `json:"sensitivity_areas,omitempty"`
}

// StakeholderGroup names an audience whose reaction is predicted separately.
type StakeholderGroup string

const (
	StakeholderCustomers StakeholderGroup = "customers"
	StakeholderEmployees StakeholderGroup = "employees"
	StakeholderInvestors StakeholderGroup = "investors"
	StakeholderPartners  StakeholderGroup = "partners"
	StakeholderPublic    StakeholderGroup = "general_public"
)

// AllStakeholderGroups returns the groups in reporting order.
func AllStakeholderGroups() []StakeholderGroup {
	return []StakeholderGroup{
		StakeholderCustomers, StakeholderEmployees, StakeholderInvestors,
		StakeholderPartners, StakeholderPublic,
	}
}

// ImpactStatus is the predicted reception by one stakeholder group.
type ImpactStatus string

const (
	ImpactPositive ImpactStatus = "positive"
	ImpactNeutral  ImpactStatus = "neutral"
	ImpactNegative ImpactStatus = "negative"
	ImpactCrisis   ImpactStatus = "crisis"
)

// GroupImpact is one group's assessment.
type GroupImpact struct {
	Group        StakeholderGroup `json:"group"`
	Status       ImpactStatus     `json:"status"`
	PositiveHits int              `json:"positive_hits"`
	NegativeHits int              `json:"negative_hits"`
	// Score grades negative exposure 0-1 regardless of status.
	Score float64 `json:"score"`
}

// StakeholderAnalysis bundles all group reads.
type StakeholderAnalysis struct {
	Groups     map[StakeholderGroup]GroupImpact `json:"groups"`
	Confidence float64                          `json:"confidence"`
}

// CrisisLevel reports whether any group is in crisis.
func (s StakeholderAnalysis) CrisisLevel(group StakeholderGroup) bool {
	g, ok := s.Groups[group]
	return ok && g.Status == ImpactCrisis
}

// GroupScore returns a group's negative-exposure score, 0 when absent.
func (s StakeholderAnalysis) GroupScore(group StakeholderGroup) float64 {
	return s.Groups[group].Score
}

// CrisisRiskAssessment estimates escalation dynamics.
type CrisisRiskAssessment struct {
	EscalationProbability float64                `json:"escalation_probability"`
	ResponseUrgency       domain.ResponseUrgency `json:"response_urgency"`
	MitigationWindow      time.Duration          `json:"mitigation_window"`
}

// RiskScore holds the four risk dimensions plus the blended overall.
type RiskScore struct {
	Reputational float64 `json:"reputational"`
	Legal        float64 `json:"legal"`
	Financial    float64 `json:"financial"`
	Operational  float64 `json:"operational"`
	Overall      float64 `json:"overall"`
}

// MitigationStrategy is the action plan attached to a safety level.
type MitigationStrategy struct {
	Priority           domain.MitigationPriority `json:"priority"`
	RequiredActions    []string                  `json:"required_actions"`
	ApprovalRequired   bool                      `json:"approval_required"`
	ApprovalWorkflow   []string                  `json:"approval_workflow,omitempty"`
	ResponseDeadline   time.Duration             `json:"response_deadline"`
	MonitoringRequired bool                      `json:"monitoring_required"`
}

// BrandSafetyAssessment is the immutable result of one assessment call.
type BrandSafetyAssessment struct {
	ContentID      string                       `json:"content_id"`
	Platform       domain.Platform              `json:"platform"`
	BrandProfile   domain.BrandProfile          `json:"brand_profile"`
	SafetyLevel    domain.SafetyLevel           `json:"safety_level"`
	Classification domain.ContentClassification `json:"classification"`

	Risk       RiskScore `json:"risk"`
	Confidence float64   `json:"confidence"`

	Stakeholders StakeholderAnalysis  `json:"stakeholders"`
	Toxicity     ToxicityAssessment   `json:"toxicity"`
	Controversy  ControversyAnalysis  `json:"controversy"`
	CrisisRisk   CrisisRiskAssessment `json:"crisis_risk"`

	BrandAlignmentScore     float64 `json:"brand_alignment_score"`
	MessageConsistencyScore float64 `json:"message_consistency_score"`

	RiskFactors    []string `json:"risk_factors,omitempty"`
	CrisisTriggers []string `json:"crisis_triggers,omitempty"`
	RedFlags       []string `json:"red_flags,omitempty"`

	ViralPrediction        *viral.ViralPrediction `json:"viral_prediction,omitempty"`
	RiskAdjustedViralScore float64                `json:"risk_adjusted_viral_score"`

	Mitigation              MitigationStrategy `json:"mitigation"`
	ModificationSuggestions []string           `json:"modification_suggestions,omitempty"`
	ApprovalWorkflow        []string           `json:"approval_workflow,omitempty"`

	MonitoringKeywords []string           `json:"monitoring_keywords"`
	AlertThresholds    map[string]float64 `json:"alert_thresholds"`

	CreatedAt time.Time `json:"created_at"`

	// Degraded marks a fixed caution default produced after a whole-call
	// failure.
	Degraded bool `json:"degraded,omitempty"`
}
