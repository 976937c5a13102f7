package domain

// RiskLevel grades viral-prediction risk from low to extreme.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// SafetyLevel grades a brand safety assessment from safe to danger.
type SafetyLevel string

const (
	SafetySafe    SafetyLevel = "safe"
	SafetyCaution SafetyLevel = "caution"
	SafetyRisk    SafetyLevel = "risk"
	SafetyDanger  SafetyLevel = "danger"
)

// safetyRank orders safety levels from safest (0) to most dangerous (3).
func safetyRank(l SafetyLevel) int {
	switch l {
	case SafetySafe:
		return 0
	case SafetyCaution:
		return 1
	case SafetyRisk:
		return 2
	case SafetyDanger:
		return 3
	}
	return 1
}

// SaferThan reports whether l is a strictly safer bucket than other.
func (l SafetyLevel) SaferThan(other SafetyLevel) bool {
	return safetyRank(l) < safetyRank(other)
}

// ContentType classifies a piece of content by its dominant form.
type ContentType string

const (
	ContentHotTake       ContentType = "hot_take"
	ContentBelief        ContentType = "belief"
	ContentControversial ContentType = "controversial"
	ContentQuestion      ContentType = "question"
	ContentStory         ContentType = "story"
	ContentAdvice        ContentType = "advice"
	ContentInsight       ContentType = "insight"
)

// ContentClassification labels content for brand-safety purposes.
type ContentClassification string

const (
	ClassProfessional  ContentClassification = "professional"
	ClassPersonal      ContentClassification = "personal"
	ClassOpinion       ContentClassification = "opinion"
	ClassControversial ContentClassification = "controversial"
	ClassToxic         ContentClassification = "toxic"
)

// GapPriority buckets a content gap by urgency.
type GapPriority string

const (
	GapPriorityLow      GapPriority = "low"
	GapPriorityMedium   GapPriority = "medium"
	GapPriorityHigh     GapPriority = "high"
	GapPriorityCritical GapPriority = "critical"
)

// MitigationPriority grades how urgently a mitigation strategy must run.
type MitigationPriority string

const (
	MitigationLow      MitigationPriority = "low"
	MitigationMedium   MitigationPriority = "medium"
	MitigationHigh     MitigationPriority = "high"
	MitigationCritical MitigationPriority = "critical"
)

// ResponseUrgency describes how fast a crisis response must start.
type ResponseUrgency string

const (
	UrgencyImmediate   ResponseUrgency = "immediate"
	UrgencyWithinHours ResponseUrgency = "within_hours"
	UrgencyWithinDays  ResponseUrgency = "within_days"
)
