package models

// Severity is the ordinal escalation classification.
// NORMAL < WARNING < CRITICAL.
type Severity string

const (
	SeverityNormal   Severity = "NORMAL"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Fall-specific severity scale used on the raw fall stream.
const (
	FallSeverityMedium = "MEDIUM"
	FallSeverityHigh   = "HIGH"
)

// rank orders severities for comparison.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// Activity labels reported on the fall/IMU stream.
const (
	ActivityNormal     = "NORMAL"
	ActivityWalking    = "WALKING"
	ActivityInactive   = "INACTIVE"
	ActivityFallDrop   = "FALL_DROP"
	ActivityFallImpact = "FALL_IMPACT"
)

// Escalation sources.
const (
	SourceFallDetection  = "fall_detection"
	SourceVitals         = "vitals"
	SourceEmergencyAgent = "emergency_agent"
	SourceCognitive      = "cognitive"
	SourceEmotion        = "emotion"
)
