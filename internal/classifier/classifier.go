// Package classifier maps raw sensor records and free-text turns to
// severity and category labels. All functions are pure: no I/O, no
// state, so a classification is reproducible from the stored record
// copy alone.
package classifier

import (
	"fmt"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
)

// Canonical thresholds (ALERT-ONLY rule set).
const (
	LowBPM     = 40.0  // below: bradycardia warning
	HighBPM    = 180.0 // above: tachycardia warning
	ExtremeBPM = 220.0 // at or above: critical
	MaxBPM     = 300.0 // above: sensor noise, not a valid reading

	FallThreshold   = 2.5 // g-force indicating a potential fall
	ImpactThreshold = 3.0 // g-force indicating an impact
)

// Result is one classification decision.
type Result struct {
	Severity     models.Severity
	FallSeverity string // fall-specific scale (HIGH/MEDIUM), empty otherwise
	Reason       string
}

// Escalates reports whether the result is worth writing to the
// escalation stream when NORMAL records are suppressed.
func (r Result) Escalates() bool {
	return r.Severity != models.SeverityNormal
}

// validBPM reports whether a heart-rate reading is physiologically
// plausible enough to evaluate. Readings above MaxBPM are treated as
// sensor noise and skipped, the same as an absent field.
func validBPM(bpm models.OptFloat) bool {
	return bpm.Valid && bpm.Value >= LowBPM && bpm.Value <= MaxBPM
}

// ClassifySensor applies the severity rules to one fall/IMU record.
// Precedence, first match wins:
//  1. explicit critical flag      -> CRITICAL
//  2. bpm valid and >= ExtremeBPM -> CRITICAL
//  3. bpm valid and out of range  -> WARNING
//  4. impact magnitude + fall activity -> HIGH; magnitude above the
//     fall threshold -> MEDIUM (fall scale, escalated as CRITICAL and
//     WARNING respectively)
//  5. otherwise NORMAL
func ClassifySensor(rec models.SensorRecord) Result {
	if rec.Critical {
		return Result{
			Severity: models.SeverityCritical,
			Reason:   "critical flag set by producer",
		}
	}

	if r, ok := classifyHeartRate(rec.BPM); ok {
		return r
	}

	if rec.Magnitude.Valid {
		mag := rec.Magnitude.Value
		fallActivity := rec.Activity == models.ActivityFallImpact || rec.Activity == models.ActivityFallDrop

		if mag >= ImpactThreshold && fallActivity {
			return Result{
				Severity:     models.SeverityCritical,
				FallSeverity: models.FallSeverityHigh,
				Reason:       fmt.Sprintf("fall impact: magnitude %.2fg, activity %s", mag, rec.Activity),
			}
		}
		if mag > FallThreshold {
			return Result{
				Severity:     models.SeverityWarning,
				FallSeverity: models.FallSeverityMedium,
				Reason:       fmt.Sprintf("high acceleration: magnitude %.2fg", mag),
			}
		}
	}

	return Result{Severity: models.SeverityNormal}
}

// Safe ranges for the secondary vitals checks. Heart rate is evaluated
// only by the primary rules above; merging the 60-100 resting band in
// here would contradict them.
var vitalsRanges = []struct {
	name string
	get  func(models.VitalsRecord) models.OptFloat
	low  float64
	high float64
}{
	{"bp_systolic", func(v models.VitalsRecord) models.OptFloat { return v.BPSystolic }, 90, 120},
	{"bp_diastolic", func(v models.VitalsRecord) models.OptFloat { return v.BPDiastolic }, 60, 80},
	{"oxygen_saturation", func(v models.VitalsRecord) models.OptFloat { return v.SpO2 }, 94, 100},
	{"temperature", func(v models.VitalsRecord) models.OptFloat { return v.Temperature }, 36.0, 37.5},
}

// ClassifyVitals applies the severity rules to one vitals record. The
// primary heart-rate rules take precedence; the remaining vitals are
// checked against their safe ranges and yield WARNING when out of
// range. Absent fields are not evaluated.
func ClassifyVitals(rec models.VitalsRecord) Result {
	if rec.Critical {
		return Result{
			Severity: models.SeverityCritical,
			Reason:   "critical flag set by producer",
		}
	}

	if r, ok := classifyHeartRate(rec.HeartRate); ok {
		return r
	}

	for _, vr := range vitalsRanges {
		value := vr.get(rec)
		if !value.Valid {
			continue
		}
		if value.Value < vr.low || value.Value > vr.high {
			return Result{
				Severity: models.SeverityWarning,
				Reason:   fmt.Sprintf("abnormal %s: %g", vr.name, value.Value),
			}
		}
	}

	return Result{Severity: models.SeverityNormal}
}

// classifyHeartRate applies the primary bpm rules. ok is false when the
// reading is absent, invalid or unremarkable; an in-range bpm never
// claims the decision, so the lower-precedence rules still run.
func classifyHeartRate(bpm models.OptFloat) (Result, bool) {
	if !validBPM(bpm) {
		// Out-of-band values below LowBPM are still valid warnings;
		// validBPM only excludes absent and > MaxBPM readings.
		if bpm.Valid && bpm.Value > 0 && bpm.Value < LowBPM {
			return Result{
				Severity: models.SeverityWarning,
				Reason:   fmt.Sprintf("low heart rate: %g bpm", bpm.Value),
			}, true
		}
		return Result{}, false
	}

	if bpm.Value >= ExtremeBPM {
		return Result{
			Severity: models.SeverityCritical,
			Reason:   fmt.Sprintf("extreme heart rate: %g bpm", bpm.Value),
		}, true
	}
	if bpm.Value > HighBPM {
		return Result{
			Severity: models.SeverityWarning,
			Reason:   fmt.Sprintf("high heart rate: %g bpm", bpm.Value),
		}, true
	}

	return Result{}, false
}
