package models

import (
	"encoding/json"
	"time"
)

// SensorRecord is one fall/IMU reading appended by a producer.
// Records are immutable once appended; the store only trims them from
// the head when the retention cap is exceeded.
type SensorRecord struct {
	Timestamp string   `json:"timestamp"`
	DeviceID  string   `json:"device_id"`
	X         OptFloat `json:"x"`
	Y         OptFloat `json:"y"`
	Z         OptFloat `json:"z"`
	Magnitude OptFloat `json:"magnitude"`
	Activity  string   `json:"activity"`
	BPM       OptFloat `json:"bpm"`
	Critical  bool     `json:"critical,omitempty"`
}

// VitalsRecord is one vitals/pulse reading. Fields are optional; an
// absent field means "not evaluated", not zero. Producers disagree on
// field names (bpm vs heart_rate, spo2 vs oxygen_saturation), so the
// decoder coalesces both spellings.
type VitalsRecord struct {
	Timestamp       string   `json:"timestamp"`
	DeviceID        string   `json:"device_id"`
	HeartRate       OptFloat `json:"heart_rate"`
	SpO2            OptFloat `json:"oxygen_saturation"`
	BPSystolic      OptFloat `json:"bp_systolic"`
	BPDiastolic     OptFloat `json:"bp_diastolic"`
	Temperature     OptFloat `json:"temperature"`
	RespiratoryRate OptFloat `json:"respiratory_rate"`
	Critical        bool     `json:"critical,omitempty"`
}

// UnmarshalJSON coalesces the alternate field spellings used by the
// different producers.
func (v *VitalsRecord) UnmarshalJSON(data []byte) error {
	type alias VitalsRecord
	aux := struct {
		*alias
		BPM   OptFloat `json:"bpm"`
		SpO2B OptFloat `json:"spo2"`
	}{alias: (*alias)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if !v.HeartRate.Valid && aux.BPM.Valid {
		v.HeartRate = aux.BPM
	}
	if !v.SpO2.Valid && aux.SpO2B.Valid {
		v.SpO2 = aux.SpO2B
	}
	return nil
}

// EscalationRecord asserts an abnormal condition detected from sensor
// or text input. The stream is append-only and owned exclusively by the
// escalation writer; insertion order is chronological order.
type EscalationRecord struct {
	EventID   string          `json:"event_id"`
	Timestamp string          `json:"timestamp"`
	Source    string          `json:"source"`
	Severity  Severity        `json:"severity"`
	DeviceID  string          `json:"device_id"`
	Message   string          `json:"message,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// ReminderRecord is one row of the reminders table. The escalation
// pipeline reads due reminders to fold into alert text; it never
// mutates reminder state.
type ReminderRecord struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// NowISO formats a timestamp the way the producers do.
func NowISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
