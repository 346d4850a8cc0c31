package classifier

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
)

func TestClassifySensor_CriticalFlagWinsRegardlessOfValues(t *testing.T) {
	rec := models.SensorRecord{
		Critical:  true,
		BPM:       models.Float(72),
		Magnitude: models.Float(0.1),
	}

	result := ClassifySensor(rec)

	assert.Equal(t, models.SeverityCritical, result.Severity)
}

func TestClassifySensor_ExtremeHeartRate(t *testing.T) {
	// bpm=230, magnitude=0.5, critical=false -> CRITICAL via rule 2.
	rec := models.SensorRecord{
		BPM:       models.Float(230),
		Magnitude: models.Float(0.5),
	}

	result := ClassifySensor(rec)

	assert.Equal(t, models.SeverityCritical, result.Severity)
}

func TestClassifySensor_HeartRateBands(t *testing.T) {
	tests := []struct {
		name string
		bpm  float64
		want models.Severity
	}{
		{"resting", 72, models.SeverityNormal},
		{"in range high", 150, models.SeverityNormal},
		{"upper bound", 180, models.SeverityNormal},
		{"tachycardia", 181, models.SeverityWarning},
		{"just below extreme", 219, models.SeverityWarning},
		{"extreme", 220, models.SeverityCritical},
		{"bradycardia", 35, models.SeverityWarning},
		{"sensor noise above max", 320, models.SeverityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifySensor(models.SensorRecord{BPM: models.Float(tt.bpm)})
			assert.Equal(t, tt.want, result.Severity)
		})
	}
}

func TestClassifySensor_FallScale(t *testing.T) {
	// Impact magnitude with a fall activity -> HIGH.
	high := ClassifySensor(models.SensorRecord{
		Magnitude: models.Float(3.4),
		Activity:  models.ActivityFallImpact,
	})
	assert.Equal(t, models.SeverityCritical, high.Severity)
	assert.Equal(t, models.FallSeverityHigh, high.FallSeverity)

	// Above the fall threshold but below impact -> MEDIUM.
	medium := ClassifySensor(models.SensorRecord{
		Magnitude: models.Float(2.7),
		Activity:  models.ActivityFallDrop,
	})
	assert.Equal(t, models.SeverityWarning, medium.Severity)
	assert.Equal(t, models.FallSeverityMedium, medium.FallSeverity)

	// Low magnitude -> NORMAL.
	normal := ClassifySensor(models.SensorRecord{
		Magnitude: models.Float(1.0),
		Activity:  models.ActivityWalking,
	})
	assert.Equal(t, models.SeverityNormal, normal.Severity)
	assert.Empty(t, normal.FallSeverity)
}

func TestClassifySensor_NormalHeartRateDoesNotMaskFall(t *testing.T) {
	result := ClassifySensor(models.SensorRecord{
		BPM:       models.Float(72),
		Magnitude: models.Float(3.4),
		Activity:  models.ActivityFallImpact,
	})

	assert.Equal(t, models.SeverityCritical, result.Severity)
	assert.Equal(t, models.FallSeverityHigh, result.FallSeverity)
}

func TestClassifySensor_MalformedFieldsTreatedAsAbsent(t *testing.T) {
	// Non-numeric magnitude and bpm must decode as absent, never error.
	raw := []byte(`{"timestamp":"2026-01-01T00:00:00Z","device_id":"esp32_01","magnitude":"garbage","bpm":{"nested":true}}`)

	var rec models.SensorRecord
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.False(t, rec.Magnitude.Valid)
	assert.False(t, rec.BPM.Valid)

	result := ClassifySensor(rec)
	assert.Equal(t, models.SeverityNormal, result.Severity)
}

func TestClassifyVitals_SecondaryRanges(t *testing.T) {
	tests := []struct {
		name string
		rec  models.VitalsRecord
		want models.Severity
	}{
		{
			"all normal",
			models.VitalsRecord{
				HeartRate:   models.Float(72),
				BPSystolic:  models.Float(110),
				BPDiastolic: models.Float(70),
				SpO2:        models.Float(98),
				Temperature: models.Float(36.6),
			},
			models.SeverityNormal,
		},
		{
			"low oxygen",
			models.VitalsRecord{HeartRate: models.Float(72), SpO2: models.Float(89)},
			models.SeverityWarning,
		},
		{
			"fever",
			models.VitalsRecord{Temperature: models.Float(38.9)},
			models.SeverityWarning,
		},
		{
			"high systolic",
			models.VitalsRecord{BPSystolic: models.Float(165)},
			models.SeverityWarning,
		},
		{
			"extreme heart rate beats range checks",
			models.VitalsRecord{HeartRate: models.Float(240), SpO2: models.Float(89)},
			models.SeverityCritical,
		},
		{
			"absent fields are not evaluated",
			models.VitalsRecord{},
			models.SeverityNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVitals(tt.rec).Severity)
		})
	}
}

func TestClassifyVitals_CriticalFlag(t *testing.T) {
	rec := models.VitalsRecord{Critical: true, HeartRate: models.Float(72)}
	assert.Equal(t, models.SeverityCritical, ClassifyVitals(rec).Severity)
}

func TestVitalsRecord_FieldNameCoalescing(t *testing.T) {
	raw := []byte(`{"bpm": 88, "spo2": 97.5, "device_id": "esp32_pulse_001"}`)

	var rec models.VitalsRecord
	require.NoError(t, json.Unmarshal(raw, &rec))

	assert.True(t, rec.HeartRate.Valid)
	assert.Equal(t, 88.0, rec.HeartRate.Value)
	assert.True(t, rec.SpO2.Valid)
	assert.Equal(t, 97.5, rec.SpO2.Value)
}

func TestMagnitudeInvariant(t *testing.T) {
	// magnitude == sqrt(x²+y²+z²) for simulator output is checked in
	// the simulator tests; here we just confirm the helper math used
	// by producers round-trips through the record type.
	x, y, z := 0.3, -0.2, 1.1
	mag := math.Sqrt(x*x + y*y + z*z)

	rec := models.SensorRecord{
		X: models.Float(x), Y: models.Float(y), Z: models.Float(z),
		Magnitude: models.Float(mag),
	}

	assert.InDelta(t, mag, rec.Magnitude.Value, 1e-6)
}
