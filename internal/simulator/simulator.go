// Package simulator generates synthetic sensor records for demos and
// tests, mimicking what the hardware gateways would produce.
package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
)

// FallSimulator produces accelerometer records. The magnitude always
// satisfies magnitude == sqrt(x²+y²+z²).
type FallSimulator struct {
	rng      *rand.Rand
	deviceID string
	now      func() time.Time
}

// NewFallSimulator creates a simulator. rng and now are injectable for
// deterministic tests; pass nil for the real implementations.
func NewFallSimulator(deviceID string, rng *rand.Rand, now func() time.Time) *FallSimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &FallSimulator{rng: rng, deviceID: deviceID, now: now}
}

func (s *FallSimulator) record(x, y, z float64, activity string) models.SensorRecord {
	magnitude := math.Sqrt(x*x + y*y + z*z)
	return models.SensorRecord{
		Timestamp: models.NowISO(s.now()),
		DeviceID:  s.deviceID,
		X:         models.Float(round3(x)),
		Y:         models.Float(round3(y)),
		Z:         models.Float(round3(z)),
		Magnitude: models.Float(round3(magnitude)),
		Activity:  activity,
	}
}

func (s *FallSimulator) uniform(low, high float64) float64 {
	return low + s.rng.Float64()*(high-low)
}

// Normal generates a reading for sitting, standing or gentle movement.
func (s *FallSimulator) Normal() models.SensorRecord {
	x := s.uniform(-0.5, 0.5) + s.uniform(-0.1, 0.1)
	y := s.uniform(-0.5, 0.5) + s.uniform(-0.1, 0.1)
	z := s.uniform(0.7, 1.3) + s.uniform(-0.1, 0.1)
	return s.record(x, y, z, models.ActivityNormal)
}

// Walking generates a reading with the rhythmic spikes of a gait.
func (s *FallSimulator) Walking() models.SensorRecord {
	x := s.uniform(-0.8, 0.8)
	y := s.uniform(-0.8, 0.8)
	z := s.uniform(0.8, 1.6)
	return s.record(x, y, z, models.ActivityWalking)
}

// Inactive generates a near-still reading.
func (s *FallSimulator) Inactive() models.SensorRecord {
	x := s.uniform(-0.05, 0.05)
	y := s.uniform(-0.05, 0.05)
	z := s.uniform(0.95, 1.05)
	return s.record(x, y, z, models.ActivityInactive)
}

// Fall generates either the free-fall drop phase (70%) or the impact
// phase (30%) of a fall.
func (s *FallSimulator) Fall() models.SensorRecord {
	if s.rng.Float64() < 0.3 {
		// Impact: high acceleration in all directions.
		x := s.uniform(-3.0, 3.0)
		y := s.uniform(-3.0, 3.0)
		z := s.uniform(3.0, 5.0)
		return s.record(x, y, z, models.ActivityFallImpact)
	}
	// Drop: low acceleration while falling.
	x := s.uniform(-0.2, 0.2)
	y := s.uniform(-0.2, 0.2)
	z := s.uniform(0.1, 0.3)
	return s.record(x, y, z, models.ActivityFallDrop)
}

// Next generates one reading: mostly normal, occasionally walking,
// inactive or a fall pattern.
func (s *FallSimulator) Next() models.SensorRecord {
	switch roll := s.rng.Float64(); {
	case roll < 0.05:
		return s.Fall()
	case roll < 0.20:
		return s.Walking()
	case roll < 0.30:
		return s.Inactive()
	default:
		return s.Normal()
	}
}

// VitalsSimulator produces vitals records, mostly within the normal
// medical ranges with occasional abnormal excursions.
type VitalsSimulator struct {
	rng      *rand.Rand
	deviceID string
	now      func() time.Time
}

// NewVitalsSimulator creates a simulator. rng and now are injectable
// for deterministic tests; pass nil for the real implementations.
func NewVitalsSimulator(deviceID string, rng *rand.Rand, now func() time.Time) *VitalsSimulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &VitalsSimulator{rng: rng, deviceID: deviceID, now: now}
}

func (s *VitalsSimulator) uniform(low, high float64) float64 {
	return low + s.rng.Float64()*(high-low)
}

func (s *VitalsSimulator) intBetween(low, high int) float64 {
	return float64(low + s.rng.Intn(high-low+1))
}

// Normal generates a healthy reading.
func (s *VitalsSimulator) Normal() models.VitalsRecord {
	return models.VitalsRecord{
		Timestamp:       models.NowISO(s.now()),
		DeviceID:        s.deviceID,
		HeartRate:       models.Float(s.intBetween(60, 100)),
		BPSystolic:      models.Float(s.intBetween(90, 140)),
		BPDiastolic:     models.Float(s.intBetween(60, 90)),
		SpO2:            models.Float(round1(s.uniform(95, 100))),
		Temperature:     models.Float(round1(s.uniform(36.1, 37.2))),
		RespiratoryRate: models.Float(s.intBetween(12, 20)),
	}
}

// Abnormal generates a reading with multiple out-of-range vitals.
func (s *VitalsSimulator) Abnormal() models.VitalsRecord {
	return models.VitalsRecord{
		Timestamp:       models.NowISO(s.now()),
		DeviceID:        s.deviceID,
		HeartRate:       models.Float(s.intBetween(110, 150)),
		BPSystolic:      models.Float(s.intBetween(150, 200)),
		BPDiastolic:     models.Float(s.intBetween(95, 120)),
		SpO2:            models.Float(round1(s.uniform(85, 94))),
		Temperature:     models.Float(round1(s.uniform(38.0, 40.0))),
		RespiratoryRate: models.Float(s.intBetween(25, 35)),
	}
}

// Next generates one reading, abnormal roughly 10% of the time.
func (s *VitalsSimulator) Next() models.VitalsRecord {
	if s.rng.Float64() < 0.1 {
		return s.Abnormal()
	}
	return s.Normal()
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
