package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

// Routing policies for frames that carry both vitals and IMU fields.
const (
	RouteVitalsFirst = "vitals-first" // ambiguous frames go to the vitals stream only
	RouteBoth        = "both"         // ambiguous frames are appended to both streams
)

// Bridge routes incoming device frames to the record store streams.
// It owns appends to both streams on its host (single writer per
// stream).
type Bridge struct {
	store           *store.Store
	fallStream      string
	vitalsStream    string
	routePolicy     string
	defaultDeviceID string
	logger          *zap.Logger
	now             func() time.Time
}

// NewBridge creates a bridge. now is injectable for tests; pass nil
// for wall-clock time.
func NewBridge(
	st *store.Store,
	fallStream, vitalsStream string,
	routePolicy string,
	defaultDeviceID string,
	logger *zap.Logger,
	now func() time.Time,
) (*Bridge, error) {
	switch routePolicy {
	case RouteVitalsFirst, RouteBoth:
	default:
		return nil, fmt.Errorf("invalid route policy %q", routePolicy)
	}
	if now == nil {
		now = time.Now
	}

	return &Bridge{
		store:           st,
		fallStream:      fallStream,
		vitalsStream:    vitalsStream,
		routePolicy:     routePolicy,
		defaultDeviceID: defaultDeviceID,
		logger:          logger,
		now:             now,
	}, nil
}

// HandleFrame ingests one JSON frame. Malformed frames are skipped
// with a debug log, matching how the serial readers skip bad lines.
func (b *Bridge) HandleFrame(topic string, payload []byte) error {
	var frame map[string]interface{}
	if err := json.Unmarshal(payload, &frame); err != nil {
		b.logger.Debug("Skipping malformed frame",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil
	}

	b.stampDefaults(frame)

	hasVitals := hasAnyKey(frame, "bpm", "heart_rate", "oxygen_saturation", "spo2", "bp_systolic", "temperature", "respiratory_rate")
	hasIMU := hasAnyKey(frame, "x", "y", "z", "magnitude", "activity")

	var streams []string
	switch {
	case hasVitals && hasIMU:
		if b.routePolicy == RouteBoth {
			streams = []string{b.vitalsStream, b.fallStream}
		} else {
			streams = []string{b.vitalsStream}
		}
	case hasVitals:
		streams = []string{b.vitalsStream}
	case hasIMU:
		streams = []string{b.fallStream}
	default:
		b.logger.Debug("Frame matches no stream shape",
			zap.String("topic", topic),
		)
		return nil
	}

	for _, stream := range streams {
		if err := b.store.Append(stream, frame); err != nil {
			return fmt.Errorf("failed to append frame to %s: %w", stream, err)
		}
	}

	b.logger.Info("Frame ingested",
		zap.String("topic", topic),
		zap.Strings("streams", streams),
		zap.String("device_id", frame["device_id"].(string)),
	)
	return nil
}

// stampDefaults fills in timestamp and device_id the way the serial
// readers do before appending.
func (b *Bridge) stampDefaults(frame map[string]interface{}) {
	if _, ok := frame["timestamp"].(string); !ok {
		frame["timestamp"] = models.NowISO(b.now())
	}
	if _, ok := frame["device_id"].(string); !ok {
		frame["device_id"] = b.defaultDeviceID
	}
}

func hasAnyKey(frame map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if _, ok := frame[k]; ok {
			return true
		}
	}
	return false
}
