package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

const (
	fallStream   = "fall_events.json"
	vitalsStream = "vitals_stream.json"
)

var bridgeNow = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

func newTestBridge(t *testing.T, policy string) (*store.Store, *Bridge) {
	t.Helper()
	st, err := store.New(t.TempDir(), 100, zap.NewNop())
	require.NoError(t, err)

	bridge, err := NewBridge(st, fallStream, vitalsStream, policy, "esp32_01", zap.NewNop(), bridgeNow)
	require.NoError(t, err)
	return st, bridge
}

func TestNewBridge_RejectsUnknownPolicy(t *testing.T) {
	st, err := store.New(t.TempDir(), 100, zap.NewNop())
	require.NoError(t, err)

	_, err = NewBridge(st, fallStream, vitalsStream, "round-robin", "esp32_01", zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestHandleFrame_RoutesIMUToFallStream(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	payload := []byte(`{"x": 0.1, "y": -0.2, "z": 1.0, "magnitude": 1.02, "activity": "NORMAL"}`)
	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/imu", payload))

	assert.Equal(t, 1, st.Count(fallStream))
	assert.Zero(t, st.Count(vitalsStream))
}

func TestHandleFrame_RoutesVitalsToVitalsStream(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	payload := []byte(`{"bpm": 72, "spo2": 98.1}`)
	require.NoError(t, bridge.HandleFrame("sensors/esp32_pulse_001/pulse", payload))

	assert.Zero(t, st.Count(fallStream))
	assert.Equal(t, 1, st.Count(vitalsStream))
}

func TestHandleFrame_AmbiguousFrameVitalsFirst(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	payload := []byte(`{"bpm": 72, "magnitude": 1.0, "activity": "WALKING"}`)
	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/imu", payload))

	assert.Zero(t, st.Count(fallStream))
	assert.Equal(t, 1, st.Count(vitalsStream))
}

func TestHandleFrame_AmbiguousFrameBothPolicy(t *testing.T) {
	st, bridge := newTestBridge(t, RouteBoth)

	payload := []byte(`{"bpm": 72, "magnitude": 1.0, "activity": "WALKING"}`)
	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/imu", payload))

	assert.Equal(t, 1, st.Count(fallStream))
	assert.Equal(t, 1, st.Count(vitalsStream))
}

func TestHandleFrame_StampsTimestampAndDeviceID(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/pulse", []byte(`{"bpm": 72}`)))

	records := st.ReadAll(vitalsStream)
	require.Len(t, records, 1)

	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(records[0], &frame))
	assert.Equal(t, models.NowISO(bridgeNow()), frame["timestamp"])
	assert.Equal(t, "esp32_01", frame["device_id"])
}

func TestHandleFrame_PreservesExistingIdentity(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	payload := []byte(`{"bpm": 72, "timestamp": "2026-01-01T00:00:00Z", "device_id": "esp32_pulse_002"}`)
	require.NoError(t, bridge.HandleFrame("sensors/esp32_pulse_002/pulse", payload))

	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(st.ReadAll(vitalsStream)[0], &frame))
	assert.Equal(t, "2026-01-01T00:00:00Z", frame["timestamp"])
	assert.Equal(t, "esp32_pulse_002", frame["device_id"])
}

func TestHandleFrame_MalformedFrameIsSkipped(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/imu", []byte(`{"bpm": `)))
	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/imu", []byte(`not json at all`)))

	assert.Zero(t, st.Count(fallStream))
	assert.Zero(t, st.Count(vitalsStream))
}

func TestHandleFrame_UnrecognizedShapeIsSkipped(t *testing.T) {
	st, bridge := newTestBridge(t, RouteVitalsFirst)

	require.NoError(t, bridge.HandleFrame("sensors/esp32_01/imu", []byte(`{"battery": 87}`)))

	assert.Zero(t, st.Count(fallStream))
	assert.Zero(t, st.Count(vitalsStream))
}
