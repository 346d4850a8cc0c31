package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, "fall_events.json", cfg.Store.FallStream)
	assert.Equal(t, "vitals_stream.json", cfg.Store.VitalsStream)
	assert.Equal(t, "escalation.json", cfg.Store.EscalationFile)
	assert.Equal(t, 1000, cfg.Store.MaxRecords)

	assert.Equal(t, 2, cfg.Agent.PollInterval)
	assert.False(t, cfg.Agent.EmitNormal)
	assert.Equal(t, "vitals-first", cfg.Agent.RoutePolicy)
	assert.Equal(t, "esp32_01", cfg.Agent.DeviceID)
	assert.False(t, cfg.Agent.Reminders)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "escalation:events", cfg.Redis.Stream)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/eldercare")
	t.Setenv("STORE_MAX_RECORDS", "500")
	t.Setenv("AGENT_EMIT_NORMAL", "true")
	t.Setenv("AGENT_ROUTE_POLICY", "both")
	t.Setenv("CLOUD_WEBHOOK_URL", "https://alerts.example.com/hook")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/eldercare", cfg.Store.DataDir)
	assert.Equal(t, 500, cfg.Store.MaxRecords)
	assert.True(t, cfg.Agent.EmitNormal)
	assert.Equal(t, "both", cfg.Agent.RoutePolicy)
	assert.Equal(t, "https://alerts.example.com/hook", cfg.Cloud.WebhookURL)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("STORE_MAX_RECORDS", "not-a-number")
	t.Setenv("AGENT_EMIT_NORMAL", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Store.MaxRecords)
	assert.False(t, cfg.Agent.EmitNormal)
}

func TestLoad_RejectsBadRoutePolicy(t *testing.T) {
	t.Setenv("AGENT_ROUTE_POLICY", "round-robin")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositivePollInterval(t *testing.T) {
	t.Setenv("AGENT_POLL_INTERVAL", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveMaxRecords(t *testing.T) {
	t.Setenv("STORE_MAX_RECORDS", "-5")

	_, err := Load()
	assert.Error(t, err)
}
