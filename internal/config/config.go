package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration shared by the monitoring agents.
type Config struct {
	// Store: JSON file streams shared between agent processes.
	Store struct {
		DataDir        string // directory holding the stream files
		FallStream     string // fall/IMU records (fall_events.json)
		VitalsStream   string // vitals records (vitals_stream.json)
		EscalationFile string // escalation records (escalation.json)
		MaxRecords     int    // FIFO retention cap per stream
	}

	// Agent: pipeline behaviour.
	Agent struct {
		PollInterval int    // seconds between watcher ticks
		EmitNormal   bool   // write NORMAL classifications to the escalation stream
		RoutePolicy  string // "vitals-first" or "both" for records matching both shapes
		DeviceID     string // default device id stamped on ingested records
		Reminders    bool   // fold due reminders from PostgreSQL into alert text
	}

	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		Stream   string // escalation fan-out stream name; empty disables publishing
	}

	MQTT struct {
		Broker      string
		ClientID    string
		Username    string
		Password    string
		FallTopic   string
		VitalsTopic string
	}

	Cloud struct {
		WebhookURL string // endpoint for CRITICAL escalations; empty disables
		TimeoutSec int
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables with defaults
// matching the demo layout.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Store.DataDir = getEnv("DATA_DIR", "data")
	cfg.Store.FallStream = getEnv("FALL_STREAM_FILE", "fall_events.json")
	cfg.Store.VitalsStream = getEnv("VITALS_STREAM_FILE", "vitals_stream.json")
	cfg.Store.EscalationFile = getEnv("ESCALATION_FILE", "escalation.json")
	cfg.Store.MaxRecords = getEnvInt("STORE_MAX_RECORDS", 1000)

	cfg.Agent.PollInterval = getEnvInt("AGENT_POLL_INTERVAL", 2)
	cfg.Agent.EmitNormal = getEnvBool("AGENT_EMIT_NORMAL", false)
	cfg.Agent.RoutePolicy = getEnv("AGENT_ROUTE_POLICY", "vitals-first")
	cfg.Agent.DeviceID = getEnv("AGENT_DEVICE_ID", "esp32_01")
	cfg.Agent.Reminders = getEnvBool("AGENT_REMINDERS_ENABLED", false)

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "eldercare")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.Stream = getEnv("REDIS_ESCALATION_STREAM", "escalation:events")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "mqtt-ingest")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.FallTopic = getEnv("MQTT_FALL_TOPIC", "sensors/+/imu")
	cfg.MQTT.VitalsTopic = getEnv("MQTT_VITALS_TOPIC", "sensors/+/pulse")

	cfg.Cloud.WebhookURL = getEnv("CLOUD_WEBHOOK_URL", "")
	cfg.Cloud.TimeoutSec = getEnvInt("CLOUD_TIMEOUT_SEC", 5)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects misconfiguration loudly at startup instead of
// letting the poll loops retry a bad setup forever.
func (c *Config) validate() error {
	if c.Store.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Store.MaxRecords <= 0 {
		return fmt.Errorf("STORE_MAX_RECORDS must be positive, got %d", c.Store.MaxRecords)
	}
	if c.Agent.PollInterval <= 0 {
		return fmt.Errorf("AGENT_POLL_INTERVAL must be positive, got %d", c.Agent.PollInterval)
	}
	switch c.Agent.RoutePolicy {
	case "vitals-first", "both":
	default:
		return fmt.Errorf("AGENT_ROUTE_POLICY must be 'vitals-first' or 'both', got %q", c.Agent.RoutePolicy)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
