package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/config"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/ingest"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/logger"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Init logging
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "mqtt-ingest")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Open the record store
	st, err := store.New(cfg.Store.DataDir, cfg.Store.MaxRecords, log)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}

	// 4. Build the routing bridge
	bridge, err := ingest.NewBridge(
		st,
		cfg.Store.FallStream,
		cfg.Store.VitalsStream,
		cfg.Agent.RoutePolicy,
		cfg.Agent.DeviceID,
		log,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to create ingest bridge", zap.Error(err))
	}

	// 5. Connect and subscribe
	client, err := ingest.NewClient(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Username, cfg.MQTT.Password)
	if err != nil {
		log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
	}
	defer client.Disconnect()

	handler := func(topic string, payload []byte) error {
		if err := bridge.HandleFrame(topic, payload); err != nil {
			log.Error("Failed to handle frame",
				zap.String("topic", topic),
				zap.Error(err),
			)
		}
		return nil
	}

	for _, topic := range []string{cfg.MQTT.FallTopic, cfg.MQTT.VitalsTopic} {
		if err := client.Subscribe(topic, 1, handler); err != nil {
			log.Fatal("Failed to subscribe",
				zap.String("topic", topic),
				zap.Error(err),
			)
		}
	}

	log.Info("MQTT ingest started",
		zap.String("broker", cfg.MQTT.Broker),
		zap.String("fall_topic", cfg.MQTT.FallTopic),
		zap.String("vitals_topic", cfg.MQTT.VitalsTopic),
		zap.String("route_policy", cfg.Agent.RoutePolicy),
	)

	// 6. Run until signalled
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal, shutting down",
		zap.String("signal", sig.String()),
	)
}
