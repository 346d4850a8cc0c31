package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/config"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/logger"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/simulator"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Init logging
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "sensor-simulator")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Open the record store
	st, err := store.New(cfg.Store.DataDir, cfg.Store.MaxRecords, log)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}

	fallSim := simulator.NewFallSimulator(cfg.Agent.DeviceID, nil, nil)
	vitalsSim := simulator.NewVitalsSimulator(cfg.Agent.DeviceID, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	log.Info("Sensor simulator started",
		zap.String("fall_stream", cfg.Store.FallStream),
		zap.String("vitals_stream", cfg.Store.VitalsStream),
		zap.Int("interval", cfg.Agent.PollInterval),
	)

	// 4. Emit one fall and one vitals record per interval. This
	// process is the sole writer of both producer streams.
	ticker := time.NewTicker(time.Duration(cfg.Agent.PollInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Sensor simulator stopped")
			return
		case <-ticker.C:
			fall := fallSim.Next()
			if err := st.Append(cfg.Store.FallStream, fall); err != nil {
				log.Error("Failed to append fall record", zap.Error(err))
			} else {
				log.Info("Fall record emitted",
					zap.Float64("magnitude", fall.Magnitude.Value),
					zap.String("activity", fall.Activity),
				)
			}

			vitals := vitalsSim.Next()
			if err := st.Append(cfg.Store.VitalsStream, vitals); err != nil {
				log.Error("Failed to append vitals record", zap.Error(err))
			} else {
				log.Info("Vitals record emitted",
					zap.Float64("heart_rate", vitals.HeartRate.Value),
					zap.Float64("spo2", vitals.SpO2.Value),
				)
			}
		}
	}
}
