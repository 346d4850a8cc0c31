package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/config"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/logger"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/service"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Init logging
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "emergency-agent")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. Build the pipeline
	agent, err := service.NewEmergencyService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create emergency agent", zap.Error(err))
	}
	defer agent.Stop()

	// 4. Run until signalled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serviceErrChan := make(chan error, 1)
	go func() {
		if err := agent.Start(ctx); err != nil {
			serviceErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down",
			zap.String("signal", sig.String()),
		)
		cancel()
	case err := <-serviceErrChan:
		log.Fatal("Service error", zap.Error(err))
	}

	log.Info("Emergency agent stopped")
}
