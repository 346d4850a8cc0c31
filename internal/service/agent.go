// Package service wires the escalation pipeline together: record
// store, watchers, escalation writer, fan-out and collaborators.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/config"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/escalation"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/notify"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/redisx"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/repository"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/watcher"
)

// EmergencyService runs the full classify-and-escalate pipeline: one
// watcher per producer stream feeding a shared escalation writer.
type EmergencyService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client

	store        *store.Store
	writer       *escalation.Writer
	fallWatcher  *watcher.Watcher
	vitalWatcher *watcher.Watcher
}

// NewEmergencyService builds the pipeline from configuration.
// Connectivity failures surface here, at startup, not inside the poll
// loops.
func NewEmergencyService(cfg *config.Config, logger *zap.Logger) (*EmergencyService, error) {
	ctx := context.Background()

	// 1. Record store
	st, err := store.New(cfg.Store.DataDir, cfg.Store.MaxRecords, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	s := &EmergencyService{
		config: cfg,
		logger: logger,
		store:  st,
	}

	// 2. Escalation writer options
	opts := []escalation.Option{
		escalation.WithEmitNormal(cfg.Agent.EmitNormal),
	}

	// 3. Redis fan-out (optional)
	if cfg.Redis.Stream != "" {
		redisClient, err := redisx.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s.redisClient = redisClient
		opts = append(opts, escalation.WithPublisher(
			escalation.NewStreamPublisher(redisClient, cfg.Redis.Stream),
		))
	}

	// 4. Cloud webhook for CRITICAL escalations (optional)
	if cfg.Cloud.WebhookURL != "" {
		notifier := notify.NewWebhookNotifier(
			cfg.Cloud.WebhookURL,
			time.Duration(cfg.Cloud.TimeoutSec)*time.Second,
			logger,
		)
		opts = append(opts, escalation.WithPublisher(notifier))
	}

	// 5. Reminder fold-in (optional)
	if cfg.Agent.Reminders {
		db, err := sql.Open("postgres", buildDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		s.db = db

		reminderRepo := repository.NewReminderRepository(db, logger)
		if err := reminderRepo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		opts = append(opts, escalation.WithReminders(reminderRepo))
	}

	s.writer = escalation.NewWriter(st, cfg.Store.EscalationFile, logger, opts...)

	// 6. One watcher per producer stream, independent offsets
	interval := time.Duration(cfg.Agent.PollInterval) * time.Second
	s.fallWatcher = watcher.New(
		"fall",
		cfg.Store.FallStream,
		models.SourceFallDetection,
		st,
		s.writer,
		watcher.ClassifySensorRecord,
		interval,
		watcher.RealClock,
		logger,
	)
	s.vitalWatcher = watcher.New(
		"vitals",
		cfg.Store.VitalsStream,
		models.SourceVitals,
		st,
		s.writer,
		watcher.ClassifyVitalsRecord,
		interval,
		watcher.RealClock,
		logger,
	)

	return s, nil
}

// Start runs both watchers until the context is cancelled.
func (s *EmergencyService) Start(ctx context.Context) error {
	s.logger.Info("Emergency agent started",
		zap.Int("poll_interval", s.config.Agent.PollInterval),
		zap.Bool("emit_normal", s.config.Agent.EmitNormal),
	)

	errChan := make(chan error, 2)
	go func() { errChan <- s.fallWatcher.Start(ctx) }()
	go func() { errChan <- s.vitalWatcher.Start(ctx) }()

	for i := 0; i < 2; i++ {
		if err := <-errChan; err != nil {
			return err
		}
	}
	return nil
}

// Stop releases external connections.
func (s *EmergencyService) Stop() error {
	s.logger.Info("Stopping emergency agent")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database", zap.Error(err))
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis", zap.Error(err))
		}
	}
	return nil
}

// buildDSN builds the PostgreSQL connection string.
func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.SSLMode,
	)
}
