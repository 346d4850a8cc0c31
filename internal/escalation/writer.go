// Package escalation owns the escalation stream: it decides whether a
// freshly classified record is escalation-worthy, appends it exactly
// once, and fans it out to downstream consumers.
package escalation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/classifier"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

// ReminderLister provides read-only access to due reminders, folded
// into alert text. The writer never mutates reminder state.
type ReminderLister interface {
	ListDue(ctx context.Context, at time.Time) ([]models.ReminderRecord, error)
}

// Publisher fans a written escalation out to a side channel.
type Publisher interface {
	Publish(ctx context.Context, record models.EscalationRecord) error
}

// Writer appends classified records to the escalation stream.
// Dedup is guaranteed upstream by the watcher's offset contract: the
// writer is handed each new record exactly once, in original order.
type Writer struct {
	store      *store.Store
	streamFile string
	emitNormal bool
	reminders  ReminderLister
	publishers []Publisher
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithReminders folds due reminders into alert text.
func WithReminders(r ReminderLister) Option {
	return func(w *Writer) { w.reminders = r }
}

// WithPublisher adds a fan-out target. Publish failures are logged and
// never block the write to the escalation stream.
func WithPublisher(p Publisher) Option {
	return func(w *Writer) { w.publishers = append(w.publishers, p) }
}

// WithClock overrides the timestamp source for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithEmitNormal also writes NORMAL classifications (periodic
// heartbeat entries) instead of the default alert-only behaviour.
func WithEmitNormal(emit bool) Option {
	return func(w *Writer) { w.emitNormal = emit }
}

// NewWriter creates an escalation writer backed by the given store.
func NewWriter(st *store.Store, streamFile string, logger *zap.Logger, opts ...Option) *Writer {
	w := &Writer{
		store:      st,
		streamFile: streamFile,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write persists one classification decision. The data payload is a
// structural copy of the triggering record, so the decision stays
// reproducible from the escalation stream alone. Returns nil when the
// result was suppressed (NORMAL in alert-only mode).
func (w *Writer) Write(ctx context.Context, source, deviceID string, result classifier.Result, data json.RawMessage) (*models.EscalationRecord, error) {
	if source == "" {
		return nil, fmt.Errorf("source is required")
	}

	if result.Severity == models.SeverityNormal && !w.emitNormal {
		return nil, nil
	}

	if len(data) == 0 {
		data = json.RawMessage("{}")
	}

	record := models.EscalationRecord{
		EventID:   uuid.New().String(),
		Timestamp: models.NowISO(w.now()),
		Source:    source,
		Severity:  result.Severity,
		DeviceID:  deviceID,
		Message:   w.buildMessage(ctx, result),
		Data:      data,
	}

	if err := w.store.Append(w.streamFile, record); err != nil {
		return nil, fmt.Errorf("failed to append escalation: %w", err)
	}

	w.logger.Info("Escalation written",
		zap.String("event_id", record.EventID),
		zap.String("source", record.Source),
		zap.String("severity", string(record.Severity)),
		zap.String("device_id", record.DeviceID),
		zap.String("message", record.Message),
	)

	for _, p := range w.publishers {
		if err := p.Publish(ctx, record); err != nil {
			w.logger.Error("Failed to publish escalation",
				zap.String("event_id", record.EventID),
				zap.Error(err),
			)
		}
	}

	return &record, nil
}

// buildMessage composes the alert text, appending any reminders due at
// classification time.
func (w *Writer) buildMessage(ctx context.Context, result classifier.Result) string {
	parts := []string{}
	if result.Reason != "" {
		parts = append(parts, result.Reason)
	}
	if result.FallSeverity != "" {
		parts = append(parts, "fall severity "+result.FallSeverity)
	}

	if w.reminders != nil {
		due, err := w.reminders.ListDue(ctx, w.now())
		if err != nil {
			w.logger.Warn("Failed to list due reminders", zap.Error(err))
		} else {
			for _, r := range due {
				parts = append(parts, fmt.Sprintf("due reminder: %s (%s)", r.Title, r.Description))
			}
		}
	}

	return strings.Join(parts, "; ")
}
