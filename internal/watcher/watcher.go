// Package watcher drives the classify-and-escalate pipeline on a fixed
// poll interval per producer stream. Each watcher owns its own offset
// into its input stream (offset dedup): records already consumed are
// never reprocessed, and a burst of new records between ticks is
// handled in original order. Watchers for different producers are
// independent and share no mutable state.
package watcher

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/classifier"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/escalation"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

// ClassifyFunc labels one raw record and extracts the device id it
// came from. Malformed records must classify as NORMAL rather than
// erroring; classification never crashes the loop.
type ClassifyFunc func(raw json.RawMessage) (classifier.Result, string)

// Watcher polls one input stream and hands new records to the
// escalation writer.
type Watcher struct {
	name     string
	stream   string
	source   string
	store    *store.Store
	writer   *escalation.Writer
	classify ClassifyFunc
	interval time.Duration
	clock    Clock
	logger   *zap.Logger

	offset int
}

// New creates a watcher for one producer stream.
func New(
	name string,
	stream string,
	source string,
	st *store.Store,
	writer *escalation.Writer,
	classify ClassifyFunc,
	interval time.Duration,
	clock Clock,
	logger *zap.Logger,
) *Watcher {
	if clock == nil {
		clock = RealClock
	}
	return &Watcher{
		name:     name,
		stream:   stream,
		source:   source,
		store:    st,
		writer:   writer,
		classify: classify,
		interval: interval,
		clock:    clock,
		logger:   logger,
	}
}

// Offset returns the count of records already consumed.
func (w *Watcher) Offset() int {
	return w.offset
}

// Tick runs one read-classify-write cycle. It returns the number of
// escalations written. Calling Tick again with no new records writes
// nothing (the dedup contract).
func (w *Watcher) Tick(ctx context.Context) (int, error) {
	records, total := w.store.ReadFrom(w.stream, w.offset)

	// The owning producer trimmed the stream below our offset; the
	// dropped records were all consumed already, so resync to the tail.
	if total < w.offset {
		w.logger.Warn("Stream shrank below offset, resyncing",
			zap.String("watcher", w.name),
			zap.Int("offset", w.offset),
			zap.Int("stream_len", total),
		)
		w.offset = total
		return 0, nil
	}

	written := 0
	for _, raw := range records {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		result, deviceID := w.classify(raw)

		w.logger.Debug("Record classified",
			zap.String("watcher", w.name),
			zap.String("severity", string(result.Severity)),
			zap.String("device_id", deviceID),
		)

		record, err := w.writer.Write(ctx, w.source, deviceID, result, raw)
		if err != nil {
			// Log and continue; the offset still advances so a poison
			// record is not reprocessed forever.
			w.logger.Error("Failed to write escalation",
				zap.String("watcher", w.name),
				zap.Error(err),
			)
			continue
		}
		if record != nil {
			written++
		}
	}

	w.offset = total
	return written, nil
}

// Start runs the poll loop until the context is cancelled. The first
// tick runs immediately; per-tick errors are logged and the loop
// continues.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("Watcher started",
		zap.String("watcher", w.name),
		zap.String("stream", w.stream),
		zap.Duration("interval", w.interval),
	)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	if _, err := w.Tick(ctx); err != nil && ctx.Err() != nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped", zap.String("watcher", w.name))
			return nil
		case <-ticker.C():
			if _, err := w.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					w.logger.Info("Watcher stopped", zap.String("watcher", w.name))
					return nil
				}
				w.logger.Error("Tick failed",
					zap.String("watcher", w.name),
					zap.Error(err),
				)
			}
		}
	}
}

// ClassifySensorRecord adapts classifier.ClassifySensor to a raw fall
// stream record. Unparsable records classify as NORMAL.
func ClassifySensorRecord(raw json.RawMessage) (classifier.Result, string) {
	var rec models.SensorRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return classifier.Result{Severity: models.SeverityNormal}, ""
	}
	return classifier.ClassifySensor(rec), rec.DeviceID
}

// ClassifyVitalsRecord adapts classifier.ClassifyVitals to a raw
// vitals stream record.
func ClassifyVitalsRecord(raw json.RawMessage) (classifier.Result, string) {
	var rec models.VitalsRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return classifier.Result{Severity: models.SeverityNormal}, ""
	}
	return classifier.ClassifyVitals(rec), rec.DeviceID
}
