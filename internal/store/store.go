// Package store persists the record streams shared between agent
// processes. Each stream is a single JSON array file; writes replace
// the file atomically (write-temp-then-rename) so a concurrent reader
// never observes a partial write. Cross-process safety relies on the
// single-writer-per-stream convention: one producer owns appends to
// each stream file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store is an append-only record store with bounded FIFO retention.
type Store struct {
	dir        string
	maxRecords int
	logger     *zap.Logger

	mu      sync.Mutex
	streams map[string]*sync.Mutex
}

// New creates a store rooted at dir. The directory is created if
// missing; failure to create it is fatal (bad paths are surfaced at
// startup, not retried).
func New(dir string, maxRecords int, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store dir is required")
	}
	if maxRecords <= 0 {
		return nil, fmt.Errorf("maxRecords must be positive, got %d", maxRecords)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}

	return &Store{
		dir:        dir,
		maxRecords: maxRecords,
		logger:     logger,
		streams:    make(map[string]*sync.Mutex),
	}, nil
}

// streamLock returns the per-stream mutex, creating it on first use.
// Serializes read-modify-write appends within this process.
func (s *Store) streamLock(stream string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.streams[stream]
	if !ok {
		l = &sync.Mutex{}
		s.streams[stream] = l
	}
	return l
}

func (s *Store) path(stream string) string {
	return filepath.Join(s.dir, stream)
}

// ReadAll returns every record currently in the stream. An unreadable
// or corrupt file is treated as "no data yet": a torn write from a
// concurrent producer self-heals on the next atomic replace, so the
// reader fails soft instead of propagating an error.
func (s *Store) ReadAll(stream string) []json.RawMessage {
	data, err := os.ReadFile(s.path(stream))
	if err != nil {
		return nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Debug("Stream file not parseable, treating as empty",
			zap.String("stream", stream),
			zap.Error(err),
		)
		return nil
	}

	return records
}

// ReadFrom returns the records at index offset and beyond, plus the
// current stream length. A shrunken stream (retention trim by the
// owning writer) yields an empty slice rather than an error.
func (s *Store) ReadFrom(stream string, offset int) ([]json.RawMessage, int) {
	records := s.ReadAll(stream)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil, len(records)
	}
	return records[offset:], len(records)
}

// Count returns the current number of records in the stream.
func (s *Store) Count(stream string) int {
	return len(s.ReadAll(stream))
}

// Append adds one record to the tail of the stream, trimming the oldest
// records once the retention cap is exceeded.
func (s *Store) Append(stream string, record interface{}) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	lock := s.streamLock(stream)
	lock.Lock()
	defer lock.Unlock()

	records := s.ReadAll(stream)
	records = append(records, raw)

	// FIFO retention: drop from the head.
	if len(records) > s.maxRecords {
		records = records[len(records)-s.maxRecords:]
	}

	return s.replace(stream, records)
}

// replace atomically rewrites the stream file.
func (s *Store) replace(stream string, records []json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stream %s: %w", stream, err)
	}

	tmp, err := os.CreateTemp(s.dir, stream+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", stream, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file for %s: %w", stream, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", stream, err)
	}

	if err := os.Rename(tmpName, s.path(stream)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace stream %s: %w", stream, err)
	}

	return nil
}
