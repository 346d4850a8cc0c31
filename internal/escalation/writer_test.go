package escalation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/classifier"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/models"
	"github.com/Nehaa-Prasad/multi-agent-healthcare-system/internal/store"
)

const testStream = "escalation.json"

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestStoreAndWriter(t *testing.T, opts ...Option) (*store.Store, *Writer) {
	t.Helper()
	st, err := store.New(t.TempDir(), 100, zap.NewNop())
	require.NoError(t, err)
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return st, NewWriter(st, testStream, zap.NewNop(), opts...)
}

func readEscalations(t *testing.T, st *store.Store) []models.EscalationRecord {
	t.Helper()
	var out []models.EscalationRecord
	for _, raw := range st.ReadAll(testStream) {
		var rec models.EscalationRecord
		require.NoError(t, json.Unmarshal(raw, &rec))
		out = append(out, rec)
	}
	return out
}

type fakeLister struct {
	due []models.ReminderRecord
	err error
}

func (f *fakeLister) ListDue(ctx context.Context, at time.Time) ([]models.ReminderRecord, error) {
	return f.due, f.err
}

type fakePublisher struct {
	published []models.EscalationRecord
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, record models.EscalationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, record)
	return nil
}

func TestWrite_AlertOnlySuppressesNormal(t *testing.T) {
	st, writer := newTestStoreAndWriter(t)

	record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
		classifier.Result{Severity: models.SeverityNormal}, nil)

	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Zero(t, st.Count(testStream))
}

func TestWrite_EmitNormalWritesHeartbeats(t *testing.T) {
	st, writer := newTestStoreAndWriter(t, WithEmitNormal(true))

	record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
		classifier.Result{Severity: models.SeverityNormal}, nil)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, models.SeverityNormal, record.Severity)
	assert.Equal(t, 1, st.Count(testStream))
}

func TestWrite_RecordShape(t *testing.T) {
	st, writer := newTestStoreAndWriter(t)
	data := json.RawMessage(`{"bpm": 230}`)

	record, err := writer.Write(context.Background(), models.SourceFallDetection, "esp32_01",
		classifier.Result{Severity: models.SeverityCritical, Reason: "extreme heart rate"}, data)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.NotEmpty(t, record.EventID)
	assert.Equal(t, models.NowISO(testNow), record.Timestamp)
	assert.Equal(t, models.SourceFallDetection, record.Source)
	assert.Equal(t, models.SeverityCritical, record.Severity)
	assert.Equal(t, "esp32_01", record.DeviceID)
	assert.Contains(t, record.Message, "extreme heart rate")
	assert.JSONEq(t, string(data), string(record.Data))

	stored := readEscalations(t, st)
	require.Len(t, stored, 1)
	assert.Equal(t, record.EventID, stored[0].EventID)
}

func TestWrite_UniqueEventIDs(t *testing.T) {
	_, writer := newTestStoreAndWriter(t)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
			classifier.Result{Severity: models.SeverityWarning, Reason: "low oxygen"}, nil)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.False(t, seen[record.EventID])
		seen[record.EventID] = true
	}
}

func TestWrite_RequiresSource(t *testing.T) {
	_, writer := newTestStoreAndWriter(t)

	_, err := writer.Write(context.Background(), "", "esp32_01",
		classifier.Result{Severity: models.SeverityCritical}, nil)

	assert.Error(t, err)
}

func TestWrite_FallSeverityInMessage(t *testing.T) {
	_, writer := newTestStoreAndWriter(t)

	record, err := writer.Write(context.Background(), models.SourceFallDetection, "esp32_01",
		classifier.Result{
			Severity:     models.SeverityCritical,
			FallSeverity: models.FallSeverityHigh,
			Reason:       "impact detected",
		}, nil)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Contains(t, record.Message, "impact detected")
	assert.Contains(t, record.Message, "fall severity HIGH")
}

func TestWrite_FoldsDueReminders(t *testing.T) {
	lister := &fakeLister{due: []models.ReminderRecord{
		{ID: 1, Title: "Take medication", Description: "blood pressure pills"},
	}}
	_, writer := newTestStoreAndWriter(t, WithReminders(lister))

	record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
		classifier.Result{Severity: models.SeverityWarning, Reason: "low oxygen"}, nil)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Contains(t, record.Message, "due reminder: Take medication (blood pressure pills)")
}

func TestWrite_ReminderErrorDoesNotBlock(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	st, writer := newTestStoreAndWriter(t, WithReminders(lister))

	record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
		classifier.Result{Severity: models.SeverityWarning, Reason: "low oxygen"}, nil)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, st.Count(testStream))
}

func TestWrite_FansOutToPublishers(t *testing.T) {
	pub := &fakePublisher{}
	_, writer := newTestStoreAndWriter(t, WithPublisher(pub))

	record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
		classifier.Result{Severity: models.SeverityCritical, Reason: "extreme heart rate"}, nil)

	require.NoError(t, err)
	require.Len(t, pub.published, 1)
	assert.Equal(t, record.EventID, pub.published[0].EventID)
}

func TestWrite_PublisherFailureIsNotFatal(t *testing.T) {
	failing := &fakePublisher{err: errors.New("broker unreachable")}
	working := &fakePublisher{}
	st, writer := newTestStoreAndWriter(t, WithPublisher(failing), WithPublisher(working))

	record, err := writer.Write(context.Background(), models.SourceVitals, "esp32_01",
		classifier.Result{Severity: models.SeverityCritical, Reason: "extreme heart rate"}, nil)

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, st.Count(testStream))
	assert.Len(t, working.published, 1)
}

func TestWrite_EmptyDataDefaultsToEmptyObject(t *testing.T) {
	_, writer := newTestStoreAndWriter(t)

	record, err := writer.Write(context.Background(), models.SourceEmotion, "esp32_01",
		classifier.Result{Severity: models.SeverityWarning, Reason: "negative mood"}, nil)

	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(record.Data))
}
