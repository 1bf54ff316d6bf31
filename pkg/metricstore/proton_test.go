package metricstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

type stubInserter struct {
	mu      sync.Mutex
	batches [][]models.TimeseriesPoint
	err     error
	closed  bool
}

func (s *stubInserter) insert(_ context.Context, points []models.TimeseriesPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	batch := make([]models.TimeseriesPoint, len(points))
	copy(batch, points)
	s.batches = append(s.batches, batch)

	return nil
}

func (s *stubInserter) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func (s *stubInserter) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.batches)
}

func point(measurement string, value interface{}) models.TimeseriesPoint {
	return models.TimeseriesPoint{
		Measurement: measurement,
		Tags:        map[string]string{"controller": "wlc-1"},
		Fields:      map[string]interface{}{"value": value},
		Timestamp:   time.Date(2025, 11, 4, 10, 30, 0, 0, time.UTC),
	}
}

func bufferCfg(maxSize int) models.WriteBufferConfig {
	return models.WriteBufferConfig{MaxSize: maxSize, FlushInterval: models.Duration(time.Hour)}
}

func TestWriterZeroConfigUsesDefaults(t *testing.T) {
	writer := newWriter(&stubInserter{}, models.WriteBufferConfig{}, logger.NewTestLogger())

	assert.Equal(t, defaultMaxBufferSize, writer.maxBufferSize)
	assert.Equal(t, defaultFlushInterval, writer.flushInterval)
}

func TestWriterFlushesWhenBufferFull(t *testing.T) {
	store := &stubInserter{}
	writer := newWriter(store, bufferCfg(3), logger.NewTestLogger())

	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(1))))
	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(2))))
	assert.Equal(t, 0, store.batchCount())

	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(3))))
	require.Equal(t, 1, store.batchCount())
	assert.Len(t, store.batches[0], 3)
}

func TestWriterExplicitFlush(t *testing.T) {
	store := &stubInserter{}
	writer := newWriter(store, bufferCfg(100), logger.NewTestLogger())

	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(1))))
	require.NoError(t, writer.Flush(context.Background()))

	require.Equal(t, 1, store.batchCount())
	assert.Len(t, store.batches[0], 1)

	// Nothing pending, flush is a no-op.
	require.NoError(t, writer.Flush(context.Background()))
	assert.Equal(t, 1, store.batchCount())
}

func TestWriterFailedFlushRestoresBuffer(t *testing.T) {
	store := &stubInserter{err: errors.New("stream unavailable")}
	writer := newWriter(store, bufferCfg(100), logger.NewTestLogger())

	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(1))))
	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(2))))

	err := writer.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 points")

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	require.NoError(t, writer.Flush(context.Background()))
	require.Equal(t, 1, store.batchCount())
	assert.Len(t, store.batches[0], 2)
}

func TestWriterTimerFlush(t *testing.T) {
	store := &stubInserter{}
	cfg := models.WriteBufferConfig{MaxSize: 100, FlushInterval: models.Duration(10 * time.Millisecond)}
	writer := newWriter(store, cfg, logger.NewTestLogger())

	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(1))))

	assert.Eventually(t, func() bool {
		return store.batchCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWritePointsTagsDeviceKeyAndDropsUntypeable(t *testing.T) {
	store := &stubInserter{}
	writer := newWriter(store, bufferCfg(100), logger.NewTestLogger())

	byKey := map[string]models.RawValue{
		"00:01:02:03:04:05": {Value: uint64(4096), Type: gosnmp.Counter64},
		"00:06:07:08:09:0a": {Value: nil, Type: gosnmp.Null},
	}

	at := time.Date(2025, 11, 4, 10, 30, 0, 0, time.UTC)
	tags := map[string]string{"controller": "wlc-1"}

	require.NoError(t, writer.WritePoints(context.Background(), "rx_bytes", tags, byKey, at))
	require.NoError(t, writer.Flush(context.Background()))

	require.Equal(t, 1, store.batchCount())
	require.Len(t, store.batches[0], 1)

	p := store.batches[0][0]
	assert.Equal(t, "rx_bytes", p.Measurement)
	assert.Equal(t, "00:01:02:03:04:05", p.Tags["device_key"])
	assert.Equal(t, "wlc-1", p.Tags["controller"])
	assert.Equal(t, uint64(4096), p.Fields["value"])
	assert.Equal(t, at, p.Timestamp)

	// Caller's tag map must not be mutated.
	_, leaked := tags["device_key"]
	assert.False(t, leaked)
}

func TestWriterCloseFlushesAndCloses(t *testing.T) {
	store := &stubInserter{}
	writer := newWriter(store, bufferCfg(100), logger.NewTestLogger())

	require.NoError(t, writer.WritePoint(context.Background(), point("clients", int64(1))))
	require.NoError(t, writer.Close())

	assert.Equal(t, 1, store.batchCount())
	assert.True(t, store.closed)
}

func TestFieldValueTyping(t *testing.T) {
	v, ok := FieldValue(models.RawValue{Value: 7, Type: gosnmp.Integer})
	require.True(t, ok)
	assert.Equal(t, int64(7), v)

	v, ok = FieldValue(models.RawValue{Value: uint(1234), Type: gosnmp.Counter32})
	require.True(t, ok)
	assert.Equal(t, uint64(1234), v)

	v, ok = FieldValue(models.RawValue{Value: uint64(1 << 40), Type: gosnmp.Counter64})
	require.True(t, ok)
	assert.Equal(t, uint64(1<<40), v)

	v, ok = FieldValue(models.RawValue{Value: []byte("lobby-ap"), Type: gosnmp.OctetString})
	require.True(t, ok)
	assert.Equal(t, "lobby-ap", v)

	v, ok = FieldValue(models.RawValue{Value: []byte{0xff, 0xfe}, Type: gosnmp.OctetString})
	require.True(t, ok)
	assert.Equal(t, "fffe", v)

	_, ok = FieldValue(models.RawValue{Value: -1, Type: gosnmp.Counter32})
	assert.False(t, ok)

	_, ok = FieldValue(models.RawValue{Value: nil, Type: gosnmp.Null})
	assert.False(t, ok)
}
