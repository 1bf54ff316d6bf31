/*
 * Copyright 2025 The KUWIN AP Backend Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metricstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/timeplus-io/proton-go-driver/v2"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const (
	defaultMaxBufferSize = 500
	defaultFlushInterval = 30 * time.Second

	insertPointSQL = `
INSERT INTO ap_metrics (
	timestamp,
	measurement,
	tags,
	field_name,
	value_type,
	value_int,
	value_uint,
	value_bool,
	value_str
)`
)

// inserter is the storage seam under the buffer.
type inserter interface {
	insert(ctx context.Context, points []models.TimeseriesPoint) error
	close() error
}

// ProtonWriter is the buffered Writer. Points accumulate in a pending
// batch flushed when the batch reaches its size limit, when the flush
// timer fires, or explicitly. A failed flush restores the batch so the
// points ride along with the next attempt.
type ProtonWriter struct {
	store         inserter
	maxBufferSize int
	flushInterval time.Duration
	logger        logger.Logger

	mu         sync.Mutex
	buffer     []models.TimeseriesPoint
	flushTimer *time.Timer
}

func NewProtonWriter(conn proton.Conn, cfg models.WriteBufferConfig, log logger.Logger) *ProtonWriter {
	return newWriter(&protonInserter{conn: conn}, cfg, log)
}

func newWriter(store inserter, cfg models.WriteBufferConfig, log logger.Logger) *ProtonWriter {
	maxBufferSize := cfg.MaxSize
	if maxBufferSize <= 0 {
		maxBufferSize = defaultMaxBufferSize
	}

	flushInterval := time.Duration(cfg.FlushInterval)
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	return &ProtonWriter{
		store:         store,
		maxBufferSize: maxBufferSize,
		flushInterval: flushInterval,
		logger:        log,
		buffer:        make([]models.TimeseriesPoint, 0, maxBufferSize*2),
	}
}

func (w *ProtonWriter) WritePoint(ctx context.Context, point models.TimeseriesPoint) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer = append(w.buffer, point)

	if len(w.buffer) >= w.maxBufferSize {
		return w.flushLocked(ctx)
	}

	w.armTimerLocked()

	return nil
}

func (w *ProtonWriter) WritePoints(
	ctx context.Context, measurement string, tags map[string]string,
	byKey map[string]models.RawValue, at time.Time,
) error {
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, key := range keys {
		value, ok := FieldValue(byKey[key])
		if !ok {
			w.logger.Debug().
				Str("measurement", measurement).
				Str("device_key", key).
				Msg("Dropping point with untypeable value")

			continue
		}

		pointTags := make(map[string]string, len(tags)+1)
		for k, v := range tags {
			pointTags[k] = v
		}
		pointTags["device_key"] = key

		w.buffer = append(w.buffer, models.TimeseriesPoint{
			Measurement: measurement,
			Tags:        pointTags,
			Fields:      map[string]interface{}{"value": value},
			Timestamp:   at,
		})
	}

	if len(w.buffer) >= w.maxBufferSize {
		return w.flushLocked(ctx)
	}

	w.armTimerLocked()

	return nil
}

func (w *ProtonWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.flushLocked(ctx)
}

func (w *ProtonWriter) Close() error {
	w.mu.Lock()

	if w.flushTimer != nil {
		w.flushTimer.Stop()
		w.flushTimer = nil
	}

	err := w.flushLocked(context.Background())
	w.mu.Unlock()

	if closeErr := w.store.close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}

// flushLocked writes the pending batch out. Caller holds w.mu. On
// failure the batch is restored ahead of any points that arrived in
// the meantime.
func (w *ProtonWriter) flushLocked(ctx context.Context) error {
	if len(w.buffer) == 0 {
		return nil
	}

	toFlush := make([]models.TimeseriesPoint, len(w.buffer))
	copy(toFlush, w.buffer)
	w.buffer = w.buffer[:0]

	if w.flushTimer != nil {
		w.flushTimer.Stop()
		w.flushTimer = nil
	}

	if err := w.store.insert(ctx, toFlush); err != nil {
		w.buffer = append(toFlush, w.buffer...)

		return fmt.Errorf("failed to flush %d points: %w", len(toFlush), err)
	}

	w.logger.Debug().Int("points", len(toFlush)).Msg("Flushed timeseries batch")

	return nil
}

// armTimerLocked restarts the flush timer so a quiet period never
// strands a partial batch. Caller holds w.mu.
func (w *ProtonWriter) armTimerLocked() {
	if w.flushTimer != nil {
		w.flushTimer.Stop()
	}

	w.flushTimer = time.AfterFunc(w.flushInterval, func() {
		if err := w.Flush(context.Background()); err != nil {
			w.logger.Error().Err(err).Msg("Timer flush failed")
		}
	})
}

// protonInserter appends points to the streaming store, one row per
// field, with the field typed into its own column.
type protonInserter struct {
	conn proton.Conn
}

func (p *protonInserter) insert(ctx context.Context, points []models.TimeseriesPoint) error {
	batch, err := p.conn.PrepareBatch(ctx, insertPointSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for i := range points {
		point := &points[i]

		tags, err := json.Marshal(point.Tags)
		if err != nil {
			return fmt.Errorf("failed to marshal tags: %w", err)
		}

		names := make([]string, 0, len(point.Fields))
		for name := range point.Fields {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			valueType, valueInt, valueUint, valueBool, valueStr := fieldColumns(point.Fields[name])
			if valueType == "" {
				continue
			}

			if err := batch.Append(
				point.Timestamp,
				point.Measurement,
				string(tags),
				name,
				valueType,
				valueInt,
				valueUint,
				valueBool,
				valueStr,
			); err != nil {
				return fmt.Errorf("failed to append point: %w", err)
			}
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

func (p *protonInserter) close() error {
	return p.conn.Close()
}

func fieldColumns(value interface{}) (valueType string, i int64, u uint64, b bool, s string) {
	switch v := value.(type) {
	case int64:
		return "int", v, 0, false, ""
	case uint64:
		return "uint", 0, v, false, ""
	case bool:
		return "bool", 0, 0, v, ""
	case string:
		return "str", 0, 0, false, v
	default:
		return "", 0, 0, false, ""
	}
}
