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

// Package metricstore buffers timeseries points and flushes them to
// the streaming store in batches.
package metricstore

//go:generate mockgen -destination=mock_metricstore.go -package=metricstore github.com/ffamee/kuwin-ap-backend-sub000/pkg/metricstore Writer

import (
	"context"
	"time"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// Writer accepts points into a pending batch. A failed flush keeps the
// batch for the next attempt and surfaces a single error to the
// caller; accepted points are never silently lost before Close.
type Writer interface {
	// WritePoint enqueues one point.
	WritePoint(ctx context.Context, point models.TimeseriesPoint) error

	// WritePoints enqueues one point per key with the key added as the
	// device_key tag. Values that cannot be typed are dropped.
	WritePoints(ctx context.Context, measurement string, tags map[string]string,
		byKey map[string]models.RawValue, at time.Time) error

	// Flush writes the pending batch out now.
	Flush(ctx context.Context) error

	// Close flushes and releases the connection.
	Close() error
}
