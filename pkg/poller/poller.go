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

// Package poller orchestrates poll cycles: per controller it fans a
// parent job out to per-metric walk children, merges what came back
// and drives the aggregate/reconcile/write pipeline.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/aggregator"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/jobs"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/metricstore"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/oidcat"
)

const defaultPollInterval = 60 * time.Second

// Reconciler is the sink the orchestrator hands each snapshot to.
type Reconciler interface {
	Reconcile(ctx context.Context, snapshot *models.AggregatedSnapshot) (*models.IdentityRefs, error)
}

// Orchestrator runs poll cycles across the configured controllers.
// Controllers poll concurrently and independently; one controller's
// bad cycle never blocks another's.
type Orchestrator struct {
	catalog     *oidcat.Catalog
	broker      jobs.Broker
	aggregator  *aggregator.Aggregator
	sink        Reconciler
	writer      metricstore.Writer
	controllers []models.Controller
	interval    time.Duration
	logger      logger.Logger
}

func New(
	catalog *oidcat.Catalog,
	broker jobs.Broker,
	agg *aggregator.Aggregator,
	sink Reconciler,
	writer metricstore.Writer,
	controllers []models.Controller,
	interval time.Duration,
	log logger.Logger,
) *Orchestrator {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Orchestrator{
		catalog:     catalog,
		broker:      broker,
		aggregator:  agg,
		sink:        sink,
		writer:      writer,
		controllers: controllers,
		interval:    interval,
		logger:      log,
	}
}

// Run polls immediately, then on every interval tick, until ctx is
// canceled.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.RunCycle(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.RunCycle(ctx)
		}
	}
}

// RunCycle polls every controller once, concurrently, and returns when
// all their cycles have settled.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	var wg sync.WaitGroup

	for _, controller := range o.controllers {
		wg.Add(1)

		go func(controller models.Controller) {
			defer wg.Done()

			if _, err := o.PollController(ctx, controller); err != nil {
				o.logger.Error().
					Err(err).
					Str("controller", controller.Name).
					Msg("Poll cycle failed")
			}
		}(controller)
	}

	wg.Wait()
}

// PollController runs one full cycle for one controller and returns
// the settled cycle state. Child walk failures degrade the cycle to
// partially failed; only broker or flush errors fail it outright.
func (o *Orchestrator) PollController(ctx context.Context, controller models.Controller) (models.CycleState, error) {
	cycleID := uuid.NewString()
	polledAt := time.Now().UTC()
	state := models.CycleScheduled

	log := o.logger.With().
		Str("controller", controller.Name).
		Str("cycle_id", cycleID).
		Logger()

	log.Debug().Str("state", string(state)).Msg("Cycle scheduled")

	state = models.CycleRunning

	metricFlow, err := o.broker.SubmitFlow(ctx, o.buildFlow(cycleID, controller, o.catalog.Walked(controller.Vendor)))
	if err != nil {
		return state, fmt.Errorf("failed to submit metric flow: %w", err)
	}

	var ssidFlow *jobs.FlowHandle

	if descs := o.catalog.SSIDCounters(controller.Vendor); len(descs) > 0 {
		ssidFlow, err = o.broker.SubmitFlow(ctx, o.buildFlow(cycleID, controller, descs))
		if err != nil {
			return state, fmt.Errorf("failed to submit ssid flow: %w", err)
		}
	}

	metricResult, err := o.broker.AwaitCompletion(ctx, metricFlow)
	if err != nil {
		return state, fmt.Errorf("failed awaiting metric flow: %w", err)
	}

	merged := mergeChildren(metricResult.Children)
	state = metricResult.State

	var ssidCounts map[string]models.RawValue

	if ssidFlow != nil {
		ssidResult, err := o.broker.AwaitCompletion(ctx, ssidFlow)
		if err != nil {
			return state, fmt.Errorf("failed awaiting ssid flow: %w", err)
		}

		if ssidResult.State == models.CyclePartiallyFailed {
			state = models.CyclePartiallyFailed
		}

		ssidCounts = ssidScalars(mergeChildren(ssidResult.Children))
	}

	snapshots := o.aggregator.Aggregate(controller, cycleID, merged, polledAt)

	written := 0

	for i := range snapshots {
		snapshot := &snapshots[i]

		if _, err := o.sink.Reconcile(ctx, snapshot); err != nil {
			log.Warn().Err(err).Str("mac", snapshot.MAC).Msg("Dropping device for this cycle")
			continue
		}

		if err := o.writeSnapshot(ctx, snapshot); err != nil {
			return state, err
		}

		written++
	}

	if len(ssidCounts) > 0 {
		tags := map[string]string{"controller": controller.Name}

		if err := o.writer.WritePoints(ctx, "ssid_clients", tags, ssidCounts, polledAt); err != nil {
			return state, fmt.Errorf("failed to write ssid counters: %w", err)
		}
	}

	if err := o.writer.Flush(ctx); err != nil {
		return state, fmt.Errorf("cycle flush failed: %w", err)
	}

	log.Info().
		Str("state", string(state)).
		Int("devices", written).
		Int("ssids", len(ssidCounts)).
		Msg("Cycle settled")

	return state, nil
}

func (o *Orchestrator) buildFlow(cycleID string, controller models.Controller, descs []models.OIDDescriptor) models.PollJobSpec {
	flowID := uuid.NewString()
	children := make([]models.WalkJobSpec, 0, len(descs))

	for _, desc := range descs {
		children = append(children, models.WalkJobSpec{
			ID:         uuid.NewString(),
			FlowID:     flowID,
			Controller: controller,
			OID:        desc,
		})
	}

	return models.PollJobSpec{
		FlowID:     flowID,
		CycleID:    cycleID,
		Controller: controller,
		Children:   children,
	}
}

func (o *Orchestrator) writeSnapshot(ctx context.Context, snapshot *models.AggregatedSnapshot) error {
	fields := map[string]interface{}{
		"clients_24":    snapshot.Clients24,
		"clients_5":     snapshot.Clients5,
		"clients_6":     snapshot.Clients6,
		"clients_total": snapshot.TotalClients(),
	}

	if v, ok := metricstore.FieldValue(snapshot.TxBytes); ok {
		fields["tx_bytes"] = v
	}

	if v, ok := metricstore.FieldValue(snapshot.RxBytes); ok {
		fields["rx_bytes"] = v
	}

	point := models.TimeseriesPoint{
		Measurement: "ap_status",
		Tags: map[string]string{
			"controller": snapshot.Controller,
			"mac":        snapshot.MAC,
			"status":     string(snapshot.Status),
		},
		Fields:    fields,
		Timestamp: snapshot.PolledAt,
	}

	if err := o.writer.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write snapshot for %s: %w", snapshot.MAC, err)
	}

	return nil
}

// mergeChildren folds the surviving children's partial metrics into
// one consolidated map. Failed children contribute nothing; the merge
// is a union of device keys with per-slot maps deep-merged.
func mergeChildren(children []jobs.ChildResult) models.PartialDeviceMetrics {
	merged := make(models.PartialDeviceMetrics)

	for i := range children {
		if children[i].Failed {
			continue
		}

		merged.Merge(children[i].Metrics)
	}

	return merged
}

// ssidScalars flattens a name-keyed walk result into per-SSID scalar
// counters.
func ssidScalars(metrics models.PartialDeviceMetrics) map[string]models.RawValue {
	out := make(map[string]models.RawValue, len(metrics))

	for name, device := range metrics {
		value, ok := device[models.AliasSSIDClients]
		if !ok || value.Scalar == nil {
			continue
		}

		out[name] = *value.Scalar
	}

	return out
}
