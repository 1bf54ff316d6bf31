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

// Package reconciler anchors aggregated snapshots to inventory
// identities and advances the per-device configuration lifecycle.
package reconciler

import (
	"context"
	"fmt"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/registry"
)

// Sink reconciles one snapshot at a time. Identity failures drop the
// device for the cycle with nothing committed; the device is retried
// on its next snapshot.
type Sink struct {
	inventory registry.Inventory
	logger    logger.Logger
}

func NewSink(inventory registry.Inventory, log logger.Logger) *Sink {
	return &Sink{inventory: inventory, logger: log}
}

// Reconcile resolves identities for the snapshot, computes the next
// lifecycle state from the prior configuration row, persists the row
// and appends a transition record when the state changed.
func (s *Sink) Reconcile(ctx context.Context, snapshot *models.AggregatedSnapshot) (*models.IdentityRefs, error) {
	var ipID *int64

	if snapshot.IP != "" {
		id, err := s.inventory.ResolveOrCreateIP(ctx, snapshot.IP)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ip identity for %s: %w", snapshot.MAC, err)
		}

		ipID = &id
	}

	locationID, err := s.inventory.ResolveOrCreateLocation(ctx, snapshot.Controller, snapshot.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location identity for %s: %w", snapshot.MAC, err)
	}

	prior, err := s.inventory.FindDeviceByRadioMAC(ctx, snapshot.MAC)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior configuration for %s: %w", snapshot.MAC, err)
	}

	next := nextState(prior, snapshot, ipID)

	// A mismatched row keeps its stored address anchor until an
	// operator resolves the conflict; the observed address travels
	// only in the mismatch reason.
	if next.state == models.LifecycleMismatch {
		ipID = prior.IPID
	}

	state := &models.ConfigurationState{
		MAC:            snapshot.MAC,
		Controller:     snapshot.Controller,
		LifecycleState: next.state,
		Status:         snapshot.Status,
		Clients24:      snapshot.Clients24,
		Clients5:       snapshot.Clients5,
		Clients6:       snapshot.Clients6,
		MismatchReason: next.mismatchReason,
		Maintenance:    next.maintenance,
		IPID:           ipID,
		LocationID:     &locationID,
		LastSeenAt:     snapshot.PolledAt,
	}

	deviceID, err := s.inventory.UpsertConfigurationSnapshot(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to persist configuration for %s: %w", snapshot.MAC, err)
	}

	if prior == nil || prior.LifecycleState != next.state {
		record := &models.TransitionRecord{
			DeviceID: deviceID,
			MAC:      snapshot.MAC,
			ToState:  next.state,
			Reason:   next.reason,
			At:       snapshot.PolledAt,
		}
		if prior != nil {
			record.FromState = prior.LifecycleState
		}

		// History is best effort once the row itself is committed.
		if err := s.inventory.AppendTransition(ctx, record); err != nil {
			s.logger.Warn().
				Err(err).
				Str("mac", snapshot.MAC).
				Str("to_state", string(next.state)).
				Msg("Failed to append lifecycle transition")
		}
	}

	return &models.IdentityRefs{DeviceID: deviceID, IPID: ipID, LocationID: &locationID}, nil
}

type stateDecision struct {
	state          models.LifecycleState
	mismatchReason *string
	maintenance    *string
	reason         string
}

// nextState applies the lifecycle rules in precedence order: sticky
// maintenance, then first sight, then address mismatch, then active.
// The mismatch reason travels only with the mismatch state and the
// maintenance annotation only with the maintenance state.
func nextState(prior *models.ConfigurationState, snapshot *models.AggregatedSnapshot, ipID *int64) stateDecision {
	if prior != nil && prior.Maintenance != nil {
		return stateDecision{
			state:       models.LifecycleMaintenance,
			maintenance: prior.Maintenance,
			reason:      *prior.Maintenance,
		}
	}

	if prior == nil {
		return stateDecision{state: models.LifecyclePending, reason: "first sight"}
	}

	if prior.IPID != nil && ipID != nil && *prior.IPID != *ipID {
		reason := snapshot.IP

		return stateDecision{
			state:          models.LifecycleMismatch,
			mismatchReason: &reason,
			reason:         "observed address " + snapshot.IP,
		}
	}

	return stateDecision{state: models.LifecycleActive}
}
