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

package models

import "time"

// LifecycleState describes configuration-record health, as opposed to
// StatusCode which describes live radio health.
type LifecycleState string

const (
	LifecyclePending     LifecycleState = "pending"
	LifecycleActive      LifecycleState = "active"
	LifecycleMismatch    LifecycleState = "mismatch"
	LifecycleMaintenance LifecycleState = "maintenance"
)

// ConfigurationState is the persistent configuration row for one access
// point. It is written only through the reconciliation sink.
//
// Invariants: MismatchReason is non-nil iff LifecycleState is
// LifecycleMismatch; Maintenance is non-nil iff LifecycleState is
// LifecycleMaintenance.
type ConfigurationState struct {
	DeviceID       int64          `json:"device_id"`
	MAC            string         `json:"mac"`
	Controller     string         `json:"controller"`
	LifecycleState LifecycleState `json:"lifecycle_state"`
	Status         StatusCode     `json:"status"`
	Clients24      int64          `json:"clients_24"`
	Clients5       int64          `json:"clients_5"`
	Clients6       int64          `json:"clients_6"`
	MismatchReason *string        `json:"mismatch_reason,omitempty"`
	Maintenance    *string        `json:"maintenance,omitempty"`
	IPID           *int64         `json:"ip_id,omitempty"`
	LocationID     *int64         `json:"location_id,omitempty"`
	LastSeenAt     time.Time      `json:"last_seen_at"`
}

// TransitionRecord is one append-only lifecycle history entry. Records
// are emitted on every state change and never mutated.
type TransitionRecord struct {
	DeviceID  int64          `json:"device_id"`
	MAC       string         `json:"mac"`
	FromState LifecycleState `json:"from_state"`
	ToState   LifecycleState `json:"to_state"`
	Reason    string         `json:"reason,omitempty"`
	At        time.Time      `json:"at"`
}

// IdentityRefs are the inventory rows a reconciled snapshot was
// anchored to.
type IdentityRefs struct {
	DeviceID   int64  `json:"device_id"`
	IPID       *int64 `json:"ip_id,omitempty"`
	LocationID *int64 `json:"location_id,omitempty"`
}
