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

// Package registry is the access-point inventory: identity rows for
// IPs and locations, per-device configuration state and the
// append-only lifecycle transition history.
package registry

//go:generate mockgen -destination=mock_registry.go -package=registry github.com/ffamee/kuwin-ap-backend-sub000/pkg/registry Inventory

import (
	"context"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// Inventory is the configuration store the reconciliation sink writes
// through. Lookups by MAC return (nil, nil) for unseen devices.
type Inventory interface {
	// ResolveOrCreateIP returns the identity row id for an address,
	// creating it on first sight.
	ResolveOrCreateIP(ctx context.Context, address string) (int64, error)

	// ResolveOrCreateLocation returns the identity row id for a
	// location name, creating it on first sight. buildingID is
	// optional; when present it is attached to the location row.
	ResolveOrCreateLocation(ctx context.Context, name string, buildingID *int64) (int64, error)

	// FindDeviceByRadioMAC returns the configuration row for the
	// device owning the given radio MAC, or nil when unseen.
	FindDeviceByRadioMAC(ctx context.Context, mac string) (*models.ConfigurationState, error)

	// ConfigurationExists reports whether a configuration row exists
	// for the MAC.
	ConfigurationExists(ctx context.Context, mac string) (bool, error)

	// UpsertConfigurationSnapshot persists the row and returns its
	// device id.
	UpsertConfigurationSnapshot(ctx context.Context, state *models.ConfigurationState) (int64, error)

	// AppendTransition records one lifecycle state change. History is
	// append-only.
	AppendTransition(ctx context.Context, record *models.TransitionRecord) error

	Close()
}
