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

package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const (
	resolveIPSQL = `
INSERT INTO ip_addresses (address)
VALUES ($1)
ON CONFLICT (address) DO UPDATE SET address = EXCLUDED.address
RETURNING id`

	resolveLocationSQL = `
INSERT INTO locations (name, building_id)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET
	building_id = COALESCE(EXCLUDED.building_id, locations.building_id)
RETURNING id`

	selectConfigurationSQL = `
SELECT
	id,
	mac,
	controller,
	lifecycle_state,
	status,
	clients_24,
	clients_5,
	clients_6,
	mismatch_reason,
	maintenance,
	ip_id,
	location_id,
	last_seen_at
FROM ap_configurations
WHERE mac = $1`

	configurationExistsSQL = `
SELECT EXISTS (SELECT 1 FROM ap_configurations WHERE mac = $1)`

	upsertConfigurationSQL = `
INSERT INTO ap_configurations (
	mac,
	controller,
	lifecycle_state,
	status,
	clients_24,
	clients_5,
	clients_6,
	mismatch_reason,
	maintenance,
	ip_id,
	location_id,
	last_seen_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)
ON CONFLICT (mac) DO UPDATE SET
	controller = EXCLUDED.controller,
	lifecycle_state = EXCLUDED.lifecycle_state,
	status = EXCLUDED.status,
	clients_24 = EXCLUDED.clients_24,
	clients_5 = EXCLUDED.clients_5,
	clients_6 = EXCLUDED.clients_6,
	mismatch_reason = EXCLUDED.mismatch_reason,
	maintenance = EXCLUDED.maintenance,
	ip_id = EXCLUDED.ip_id,
	location_id = EXCLUDED.location_id,
	last_seen_at = EXCLUDED.last_seen_at
RETURNING id`

	appendTransitionSQL = `
INSERT INTO ap_transitions (
	device_id,
	mac,
	from_state,
	to_state,
	reason,
	at
) VALUES ($1,$2,$3,$4,$5,$6)`
)

// PostgresInventory is the pgx-backed Inventory.
type PostgresInventory struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresInventory(pool *pgxpool.Pool, log logger.Logger) *PostgresInventory {
	return &PostgresInventory{pool: pool, logger: log}
}

func (p *PostgresInventory) ResolveOrCreateIP(ctx context.Context, address string) (int64, error) {
	var id int64

	if err := p.pool.QueryRow(ctx, resolveIPSQL, address).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to resolve ip %s: %w", address, err)
	}

	return id, nil
}

func (p *PostgresInventory) ResolveOrCreateLocation(ctx context.Context, name string, buildingID *int64) (int64, error) {
	var id int64

	if err := p.pool.QueryRow(ctx, resolveLocationSQL, name, buildingID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to resolve location %s: %w", name, err)
	}

	return id, nil
}

func (p *PostgresInventory) ConfigurationExists(ctx context.Context, mac string) (bool, error) {
	var exists bool

	if err := p.pool.QueryRow(ctx, configurationExistsSQL, mac).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check configuration for %s: %w", mac, err)
	}

	return exists, nil
}

// FindDeviceByRadioMAC looks a device up by any of its radio MACs.
// A missing row is not an error: (nil, nil) means first sight.
func (p *PostgresInventory) FindDeviceByRadioMAC(ctx context.Context, mac string) (*models.ConfigurationState, error) {
	var state models.ConfigurationState

	err := p.pool.QueryRow(ctx, selectConfigurationSQL, mac).Scan(
		&state.DeviceID,
		&state.MAC,
		&state.Controller,
		&state.LifecycleState,
		&state.Status,
		&state.Clients24,
		&state.Clients5,
		&state.Clients6,
		&state.MismatchReason,
		&state.Maintenance,
		&state.IPID,
		&state.LocationID,
		&state.LastSeenAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load configuration for %s: %w", mac, err)
	}

	return &state, nil
}

func (p *PostgresInventory) UpsertConfigurationSnapshot(ctx context.Context, state *models.ConfigurationState) (int64, error) {
	var id int64

	err := p.pool.QueryRow(ctx, upsertConfigurationSQL,
		state.MAC,
		state.Controller,
		state.LifecycleState,
		state.Status,
		state.Clients24,
		state.Clients5,
		state.Clients6,
		state.MismatchReason,
		state.Maintenance,
		state.IPID,
		state.LocationID,
		state.LastSeenAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert configuration for %s: %w", state.MAC, err)
	}

	return id, nil
}

func (p *PostgresInventory) AppendTransition(ctx context.Context, record *models.TransitionRecord) error {
	batch := &pgx.Batch{}
	batch.Queue(appendTransitionSQL,
		record.DeviceID,
		record.MAC,
		record.FromState,
		record.ToState,
		record.Reason,
		record.At,
	)

	results := p.pool.SendBatch(ctx, batch)
	defer func() {
		if err := results.Close(); err != nil {
			p.logger.Warn().Err(err).Str("mac", record.MAC).Msg("Failed to close transition batch")
		}
	}()

	if _, err := results.Exec(); err != nil {
		return fmt.Errorf("failed to append transition for %s: %w", record.MAC, err)
	}

	return nil
}

func (p *PostgresInventory) Close() {
	p.pool.Close()
}
