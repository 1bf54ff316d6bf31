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

package db

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const defaultPostgresPort = 5432

// NewInventoryPool dials the inventory database and returns a pgx
// pool.
func NewInventoryPool(ctx context.Context, cfg *models.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(inventoryConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse inventory connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping inventory database: %w", err)
	}

	return pool, nil
}

func inventoryConnString(cfg *models.PostgresConfig) string {
	pg := *cfg
	if pg.Port == 0 {
		pg.Port = defaultPostgresPort
	}

	connURL := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", pg.Host, pg.Port),
		Path:   "/" + pg.Database,
	}

	if pg.Username != "" {
		if pg.Password != "" {
			connURL.User = url.UserPassword(pg.Username, pg.Password)
		} else {
			connURL.User = url.User(pg.Username)
		}
	}

	query := connURL.Query()

	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query.Set("sslmode", sslMode)

	if pg.ApplicationName != "" {
		query.Set("application_name", pg.ApplicationName)
	}

	for k, v := range pg.ExtraParams {
		if k == "" {
			continue
		}

		query.Set(k, v)
	}

	connURL.RawQuery = query.Encode()

	return connURL.String()
}
