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

// Package db dials the backing stores: the streaming timeseries store
// and the relational inventory database.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/timeplus-io/proton-go-driver/v2"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// NewTimeseriesConn dials the streaming store and verifies the
// connection before handing it out.
func NewTimeseriesConn(ctx context.Context, cfg *models.TimeseriesConfig) (proton.Conn, error) {
	conn, err := proton.Open(&proton.Options{
		Addr: []string{cfg.Addr},
		Auth: proton.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &proton.Compression{
			Method: proton.CompressionLZ4,
		},
		Settings: proton.Settings{
			"max_execution_time":    60,
			"max_insert_block_size": 100000,
		},
		DialTimeout:     5 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open timeseries connection: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping timeseries store: %w", err)
	}

	return conn, nil
}
