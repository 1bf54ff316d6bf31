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

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// EnvConfigLoader loads configuration from the environment: the whole
// document from <prefix>CONFIG_JSON, then secret overrides from
// individual variables so credentials never have to live in the file.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{logger: log, prefix: prefix}
}

func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	raw := os.Getenv(e.prefix + "CONFIG_JSON")
	if raw == "" {
		return fmt.Errorf("environment variable %sCONFIG_JSON is not set", e.prefix)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
	}

	if cfg, ok := dst.(*models.CoreServiceConfig); ok {
		e.applySecretOverrides(cfg)
	}

	return nil
}

func (e *EnvConfigLoader) applySecretOverrides(cfg *models.CoreServiceConfig) {
	if v := os.Getenv(e.prefix + "NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}

	if v := os.Getenv(e.prefix + "DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv(e.prefix + "TIMESERIES_PASSWORD"); v != "" {
		cfg.Timeseries.Password = v
	}

	if v := os.Getenv(e.prefix + "SNMP_COMMUNITY"); v != "" {
		for i := range cfg.Controllers {
			cfg.Controllers[i].Community = v
		}
	}
}
