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

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
)

var errInvalidDuration = errors.New("invalid duration")

// Duration is a time.Duration that unmarshals from either a duration
// string ("30s") or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// CoreServiceConfig is the top-level configuration for the telemetry core.
type CoreServiceConfig struct {
	PollInterval Duration         `json:"poll_interval"`
	Controllers  []Controller     `json:"controllers"`
	Catalog      []OIDDescriptor  `json:"catalog,omitempty"`
	NATS         NATSConfig       `json:"nats"`
	Database     PostgresConfig   `json:"database"`
	Timeseries   TimeseriesConfig `json:"timeseries"`
	Poller       PollerConfig     `json:"poller"`
	Logging      *logger.Config   `json:"logging,omitempty"`
}

// Validate rejects configurations that cannot poll anything.
func (c *CoreServiceConfig) Validate() error {
	if len(c.Controllers) == 0 {
		return errors.New("at least one controller is required")
	}

	for i := range c.Controllers {
		controller := &c.Controllers[i]

		if controller.Host == "" {
			return fmt.Errorf("controller %q has no host", controller.Name)
		}

		if controller.Community == "" {
			return fmt.Errorf("controller %q has no community string", controller.Name)
		}

		switch controller.Vendor {
		case VendorCisco, VendorAruba:
		default:
			return fmt.Errorf("controller %q has unknown vendor %q", controller.Name, controller.Vendor)
		}
	}

	if c.Timeseries.Addr == "" {
		return errors.New("timeseries addr is required")
	}

	if c.Database.Host == "" {
		return errors.New("database host is required")
	}

	return nil
}

// PollerConfig tunes walk execution and the broker retry policy.
type PollerConfig struct {
	Workers        int      `json:"workers"`         // bounded walk concurrency, default 4
	MaxRepetitions uint32   `json:"max_repetitions"` // GETBULK batch size, default 20
	Attempts       int      `json:"attempts"`        // per child walk, default 3
	BackoffBase    Duration `json:"backoff_base"`    // default 1s, doubled per retry
	ChildTimeout   Duration `json:"child_timeout"`   // per walk hard ceiling, default 30s
}

// NATSConfig holds the JetStream broker connection settings.
type NATSConfig struct {
	URL          string          `json:"url"`
	WorkStream   string          `json:"work_stream"`
	ResultStream string          `json:"result_stream"`
	AckWait      Duration        `json:"ack_wait"`
	Security     *SecurityConfig `json:"security,omitempty"`
}

// SecurityConfig describes mTLS credentials for the broker connection.
// Mode must be "mtls"; anything else disables TLS entirely.
type SecurityConfig struct {
	Mode       string    `json:"mode"`
	CertDir    string    `json:"cert_dir"`
	ServerName string    `json:"server_name,omitempty"`
	TLS        TLSConfig `json:"tls"`
}

// TLSConfig names the certificate files, relative to CertDir unless
// absolute.
type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file"`
}

// PostgresConfig holds the inventory database connection settings.
type PostgresConfig struct {
	Host            string            `json:"host"`
	Port            int               `json:"port"`
	Database        string            `json:"database"`
	Username        string            `json:"username"`
	Password        string            `json:"password"`
	SSLMode         string            `json:"ssl_mode"`
	ApplicationName string            `json:"application_name"`
	MaxConns        int32             `json:"max_conns"`
	ExtraParams     map[string]string `json:"extra_params,omitempty"`
}

// TimeseriesConfig holds the timeseries store connection and write
// buffer tuning.
type TimeseriesConfig struct {
	Addr        string            `json:"addr"`
	Database    string            `json:"database"`
	Username    string            `json:"username"`
	Password    string            `json:"password"`
	WriteBuffer WriteBufferConfig `json:"write_buffer"`
}

// WriteBufferConfig tunes the buffered metrics writer. Zero values
// select the writer defaults (500 points, 30s flush interval).
type WriteBufferConfig struct {
	MaxSize       int      `json:"max_size"`
	FlushInterval Duration `json:"flush_interval"`
}
