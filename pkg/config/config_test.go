package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const sampleConfig = `{
	"poll_interval": "60s",
	"controllers": [
		{"name": "wlc-1", "host": "10.16.0.2", "vendor": "cisco", "community": "public"}
	],
	"nats": {"url": "nats://127.0.0.1:4222"},
	"database": {"host": "127.0.0.1", "port": 5432, "database": "kuwin"},
	"timeseries": {"addr": "127.0.0.1:8463", "write_buffer": {"max_size": 200, "flush_interval": "10s"}},
	"poller": {"workers": 4, "attempts": 3, "backoff_base": "1s"}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "core.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateFromFile(t *testing.T) {
	var cfg models.CoreServiceConfig

	path := writeConfig(t, sampleConfig)

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, time.Duration(cfg.PollInterval))
	require.Len(t, cfg.Controllers, 1)
	assert.Equal(t, models.VendorCisco, cfg.Controllers[0].Vendor)
	assert.Equal(t, 200, cfg.Timeseries.WriteBuffer.MaxSize)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.Timeseries.WriteBuffer.FlushInterval))
}

func TestLoadAndValidateRejectsEmptyControllers(t *testing.T) {
	var cfg models.CoreServiceConfig

	path := writeConfig(t, `{"controllers": [], "database": {"host": "h"}, "timeseries": {"addr": "a"}}`)

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one controller")
}

func TestLoadAndValidateRejectsUnknownVendor(t *testing.T) {
	var cfg models.CoreServiceConfig

	path := writeConfig(t, `{
		"controllers": [{"name": "x", "host": "h", "vendor": "netgear", "community": "public"}],
		"database": {"host": "h"},
		"timeseries": {"addr": "a"}
	}`)

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown vendor")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("KUWIN_CONFIG_JSON", sampleConfig)
	t.Setenv("KUWIN_SNMP_COMMUNITY", "s3cret")
	t.Setenv("KUWIN_DB_PASSWORD", "hunter2")

	var cfg models.CoreServiceConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Controllers[0].Community)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "zookeeper")

	var cfg models.CoreServiceConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg)
	require.ErrorIs(t, err, errInvalidConfigSource)
}
