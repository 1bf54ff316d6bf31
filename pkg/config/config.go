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

// Package config loads service configuration from a JSON file or the
// environment, selected by CONFIG_SOURCE.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
)

var errInvalidConfigSource = errors.New("invalid CONFIG_SOURCE value")

const (
	configSourceFile = "file"
	configSourceEnv  = "env"

	defaultEnvPrefix = "KUWIN_"
)

// ConfigLoader populates dst from one configuration source.
type ConfigLoader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator lets a config type reject bad values after loading.
type Validator interface {
	Validate() error
}

// Config selects and drives the configured loader.
type Config struct {
	defaultLoader ConfigLoader
	logger        logger.Logger
}

// NewConfig builds a loader. A nil log falls back to a stderr logger
// so configuration problems are visible before the real logger exists.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = createBasicLogger()
	}

	return &Config{
		defaultLoader: &FileConfigLoader{},
		logger:        log,
	}
}

// basicLogger is a minimal Logger for config loading, before the real
// logger has a configuration to be built from.
type basicLogger struct {
	logger zerolog.Logger
}

func createBasicLogger() logger.Logger {
	zlog := zerolog.New(os.Stderr).
		Level(zerolog.WarnLevel).
		With().
		Timestamp().
		Logger()

	return &basicLogger{logger: zlog}
}

func (b *basicLogger) Trace() *zerolog.Event { return b.logger.Trace() }
func (b *basicLogger) Debug() *zerolog.Event { return b.logger.Debug() }
func (b *basicLogger) Info() *zerolog.Event  { return b.logger.Info() }
func (b *basicLogger) Warn() *zerolog.Event  { return b.logger.Warn() }
func (b *basicLogger) Error() *zerolog.Event { return b.logger.Error() }
func (b *basicLogger) Fatal() *zerolog.Event { return b.logger.Fatal() }
func (b *basicLogger) Panic() *zerolog.Event { return b.logger.Panic() }

func (b *basicLogger) With() zerolog.Context { return b.logger.With() }

func (b *basicLogger) WithComponent(component string) zerolog.Logger {
	return b.logger.With().Str("component", component).Logger()
}

func (b *basicLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := b.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (b *basicLogger) SetLevel(level zerolog.Level) {
	b.logger = b.logger.Level(level)
}

func (b *basicLogger) SetDebug(debug bool) {
	if debug {
		b.SetLevel(zerolog.DebugLevel)
	} else {
		b.SetLevel(zerolog.InfoLevel)
	}
}

// LoadAndValidate loads cfg from the source named by CONFIG_SOURCE
// (file when unset) and validates it.
func (c *Config) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	source := strings.ToLower(os.Getenv("CONFIG_SOURCE"))

	var loader ConfigLoader

	switch source {
	case configSourceEnv:
		prefix := os.Getenv("CONFIG_ENV_PREFIX")
		if prefix == "" {
			prefix = defaultEnvPrefix
		}

		loader = NewEnvConfigLoader(c.logger, prefix)
	case configSourceFile, "":
		loader = c.defaultLoader
	default:
		return fmt.Errorf("%w: %s (expected '%s' or '%s')",
			errInvalidConfigSource, source, configSourceFile, configSourceEnv)
	}

	if err := loader.Load(ctx, path, cfg); err != nil {
		return err
	}

	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}

	return nil
}
