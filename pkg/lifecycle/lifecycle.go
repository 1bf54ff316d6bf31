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

// Package lifecycle hosts process-level plumbing shared by the
// binaries: logger bring-up and signal-aware run loops.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
)

// InitializeLogger builds the service logger, falling back to defaults
// when config is nil.
func InitializeLogger(ctx context.Context, config *logger.Config, component string) (logger.Logger, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	log, err := logger.NewWithComponent(ctx, component, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return log, nil
}

// Run executes fn under a signal-canceled context and blocks until fn
// returns. SIGINT or SIGTERM cancels the context; fn is expected to
// drain and return.
func Run(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
