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

package jobs

import (
	"context"
	"time"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/snmp"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/walker"
)

const defaultChildTimeout = 30 * time.Second

// WalkExecutor executes walk jobs against live controllers. Each
// execution opens its own session and closes it on every exit path.
type WalkExecutor struct {
	opener  snmp.Opener
	walker  *walker.Walker
	timeout time.Duration
	logger  logger.Logger
}

func NewWalkExecutor(opener snmp.Opener, w *walker.Walker, timeout time.Duration, log logger.Logger) *WalkExecutor {
	if timeout == 0 {
		timeout = defaultChildTimeout
	}

	return &WalkExecutor{
		opener:  opener,
		walker:  w,
		timeout: timeout,
		logger:  log,
	}
}

// Execute opens a session, walks the spec's subtree and closes the
// session again. The timeout is the per-child hard ceiling on cycle
// latency.
func (e *WalkExecutor) Execute(ctx context.Context, spec models.WalkJobSpec) (models.PartialDeviceMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	session, err := e.opener.Open(spec.Controller)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			e.logger.Warn().
				Err(closeErr).
				Str("controller", spec.Controller.Name).
				Msg("Failed to close session")
		}
	}()

	return e.walker.Walk(ctx, session, spec.Controller, spec.OID)
}
