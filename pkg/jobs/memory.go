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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const (
	defaultWorkers     = 4
	defaultAttempts    = 3
	defaultBackoffBase = time.Second
)

var ErrUnknownFlow = errors.New("unknown flow handle")

// MemoryBroker runs poll flows on an in-process worker pool. It keeps
// the same contract as the NATS broker: bounded concurrency, bounded
// retries with exponential backoff, and failure isolation per child.
type MemoryBroker struct {
	executor Executor
	workers  chan struct{}
	attempts int
	backoff  time.Duration
	logger   logger.Logger

	mu    sync.Mutex
	flows map[string]chan ChildResult
}

func NewMemoryBroker(executor Executor, workers, attempts int, backoff time.Duration, log logger.Logger) *MemoryBroker {
	if workers <= 0 {
		workers = defaultWorkers
	}

	if attempts <= 0 {
		attempts = defaultAttempts
	}

	if backoff <= 0 {
		backoff = defaultBackoffBase
	}

	return &MemoryBroker{
		executor: executor,
		workers:  make(chan struct{}, workers),
		attempts: attempts,
		backoff:  backoff,
		logger:   log,
		flows:    make(map[string]chan ChildResult),
	}
}

// SubmitFlow schedules every child of the parent spec on the worker
// pool and returns immediately.
func (b *MemoryBroker) SubmitFlow(ctx context.Context, spec models.PollJobSpec) (*FlowHandle, error) {
	results := make(chan ChildResult, len(spec.Children))

	b.mu.Lock()
	b.flows[spec.FlowID] = results
	b.mu.Unlock()

	for _, child := range spec.Children {
		go func(child models.WalkJobSpec) {
			select {
			case b.workers <- struct{}{}:
			case <-ctx.Done():
				results <- ChildResult{Spec: child, Failed: true, Error: ctx.Err().Error()}
				return
			}
			defer func() { <-b.workers }()

			results <- b.runWithRetry(ctx, child)
		}(child)
	}

	return &FlowHandle{FlowID: spec.FlowID, Expected: len(spec.Children)}, nil
}

// AwaitCompletion blocks until every child has settled. Child failures
// never fail the parent; the flow state reflects them instead.
func (b *MemoryBroker) AwaitCompletion(ctx context.Context, handle *FlowHandle) (*FlowResult, error) {
	b.mu.Lock()
	results, ok := b.flows[handle.FlowID]
	b.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlow, handle.FlowID)
	}

	defer func() {
		b.mu.Lock()
		delete(b.flows, handle.FlowID)
		b.mu.Unlock()
	}()

	children := make([]ChildResult, 0, handle.Expected)

	for len(children) < handle.Expected {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("awaiting flow %s: %w", handle.FlowID, ctx.Err())
		case result := <-results:
			children = append(children, result)
		}
	}

	return &FlowResult{
		FlowID:   handle.FlowID,
		State:    StateOf(children),
		Children: children,
	}, nil
}

func (b *MemoryBroker) runWithRetry(ctx context.Context, spec models.WalkJobSpec) ChildResult {
	var lastErr error

	for attempt := 1; attempt <= b.attempts; attempt++ {
		metrics, err := b.executor.Execute(ctx, spec)
		if err == nil {
			return ChildResult{Spec: spec, Metrics: metrics, Attempts: attempt}
		}

		lastErr = err

		b.logger.Warn().
			Err(err).
			Str("controller", spec.Controller.Name).
			Str("alias", spec.OID.Alias).
			Int("attempt", attempt).
			Msg("Walk job attempt failed")

		if attempt == b.attempts {
			break
		}

		delay := b.backoff << (attempt - 1)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ChildResult{Spec: spec, Failed: true, Attempts: attempt, Error: ctx.Err().Error()}
		}
	}

	return ChildResult{Spec: spec, Failed: true, Attempts: b.attempts, Error: lastErr.Error()}
}
