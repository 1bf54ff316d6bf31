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

// Package jobs provides the poll-flow broker: a parent poll job fans
// out to per-metric walk children which fail in isolation.
package jobs

//go:generate mockgen -destination=mock_jobs.go -package=jobs github.com/ffamee/kuwin-ap-backend-sub000/pkg/jobs Broker,Executor

import (
	"context"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// ChildResult is the outcome of one walk child, success or isolated
// failure.
type ChildResult struct {
	Spec     models.WalkJobSpec          `json:"spec"`
	Metrics  models.PartialDeviceMetrics `json:"metrics,omitempty"`
	Attempts int                         `json:"attempts"`
	Failed   bool                        `json:"failed"`
	Error    string                      `json:"error,omitempty"`
}

// FlowResult is the settled outcome of a whole poll flow. A flow with
// at least one failed child is PartiallyFailed; it never fails
// outright on child errors.
type FlowResult struct {
	FlowID   string            `json:"flow_id"`
	State    models.CycleState `json:"state"`
	Children []ChildResult     `json:"children"`
}

// FlowHandle identifies a submitted flow to await on.
type FlowHandle struct {
	FlowID   string
	Expected int
}

// Broker submits poll flows and awaits their completion.
type Broker interface {
	SubmitFlow(ctx context.Context, spec models.PollJobSpec) (*FlowHandle, error)
	AwaitCompletion(ctx context.Context, handle *FlowHandle) (*FlowResult, error)
}

// Executor runs one walk child. Implementations must be safe for
// concurrent use; a walk job is a pure function of its spec.
type Executor interface {
	Execute(ctx context.Context, spec models.WalkJobSpec) (models.PartialDeviceMetrics, error)
}

// StateOf derives the flow state from its settled children.
func StateOf(children []ChildResult) models.CycleState {
	for i := range children {
		if children[i].Failed {
			return models.CyclePartiallyFailed
		}
	}

	return models.CycleCompleted
}
