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

// WalkJobSpec is one child unit of a poll flow: a single subtree walk
// of one metric OID against one controller. The job is a pure function
// of its spec (idempotent, safe to retry).
type WalkJobSpec struct {
	ID         string        `json:"id"`
	FlowID     string        `json:"flow_id"`
	Controller Controller    `json:"controller"`
	OID        OIDDescriptor `json:"oid"`
}

// PollJobSpec is the parent orchestration unit for one controller in
// one poll cycle. Children fail in isolation: the parent completes with
// whatever children succeeded.
type PollJobSpec struct {
	FlowID     string        `json:"flow_id"`
	CycleID    string        `json:"cycle_id"`
	Controller Controller    `json:"controller"`
	Children   []WalkJobSpec `json:"children"`
}

// CycleState tracks orchestration progress for one controller's cycle.
type CycleState string

const (
	CycleScheduled       CycleState = "scheduled"
	CycleRunning         CycleState = "running"
	CycleCompleted       CycleState = "completed"
	CyclePartiallyFailed CycleState = "partially_failed"
)
