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

import "time"

// StatusCode describes live device radio health, derived per cycle.
type StatusCode string

const (
	StatusUp          StatusCode = "up"
	StatusRadioOff    StatusCode = "radio_off"
	StatusDown        StatusCode = "down"
	StatusDownloading StatusCode = "downloading"
)

// Band identifies a radio frequency band.
type Band string

const (
	Band24 Band = "2.4GHz"
	Band5  Band = "5GHz"
	Band6  Band = "6GHz"
)

// SlotDiagnostics retains the raw per-slot readings that fed an
// aggregation, kept on the snapshot for audit.
type SlotDiagnostics struct {
	Slot        int    `json:"slot"`
	AdminStatus int64  `json:"admin_status"`
	BandRaw     string `json:"band_raw"`
	Clients     int64  `json:"clients"`
	Channel     *int64 `json:"channel,omitempty"`
}

// AggregatedSnapshot is one cycle's fully aggregated, internally
// consistent metrics record for one access point. Snapshots are never
// mutated after aggregation and are consumed exactly once by the
// reconciliation sink.
type AggregatedSnapshot struct {
	MAC            string            `json:"mac"`
	Controller     string            `json:"controller"`
	ControllerHost string            `json:"controller_host"`
	BuildingID     *int64            `json:"building_id,omitempty"`
	IP             string            `json:"ip,omitempty"`
	Clients24      int64             `json:"clients_24"`
	Clients5       int64             `json:"clients_5"`
	Clients6       int64             `json:"clients_6"`
	TxBytes        RawValue          `json:"-"`
	RxBytes        RawValue          `json:"-"`
	Status         StatusCode        `json:"status"`
	Slots          []SlotDiagnostics `json:"slots"`
	CycleID        string            `json:"cycle_id"`
	PolledAt       time.Time         `json:"polled_at"`
}

// TotalClients sums the per-band client counters.
func (s *AggregatedSnapshot) TotalClients() int64 {
	return s.Clients24 + s.Clients5 + s.Clients6
}
