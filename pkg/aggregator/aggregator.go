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

// Package aggregator folds one controller's merged per-device metrics
// into immutable per-device snapshots. A device whose slot-indexed
// readings are internally inconsistent is dropped for the cycle rather
// than reported with untrustworthy totals.
package aggregator

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// Vendor enum values observed on the wire. Radio admin status 2 means
// the slot is enabled; any other value disables it. Device operational
// status 2 means the AP is down, 3 means it is downloading an image.
const (
	adminEnabled = 2

	deviceDown        = 2
	deviceDownloading = 3

	bandEnum24 = 1
	bandEnum5  = 2
	bandEnum6  = 3
)

// Aggregator derives per-device snapshots from merged cycle metrics.
type Aggregator struct {
	logger logger.Logger
}

func New(log logger.Logger) *Aggregator {
	return &Aggregator{logger: log}
}

// Aggregate produces one snapshot per device that passes the slot
// alignment check. Devices are emitted in deterministic (sorted MAC)
// order so downstream writes batch stably.
func (a *Aggregator) Aggregate(
	controller models.Controller, cycleID string, metrics models.PartialDeviceMetrics, polledAt time.Time,
) []models.AggregatedSnapshot {
	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	snapshots := make([]models.AggregatedSnapshot, 0, len(keys))

	for _, key := range keys {
		snapshot, ok := a.aggregateDevice(controller, cycleID, key, metrics[key], polledAt)
		if ok {
			snapshots = append(snapshots, snapshot)
		}
	}

	return snapshots
}

func (a *Aggregator) aggregateDevice(
	controller models.Controller, cycleID, mac string, device models.DeviceMetrics, polledAt time.Time,
) (models.AggregatedSnapshot, bool) {
	admin := slotsOf(device, models.AliasAdminStatus)
	bands := slotsOf(device, models.AliasRadioBand)
	clients := slotsOf(device, models.AliasClientCount)

	if len(admin) != len(bands) || len(bands) != len(clients) {
		a.logger.Warn().
			Str("controller", controller.Name).
			Str("mac", mac).
			Int("admin_slots", len(admin)).
			Int("band_slots", len(bands)).
			Int("client_slots", len(clients)).
			Msg("Dropping device with misaligned slot maps")

		return models.AggregatedSnapshot{}, false
	}

	channels := slotsOf(device, models.AliasChannel)

	snapshot := models.AggregatedSnapshot{
		MAC:            mac,
		Controller:     controller.Name,
		ControllerHost: controller.Host,
		BuildingID:     controller.BuildingID,
		Status:         models.StatusUp,
		CycleID:        cycleID,
		PolledAt:       polledAt,
	}

	for _, slot := range sortedSlots(admin) {
		adminValue, err := toInt64(admin[slot])
		if err != nil {
			a.logger.Warn().Err(err).Str("mac", mac).Int("slot", slot).Msg("Skipping slot with undecodable admin status")
			continue
		}

		clientValue, _ := toInt64(clients[slot])
		bandRaw := toString(bands[slot])

		diag := models.SlotDiagnostics{
			Slot:        slot,
			AdminStatus: adminValue,
			BandRaw:     bandRaw,
			Clients:     clientValue,
		}

		if channel, ok := channels[slot]; ok {
			if ch, err := toInt64(channel); err == nil {
				diag.Channel = &ch
			}
		}

		snapshot.Slots = append(snapshot.Slots, diag)

		if adminValue != adminEnabled {
			snapshot.Status = models.StatusRadioOff
			continue
		}

		bandValue, err := toInt64(bands[slot])
		if err != nil {
			a.logger.Warn().Str("mac", mac).Int("slot", slot).Str("band", bandRaw).Msg("Skipping slot with unmapped band")
			continue
		}

		switch bandValue {
		case bandEnum24:
			snapshot.Clients24 += clientValue
		case bandEnum5:
			snapshot.Clients5 += clientValue
		case bandEnum6:
			snapshot.Clients6 += clientValue
		default:
			a.logger.Warn().Str("mac", mac).Int("slot", slot).Str("band", bandRaw).Msg("Skipping slot with unmapped band")
		}
	}

	// Device-level operational status wins outright over the
	// radio-derived determination.
	if oper, ok := scalarOf(device, models.AliasOperStatus); ok {
		if operValue, err := toInt64(oper); err == nil {
			switch operValue {
			case deviceDown:
				snapshot.Status = models.StatusDown
			case deviceDownloading:
				snapshot.Status = models.StatusDownloading
			}
		}
	}

	if ip, ok := scalarOf(device, models.AliasIPAddress); ok {
		snapshot.IP = toString(ip)
	}

	if tx, ok := scalarOf(device, models.AliasTxBytes); ok {
		snapshot.TxBytes = tx
	}

	if rx, ok := scalarOf(device, models.AliasRxBytes); ok {
		snapshot.RxBytes = rx
	}

	return snapshot, true
}

func slotsOf(device models.DeviceMetrics, alias string) map[int]models.RawValue {
	value, ok := device[alias]
	if !ok || !value.IsSlotIndexed() {
		return nil
	}

	return value.Slots
}

func scalarOf(device models.DeviceMetrics, alias string) (models.RawValue, bool) {
	value, ok := device[alias]
	if !ok || value.Scalar == nil {
		return models.RawValue{}, false
	}

	return *value.Scalar, true
}

func sortedSlots(slots map[int]models.RawValue) []int {
	out := make([]int, 0, len(slots))
	for slot := range slots {
		out = append(out, slot)
	}

	sort.Ints(out)

	return out
}

// toInt64 coerces the numeric shapes gosnmp hands back, plus numeric
// strings, into a signed integer.
func toInt64(raw models.RawValue) (int64, error) {
	switch v := raw.Value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", raw.Value, raw.Value)
	}
}

func toString(raw models.RawValue) string {
	switch v := raw.Value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
