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

// MetricValue is a tagged union: exactly one of Scalar or Slots is set.
// Slot-indexed aliases (radio metrics) accumulate per-slot values;
// everything else stores a single scalar.
type MetricValue struct {
	Scalar *RawValue
	Slots  map[int]RawValue
}

// IsSlotIndexed reports whether the value carries per-slot data.
func (v *MetricValue) IsSlotIndexed() bool {
	return v != nil && v.Slots != nil
}

// DeviceMetrics maps alias -> value for one device.
type DeviceMetrics map[string]*MetricValue

// PartialDeviceMetrics maps deviceKey -> per-alias values. One Walk run
// produces one of these; runs belonging to the same poll cycle are
// merged non-destructively.
type PartialDeviceMetrics map[string]DeviceMetrics

// SetScalar records a scalar reading for (deviceKey, alias).
func (p PartialDeviceMetrics) SetScalar(deviceKey, alias string, value RawValue) {
	device := p.device(deviceKey)
	device[alias] = &MetricValue{Scalar: &value}
}

// SetSlot records a slot-indexed reading for (deviceKey, alias, slot).
func (p PartialDeviceMetrics) SetSlot(deviceKey, alias string, slot int, value RawValue) {
	device := p.device(deviceKey)

	metric, ok := device[alias]
	if !ok || metric.Slots == nil {
		metric = &MetricValue{Slots: make(map[int]RawValue)}
		device[alias] = metric
	}

	metric.Slots[slot] = value
}

// Merge folds other into p: union of device keys, deep merge of slot
// maps. Scalar collisions keep the incoming value; within one poll
// cycle each alias is walked exactly once, so collisions only occur
// when a child job was retried.
func (p PartialDeviceMetrics) Merge(other PartialDeviceMetrics) {
	for deviceKey, metrics := range other {
		for alias, value := range metrics {
			if value.IsSlotIndexed() {
				for slot, raw := range value.Slots {
					p.SetSlot(deviceKey, alias, slot, raw)
				}

				continue
			}

			if value.Scalar != nil {
				p.SetScalar(deviceKey, alias, *value.Scalar)
			}
		}
	}
}

func (p PartialDeviceMetrics) device(deviceKey string) DeviceMetrics {
	device, ok := p[deviceKey]
	if !ok {
		device = make(DeviceMetrics)
		p[deviceKey] = device
	}

	return device
}
