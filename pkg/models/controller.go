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

// Vendor identifies the OID dialect a controller speaks.
type Vendor string

const (
	VendorCisco Vendor = "cisco"
	VendorAruba Vendor = "aruba"
)

// Controller describes one wireless controller endpoint. Controllers are
// loaded from static configuration and never mutated at runtime.
type Controller struct {
	Name       string `json:"name"`
	Host       string `json:"host"`
	Port       uint16 `json:"port"`
	Vendor     Vendor `json:"vendor"`
	Community  string `json:"community"`
	BuildingID *int64 `json:"building_id,omitempty"`
}
