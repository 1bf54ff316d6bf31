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

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gosnmp/gosnmp"
)

// SuffixArity describes how the instance suffix of an OID under a base
// path encodes device identity.
type SuffixArity int

const (
	// ArityScalar has no suffix at all (controller-level scalar).
	ArityScalar SuffixArity = 0
	// ArityIndex is a single numeric table index.
	ArityIndex SuffixArity = 1
	// ArityMAC is a 6-component MAC address suffix.
	ArityMAC SuffixArity = 6
	// ArityMACSlot is a 6-component MAC suffix plus a trailing radio
	// slot index.
	ArityMACSlot SuffixArity = 7
	// ArityName is a variable-length, length-prefixed ASCII string
	// suffix (name-keyed counters such as per-SSID client totals).
	ArityName SuffixArity = -1
)

// OIDDescriptor binds a semantic alias to a vendor base path and its
// suffix decoding rule.
type OIDDescriptor struct {
	Vendor   Vendor      `json:"vendor"`
	Alias    string      `json:"alias"`
	BasePath string      `json:"base_path"`
	Arity    SuffixArity `json:"arity"`
}

// Metric aliases tracked per poll cycle. The slot-indexed trio
// (admin status, band, client count) must stay aligned per device for a
// snapshot to be emitted.
const (
	AliasClientCount = "clientCount" // per radio slot
	AliasRxBytes     = "rxBytes"
	AliasTxBytes     = "txBytes"
	AliasIPAddress   = "ipAddress"
	AliasAdminStatus = "adminStatus" // per radio slot
	AliasOperStatus  = "operStatus"  // device level
	AliasRadioBand   = "radioBand"   // per radio slot
	AliasChannel     = "channel"     // per radio slot
	AliasSSIDClients = "ssidClients" // name-keyed, per SSID
)

// ResolvedBinding is one walked varbind decoded against the catalog.
// DeviceKey is a colon-hex MAC for MAC-suffixed aliases, the decoded
// name for name-keyed aliases, and empty for scalars.
type ResolvedBinding struct {
	Alias     string
	DeviceKey string
	SlotIndex int
	HasSlot   bool
	Value     RawValue
}

// RawValue carries a walked value together with its protocol type tag,
// which later drives timeseries field typing.
type RawValue struct {
	Value interface{}
	Type  gosnmp.Asn1BER
}

var errUnknownRawKind = errors.New("unknown raw value kind")

// Wire kinds for RawValue. Walk results cross the job broker as JSON,
// and decoding Value through a plain interface{} would flatten every
// number to float64, which the aggregation and field typing switches
// reject. The kind tag keeps the concrete Go type across the hop.
const (
	rawKindNull  = "null"
	rawKindInt   = "int"
	rawKindUint  = "uint"
	rawKindFloat = "float"
	rawKindBool  = "bool"
	rawKindStr   = "str"
	rawKindBytes = "bytes"
)

type rawValueWire struct {
	Type  gosnmp.Asn1BER `json:"type"`
	Kind  string         `json:"kind"`
	Int   int64          `json:"int,omitempty"`
	Uint  uint64         `json:"uint,omitempty"`
	Float float64        `json:"float,omitempty"`
	Bool  bool           `json:"bool,omitempty"`
	Str   string         `json:"str,omitempty"`
	Bytes []byte         `json:"bytes,omitempty"`
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	wire := rawValueWire{Type: v.Type, Kind: rawKindNull}

	switch value := v.Value.(type) {
	case nil:
	case int:
		wire.Kind, wire.Int = rawKindInt, int64(value)
	case int8:
		wire.Kind, wire.Int = rawKindInt, int64(value)
	case int16:
		wire.Kind, wire.Int = rawKindInt, int64(value)
	case int32:
		wire.Kind, wire.Int = rawKindInt, int64(value)
	case int64:
		wire.Kind, wire.Int = rawKindInt, value
	case uint:
		wire.Kind, wire.Uint = rawKindUint, uint64(value)
	case uint8:
		wire.Kind, wire.Uint = rawKindUint, uint64(value)
	case uint16:
		wire.Kind, wire.Uint = rawKindUint, uint64(value)
	case uint32:
		wire.Kind, wire.Uint = rawKindUint, uint64(value)
	case uint64:
		wire.Kind, wire.Uint = rawKindUint, value
	case float32:
		wire.Kind, wire.Float = rawKindFloat, float64(value)
	case float64:
		wire.Kind, wire.Float = rawKindFloat, value
	case bool:
		wire.Kind, wire.Bool = rawKindBool, value
	case string:
		wire.Kind, wire.Str = rawKindStr, value
	case []byte:
		wire.Kind, wire.Bytes = rawKindBytes, value
	default:
		wire.Kind, wire.Str = rawKindStr, fmt.Sprintf("%v", value)
	}

	return json.Marshal(wire)
}

func (v *RawValue) UnmarshalJSON(b []byte) error {
	var wire rawValueWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	v.Type = wire.Type

	switch wire.Kind {
	case rawKindNull, "":
		v.Value = nil
	case rawKindInt:
		v.Value = wire.Int
	case rawKindUint:
		v.Value = wire.Uint
	case rawKindFloat:
		v.Value = wire.Float
	case rawKindBool:
		v.Value = wire.Bool
	case rawKindStr:
		v.Value = wire.Str
	case rawKindBytes:
		v.Value = wire.Bytes
	default:
		return fmt.Errorf("%w: %q", errUnknownRawKind, wire.Kind)
	}

	return nil
}
