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

package metricstore

import (
	"encoding/hex"
	"unicode/utf8"

	"github.com/gosnmp/gosnmp"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

// FieldValue converts a walked raw value into a typed field by its
// protocol type tag. Integers stay signed; counters, gauges and ticks
// become unsigned; octet strings become text, hex-encoded when they
// are not valid UTF-8. Values of any other type are dropped (ok=false).
func FieldValue(raw models.RawValue) (interface{}, bool) {
	switch raw.Type {
	case gosnmp.Integer:
		v, ok := toSigned(raw.Value)
		return v, ok
	case gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		v, ok := toUnsigned(raw.Value)
		return v, ok
	case gosnmp.Boolean:
		v, ok := raw.Value.(bool)
		return v, ok
	case gosnmp.OctetString, gosnmp.Opaque:
		return toText(raw.Value)
	default:
		return nil, false
	}
}

func toSigned(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

func toUnsigned(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}

		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}

		return uint64(v), true
	default:
		return 0, false
	}
}

func toText(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		if !utf8.ValidString(v) {
			return hex.EncodeToString([]byte(v)), true
		}

		return v, true
	case []byte:
		if !utf8.Valid(v) {
			return hex.EncodeToString(v), true
		}

		return string(v), true
	default:
		return "", false
	}
}
