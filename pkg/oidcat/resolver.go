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

package oidcat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

const macComponents = 6

// Resolver decodes walked instance paths against one vendor's catalog.
type Resolver struct {
	entries []models.OIDDescriptor
}

// Resolve finds the longest-prefix catalog entry for path and decodes
// the instance suffix into a device key and optional slot index.
// ok is false when no entry matches or the suffix is malformed for the
// entry's arity; controllers emit adjacent, unrelated subtree entries
// during a bulk walk, so such bindings are skipped, never fatal.
func (r *Resolver) Resolve(path string, value models.RawValue) (binding models.ResolvedBinding, ok bool) {
	path = normalizePath(path)

	for _, entry := range r.entries {
		var suffix string

		switch {
		case path == entry.BasePath:
			suffix = ""
		case strings.HasPrefix(path, entry.BasePath+"."):
			suffix = path[len(entry.BasePath)+1:]
		default:
			continue
		}

		return decodeSuffix(entry, suffix, value)
	}

	return models.ResolvedBinding{}, false
}

func decodeSuffix(entry models.OIDDescriptor, suffix string, value models.RawValue) (models.ResolvedBinding, bool) {
	binding := models.ResolvedBinding{Alias: entry.Alias, Value: value}

	var components []string
	if suffix != "" {
		components = strings.Split(suffix, ".")
	}

	switch entry.Arity {
	case models.ArityScalar:
		if len(components) != 0 {
			return models.ResolvedBinding{}, false
		}

		return binding, true

	case models.ArityIndex:
		if len(components) != 1 {
			return models.ResolvedBinding{}, false
		}

		slot, err := strconv.Atoi(components[0])
		if err != nil {
			return models.ResolvedBinding{}, false
		}

		binding.SlotIndex = slot
		binding.HasSlot = true

		return binding, true

	case models.ArityMAC:
		mac, ok := decodeMAC(components)
		if !ok {
			return models.ResolvedBinding{}, false
		}

		binding.DeviceKey = mac

		return binding, true

	case models.ArityMACSlot:
		if len(components) != macComponents+1 {
			return models.ResolvedBinding{}, false
		}

		mac, ok := decodeMAC(components[:macComponents])
		if !ok {
			return models.ResolvedBinding{}, false
		}

		slot, err := strconv.Atoi(components[macComponents])
		if err != nil {
			return models.ResolvedBinding{}, false
		}

		binding.DeviceKey = mac
		binding.SlotIndex = slot
		binding.HasSlot = true

		return binding, true

	case models.ArityName:
		name, ok := decodeName(components)
		if !ok {
			return models.ResolvedBinding{}, false
		}

		binding.DeviceKey = name

		return binding, true

	default:
		return models.ResolvedBinding{}, false
	}
}

// decodeMAC converts 6 numeric path components into a colon-hex MAC.
// Components are reduced mod 256: some firmware emits sub-identifiers
// above 255 for the high bit.
func decodeMAC(components []string) (string, bool) {
	if len(components) != macComponents {
		return "", false
	}

	parts := make([]string, macComponents)

	for i, component := range components {
		n, err := strconv.Atoi(component)
		if err != nil || n < 0 {
			return "", false
		}

		parts[i] = fmt.Sprintf("%02x", n%256)
	}

	return strings.Join(parts, ":"), true
}

// decodeName converts a length-prefixed component sequence into the
// ASCII name it encodes. A remaining-component count that disagrees
// with the declared length is dropped silently.
func decodeName(components []string) (string, bool) {
	if len(components) == 0 {
		return "", false
	}

	length, err := strconv.Atoi(components[0])
	if err != nil || length < 0 {
		return "", false
	}

	rest := components[1:]
	if len(rest) != length {
		return "", false
	}

	buf := make([]byte, length)

	for i, component := range rest {
		n, err := strconv.Atoi(component)
		if err != nil || n < 0 {
			return "", false
		}

		buf[i] = byte(n)
	}

	return string(buf), true
}
