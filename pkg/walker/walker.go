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

// Package walker drives one bulk iteration of one metric subtree
// against one controller and accumulates decoded per-device readings.
package walker

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/oidcat"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/snmp"
)

const defaultMaxRepetitions = 20

// Walker resolves and accumulates bulk-walked bindings. A Walker is
// stateless across walks; each Walk call returns a fresh value and
// shares no memory with concurrent walks.
type Walker struct {
	catalog        *oidcat.Catalog
	maxRepetitions uint32
	logger         logger.Logger
}

func New(catalog *oidcat.Catalog, maxRepetitions uint32, log logger.Logger) *Walker {
	if maxRepetitions == 0 {
		maxRepetitions = defaultMaxRepetitions
	}

	return &Walker{
		catalog:        catalog,
		maxRepetitions: maxRepetitions,
		logger:         log,
	}
}

// Walk iterates the subtree rooted at oid.BasePath. The first binding
// outside the requested subtree ends the loop; that is the normal
// termination condition, not an error. Transport failures abort the
// walk and are the caller's to retry. A walk with zero matches returns
// an empty map.
func (w *Walker) Walk(
	ctx context.Context, session snmp.Session, controller models.Controller, oid models.OIDDescriptor,
) (models.PartialDeviceMetrics, error) {
	resolver := w.catalog.Resolver(controller.Vendor)
	accumulator := make(models.PartialDeviceMetrics)

	base := oid.BasePath
	if !strings.HasPrefix(base, ".") {
		base = "." + base
	}

	current := base

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("walk of %s on %s canceled: %w", oid.Alias, controller.Name, ctx.Err())
		default:
		}

		packet, err := session.GetBulk([]string{current}, 0, w.maxRepetitions)
		if err != nil {
			return nil, fmt.Errorf("bulk walk of %s on %s failed: %w", oid.Alias, controller.Name, err)
		}

		if packet == nil || len(packet.Variables) == 0 {
			return accumulator, nil
		}

		next, done := w.consumeBatch(packet.Variables, base, controller, oid, resolver, accumulator)
		if done {
			return accumulator, nil
		}

		if next == current {
			// Controller repeated itself; treat as exhausted rather
			// than looping forever.
			return accumulator, nil
		}

		current = next
	}
}

// consumeBatch folds one GETBULK response into the accumulator. It
// returns the last in-subtree path to continue from and whether the
// subtree is exhausted.
func (w *Walker) consumeBatch(
	variables []gosnmp.SnmpPDU,
	base string,
	controller models.Controller,
	oid models.OIDDescriptor,
	resolver *oidcat.Resolver,
	accumulator models.PartialDeviceMetrics,
) (next string, done bool) {
	next = base

	for i := range variables {
		pdu := &variables[i]

		name := pdu.Name
		if !strings.HasPrefix(name, ".") {
			name = "." + name
		}

		if pdu.Type == gosnmp.EndOfMibView {
			return next, true
		}

		if !strings.HasPrefix(name, base+".") {
			// Strayed into an adjacent subtree: walk is complete.
			return next, true
		}

		next = name

		if pdu.Type == gosnmp.NoSuchObject || pdu.Type == gosnmp.NoSuchInstance {
			w.logger.Warn().
				Str("controller", controller.Name).
				Str("alias", oid.Alias).
				Str("oid", name).
				Msg("Error varbind in walk, skipping")

			continue
		}

		binding, ok := resolver.Resolve(name, models.RawValue{Value: pdu.Value, Type: pdu.Type})
		if !ok {
			w.logger.Debug().
				Str("controller", controller.Name).
				Str("alias", oid.Alias).
				Str("oid", name).
				Msg("Unresolved binding, skipping")

			continue
		}

		if binding.HasSlot {
			accumulator.SetSlot(binding.DeviceKey, binding.Alias, binding.SlotIndex, binding.Value)
		} else {
			accumulator.SetScalar(binding.DeviceKey, binding.Alias, binding.Value)
		}
	}

	return next, false
}
