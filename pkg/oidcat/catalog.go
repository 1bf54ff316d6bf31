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

// Package oidcat holds the static OID catalog and the resolver that
// decodes walked instance paths back into device identity.
package oidcat

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

var (
	ErrAmbiguousBasePaths = errors.New("catalog base paths must not prefix each other within a vendor")
	ErrEmptyBasePath      = errors.New("catalog entry has an empty base path")
)

// Builtin catalog. Base paths follow the vendors' enterprise MIBs; the
// suffix arity encodes how the instance identifies the access point.
var builtinCatalog = []models.OIDDescriptor{
	// Cisco WLC (AIRESPACE-WIRELESS-MIB and friends)
	{Vendor: models.VendorCisco, Alias: models.AliasOperStatus, BasePath: ".1.3.6.1.4.1.14179.2.2.1.1.6", Arity: models.ArityMAC},
	{Vendor: models.VendorCisco, Alias: models.AliasIPAddress, BasePath: ".1.3.6.1.4.1.14179.2.2.1.1.19", Arity: models.ArityMAC},
	{Vendor: models.VendorCisco, Alias: models.AliasTxBytes, BasePath: ".1.3.6.1.4.1.14179.2.2.1.1.30", Arity: models.ArityMAC},
	{Vendor: models.VendorCisco, Alias: models.AliasRxBytes, BasePath: ".1.3.6.1.4.1.14179.2.2.1.1.31", Arity: models.ArityMAC},
	{Vendor: models.VendorCisco, Alias: models.AliasRadioBand, BasePath: ".1.3.6.1.4.1.14179.2.2.2.1.2", Arity: models.ArityMACSlot},
	{Vendor: models.VendorCisco, Alias: models.AliasChannel, BasePath: ".1.3.6.1.4.1.14179.2.2.2.1.4", Arity: models.ArityMACSlot},
	{Vendor: models.VendorCisco, Alias: models.AliasAdminStatus, BasePath: ".1.3.6.1.4.1.14179.2.2.2.1.34", Arity: models.ArityMACSlot},
	{Vendor: models.VendorCisco, Alias: models.AliasClientCount, BasePath: ".1.3.6.1.4.1.14179.2.2.13.1.4", Arity: models.ArityMACSlot},
	{Vendor: models.VendorCisco, Alias: models.AliasSSIDClients, BasePath: ".1.3.6.1.4.1.14179.2.1.1.1.38", Arity: models.ArityName},

	// Aruba (WLSX-WLAN-MIB)
	{Vendor: models.VendorAruba, Alias: models.AliasOperStatus, BasePath: ".1.3.6.1.4.1.14823.2.2.1.5.2.1.4.1.19", Arity: models.ArityMAC},
	{Vendor: models.VendorAruba, Alias: models.AliasIPAddress, BasePath: ".1.3.6.1.4.1.14823.2.2.1.5.2.1.4.1.2", Arity: models.ArityMAC},
	{Vendor: models.VendorAruba, Alias: models.AliasAdminStatus, BasePath: ".1.3.6.1.4.1.14823.2.2.1.5.2.1.5.1.8", Arity: models.ArityMACSlot},
	{Vendor: models.VendorAruba, Alias: models.AliasRadioBand, BasePath: ".1.3.6.1.4.1.14823.2.2.1.5.2.1.5.1.2", Arity: models.ArityMACSlot},
	{Vendor: models.VendorAruba, Alias: models.AliasClientCount, BasePath: ".1.3.6.1.4.1.14823.2.2.1.5.2.1.5.1.7", Arity: models.ArityMACSlot},
}

// Catalog is the per-vendor table of tracked OIDs. Entries are sorted
// by descending base-path length at construction so prefix matching is
// deterministic longest-match, not declaration-order dependent.
type Catalog struct {
	byVendor map[models.Vendor][]models.OIDDescriptor
}

// New builds a catalog from the builtin table plus any configured
// overrides. Overrides with an (vendor, alias) pair already present
// replace the builtin entry.
func New(overrides ...models.OIDDescriptor) (*Catalog, error) {
	merged := make(map[string]models.OIDDescriptor, len(builtinCatalog)+len(overrides))

	for _, entry := range builtinCatalog {
		merged[string(entry.Vendor)+"/"+entry.Alias] = entry
	}

	for _, entry := range overrides {
		merged[string(entry.Vendor)+"/"+entry.Alias] = entry
	}

	c := &Catalog{byVendor: make(map[models.Vendor][]models.OIDDescriptor)}

	for _, entry := range merged {
		if strings.Trim(entry.BasePath, ".") == "" {
			return nil, fmt.Errorf("%w: alias %s", ErrEmptyBasePath, entry.Alias)
		}

		entry.BasePath = normalizePath(entry.BasePath)
		c.byVendor[entry.Vendor] = append(c.byVendor[entry.Vendor], entry)
	}

	for vendor, entries := range c.byVendor {
		sort.Slice(entries, func(i, j int) bool {
			if len(entries[i].BasePath) != len(entries[j].BasePath) {
				return len(entries[i].BasePath) > len(entries[j].BasePath)
			}

			return entries[i].BasePath < entries[j].BasePath
		})

		if err := checkNonPrefixing(entries); err != nil {
			return nil, fmt.Errorf("%w: vendor %s", err, vendor)
		}
	}

	return c, nil
}

// Walked returns the metric descriptors one poll cycle walks for a
// vendor, SSID counters excluded (those form their own job group).
func (c *Catalog) Walked(vendor models.Vendor) []models.OIDDescriptor {
	var out []models.OIDDescriptor

	for _, entry := range c.byVendor[vendor] {
		if entry.Arity != models.ArityName {
			out = append(out, entry)
		}
	}

	return out
}

// SSIDCounters returns the name-keyed counter descriptors for a vendor.
func (c *Catalog) SSIDCounters(vendor models.Vendor) []models.OIDDescriptor {
	var out []models.OIDDescriptor

	for _, entry := range c.byVendor[vendor] {
		if entry.Arity == models.ArityName {
			out = append(out, entry)
		}
	}

	return out
}

// Resolver returns a resolver bound to one vendor's catalog entries.
func (c *Catalog) Resolver(vendor models.Vendor) *Resolver {
	return &Resolver{entries: c.byVendor[vendor]}
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, ".") {
		return "." + path
	}

	return path
}

// checkNonPrefixing enforces the unambiguous longest-match invariant:
// no base path may be a component-wise prefix of another.
func checkNonPrefixing(entries []models.OIDDescriptor) error {
	for i := range entries {
		for j := range entries {
			if i == j {
				continue
			}

			longer, shorter := entries[i].BasePath, entries[j].BasePath
			if len(shorter) >= len(longer) {
				continue
			}

			if longer == shorter || strings.HasPrefix(longer, shorter+".") {
				return ErrAmbiguousBasePaths
			}
		}
	}

	return nil
}
