package oidcat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

func newTestResolver(t *testing.T, vendor models.Vendor) *Resolver {
	t.Helper()

	catalog, err := New()
	require.NoError(t, err)

	return catalog.Resolver(vendor)
}

func intValue(v int) models.RawValue {
	return models.RawValue{Value: v, Type: gosnmp.Integer}
}

func TestResolveMACSlotRoundTrip(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)

	catalog, err := New()
	require.NoError(t, err)

	for _, entry := range catalog.Walked(models.VendorCisco) {
		if entry.Arity != models.ArityMACSlot {
			continue
		}

		// Sweep every octet value through one position, all slots.
		for octet := 0; octet <= 255; octet++ {
			for slot := 0; slot <= 2; slot++ {
				path := fmt.Sprintf("%s.%d.0.17.34.51.68.%d", entry.BasePath, octet, slot)

				binding, ok := resolver.Resolve(path, intValue(1))
				require.True(t, ok, "path %s must resolve", path)

				wantMAC := fmt.Sprintf("%02x:00:11:22:33:44", octet)
				assert.Equal(t, entry.Alias, binding.Alias)
				assert.Equal(t, wantMAC, binding.DeviceKey)
				assert.True(t, binding.HasSlot)
				assert.Equal(t, slot, binding.SlotIndex)
			}
		}
	}
}

func TestResolveMACHighComponentsWrap(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)

	// Sub-identifiers above 255 reduce mod 256.
	path := ".1.3.6.1.4.1.14179.2.2.1.1.6.300.0.17.34.51.68"

	binding, ok := resolver.Resolve(path, intValue(1))
	require.True(t, ok)
	assert.Equal(t, "2c:00:11:22:33:44", binding.DeviceKey)
	assert.False(t, binding.HasSlot)
}

func TestResolveNameRoundTrip(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)
	base := ".1.3.6.1.4.1.14179.2.1.1.1.38"

	names := []string{
		"",
		"a",
		"KUWIN",
		"KUWIN-WIFI-eduroam",
		"guest network 42",
		string([]byte{0x00, 0x7f, 0x80, 0xfe, 0xff}),
		strings.Repeat("x", 32),
	}

	for _, name := range names {
		parts := []string{base, fmt.Sprintf("%d", len(name))}
		for i := 0; i < len(name); i++ {
			parts = append(parts, fmt.Sprintf("%d", name[i]))
		}

		path := strings.Join(parts, ".")

		binding, ok := resolver.Resolve(path, intValue(7))
		require.True(t, ok, "name %q must resolve", name)
		assert.Equal(t, models.AliasSSIDClients, binding.Alias)
		assert.Equal(t, name, binding.DeviceKey)
		assert.False(t, binding.HasSlot)
	}
}

func TestResolveNameLengthMismatchDropped(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)
	base := ".1.3.6.1.4.1.14179.2.1.1.1.38"

	// Declared length 5, only 3 byte codes follow.
	_, ok := resolver.Resolve(base+".5.75.85.87", intValue(0))
	assert.False(t, ok)

	// Declared length 2, 4 byte codes follow.
	_, ok = resolver.Resolve(base+".2.75.85.87.73", intValue(0))
	assert.False(t, ok)
}

func TestResolveMalformedSuffixes(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)

	tests := []struct {
		name string
		path string
	}{
		{"mac arity with five components", ".1.3.6.1.4.1.14179.2.2.1.1.6.1.2.3.4.5"},
		{"mac arity with seven components", ".1.3.6.1.4.1.14179.2.2.1.1.6.1.2.3.4.5.6.7"},
		{"mac+slot arity missing slot", ".1.3.6.1.4.1.14179.2.2.13.1.4.1.2.3.4.5.6"},
		{"non-numeric component", ".1.3.6.1.4.1.14179.2.2.1.1.6.1.2.3.4.5.x"},
		{"bare base path for mac arity", ".1.3.6.1.4.1.14179.2.2.1.1.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := resolver.Resolve(tt.path, intValue(0))
			assert.False(t, ok)
		})
	}
}

func TestResolveUnknownSubtree(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)

	// Adjacent subtree a firmware walk can stray into.
	_, ok := resolver.Resolve(".1.3.6.1.4.1.14179.2.2.99.1.1.0", intValue(0))
	assert.False(t, ok)

	_, ok = resolver.Resolve(".1.3.6.1.2.1.1.1.0", intValue(0))
	assert.False(t, ok)
}

func TestResolveWithoutLeadingDot(t *testing.T) {
	resolver := newTestResolver(t, models.VendorCisco)

	binding, ok := resolver.Resolve("1.3.6.1.4.1.14179.2.2.1.1.6.0.1.2.3.4.5", intValue(1))
	require.True(t, ok)
	assert.Equal(t, "00:01:02:03:04:05", binding.DeviceKey)
}
