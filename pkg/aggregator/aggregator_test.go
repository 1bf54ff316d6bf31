package aggregator

import (
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

var (
	wlc2     = models.Controller{Name: "wlc-2", Host: "10.16.0.3", Vendor: models.VendorCisco, Community: "public"}
	polledAt = time.Date(2025, 11, 4, 10, 30, 0, 0, time.UTC)
)

const apMAC = "00:1a:2b:3c:4d:5e"

func raw(value interface{}) models.RawValue {
	return models.RawValue{Value: value, Type: gosnmp.Integer}
}

// dualRadioDevice builds the two-slot device from the reference
// scenario: both radios enabled, slot 0 on 2.4GHz with 5 clients,
// slot 1 on 5GHz with 3 clients.
func dualRadioDevice() models.PartialDeviceMetrics {
	metrics := make(models.PartialDeviceMetrics)

	metrics.SetSlot(apMAC, models.AliasAdminStatus, 0, raw(2))
	metrics.SetSlot(apMAC, models.AliasAdminStatus, 1, raw(2))
	metrics.SetSlot(apMAC, models.AliasRadioBand, 0, raw("1"))
	metrics.SetSlot(apMAC, models.AliasRadioBand, 1, raw("2"))
	metrics.SetSlot(apMAC, models.AliasClientCount, 0, raw(5))
	metrics.SetSlot(apMAC, models.AliasClientCount, 1, raw(3))

	return metrics
}

func TestAggregateSumsClientsPerBand(t *testing.T) {
	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", dualRadioDevice(), polledAt)

	require.Len(t, snapshots, 1)

	snapshot := snapshots[0]
	assert.Equal(t, apMAC, snapshot.MAC)
	assert.Equal(t, "wlc-2", snapshot.Controller)
	assert.Equal(t, int64(5), snapshot.Clients24)
	assert.Equal(t, int64(3), snapshot.Clients5)
	assert.Equal(t, int64(0), snapshot.Clients6)
	assert.Equal(t, int64(8), snapshot.TotalClients())
	assert.Equal(t, models.StatusUp, snapshot.Status)
	assert.Equal(t, "cycle-1", snapshot.CycleID)
	assert.Equal(t, polledAt, snapshot.PolledAt)
	assert.Len(t, snapshot.Slots, 2)
}

func TestAggregateDisabledSlotExcludedAndRadioOff(t *testing.T) {
	metrics := dualRadioDevice()
	metrics.SetSlot(apMAC, models.AliasAdminStatus, 0, raw(3))

	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 1)

	snapshot := snapshots[0]
	assert.Equal(t, models.StatusRadioOff, snapshot.Status)
	assert.Equal(t, int64(0), snapshot.Clients24)
	assert.Equal(t, int64(3), snapshot.Clients5)
	assert.Len(t, snapshot.Slots, 2)
}

func TestAggregateDeviceStatusOverridesRadioStatus(t *testing.T) {
	metrics := dualRadioDevice()
	metrics.SetSlot(apMAC, models.AliasAdminStatus, 0, raw(3))
	metrics.SetScalar(apMAC, models.AliasOperStatus, raw(3))

	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 1)
	assert.Equal(t, models.StatusDownloading, snapshots[0].Status)
}

func TestAggregateDeviceDownWins(t *testing.T) {
	metrics := dualRadioDevice()
	metrics.SetScalar(apMAC, models.AliasOperStatus, raw(2))

	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 1)
	assert.Equal(t, models.StatusDown, snapshots[0].Status)
}

func TestAggregateDropsMisalignedDevice(t *testing.T) {
	metrics := dualRadioDevice()
	metrics.SetSlot(apMAC, models.AliasClientCount, 2, raw(4))

	healthy := "aa:bb:cc:dd:ee:ff"
	metrics.SetSlot(healthy, models.AliasAdminStatus, 0, raw(2))
	metrics.SetSlot(healthy, models.AliasRadioBand, 0, raw("3"))
	metrics.SetSlot(healthy, models.AliasClientCount, 0, raw(7))

	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 1)
	assert.Equal(t, healthy, snapshots[0].MAC)
	assert.Equal(t, int64(7), snapshots[0].Clients6)
}

func TestAggregateUnmappedBandSkipped(t *testing.T) {
	metrics := dualRadioDevice()
	metrics.SetSlot(apMAC, models.AliasRadioBand, 1, raw("9"))

	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 1)
	assert.Equal(t, int64(5), snapshots[0].Clients24)
	assert.Equal(t, int64(0), snapshots[0].Clients5)
	assert.Equal(t, models.StatusUp, snapshots[0].Status)
}

func TestAggregateCarriesScalarsAndDiagnostics(t *testing.T) {
	buildingID := int64(4)
	controller := wlc2
	controller.BuildingID = &buildingID

	metrics := dualRadioDevice()
	metrics.SetScalar(apMAC, models.AliasIPAddress, models.RawValue{Value: "10.20.30.40", Type: gosnmp.OctetString})
	metrics.SetScalar(apMAC, models.AliasTxBytes, models.RawValue{Value: uint64(123456), Type: gosnmp.Counter64})
	metrics.SetScalar(apMAC, models.AliasRxBytes, models.RawValue{Value: uint64(654321), Type: gosnmp.Counter64})
	metrics.SetSlot(apMAC, models.AliasChannel, 0, raw(6))
	metrics.SetSlot(apMAC, models.AliasChannel, 1, raw(36))

	snapshots := New(logger.NewTestLogger()).Aggregate(controller, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 1)

	snapshot := snapshots[0]
	assert.Equal(t, "10.20.30.40", snapshot.IP)
	require.NotNil(t, snapshot.BuildingID)
	assert.Equal(t, buildingID, *snapshot.BuildingID)
	assert.Equal(t, uint64(123456), snapshot.TxBytes.Value)
	assert.Equal(t, uint64(654321), snapshot.RxBytes.Value)

	require.Len(t, snapshot.Slots, 2)
	require.NotNil(t, snapshot.Slots[0].Channel)
	assert.Equal(t, int64(6), *snapshot.Slots[0].Channel)
	require.NotNil(t, snapshot.Slots[1].Channel)
	assert.Equal(t, int64(36), *snapshot.Slots[1].Channel)
}

func TestAggregateDeterministicOrder(t *testing.T) {
	metrics := make(models.PartialDeviceMetrics)

	for _, mac := range []string{"cc:00:00:00:00:01", "aa:00:00:00:00:01", "bb:00:00:00:00:01"} {
		metrics.SetSlot(mac, models.AliasAdminStatus, 0, raw(2))
		metrics.SetSlot(mac, models.AliasRadioBand, 0, raw("1"))
		metrics.SetSlot(mac, models.AliasClientCount, 0, raw(1))
	}

	snapshots := New(logger.NewTestLogger()).Aggregate(wlc2, "cycle-1", metrics, polledAt)

	require.Len(t, snapshots, 3)
	assert.Equal(t, "aa:00:00:00:00:01", snapshots[0].MAC)
	assert.Equal(t, "bb:00:00:00:00:01", snapshots[1].MAC)
	assert.Equal(t, "cc:00:00:00:00:01", snapshots[2].MAC)
}
