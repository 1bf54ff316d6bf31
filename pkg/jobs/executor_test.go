package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/oidcat"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/snmp"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/walker"
)

const rxBytesBase = ".1.3.6.1.4.1.14179.2.2.1.1.31"

func rxBytesJob(flowID string) models.WalkJobSpec {
	return models.WalkJobSpec{
		ID:         "c1",
		FlowID:     flowID,
		Controller: jobController,
		OID: models.OIDDescriptor{
			Vendor:   models.VendorCisco,
			Alias:    models.AliasRxBytes,
			BasePath: rxBytesBase,
			Arity:    models.ArityMAC,
		},
	}
}

func newExecutorWalker(t *testing.T) *walker.Walker {
	t.Helper()

	catalog, err := oidcat.New()
	require.NoError(t, err)

	return walker.New(catalog, 10, logger.NewTestLogger())
}

func TestWalkExecutorWalksAndClosesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := snmp.NewMockSession(ctrl)
	session.EXPECT().GetBulk([]string{rxBytesBase}, uint8(0), uint32(10)).Return(&gosnmp.SnmpPacket{
		Variables: []gosnmp.SnmpPDU{
			{Name: rxBytesBase + ".0.1.2.3.4.5", Type: gosnmp.Counter64, Value: uint64(4096)},
			{Name: ".1.3.6.1.4.1.14179.2.2.1.1.32.0.1.2.3.4.5", Type: gosnmp.Integer, Value: 1},
		},
	}, nil)
	session.EXPECT().Close().Return(nil)

	opener := snmp.NewMockOpener(ctrl)
	opener.EXPECT().Open(jobController).Return(session, nil)

	executor := NewWalkExecutor(opener, newExecutorWalker(t), 10*time.Second, logger.NewTestLogger())

	metrics, err := executor.Execute(context.Background(), rxBytesJob("flow-1"))
	require.NoError(t, err)

	device, ok := metrics["00:01:02:03:04:05"]
	require.True(t, ok)

	value, ok := device[models.AliasRxBytes]
	require.True(t, ok)
	require.NotNil(t, value.Scalar)
	assert.Equal(t, uint64(4096), value.Scalar.Value)
}

func TestWalkExecutorOpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opener := snmp.NewMockOpener(ctrl)
	opener.EXPECT().Open(jobController).Return(nil, errors.New("no route to host"))

	executor := NewWalkExecutor(opener, newExecutorWalker(t), 10*time.Second, logger.NewTestLogger())

	_, err := executor.Execute(context.Background(), rxBytesJob("flow-2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route to host")
}

func TestWalkExecutorClosesSessionOnWalkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := snmp.NewMockSession(ctrl)
	session.EXPECT().GetBulk(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("request timeout"))
	session.EXPECT().Close().Return(nil)

	opener := snmp.NewMockOpener(ctrl)
	opener.EXPECT().Open(jobController).Return(session, nil)

	executor := NewWalkExecutor(opener, newExecutorWalker(t), 10*time.Second, logger.NewTestLogger())

	_, err := executor.Execute(context.Background(), rxBytesJob("flow-3"))
	require.Error(t, err)
}

func TestWalkExecutorHonorsChildTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := snmp.NewMockSession(ctrl)
	session.EXPECT().GetBulk(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func([]string, uint8, uint32) (*gosnmp.SnmpPacket, error) {
			time.Sleep(20 * time.Millisecond)
			return &gosnmp.SnmpPacket{Variables: []gosnmp.SnmpPDU{
				{Name: rxBytesBase + ".0.1.2.3.4.5", Type: gosnmp.Counter64, Value: uint64(1)},
			}}, nil
		}).AnyTimes()
	session.EXPECT().Close().Return(nil)

	opener := snmp.NewMockOpener(ctrl)
	opener.EXPECT().Open(jobController).Return(session, nil)

	executor := NewWalkExecutor(opener, newExecutorWalker(t), 10*time.Millisecond, logger.NewTestLogger())

	_, err := executor.Execute(context.Background(), rxBytesJob("flow-4"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
