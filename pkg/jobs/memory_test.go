package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/logger"
	"github.com/ffamee/kuwin-ap-backend-sub000/pkg/models"
)

var jobController = models.Controller{Name: "wlc-1", Host: "10.16.0.2", Vendor: models.VendorCisco, Community: "public"}

func walkChild(flowID, id, alias string) models.WalkJobSpec {
	return models.WalkJobSpec{
		ID:         id,
		FlowID:     flowID,
		Controller: jobController,
		OID: models.OIDDescriptor{
			Vendor: models.VendorCisco,
			Alias:  alias,
			Arity:  models.ArityMAC,
		},
	}
}

func pollFlow(flowID string, children ...models.WalkJobSpec) models.PollJobSpec {
	return models.PollJobSpec{
		FlowID:     flowID,
		CycleID:    "cycle-1",
		Controller: jobController,
		Children:   children,
	}
}

func metricsFor(alias string) models.PartialDeviceMetrics {
	m := make(models.PartialDeviceMetrics)
	m.SetScalar("00:01:02:03:04:05", alias, models.RawValue{Value: 1})

	return m
}

func TestMemoryBrokerCompletesFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := NewMockExecutor(ctrl)

	spec := pollFlow("flow-1",
		walkChild("flow-1", "c1", models.AliasRxBytes),
		walkChild("flow-1", "c2", models.AliasTxBytes),
		walkChild("flow-1", "c3", models.AliasIPAddress),
	)

	for _, child := range spec.Children {
		executor.EXPECT().Execute(gomock.Any(), child).Return(metricsFor(child.OID.Alias), nil)
	}

	broker := NewMemoryBroker(executor, 2, 3, time.Millisecond, logger.NewTestLogger())

	handle, err := broker.SubmitFlow(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 3, handle.Expected)

	result, err := broker.AwaitCompletion(context.Background(), handle)
	require.NoError(t, err)

	assert.Equal(t, models.CycleCompleted, result.State)
	assert.Len(t, result.Children, 3)

	for _, child := range result.Children {
		assert.False(t, child.Failed)
		assert.Equal(t, 1, child.Attempts)
		assert.NotEmpty(t, child.Metrics)
	}
}

func TestMemoryBrokerIsolatesChildFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := NewMockExecutor(ctrl)

	good := walkChild("flow-2", "c1", models.AliasRxBytes)
	bad := walkChild("flow-2", "c2", models.AliasTxBytes)

	executor.EXPECT().Execute(gomock.Any(), good).Return(metricsFor(good.OID.Alias), nil)
	executor.EXPECT().Execute(gomock.Any(), bad).Return(nil, errors.New("request timeout")).Times(3)

	broker := NewMemoryBroker(executor, 2, 3, time.Millisecond, logger.NewTestLogger())

	handle, err := broker.SubmitFlow(context.Background(), pollFlow("flow-2", good, bad))
	require.NoError(t, err)

	result, err := broker.AwaitCompletion(context.Background(), handle)
	require.NoError(t, err)

	assert.Equal(t, models.CyclePartiallyFailed, result.State)
	require.Len(t, result.Children, 2)

	byID := make(map[string]ChildResult, 2)
	for _, child := range result.Children {
		byID[child.Spec.ID] = child
	}

	assert.False(t, byID["c1"].Failed)
	assert.True(t, byID["c2"].Failed)
	assert.Equal(t, 3, byID["c2"].Attempts)
	assert.Equal(t, "request timeout", byID["c2"].Error)
}

func TestMemoryBrokerRetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := NewMockExecutor(ctrl)

	child := walkChild("flow-3", "c1", models.AliasClientCount)

	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), child).Return(nil, errors.New("connection reset")),
		executor.EXPECT().Execute(gomock.Any(), child).Return(metricsFor(child.OID.Alias), nil),
	)

	broker := NewMemoryBroker(executor, 1, 3, time.Millisecond, logger.NewTestLogger())

	handle, err := broker.SubmitFlow(context.Background(), pollFlow("flow-3", child))
	require.NoError(t, err)

	result, err := broker.AwaitCompletion(context.Background(), handle)
	require.NoError(t, err)

	assert.Equal(t, models.CycleCompleted, result.State)
	require.Len(t, result.Children, 1)
	assert.Equal(t, 2, result.Children[0].Attempts)
	assert.False(t, result.Children[0].Failed)
}

func TestMemoryBrokerBoundsConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const workers = 2

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)

	executor := NewMockExecutor(ctrl)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec models.WalkJobSpec) (models.PartialDeviceMetrics, error) {
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()

			return metricsFor(spec.OID.Alias), nil
		}).Times(6)

	broker := NewMemoryBroker(executor, workers, 1, time.Millisecond, logger.NewTestLogger())

	children := make([]models.WalkJobSpec, 0, 6)
	for _, alias := range []string{"a", "b", "c", "d", "e", "f"} {
		children = append(children, walkChild("flow-4", alias, alias))
	}

	handle, err := broker.SubmitFlow(context.Background(), pollFlow("flow-4", children...))
	require.NoError(t, err)

	_, err = broker.AwaitCompletion(context.Background(), handle)
	require.NoError(t, err)

	assert.LessOrEqual(t, maxSeen, workers)
}

func TestMemoryBrokerUnknownFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broker := NewMemoryBroker(NewMockExecutor(ctrl), 1, 1, time.Millisecond, logger.NewTestLogger())

	_, err := broker.AwaitCompletion(context.Background(), &FlowHandle{FlowID: "missing", Expected: 1})
	require.ErrorIs(t, err, ErrUnknownFlow)
}

func TestMemoryBrokerAwaitCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := NewMockExecutor(ctrl)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ models.WalkJobSpec) (models.PartialDeviceMetrics, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).AnyTimes()

	broker := NewMemoryBroker(executor, 1, 1, time.Millisecond, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())

	handle, err := broker.SubmitFlow(ctx, pollFlow("flow-5", walkChild("flow-5", "c1", models.AliasRxBytes)))
	require.NoError(t, err)

	cancel()

	_, err = broker.AwaitCompletion(ctx, handle)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, models.CycleCompleted, StateOf(nil))
	assert.Equal(t, models.CycleCompleted, StateOf([]ChildResult{{}, {}}))
	assert.Equal(t, models.CyclePartiallyFailed, StateOf([]ChildResult{{}, {Failed: true}}))
}
