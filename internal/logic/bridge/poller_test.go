package bridge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tempo/internal/constant"
	"tempo/internal/model"
	"tempo/internal/testutil"
	"tempo/internal/upstream/wormholescan"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	calls atomic.Int32
	ops   map[string]*wormholescan.Operation
	fail  map[string]bool
}

func (f *fakeFinder) OperationByTxHash(_ context.Context, txHash string) (*wormholescan.Operation, error) {
	f.calls.Add(1)
	if f.fail[txHash] {
		return nil, errors.New("wormholescan unavailable")
	}
	return f.ops[txHash], nil
}

func seedRows() []*model.WormholeTransactions {
	return []*model.WormholeTransactions{
		{Id: "a", TxHash: hashPending, Status: constant.TxStatusPending},
		{Id: "b", TxHash: hashVaa, Status: constant.TxStatusPending},
		{Id: "c", TxHash: hashCompleted, Status: constant.TxStatusVaaReady},
		{Id: "d", TxHash: hashUnknown, Status: constant.TxStatusCompleted},
	}
}

func TestPollerRunOnce(t *testing.T) {
	dao := testutil.NewMockWormholeTransactionsDao(seedRows()...)
	finder := &fakeFinder{
		ops: map[string]*wormholescan.Operation{
			hashVaa:       {Id: "op-2", Vaa: "AQ=="},
			hashCompleted: {Id: "op-3", Vaa: "AQ==", TargetStatus: "completed", TargetTxHash: "0xt"},
		},
		fail: map[string]bool{hashPending: true},
	}
	p := NewPollerWithClock(finder, dao, time.Second, 10, clockwork.NewFakeClock())

	changed, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	// completed rows are not polled
	assert.Equal(t, int32(3), finder.calls.Load())

	assert.Equal(t, constant.TxStatusPending, dao.Get("a").Status)
	assert.Nil(t, dao.Get("a").LastCheckedAt)
	assert.Equal(t, constant.TxStatusVaaReady, dao.Get("b").Status)
	assert.Equal(t, constant.TxStatusCompleted, dao.Get("c").Status)
	assert.NotNil(t, dao.Get("c").CompletedAt)
}

func TestPollerRunOnceSkipsFailedWrites(t *testing.T) {
	dao := testutil.NewMockWormholeTransactionsDao(seedRows()...)
	dao.UpdateErrFor = "b"
	finder := &fakeFinder{ops: map[string]*wormholescan.Operation{
		hashVaa:       {Vaa: "AQ=="},
		hashCompleted: {TargetStatus: "completed"},
	}}
	p := NewPollerWithClock(finder, dao, time.Second, 10, clockwork.NewFakeClock())

	changed, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, constant.TxStatusPending, dao.Get("b").Status)
}

func TestPollerRunOnceLoadError(t *testing.T) {
	dao := testutil.NewMockWormholeTransactionsDao()
	dao.Err = errors.New("db down")
	p := NewPollerWithClock(&fakeFinder{}, dao, time.Second, 10, clockwork.NewFakeClock())

	_, err := p.RunOnce(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestPollerRunTicks(t *testing.T) {
	dao := testutil.NewMockWormholeTransactionsDao(&model.WormholeTransactions{
		Id: "a", TxHash: hashPending, Status: constant.TxStatusPending,
	})
	finder := &fakeFinder{}
	clock := clockwork.NewFakeClock()
	p := NewPollerWithClock(finder, dao, 30*time.Second, 10, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// one poll at start, then one per tick
	assert.Eventually(t, func() bool { return finder.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(30 * time.Second)
	assert.Eventually(t, func() bool { return finder.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPollerStartStop(t *testing.T) {
	p := NewPollerWithClock(&fakeFinder{}, testutil.NewMockWormholeTransactionsDao(), time.Hour, 10, clockwork.NewFakeClock())

	stopped := make(chan struct{})
	go func() {
		p.Start()
		close(stopped)
	}()
	assert.Eventually(t, func() bool { return p.started.Load() }, time.Second, 5*time.Millisecond)

	p.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
