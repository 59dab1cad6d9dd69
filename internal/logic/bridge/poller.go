package bridge

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"tempo/internal/constant"
	"tempo/internal/model"
	"tempo/internal/svc"

	"github.com/jonboulle/clockwork"
	"github.com/zeromicro/go-zero/core/logx"
)

// Poller re-checks open transfers on a fixed interval. It implements
// go-zero's service.Service so it runs inside the main ServiceGroup.
type Poller struct {
	checker  *StatusChecker
	dao      model.WormholeTransactionsDao
	interval time.Duration
	batch    int
	clock    clockwork.Clock

	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	done    chan struct{}
}

func NewPoller(svcCtx *svc.ServiceContext) *Poller {
	return NewPollerWithClock(
		svcCtx.WormholeScan,
		svcCtx.WormholeTransactionsDao,
		svcCtx.Config.Bridge.PollInterval,
		svcCtx.Config.Bridge.PollBatch,
		clockwork.NewRealClock(),
	)
}

func NewPollerWithClock(finder OperationFinder, dao model.WormholeTransactionsDao, interval time.Duration, batch int, clock clockwork.Clock) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batch <= 0 {
		batch = 50
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		checker:  NewStatusChecker(finder, dao, clock),
		dao:      dao,
		interval: interval,
		batch:    batch,
		clock:    clock,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// RunOnce checks one batch of open transfers. Failures on single rows are
// logged and skipped; it returns how many rows changed status.
func (p *Poller) RunOnce(ctx context.Context) (int, error) {
	rows, err := p.dao.FindByStatus(ctx, constant.OpenTxStatuses, p.batch)
	if err != nil {
		return 0, fmt.Errorf("load open transactions: %w", err)
	}

	changed := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			return changed, ctx.Err()
		}

		op, status, err := p.checker.Resolve(ctx, row.TxHash)
		if err != nil {
			logx.WithContext(ctx).Errorf("poll %s: %v", row.TxHash, err)
			continue
		}
		ok, err := p.checker.Persist(ctx, row, op, status)
		if err != nil {
			logx.WithContext(ctx).Errorf("persist %s: %v", row.TxHash, err)
			continue
		}
		if ok {
			changed++
			logx.WithContext(ctx).Infof("transaction %s moved to %s", row.TxHash, status)
		}
	}
	return changed, nil
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ticker.Chan():
			p.tick(ctx)
		case <-ctx.Done():
			logx.Info("bridge status poller stopped")
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	changed, err := p.RunOnce(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("bridge status poll failed: %v", err)
		return
	}
	if changed > 0 {
		logx.WithContext(ctx).Infof("bridge status poll updated %d transactions", changed)
	}
}

func (p *Poller) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	defer close(p.done)

	logx.Infof("bridge status poller started, interval %s", p.interval)
	p.Run(p.ctx)
}

func (p *Poller) Stop() {
	p.cancel()
	if p.started.Load() {
		<-p.done
	}
}
