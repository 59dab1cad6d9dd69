package depin

import (
	"context"
	"fmt"
	"time"

	"tempo/internal/model"
	"tempo/internal/svc"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"
)

// Janitor marks devices offline once they have been silent for OfflineAfter.
// It implements go-zero's service.Service.
type Janitor struct {
	dao          model.DeviceRegistryDao
	offlineAfter time.Duration
	clock        clockwork.Clock
	cron         *cron.Cron
}

func NewJanitor(svcCtx *svc.ServiceContext) (*Janitor, error) {
	return NewJanitorWithClock(svcCtx.DeviceRegistryDao, svcCtx.Config.Depin.JanitorSpec,
		svcCtx.Config.Depin.OfflineAfter, clockwork.NewRealClock())
}

func NewJanitorWithClock(dao model.DeviceRegistryDao, spec string, offlineAfter time.Duration, clock clockwork.Clock) (*Janitor, error) {
	j := &Janitor{
		dao:          dao,
		offlineAfter: offlineAfter,
		clock:        clock,
		cron:         cron.New(),
	}
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", spec, err)
	}
	return j, nil
}

// Sweep marks silent devices offline and returns how many changed.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	cutoff := j.clock.Now().Add(-j.offlineAfter)
	return j.dao.MarkOfflineBefore(ctx, cutoff)
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := j.Sweep(ctx)
	if err != nil {
		logx.Errorf("device janitor sweep failed: %v", err)
		return
	}
	if n > 0 {
		logx.Infof("device janitor marked %d devices offline", n)
	}
}

// Start blocks running the schedule until Stop.
func (j *Janitor) Start() {
	logx.Infof("device janitor started, offline after %s", j.offlineAfter)
	j.cron.Run()
}

func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
