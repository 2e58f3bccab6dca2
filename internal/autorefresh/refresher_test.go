package autorefresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/kirychukyurii/dr-dashboard/internal/config"
	"github.com/kirychukyurii/dr-dashboard/internal/logger"
	"github.com/kirychukyurii/dr-dashboard/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLoader struct {
	calls atomic.Int32
	err   error
}

func (f *fakeLoader) LoadStatus(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestRefresher_LoadsOnEveryTick(t *testing.T) {
	loader := &fakeLoader{}
	r := NewRefresher(&config.AutoRefreshConfig{Enabled: true, Interval: 5 * time.Millisecond}, loader, logger.Discard())

	r.Start(context.Background())
	assert.Eventually(t, func() bool { return loader.calls.Load() >= 3 }, time.Second, time.Millisecond)
	r.Stop()

	stopped := loader.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, loader.calls.Load(), "no loads after stop")
	assert.Zero(t, r.Skipped())
}

func TestRefresher_CountsBusySkips(t *testing.T) {
	loader := &fakeLoader{err: service.ErrBusy}
	r := NewRefresher(&config.AutoRefreshConfig{Enabled: true, Interval: 5 * time.Millisecond}, loader, logger.Discard())

	r.Start(context.Background())
	assert.Eventually(t, func() bool { return r.Skipped() >= 2 }, time.Second, time.Millisecond)
	r.Stop()
}

func TestRefresher_OtherErrorsAreNotSkips(t *testing.T) {
	loader := &fakeLoader{err: errors.New("unexpected")}
	r := NewRefresher(&config.AutoRefreshConfig{Enabled: true, Interval: 5 * time.Millisecond}, loader, logger.Discard())

	r.Start(context.Background())
	assert.Eventually(t, func() bool { return loader.calls.Load() >= 2 }, time.Second, time.Millisecond)
	r.Stop()

	assert.Zero(t, r.Skipped())
}

func TestRefresher_StopsWithContext(t *testing.T) {
	loader := &fakeLoader{}
	r := NewRefresher(&config.AutoRefreshConfig{Enabled: true, Interval: 5 * time.Millisecond}, loader, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	assert.Eventually(t, func() bool { return loader.calls.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	r.wg.Wait()
}

func TestRefresher_Disabled(t *testing.T) {
	loader := &fakeLoader{}
	r := NewRefresher(&config.AutoRefreshConfig{Enabled: false, Interval: time.Millisecond}, loader, logger.Discard())

	r.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	r.Stop()

	assert.Zero(t, loader.calls.Load())
}
