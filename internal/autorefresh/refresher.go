package autorefresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kirychukyurii/dr-dashboard/internal/config"
	"github.com/kirychukyurii/dr-dashboard/internal/service"
)

// StatusLoader is the part of the dashboard service the refresher drives
type StatusLoader interface {
	LoadStatus(ctx context.Context) error
}

// Refresher periodically reloads the dashboard status
type Refresher struct {
	cfg     *config.AutoRefreshConfig
	loader  StatusLoader
	logger  *slog.Logger
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	skipped int // ticks skipped because an operator action was in flight
}

// NewRefresher creates a new refresher
func NewRefresher(cfg *config.AutoRefreshConfig, loader StatusLoader, logger *slog.Logger) *Refresher {
	return &Refresher{
		cfg:    cfg,
		loader: loader,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins the refresh loop in a background goroutine
func (r *Refresher) Start(ctx context.Context) {
	if !r.cfg.Enabled {
		r.logger.Info("auto refresh is disabled")
		return
	}

	r.logger.Info("starting auto refresh",
		slog.Duration("interval", r.cfg.Interval),
	)

	r.wg.Add(1)
	go r.run(ctx)
}

// Stop gracefully stops the refresher
func (r *Refresher) Stop() {
	if !r.cfg.Enabled {
		return
	}

	r.logger.Info("stopping auto refresh")
	close(r.stopCh)
	r.wg.Wait()
	r.logger.Info("auto refresh stopped")
}

// Skipped returns how many ticks found another action in flight
func (r *Refresher) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// run is the main refresh loop
func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// refresh performs a single status load
func (r *Refresher) refresh(ctx context.Context) {
	err := r.loader.LoadStatus(ctx)
	if errors.Is(err, service.ErrBusy) {
		r.mu.Lock()
		r.skipped++
		r.mu.Unlock()

		r.logger.Debug("auto refresh skipped, operator action in flight")
		return
	}
	if err != nil {
		r.logger.Warn("auto refresh failed",
			slog.String("error", err.Error()),
		)
	}
}
