package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kirychukyurii/dr-dashboard/internal/concurrent"
	"github.com/kirychukyurii/dr-dashboard/internal/metrics"
	"github.com/kirychukyurii/dr-dashboard/internal/model"
	"github.com/kirychukyurii/dr-dashboard/internal/repository"
)

const (
	// FailoverPrompt is the question put to the operator before a failover is requested
	FailoverPrompt = "Are you sure you want to initiate a failover?"

	// FailoverFallbackMessage is surfaced when the failover request fails for any reason
	FailoverFallbackMessage = "Failed to initiate failover."
)

// Who requested a failover, recorded in the journal
const (
	RequestedByWeb = "web"
	RequestedByCLI = "cli"
)

// ErrBusy is returned when an operator action arrives while another one is in flight
var ErrBusy = errors.New("another request is in flight")

// Confirmer asks the operator a blocking yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f(ctx, prompt)
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Notifier shows a message to the operator
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifyFunc adapts a function to the Notifier interface
type NotifyFunc func(ctx context.Context, message string)

// Notify calls f(ctx, message)
func (f NotifyFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}

// FailoverOutcome describes what a failover request ended with
type FailoverOutcome struct {
	Confirmed bool
	Success   bool
	Message   string // the text shown to the operator, empty when not confirmed
}

// DashboardService defines the dashboard operations
type DashboardService interface {
	// PerformStartup restores the last journaled failover and performs the initial status load
	PerformStartup(ctx context.Context) error
	// LoadStatus fetches the status once and publishes the result
	LoadStatus(ctx context.Context) error
	// RequestFailover asks for confirmation, posts the failover and reloads the status
	RequestFailover(ctx context.Context, confirmer Confirmer, requestedBy string) (FailoverOutcome, error)
	// Snapshot returns the current immutable state
	Snapshot() model.State
	// Busy reports whether an operator action is in flight
	Busy() bool
}

// dashboardService implements DashboardService interface
type dashboardService struct {
	backend  repository.BackendRepository
	journal  repository.JournalRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	state   atomic.Pointer[model.State]
	stateMu sync.Mutex // serialises transitions
	busy    atomic.Bool
}

// NewDashboardService creates a new dashboard service in the initial Loading state
func NewDashboardService(
	backend repository.BackendRepository,
	journal repository.JournalRepository,
	notifier Notifier,
	logger *slog.Logger,
) DashboardService {
	s := &dashboardService{
		backend:  backend,
		journal:  journal,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}

	initial := model.State{}.WithLoading(s.now())
	s.state.Store(&initial)

	return s
}

// PerformStartup restores journal state and triggers the initial status load, both run concurrently
func (s *dashboardService) PerformStartup(ctx context.Context) error {
	return concurrent.Run(ctx, func(ctx context.Context) error {
		s.restoreLastFailover(ctx)
		return nil
	}, s.LoadStatus)
}

func (s *dashboardService) restoreLastFailover(ctx context.Context) {
	jctx, cancel := repository.WithJournalTimeout(ctx)
	defer cancel()

	record, err := s.journal.ReadLastFailover(jctx)
	switch {
	case err == nil:
		s.transition(func(st model.State) model.State {
			// A failover requested while restoring wins over the journaled one
			if st.LastFailover != nil {
				return st
			}
			return st.WithFailover(record)
		})
		s.logger.Info("restored last failover record",
			slog.Time("requested_at", record.RequestedAt),
			slog.String("requested_by", record.RequestedBy),
		)
	case errors.Is(err, repository.ErrNoFailoverRecord):
		s.logger.Debug("no failover recorded yet")
	default:
		s.logger.Warn("failed to read failover journal",
			slog.String("error", err.Error()),
		)
	}
}

// Snapshot returns the current state
func (s *dashboardService) Snapshot() model.State {
	return *s.state.Load()
}

// Busy reports whether an operator action is in flight
func (s *dashboardService) Busy() bool {
	return s.busy.Load()
}

// LoadStatus fetches the status once. Fetch failures are absorbed into the Failed state.
func (s *dashboardService) LoadStatus(ctx context.Context) error {
	if !s.acquire() {
		return ErrBusy
	}
	defer s.release()

	s.loadStatus(ctx)
	return nil
}

// RequestFailover runs the confirmation-gated failover flow
func (s *dashboardService) RequestFailover(ctx context.Context, confirmer Confirmer, requestedBy string) (FailoverOutcome, error) {
	confirmed, err := confirmer.Confirm(ctx, FailoverPrompt)
	if err != nil {
		s.logger.Warn("failover confirmation failed, treating as declined",
			slog.String("error", err.Error()),
		)
		confirmed = false
	}

	if !confirmed {
		metrics.FailoverRequests.WithLabelValues("declined").Inc()
		s.logger.Info("failover declined by operator",
			slog.String("requested_by", requestedBy),
		)
		return FailoverOutcome{}, nil
	}

	if !s.acquire() {
		return FailoverOutcome{Confirmed: true}, ErrBusy
	}
	defer s.release()

	s.logger.Warn("failover confirmed by operator",
		slog.String("requested_by", requestedBy),
	)

	s.transition(func(st model.State) model.State {
		return st.WithLoading(s.now())
	})

	outcome := FailoverOutcome{
		Confirmed: true,
		Message:   FailoverFallbackMessage,
	}

	result, err := s.backend.InitiateFailover(ctx)
	if err != nil {
		metrics.FailoverRequests.WithLabelValues("failed").Inc()
		s.logger.Error("failover initiation failed",
			slog.String("error", err.Error()),
		)
	} else {
		metrics.FailoverRequests.WithLabelValues("succeeded").Inc()
		outcome.Success = true
		outcome.Message = result.Message
		s.logger.Info("failover initiated",
			slog.String("message", result.Message),
		)
	}

	s.notifier.Notify(ctx, outcome.Message)

	record := &model.FailoverRecord{
		RequestedAt: s.now(),
		RequestedBy: requestedBy,
		Success:     outcome.Success,
		Message:     outcome.Message,
	}
	s.recordFailover(ctx, record)

	// The status is reloaded whatever the failover outcome was
	s.loadStatus(ctx)

	return outcome, nil
}

// loadStatus performs exactly one status fetch, the caller holds the busy flag
func (s *dashboardService) loadStatus(ctx context.Context) {
	s.transition(func(st model.State) model.State {
		return st.WithLoading(s.now())
	})

	status, err := s.backend.FetchStatus(ctx)
	if err != nil {
		metrics.StatusLoads.WithLabelValues("failed").Inc()
		s.logger.Error("failed to fetch status",
			slog.String("error", err.Error()),
		)
		status = nil
	} else {
		metrics.StatusLoads.WithLabelValues("loaded").Inc()
	}

	s.transition(func(st model.State) model.State {
		return st.WithStatus(status, s.now())
	})
}

func (s *dashboardService) recordFailover(ctx context.Context, record *model.FailoverRecord) {
	s.transition(func(st model.State) model.State {
		return st.WithFailover(record)
	})

	jctx, cancel := repository.WithJournalTimeout(ctx)
	defer cancel()

	if err := s.journal.WriteFailover(jctx, record); err != nil {
		s.logger.Warn("failed to journal failover request",
			slog.String("error", err.Error()),
		)
	}
}

// transition publishes a new state derived from the current one
func (s *dashboardService) transition(fn func(model.State) model.State) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	next := fn(*s.state.Load())
	s.state.Store(&next)

	if next.Loading {
		metrics.Loading.Set(1)
	} else {
		metrics.Loading.Set(0)
	}
}

func (s *dashboardService) acquire() bool {
	if s.busy.CompareAndSwap(false, true) {
		return true
	}
	metrics.BusyRejections.Inc()
	return false
}

func (s *dashboardService) release() {
	s.busy.Store(false)
}
