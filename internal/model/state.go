package model

import "time"

// Phase represents the dashboard state machine position
type Phase string

// Dashboard phases
const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// State is an immutable snapshot of the dashboard.
// A new State is built on every transition; published values are never modified.
type State struct {
	Phase        Phase           `json:"phase"`
	Loading      bool            `json:"loading"`
	Status       *SystemStatus   `json:"status"` // nil when the last fetch failed
	UpdatedAt    time.Time       `json:"updated_at"`
	LastFailover *FailoverRecord `json:"last_failover,omitempty"`
}

// WithLoading returns a copy of the state in the Loading phase.
// The previous status is kept so observers can still read it, but Render never shows it while loading.
func (s State) WithLoading(now time.Time) State {
	s.Phase = PhaseLoading
	s.Loading = true
	s.UpdatedAt = now
	return s
}

// WithStatus returns a copy of the state holding a freshly fetched status
func (s State) WithStatus(status *SystemStatus, now time.Time) State {
	s.Loading = false
	s.UpdatedAt = now
	s.Status = status
	if status == nil {
		s.Phase = PhaseFailed
	} else {
		s.Phase = PhaseLoaded
	}
	return s
}

// WithFailover returns a copy of the state carrying the latest failover record
func (s State) WithFailover(record *FailoverRecord) State {
	s.LastFailover = record
	return s
}
