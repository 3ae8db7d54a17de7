package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a crawl session.
//
// Transitions: Idle -> Running -> {Completed, Cancelled, Failed}.
// Failed is only reachable through configuration errors detected before
// any work starts; per-page fetch failures never change the state.
type State string

// Session states.
const (
	// StateIdle means the session has been created but not started.
	StateIdle State = "idle"

	// StateRunning means workers are actively crawling.
	StateRunning State = "running"

	// StateCompleted means the frontier drained with no fetch in flight.
	StateCompleted State = "completed"

	// StateCancelled means the session was stopped by the user.
	StateCancelled State = "cancelled"

	// StateFailed means the session was rejected before starting.
	StateFailed State = "failed"
)

// ErrInvalidTransition is returned when a session state change is not
// allowed from the current state.
type ErrInvalidTransition struct {
	From State
	To   State
}

// Error implements the error interface.
func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid session transition: %s -> %s", e.From, e.To)
}

// Session holds the parameters and live counters of a single crawl run.
// One Session is created per "start"; it is never reused. Multiple
// sessions can exist independently because nothing in the package is
// process-global.
//
// Design decision: Counters and state share one mutex instead of using
// atomics because they are read together when reporting progress, and the
// update rate (one per fetched page) is far below contention levels where
// the lock would matter.
type Session struct {
	// ID uniquely identifies the session in the crawl history database.
	ID string `json:"id"`

	// SeedURL is the normalized starting URL.
	SeedURL string `json:"seed_url"`

	// MaxDepth bounds the traversal. 0 means only the seed page.
	MaxDepth int `json:"max_depth"`

	// Delay is the per-worker pause between consecutive fetches.
	Delay time.Duration `json:"delay"`

	// Workers is the size of the concurrent fetch pool.
	Workers int `json:"workers"`

	// OutputDir is where the mirror writer persists content.
	OutputDir string `json:"output_dir,omitempty"`

	// StartedAt is when the session entered Running.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the session reached a terminal state.
	FinishedAt time.Time `json:"finished_at"`

	mu      sync.Mutex
	state   State
	fetched int
	failed  int
}

// NewSession creates an Idle session with a fresh UUID.
func NewSession(seedURL string, maxDepth int, delay time.Duration, workers int) *Session {
	return &Session{
		ID:       uuid.NewString(),
		SeedURL:  seedURL,
		MaxDepth: maxDepth,
		Delay:    delay,
		Workers:  workers,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves the session from Idle to Running and stamps StartedAt.
func (s *Session) Begin() error {
	return s.transition(StateIdle, StateRunning)
}

// Complete moves the session from Running to Completed.
func (s *Session) Complete() error {
	return s.transition(StateRunning, StateCompleted)
}

// Cancel moves the session from Running to Cancelled.
func (s *Session) Cancel() error {
	return s.transition(StateRunning, StateCancelled)
}

// Fail moves the session from Idle to Failed. It is only used for
// configuration errors rejected before any work starts.
func (s *Session) Fail() error {
	return s.transition(StateIdle, StateFailed)
}

// transition performs a guarded state change and maintains timestamps.
func (s *Session) transition(from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != from {
		return &ErrInvalidTransition{From: s.state, To: to}
	}
	s.state = to

	now := time.Now()
	switch to {
	case StateRunning:
		s.StartedAt = now
	case StateCompleted, StateCancelled, StateFailed:
		s.FinishedAt = now
	}
	return nil
}

// RecordFetched increments the successfully fetched page counter.
func (s *Session) RecordFetched() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched++
}

// RecordFailed increments the failed page counter.
func (s *Session) RecordFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

// Counts returns the fetched and failed page counts as a consistent pair.
func (s *Session) Counts() (fetched, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched, s.failed
}

// Duration returns how long the session ran. For a session that is still
// Running it returns the elapsed time so far.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.StartedAt.IsZero() {
		return 0
	}
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
