package model

import (
	"errors"
	"testing"
	"time"
)

// TestSessionLifecycle tests the session state machine transitions.
func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("new session is idle", func(t *testing.T) {
		t.Parallel()

		s := NewSession("http://example.com", 2, 0, 3)
		if s.State() != StateIdle {
			t.Errorf("expected state %q, got %q", StateIdle, s.State())
		}
		if s.ID == "" {
			t.Error("expected non-empty session ID")
		}
	})

	t.Run("idle to running to completed", func(t *testing.T) {
		t.Parallel()

		s := NewSession("http://example.com", 2, 0, 3)
		if err := s.Begin(); err != nil {
			t.Fatalf("Begin() failed: %v", err)
		}
		if s.State() != StateRunning {
			t.Errorf("expected state %q, got %q", StateRunning, s.State())
		}
		if s.StartedAt.IsZero() {
			t.Error("expected StartedAt to be set after Begin()")
		}

		if err := s.Complete(); err != nil {
			t.Fatalf("Complete() failed: %v", err)
		}
		if s.State() != StateCompleted {
			t.Errorf("expected state %q, got %q", StateCompleted, s.State())
		}
		if s.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set after Complete()")
		}
	})

	t.Run("running to cancelled", func(t *testing.T) {
		t.Parallel()

		s := NewSession("http://example.com", 2, 0, 3)
		if err := s.Begin(); err != nil {
			t.Fatalf("Begin() failed: %v", err)
		}
		if err := s.Cancel(); err != nil {
			t.Fatalf("Cancel() failed: %v", err)
		}
		if s.State() != StateCancelled {
			t.Errorf("expected state %q, got %q", StateCancelled, s.State())
		}
	})

	t.Run("idle to failed", func(t *testing.T) {
		t.Parallel()

		s := NewSession("", 2, 0, 3)
		if err := s.Fail(); err != nil {
			t.Fatalf("Fail() failed: %v", err)
		}
		if s.State() != StateFailed {
			t.Errorf("expected state %q, got %q", StateFailed, s.State())
		}
	})

	t.Run("invalid transitions are rejected", func(t *testing.T) {
		t.Parallel()

		s := NewSession("http://example.com", 2, 0, 3)

		// Cannot complete or cancel before starting.
		if err := s.Complete(); err == nil {
			t.Error("expected error completing an idle session")
		}
		if err := s.Cancel(); err == nil {
			t.Error("expected error cancelling an idle session")
		}

		if err := s.Begin(); err != nil {
			t.Fatalf("Begin() failed: %v", err)
		}

		// Cannot start twice or fail a running session.
		if err := s.Begin(); err == nil {
			t.Error("expected error starting a running session")
		}
		if err := s.Fail(); err == nil {
			t.Error("expected error failing a running session")
		}

		var invalid *ErrInvalidTransition
		err := s.Begin()
		if !errors.As(err, &invalid) {
			t.Errorf("expected ErrInvalidTransition, got %T", err)
		}
	})
}

// TestSessionCounters tests fetched/failed counting.
func TestSessionCounters(t *testing.T) {
	t.Parallel()

	s := NewSession("http://example.com", 1, 0, 1)

	for i := 0; i < 3; i++ {
		s.RecordFetched()
	}
	s.RecordFailed()

	fetched, failed := s.Counts()
	if fetched != 3 {
		t.Errorf("expected 3 fetched, got %d", fetched)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed, got %d", failed)
	}
}

// TestSessionDuration tests duration reporting across lifecycle states.
func TestSessionDuration(t *testing.T) {
	t.Parallel()

	s := NewSession("http://example.com", 1, 0, 1)
	if s.Duration() != 0 {
		t.Error("expected zero duration before start")
	}

	if err := s.Begin(); err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if s.Duration() <= 0 {
		t.Error("expected positive duration while running")
	}

	if err := s.Complete(); err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	d := s.Duration()
	time.Sleep(10 * time.Millisecond)
	if s.Duration() != d {
		t.Error("expected duration to be frozen after completion")
	}
}
