package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("zero interval should panic")
		}
	}()
	New(Options{Interval: 0}, zerolog.Nop())
}

func TestRunTicksUntilCancelled(t *testing.T) {
	s := New(Options{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(ctx context.Context, tick time.Time) error {
			if ticks.Add(1) >= 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
	if ticks.Load() < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", ticks.Load())
	}
}

func TestRunContinuesPastCycleErrors(t *testing.T) {
	s := New(Options{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(ctx context.Context, tick time.Time) error {
			if ticks.Add(1) >= 2 {
				cancel()
			}
			return errors.New("cycle failed")
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler should keep ticking after cycle errors")
	}
	if ticks.Load() < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", ticks.Load())
	}
}

func TestRunHonoursStartupDelayCancellation(t *testing.T) {
	s := New(Options{Interval: time.Hour, StartupDelay: time.Hour}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx, func(ctx context.Context, tick time.Time) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestNextTickAlignment(t *testing.T) {
	s := New(Options{Interval: time.Minute, AlignToStart: true}, zerolog.Nop())
	now := time.Date(2026, 8, 29, 12, 0, 25, 0, time.UTC)
	if got := s.nextTick(now); !got.Equal(time.Date(2026, 8, 29, 12, 1, 0, 0, time.UTC)) {
		t.Fatalf("aligned next tick = %v", got)
	}

	s = New(Options{Interval: time.Minute}, zerolog.Nop())
	if got := s.nextTick(now); !got.Equal(now.Add(time.Minute)) {
		t.Fatalf("unaligned next tick = %v", got)
	}
}
