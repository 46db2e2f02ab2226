package auctioncron

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingTicker struct {
	mu     sync.Mutex
	ticks  int
	deltas []time.Duration
}

func (r *recordingTicker) TickAuctions(delta time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.deltas = append(r.deltas, delta)
}

func (r *recordingTicker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

func TestCronTicksTarget(t *testing.T) {
	target := &recordingTicker{}
	cron := New(target, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		cron.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for target.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("cron produced only %d ticks", target.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	target.mu.Lock()
	defer target.mu.Unlock()
	for _, delta := range target.deltas {
		if delta != 10*time.Millisecond {
			t.Fatalf("tick delta must equal the interval, got %s", delta)
		}
	}
}

func TestCronRunStopsOnCancel(t *testing.T) {
	cron := New(&recordingTicker{}, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		cron.Run(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cron did not stop on context cancellation")
	}
}

func TestNewDefaults(t *testing.T) {
	cron := New(&recordingTicker{}, 0, nil)
	if cron.interval != time.Minute {
		t.Fatalf("non-positive interval must fall back to a minute, got %s", cron.interval)
	}
	if cron.logger == nil {
		t.Fatal("logger must never be nil")
	}
}
