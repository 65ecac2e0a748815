package physics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerGenerations(t *testing.T) {
	var s Scheduler
	if s.Running() || s.Valid(0) {
		t.Fatal("zero scheduler should be stopped")
	}

	g1 := s.Start()
	if !s.Valid(g1) {
		t.Fatal("fresh generation should be valid")
	}
	g2 := s.Start()
	if g2 <= g1 {
		t.Fatalf("generation did not increase: %d -> %d", g1, g2)
	}
	if s.Valid(g1) {
		t.Error("stale generation still valid after restart")
	}
	s.Stop()
	if s.Valid(g2) || s.Running() {
		t.Error("frames valid after stop")
	}
}

func TestSchedulerRun(t *testing.T) {
	var s Scheduler
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var frames atomic.Int32
	err := s.Run(ctx, 5*time.Millisecond, func(gen uint64) {
		if !s.Valid(gen) {
			t.Errorf("frame issued with stale generation %d", gen)
		}
		frames.Add(1)
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
	if frames.Load() == 0 {
		t.Error("no frames delivered")
	}
}

func TestSchedulerRunStops(t *testing.T) {
	var s Scheduler
	s.Start()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), time.Millisecond, func(uint64) {})
	}()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
