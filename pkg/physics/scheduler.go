package physics

import (
	"context"
	"sync/atomic"
	"time"
)

// Scheduler issues simulation frames stamped with a generation.
//
// Every [Scheduler.Start] bumps the generation. A frame carries the
// generation current when it was issued; its consumer checks
// [Scheduler.Valid] and drops the frame if a restart happened in between.
// Rapid successive restarts therefore need no cancellation: stale frames
// simply do nothing.
//
// The zero value is a stopped scheduler at generation 0. Scheduler is safe
// for concurrent use.
type Scheduler struct {
	gen     atomic.Uint64
	running atomic.Bool
}

// Start marks the scheduler running under a new generation and returns it.
func (s *Scheduler) Start() uint64 {
	g := s.gen.Add(1)
	s.running.Store(true)
	return g
}

// Stop invalidates every outstanding frame and halts [Scheduler.Run].
func (s *Scheduler) Stop() {
	s.running.Store(false)
	s.gen.Add(1)
}

// Generation returns the current generation.
func (s *Scheduler) Generation() uint64 { return s.gen.Load() }

// Running reports whether the scheduler has been started and not stopped.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Valid reports whether a frame issued under gen may still run.
func (s *Scheduler) Valid(gen uint64) bool {
	return s.running.Load() && s.gen.Load() == gen
}

// Run calls frame once per interval with the generation current at that
// moment, until ctx is done or the scheduler is stopped. It returns
// ctx.Err() on cancellation and nil after Stop.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, frame func(gen uint64)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.Running() {
				return nil
			}
			frame(s.Generation())
		}
	}
}
