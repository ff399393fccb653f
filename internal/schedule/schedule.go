// Package schedule provides a keyed debounce scheduler. Scheduling a task
// under a key that already has a pending task replaces it and restarts the
// delay, so only the latest task for a key ever runs.
package schedule

import (
	"sync"
	"time"
)

// Timer is the cancellable handle returned by a Clock.
type Timer interface {
	Stop() bool
}

// Clock abstracts timer creation so tests can drive time deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock implements Clock with time.AfterFunc.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler runs at most one delayed task per key.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	delay  time.Duration
	timers map[string]Timer
	closed bool
}

// New creates a Scheduler firing tasks after the given quiet period.
// A nil clock defaults to the real clock.
func New(delay time.Duration, clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		clock:  clock,
		delay:  delay,
		timers: map[string]Timer{},
	}
}

// Schedule arranges for fn to run after the quiet period. A pending task
// under the same key is cancelled and replaced.
func (s *Scheduler) Schedule(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			fn()
		}
	})
}

// Cancel stops the pending task for a key, if any.
// Returns true if a task was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[key]
	if ok {
		t.Stop()
		delete(s.timers, key)
	}
	return ok
}

// Pending reports whether a task is scheduled for the key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Close cancels all pending tasks. Further Schedule calls are ignored,
// so a stale timer can never fire against a torn-down owner.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}
