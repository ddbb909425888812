package testutil

import (
	"sync"
	"time"

	"github.com/at-ishikawa/alg/internal/schedule"
)

// ManualScheduler holds callbacks until the test fires them.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	scheduler *ManualScheduler
	delay     time.Duration
	f         func()
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) schedule.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &manualTimer{scheduler: s, delay: d, f: f}
	s.pending = append(s.pending, timer)
	return timer
}

func (t *manualTimer) Stop() bool {
	s := t.scheduler
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, pending := range s.pending {
		if pending == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the delays of the callbacks not fired or stopped yet.
func (s *ManualScheduler) Pending() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	delays := make([]time.Duration, 0, len(s.pending))
	for _, timer := range s.pending {
		delays = append(delays, timer.delay)
	}
	return delays
}

// FireNext runs the oldest pending callback and returns its delay.
func (s *ManualScheduler) FireNext() (time.Duration, bool) {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return 0, false
	}
	timer := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	timer.f()
	return timer.delay, true
}
