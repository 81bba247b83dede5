package game

import (
	"sync"
	"time"
)

// FallScheduler is the periodic fall trigger. It never touches game state:
// each firing posts a token on C, which the engine loop consumes. At most
// one token is pending at a time; extra firings coalesce.
type FallScheduler struct {
	clock Clock
	ticks chan struct{}

	mu       sync.Mutex
	interval time.Duration
	timer    Timer
	gen      uint64 // bumped on every arm/disarm so stale callbacks drop out
	running  bool
	disposed bool
}

// NewFallScheduler creates a stopped scheduler with the given period.
func NewFallScheduler(clock Clock, interval time.Duration) *FallScheduler {
	if clock == nil {
		clock = RealClock
	}
	return &FallScheduler{
		clock:    clock,
		ticks:    make(chan struct{}, 1),
		interval: interval,
	}
}

// C delivers one token per firing.
func (s *FallScheduler) C() <-chan struct{} {
	return s.ticks
}

// Start begins firing. The first firing happens a full interval from now.
func (s *FallScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || s.running {
		return
	}
	s.running = true
	s.arm(s.interval)
}

// Stop halts firing and discards any token not yet consumed. A later Start
// restarts the period from zero.
func (s *FallScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarm()
}

// Dispose stops the scheduler for good; Start has no effect afterwards.
func (s *FallScheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarm()
	s.disposed = true
}

// Kick makes the next firing happen immediately. Later firings use the
// regular interval again.
func (s *FallScheduler) Kick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.arm(0)
}

// SetInterval changes the period used from the next arming on.
func (s *FallScheduler) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
}

// Interval returns the current period.
func (s *FallScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Running reports whether the scheduler is currently firing.
func (s *FallScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// arm replaces the pending timer. Caller holds s.mu.
func (s *FallScheduler) arm(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

// disarm stops the timer and drains a pending token. Caller holds s.mu.
func (s *FallScheduler) disarm() {
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	select {
	case <-s.ticks:
	default:
	}
}

func (s *FallScheduler) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || gen != s.gen {
		return
	}
	select {
	case s.ticks <- struct{}{}:
	default:
	}
	s.arm(s.interval)
}
