package game

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. RealClock uses the runtime timers; tests use
// ManualClock to step time explicitly.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is the wall-clock implementation of Clock.
var RealClock Clock = realClock{}

// ManualClock is a Clock whose time only moves when Advance is called.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	due   time.Duration
	seq   uint64
	f     func()
}

// NewManualClock returns a clock at time zero with nothing scheduled.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{clock: c, due: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Stop cancels the timer. Reports whether it was still pending.
func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves time forward by d, running every callback that falls due,
// including ones scheduled by callbacks during the advance. Callbacks run
// on the caller's goroutine without the clock lock held.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.due
		c.mu.Unlock()
		next.f()
	}
}

// Pending returns the number of scheduled callbacks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// popDue removes and returns the earliest timer due at or before target.
func (c *ManualClock) popDue(target time.Duration) *manualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.Slice(c.pending, func(i, j int) bool {
		if c.pending[i].due != c.pending[j].due {
			return c.pending[i].due < c.pending[j].due
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	first := c.pending[0]
	if first.due > target {
		return nil
	}
	c.pending = c.pending[1:]
	return first
}
