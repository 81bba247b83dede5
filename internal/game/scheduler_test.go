package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pending(s *FallScheduler) bool {
	select {
	case <-s.C():
		return true
	default:
		return false
	}
}

func TestSchedulerFiresEveryInterval(t *testing.T) {
	clock := NewManualClock()
	s := NewFallScheduler(clock, time.Second)
	s.Start()

	clock.Advance(999 * time.Millisecond)
	assert.False(t, pending(s))
	clock.Advance(time.Millisecond)
	assert.True(t, pending(s))

	clock.Advance(time.Second)
	assert.True(t, pending(s))
}

func TestSchedulerCoalescesUnconsumedFirings(t *testing.T) {
	clock := NewManualClock()
	s := NewFallScheduler(clock, 100*time.Millisecond)
	s.Start()

	clock.Advance(time.Second)
	assert.True(t, pending(s))
	assert.False(t, pending(s))
}

func TestSchedulerKickFiresOnce(t *testing.T) {
	clock := NewManualClock()
	s := NewFallScheduler(clock, time.Second)
	s.Start()

	clock.Advance(300 * time.Millisecond)
	s.Kick()
	clock.Advance(0)
	assert.True(t, pending(s))

	clock.Advance(999 * time.Millisecond)
	assert.False(t, pending(s), "back to the full interval after the kick")
	clock.Advance(time.Millisecond)
	assert.True(t, pending(s))
}

func TestSchedulerStopRestartsFullPeriod(t *testing.T) {
	clock := NewManualClock()
	s := NewFallScheduler(clock, time.Second)
	s.Start()

	clock.Advance(time.Second)
	s.Stop()
	assert.False(t, pending(s), "stop discards an unconsumed firing")
	assert.False(t, s.Running())

	clock.Advance(5 * time.Second)
	assert.False(t, pending(s))

	clock.Advance(700 * time.Millisecond)
	s.Start()
	clock.Advance(999 * time.Millisecond)
	assert.False(t, pending(s))
	clock.Advance(time.Millisecond)
	assert.True(t, pending(s))
}

func TestSchedulerDispose(t *testing.T) {
	clock := NewManualClock()
	s := NewFallScheduler(clock, time.Second)
	s.Start()
	s.Dispose()

	assert.Equal(t, 0, clock.Pending())
	s.Start()
	s.Kick()
	clock.Advance(10 * time.Second)
	assert.False(t, pending(s))
	assert.False(t, s.Running())
}

func TestSchedulerSetIntervalAppliesOnNextArm(t *testing.T) {
	clock := NewManualClock()
	s := NewFallScheduler(clock, time.Second)
	s.Start()

	s.SetInterval(200 * time.Millisecond)
	clock.Advance(time.Second)
	assert.True(t, pending(s))

	clock.Advance(200 * time.Millisecond)
	assert.True(t, pending(s))
	assert.Equal(t, 200*time.Millisecond, s.Interval())
}
