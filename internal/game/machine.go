package game

import (
	"math/rand/v2"
	"time"
)

// Options configures a Machine or Engine. Zero values select the real
// clock and a time-seeded random source.
type Options struct {
	Clock   Clock
	Rand    *rand.Rand
	OnEvent func(Event)
}

// Machine owns a session and its fall scheduler and implements the
// Playing/Paused/GameOver transitions. It is not safe for concurrent use;
// Engine serializes access to it.
type Machine struct {
	sess    Session
	rng     *rand.Rand
	clock   Clock
	sched   *FallScheduler
	onEvent func(Event)
	closed  bool
}

// NewMachine starts a new game in the Playing state with a running
// scheduler.
func NewMachine(opts Options) *Machine {
	m := &Machine{
		rng:     opts.Rand,
		clock:   opts.Clock,
		onEvent: opts.OnEvent,
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if m.clock == nil {
		m.clock = RealClock
	}
	m.begin()
	return m
}

// begin installs a fresh session and a brand-new scheduler.
func (m *Machine) begin() {
	m.sess = newSession(m.rng)
	m.sched = NewFallScheduler(m.clock, m.sess.FallInterval)
	m.sched.Start()
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.sess.State
}

// Closed reports whether the session was terminated by Cancel or Quit.
func (m *Machine) Closed() bool {
	return m.closed
}

// Session returns a copy of the current session.
func (m *Machine) Session() Session {
	return m.sess
}

// Scheduler returns the live fall scheduler, or nil after game over.
func (m *Machine) Scheduler() *FallScheduler {
	return m.sched
}

// Fall advances the active piece one row, locking it if it cannot move.
// Ignored unless Playing.
func (m *Machine) Fall() {
	if m.sess.State != StatePlaying {
		return
	}
	p := m.sess.Piece
	if !WouldCollide(&m.sess.Grid, p.Shape(), p.X, p.Y+1) {
		m.sess.Piece.Y++
		return
	}
	m.lock()
}

// lock writes the active piece into the grid, clears completed rows,
// promotes the lookahead to the spawn anchor and draws a new lookahead.
func (m *Machine) lock() {
	locked := m.sess.Piece
	m.sess.Grid.place(locked)
	m.emit(Event{Type: EventLocked, Kind: locked.Kind, Score: m.sess.Score})

	speedChanged := false
	lines := m.sess.Grid.ClearLines(func() {
		if m.sess.addLine() {
			speedChanged = true
		}
	})
	if lines > 0 {
		m.emit(Event{Type: EventLinesCleared, Lines: lines, Score: m.sess.Score})
	}
	if speedChanged {
		m.sched.SetInterval(m.sess.FallInterval)
		m.emit(Event{Type: EventSpeedChanged, Score: m.sess.Score, Interval: m.sess.FallInterval})
	}

	m.sess.Piece = spawnPiece(m.sess.Next)
	m.sess.Next = randomKind(m.rng)
	if WouldCollide(&m.sess.Grid, m.sess.Piece.Shape(), m.sess.Piece.X, m.sess.Piece.Y) {
		m.gameOver()
	}
}

func (m *Machine) gameOver() {
	m.sess.State = StateGameOver
	m.sched.Dispose()
	m.sched = nil
	m.emit(Event{Type: EventGameOver, Score: m.sess.Score, Pauses: m.sess.PauseCount})
}

// Pause freezes the game. Grid, piece and score are untouched.
func (m *Machine) Pause() bool {
	if m.sess.State != StatePlaying {
		return false
	}
	m.sess.State = StatePaused
	m.sess.PauseCount++
	m.sched.Stop()
	m.emit(Event{Type: EventPaused, Pauses: m.sess.PauseCount})
	return true
}

// Resume continues a paused game. The fall countdown restarts from a full
// interval.
func (m *Machine) Resume() bool {
	if m.sess.State != StatePaused {
		return false
	}
	m.sess.State = StatePlaying
	m.sched.Start()
	m.emit(Event{Type: EventResumed})
	return true
}

// Restart replaces the finished session with a new one.
func (m *Machine) Restart() bool {
	if m.sess.State != StateGameOver {
		return false
	}
	m.begin()
	m.emit(Event{Type: EventRestarted})
	return true
}

// Cancel terminates the session after game over.
func (m *Machine) Cancel() bool {
	if m.sess.State != StateGameOver {
		return false
	}
	m.close()
	return true
}

// close releases the scheduler and marks the session terminated.
func (m *Machine) close() {
	if m.closed {
		return
	}
	if m.sched != nil {
		m.sched.Dispose()
		m.sched = nil
	}
	m.closed = true
	m.emit(Event{Type: EventClosed, Score: m.sess.Score, Pauses: m.sess.PauseCount})
}

// shift moves the active piece horizontally by dx cells if it fits.
func (m *Machine) shift(dx int) bool {
	p := m.sess.Piece
	if WouldCollide(&m.sess.Grid, p.Shape(), p.X+dx, p.Y) {
		return false
	}
	m.sess.Piece.X += dx
	return true
}

func (m *Machine) emit(e Event) {
	if m.onEvent != nil {
		m.onEvent(e)
	}
}
