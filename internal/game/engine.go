package game

import "sync/atomic"

// Engine is the single serial processing point for a session. The fall
// scheduler and the input source only enqueue; every mutation happens
// inside Step (or Apply/Close) on the caller's goroutine, one at a time.
type Engine struct {
	m      *Machine
	router *Router
	busy   atomic.Bool
}

// NewEngine starts a new game.
func NewEngine(opts Options) *Engine {
	m := NewMachine(opts)
	return &Engine{m: m, router: NewRouter(m)}
}

// enter claims exclusive access. A second concurrent mutator means the
// single-consumer discipline was broken, which is unrecoverable.
func (e *Engine) enter() {
	if !e.busy.CompareAndSwap(false, true) {
		panic("game: concurrent session mutation")
	}
}

func (e *Engine) leave() {
	e.busy.Store(false)
}

// Step consumes a pending fall firing, if any, then applies cmds in order.
func (e *Engine) Step(cmds []Command) {
	e.enter()
	defer e.leave()

	e.drainFall()
	for _, cmd := range cmds {
		e.router.Apply(cmd)
	}
}

// Apply runs a single command.
func (e *Engine) Apply(cmd Command) bool {
	e.enter()
	defer e.leave()
	return e.router.Apply(cmd)
}

func (e *Engine) drainFall() {
	sched := e.m.sched
	if sched == nil {
		return
	}
	select {
	case <-sched.C():
		e.m.Fall()
	default:
	}
}

// State returns the current phase.
func (e *Engine) State() State {
	return e.m.State()
}

// Closed reports whether the session has been terminated.
func (e *Engine) Closed() bool {
	return e.m.Closed()
}

// Snapshot returns a consistent copy of the session for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.enter()
	defer e.leave()
	return e.m.sess.snapshot()
}

// Frame composes the current frame.
func (e *Engine) Frame() Frame {
	return Compose(e.Snapshot())
}

// Close terminates the session and releases its scheduler.
func (e *Engine) Close() {
	e.enter()
	defer e.leave()
	e.m.close()
}
