package game

// Router validates player commands against the current state and applies
// them to a Machine. Commands that do not apply are dropped silently.
type Router struct {
	m *Machine
}

// NewRouter returns a router bound to m.
func NewRouter(m *Machine) *Router {
	return &Router{m: m}
}

// Apply executes cmd and reports whether it changed anything.
func (r *Router) Apply(cmd Command) bool {
	m := r.m
	if m.closed {
		return false
	}
	state := m.sess.State

	switch cmd {
	case CommandQuit:
		m.close()
		return true
	case CommandPause:
		return m.Pause()
	case CommandResume:
		return m.Resume()
	case CommandConfirm:
		switch state {
		case StatePaused:
			return m.Resume()
		case StateGameOver:
			return m.Restart()
		}
		return false
	case CommandCancel:
		return m.Cancel()
	}

	if state != StatePlaying {
		return false
	}
	switch cmd {
	case CommandMoveLeft:
		return m.shift(-1)
	case CommandMoveRight:
		return m.shift(1)
	case CommandSoftDrop:
		m.sched.Kick()
		return true
	case CommandSpinCW:
		return m.spin(true)
	case CommandSpinCCW:
		return m.spin(false)
	}
	return false
}
