package game

import "time"

// EventType identifies a notable transition inside a session.
type EventType int

const (
	EventLocked EventType = iota
	EventLinesCleared
	EventSpeedChanged
	EventPaused
	EventResumed
	EventGameOver
	EventRestarted
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventLocked:
		return "locked"
	case EventLinesCleared:
		return "lines cleared"
	case EventSpeedChanged:
		return "speed changed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventGameOver:
		return "game over"
	case EventRestarted:
		return "restarted"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is delivered to the observer registered in Options.OnEvent. It runs
// on the engine loop goroutine and must not call back into the engine.
type Event struct {
	Type     EventType
	Kind     Kind
	Lines    int
	Score    int
	Pauses   int
	Interval time.Duration
}
