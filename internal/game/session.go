package game

import (
	"math/rand/v2"
	"time"
)

// State is the phase of a game session.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Session is the complete mutable state of one game. Restart replaces the
// whole value instead of resetting fields one by one.
type Session struct {
	Grid         Grid
	Piece        Piece
	Next         Kind
	Score        int
	FallInterval time.Duration
	PauseCount   int
	State        State
}

// newSession builds a fresh game: empty board, base speed, a random active
// piece at the spawn anchor and a random lookahead.
func newSession(rng *rand.Rand) Session {
	s := Session{
		Grid:         NewGrid(),
		FallInterval: BaseFallInterval,
		State:        StatePlaying,
	}
	s.Piece = spawnPiece(randomKind(rng))
	s.Next = randomKind(rng)
	return s
}

// Snapshot is a read-only copy of a session for rendering.
type Snapshot struct {
	Session
	PreviewY int
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{Session: *s, PreviewY: s.Piece.Y}
	if s.State != StateGameOver {
		snap.PreviewY = DropRow(&s.Grid, s.Piece)
	}
	return snap
}
