package client

import (
	"time"

	"github.com/tomz197/tetris/internal/game"
)

// GameState represents the current phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // A game session exists (playing, paused or over)
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection loop state. The game itself lives in
// the client's engine.
type ClientState struct {
	GameState     GameState
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state

	// Previous-frame values, used to detect screen transitions
	prevGameState   GameState
	wasInactive     bool
	prevEngineState game.State
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
