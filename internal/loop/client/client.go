package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
)

// ErrSessionClosed is returned by Run when the input side of the connection
// went away.
var ErrSessionClosed = errors.New("session closed")

// activityReporter is implemented by input sources that see raw key presses,
// including keys that map to no command.
type activityReporter interface {
	LastInput() time.Time
}

// closer is implemented by input sources that can end.
type closer interface {
	Closed() bool
}

// invalidator is implemented by renderers that keep state between frames.
type invalidator interface {
	Invalidate()
}

// Client runs one player's session: title screen, a game engine, and the
// inactivity and shutdown screens.
type Client struct {
	server    server.GameServer
	handle    *server.ClientHandle
	state     *ClientState
	engine    *game.Engine
	input     game.InputSource
	renderer  game.Renderer
	opts      ClientOptions
	lastInput time.Time
	events    []game.Event
	now       func() time.Time
	err       error
}

// ClientOptions configures the client.
type ClientOptions struct {
	Username string
	Seed     uint64           // Non-zero makes piece order reproducible
	Clock    game.Clock       // Fall timer clock; nil means real time
	OnEvent  func(game.Event) // Observer for game events (logging, sound)
}

// NewClient creates a new client registered with the given hub.
func NewClient(gs server.GameServer, in game.InputSource, out game.Renderer, opts ClientOptions) *Client {
	return &Client{
		server:    gs,
		handle:    gs.RegisterClient(opts.Username),
		state:     NewClientState(),
		input:     in,
		renderer:  out,
		opts:      opts,
		lastInput: time.Now(),
		now:       time.Now,
	}
}

// ID returns the hub-assigned session ID.
func (c *Client) ID() string {
	return c.handle.ID
}

// Run starts the client loop. Blocks until the player leaves, the input
// closes, the context is cancelled or the server shutdown countdown ends.
func (c *Client) Run(ctx context.Context) error {
	defer c.server.UnregisterClient(c.handle.ID)
	defer c.closeEngine()

	lastTime := c.now()
	c.lastInput = lastTime

	for c.state.Running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := c.now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		cmds := c.processInput(frameStart)

		// Check for server events
		c.processServerEvents()

		// Handle game state
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState(cmds)
		case GameStatePlaying:
			c.updatePlayingState(cmds)
		case GameStateShutdown:
			c.updateShutdownState(cmds)
		}

		if !c.state.Running {
			break
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(config.ClientTargetFrameTime - elapsed):
			}
		}
	}

	return c.err
}

// processInput polls the input source and tracks inactivity.
func (c *Client) processInput(now time.Time) []game.Command {
	cmds := c.input.Poll()

	if len(cmds) > 0 {
		c.lastInput = now
	}
	if r, ok := c.input.(activityReporter); ok && r.LastInput().After(c.lastInput) {
		c.lastInput = r.LastInput()
	}
	if cl, ok := c.input.(closer); ok && cl.Closed() {
		c.err = ErrSessionClosed
		c.state.Running = false
		return nil
	}

	idle := now.Sub(c.lastInput).Seconds()
	switch {
	case idle > config.InactivityDisconnectUser:
		c.state.Running = false
	case idle > config.InactivityWarnUser:
		if !c.state.isInactive && c.engine != nil && c.engine.State() == game.StatePlaying {
			c.engine.Apply(game.CommandPause)
		}
		c.state.isInactive = true
	default:
		c.state.isInactive = false
	}

	return cmds
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event := <-c.handle.EventsCh:
			switch event.Type {
			case server.EventServerShutdown:
				if c.engine != nil && c.engine.State() == game.StatePlaying {
					c.engine.Apply(game.CommandPause)
				}
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateStartState handles the title screen.
func (c *Client) updateStartState(cmds []game.Command) {
	for _, cmd := range cmds {
		switch cmd {
		case game.CommandConfirm:
			c.startGame()
			return
		case game.CommandCancel, game.CommandQuit:
			c.state.Running = false
			return
		}
	}
}

// startGame creates the engine. Restarts after game over go through the
// engine itself.
func (c *Client) startGame() {
	opts := game.Options{
		Clock:   c.opts.Clock,
		OnEvent: c.onEngineEvent,
	}
	if c.opts.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.opts.Seed, c.opts.Seed^0x9e3779b97f4a7c15))
	}
	c.engine = game.NewEngine(opts)
	c.state.GameState = GameStatePlaying
}

// onEngineEvent runs inside engine.Step on the client goroutine.
func (c *Client) onEngineEvent(e game.Event) {
	c.events = append(c.events, e)
	if c.opts.OnEvent != nil {
		c.opts.OnEvent(e)
	}
}

// updatePlayingState feeds the frame's commands to the engine.
func (c *Client) updatePlayingState(cmds []game.Command) {
	c.engine.Step(cmds)

	for _, e := range c.events {
		switch e.Type {
		case game.EventGameOver:
			c.server.ReportResult(c.handle, e.Score, e.Pauses)
		case game.EventClosed:
			c.state.Running = false
		}
	}
	c.events = c.events[:0]
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState(cmds []game.Command) {
	for _, cmd := range cmds {
		if cmd == game.CommandCancel || cmd == game.CommandQuit {
			c.state.Running = false
			return
		}
	}
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

func (c *Client) closeEngine() {
	if c.engine != nil && !c.engine.Closed() {
		c.engine.Close()
	}
}
