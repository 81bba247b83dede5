package client

import (
	"fmt"
	"unicode/utf8"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
)

var titleArt = []string{
	`██████╗█████╗██████╗█████╗ ██╗█████╗`,
	`╚═██╔═╝██╔══╝╚═██╔═╝██╔═██╗██║██╔══╝`,
	`  ██║  █████╗  ██║  █████╔╝██║ ███╗ `,
	`  ██║  ██╔══╝  ██║  ██╔═██╗██║   ██╗`,
	`  ██║  █████╗  ██║  ██║ ██║██║█████║`,
	`  ╚═╝  ╚════╝  ╚═╝  ╚═╝ ╚═╝╚═╝╚════╝`,
}

var gameOverArt = []string{
	` ██████╗  █████╗ ██    ██╗█████╗`,
	`██╔════╝ ██╔══██╗███  ███║██╔══╝`,
	`██║  ███╗███████║██╔██═██║█████╗`,
	`██║   ██║██╔══██║██║   ██║██╔══╝`,
	`╚██████╔╝██║  ██║██║   ██║█████╗`,
	` ╚═════╝ ╚═╝  ╚═╝╚═╝   ╚═╝╚════╝`,
	`  ██████╗██╗  ██╗█████╗█████╗   `,
	`  ██  ██║██║  ██║██╔══╝██╔═██╗  `,
	`  ██  ██║██║  ██║█████╗█████╔╝  `,
	`  ██  ██║╚██╗██╔╝██╔══╝██╔═██╗  `,
	`  ██████║ ╚███╔╝ █████╗██║ ██║  `,
	`  ╚═════╝  ╚══╝  ╚════╝╚═╝ ╚═╝  `,
}

var controlLines = []string{
	"A D / ← →  . . . . . Move",
	"S / ↓  . . . . .  Soft drop",
	"E  . . . . . .  Spin right",
	"Q  . . . . . . . Spin left",
	"P  . . . . . . . . . Pause",
	"Enter  . . . . . . . Resume",
	"Esc  . . . . . . . . . Quit",
}

// drawFrame renders the screen for the current state.
func (c *Client) drawFrame() error {
	// On state or inactivity transitions, force a full redraw so nothing
	// from the previous screen persists.
	engineState := game.StatePlaying
	if c.engine != nil {
		engineState = c.engine.State()
	}
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	engineChanged := engineState != c.state.prevEngineState
	if stateChanged || inactiveChanged || engineChanged {
		if inv, ok := c.renderer.(invalidator); ok {
			inv.Invalidate()
		}
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.prevEngineState = engineState
	}

	return c.renderer.Render(c.compose())
}

// compose builds the frame for the current state.
func (c *Client) compose() game.Frame {
	if c.state.GameState == GameStateShutdown {
		return shutdownScreen(c.state.shutdownTimer)
	}

	if c.state.isInactive {
		remaining := config.InactivityDisconnectUser - c.now().Sub(c.lastInput).Seconds()
		return inactivityScreen(int(remaining))
	}

	switch c.state.GameState {
	case GameStateStart:
		blink := c.now().UnixMilli()/600%2 == 0
		return titleScreen(c.server.GetSnapshot(), blink)
	case GameStatePlaying:
		if c.engine.State() == game.StateGameOver {
			snap := c.engine.Snapshot()
			return gameOverScreen(snap.Score, snap.PauseCount)
		}
		return c.engine.Frame()
	}
	return newScreen()
}

func newScreen() game.Frame {
	return game.NewFrame(game.FrameWidth, game.FrameHeight)
}

// writeCentered writes s horizontally centered on row.
func writeCentered(f game.Frame, row int, s string) {
	col := (f.Width() - utf8.RuneCountInString(s)) / 2
	if col < 0 {
		col = 0
	}
	f.WriteAt(col, row, s)
}

func writeBlock(f game.Frame, top int, lines []string) int {
	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	col := max((f.Width()-width)/2, 0)
	for i, line := range lines {
		f.WriteAt(col, top+i, line)
	}
	return top + len(lines)
}

// titleScreen draws the title, controls and the shared leaderboard.
func titleScreen(hub *server.HubSnapshot, blink bool) game.Frame {
	f := newScreen()

	row := writeBlock(f, 3, titleArt)
	writeCentered(f, row+1, "~ Terminal Tetris ~")

	row += 4
	writeCentered(f, row, "Controls")
	row = writeBlock(f, row+1, controlLines)

	// Blinking start prompt
	row += 2
	if blink {
		writeCentered(f, row, ">>  Press ENTER to Start  <<")
	}

	row += 3
	if hub != nil {
		writeCentered(f, row, "Top scores")
		row++
		if len(hub.TopScores) == 0 {
			writeCentered(f, row+1, "no games finished yet")
		}
		for i, entry := range hub.TopScores {
			writeCentered(f, row+1+i, fmt.Sprintf("%d. %-16s %6d", i+1, entry.Username, entry.Score))
		}
		writeCentered(f, game.FrameHeight-2, fmt.Sprintf("Players online: %d", hub.Players))
	}
	return f
}

// gameOverScreen shows the final result and how to continue.
func gameOverScreen(score, pauses int) game.Frame {
	f := newScreen()
	row := writeBlock(f, 6, gameOverArt)

	writeCentered(f, row+2, fmt.Sprintf("Final Score: %d", score))
	writeCentered(f, row+3, fmt.Sprintf("Pause Count: %d", pauses))

	writeCentered(f, row+5, "Press ENTER to play again")
	writeCentered(f, row+6, "Press ESC to close the game")
	return f
}

// inactivityScreen draws the inactivity warning screen.
func inactivityScreen(remaining int) game.Frame {
	f := newScreen()
	center := game.FrameHeight / 2

	writeCentered(f, center-3, "INACTIVITY WARNING")
	writeCentered(f, center-1, "You have been inactive for too long.")
	writeCentered(f, center, fmt.Sprintf("Disconnecting in %d seconds.", max(remaining, 0)))
	writeCentered(f, center+2, "Press any key to continue")
	return f
}

// shutdownScreen draws the server shutdown notification screen.
func shutdownScreen(timer float64) game.Frame {
	f := newScreen()
	center := game.FrameHeight / 2

	writeCentered(f, center-3, "SERVER SHUTTING DOWN")
	writeCentered(f, center-1, "The server is restarting for maintenance.")
	writeCentered(f, center, "Please reconnect in a moment.")

	remaining := int(timer) + 1
	writeCentered(f, center+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	writeCentered(f, center+4, "Press ESC to disconnect now")
	return f
}
