package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/tetris/internal/config"
	"github.com/tomz197/tetris/internal/draw"
	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/input"
	"github.com/tomz197/tetris/internal/loop/client"
	"github.com/tomz197/tetris/internal/loop/server"
	"github.com/tomz197/tetris/internal/sound"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return err
	}
	backend := config.GetEnv("TETRIS_BACKEND", "ansi")
	withSound := config.GetEnvBool("TETRIS_SOUND", false)
	seed := uint64(config.GetEnvInt("TETRIS_SEED", 0))

	// Logs go to stderr, which shares the terminal; keep them quiet while playing
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	hub := server.NewServer()
	go hub.Run(ctx)

	opts := client.ClientOptions{
		Username: os.Getenv("USER"),
		Seed:     seed,
	}

	if withSound {
		player := sound.NewPlayer()
		if err := player.Init(); err != nil {
			log.Warn("sound disabled", "err", err)
		} else {
			defer player.Close()
			opts.OnEvent = player.Handle
		}
	}

	in, out, restore, err := openBackend(backend)
	if err != nil {
		return err
	}
	defer restore()

	c := client.NewClient(hub, in, out, opts)
	if err := c.Run(ctx); err != nil && !errors.Is(err, client.ErrSessionClosed) {
		return err
	}
	return nil
}

// openBackend sets up the terminal for the chosen frontend and returns a
// function that puts it back.
func openBackend(name string) (game.InputSource, game.Renderer, func(), error) {
	switch name {
	case "tcell":
		screen, err := draw.OpenTcellScreen()
		if err != nil {
			return nil, nil, nil, err
		}
		return screen, screen, func() { _ = screen.Close() }, nil

	case "ansi":
		fd := int(os.Stdin.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to enable raw mode: %w", err)
		}
		out := draw.NewTerminal(os.Stdout, nil)
		in := input.StartStream(bufio.NewReader(os.Stdin))
		restore := func() {
			in.Stop()
			_ = out.Close()
			_ = term.Restore(fd, oldState)
		}
		return in, out, restore, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown backend %q (want ansi or tcell)", name)
}
