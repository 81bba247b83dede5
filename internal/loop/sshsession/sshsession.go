// Package sshsession runs one game per SSH session.
package sshsession

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"golang.org/x/sync/semaphore"

	"github.com/tomz197/tetris/internal/draw"
	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/input"
	"github.com/tomz197/tetris/internal/loop/client"
	"github.com/tomz197/tetris/internal/loop/server"
)

// Options configures the middleware.
type Options struct {
	Sessions *semaphore.Weighted // Shared session cap; nil means unlimited
	OnEvent  func(id string, e game.Event)
}

// Middleware plays a game on every session that has a PTY, using hub for
// registration and the leaderboard.
func Middleware(hub server.GameServer, opts Options) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			run(sess, hub, opts)
			next(sess)
		}
	}
}

func run(sess ssh.Session, hub server.GameServer, opts Options) {
	pty, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
		return
	}

	if opts.Sessions != nil {
		if !opts.Sessions.TryAcquire(1) {
			fmt.Fprintln(sess, "Server is full, please try again later.")
			return
		}
		defer opts.Sessions.Release(1)
	}

	// Create a terminal size tracker that updates on window changes
	sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
	go func() {
		for win := range winCh {
			sizeTracker.update(win.Width, win.Height)
		}
	}()

	out := draw.NewTerminal(sess, sizeTracker.getSize)
	defer out.Close()

	var id string
	clientOpts := client.ClientOptions{Username: sess.User()}
	if opts.OnEvent != nil {
		clientOpts.OnEvent = func(e game.Event) { opts.OnEvent(id, e) }
	}
	in := input.StartStream(bufio.NewReader(sess))
	defer in.Stop()
	c := client.NewClient(hub, in, out, clientOpts)
	id = c.ID()

	log.Info("game session started", "id", id, "user", sess.User(), "term", pty.Term,
		"width", pty.Window.Width, "height", pty.Window.Height)

	ctx := sess.Context()
	err := c.Run(ctx)
	switch {
	case errors.Is(err, client.ErrSessionClosed), errors.Is(err, context.Canceled):
		log.Info("game session closed by peer", "id", id)
	case err != nil:
		log.Error("game session failed", "id", id, "err", err)
	default:
		log.Info("game session ended", "id", id, "user", sess.User())
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
