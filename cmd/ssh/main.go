package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/semaphore"

	"github.com/tomz197/tetris/internal/config"
	"github.com/tomz197/tetris/internal/game"
	loopconfig "github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
	"github.com/tomz197/tetris/internal/loop/sshsession"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	if err := config.Load(); err != nil {
		log.Warn("could not load .env", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	log.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	// Shared hub for every SSH session
	ctx, cancelHub := context.WithCancel(context.Background())
	hub := server.NewServer()
	go hub.Run(ctx)
	log.Info("game hub started")

	sessionOpts := sshsession.Options{
		Sessions: semaphore.NewWeighted(loopconfig.MaxSessions),
		OnEvent:  logEvent,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sshsession.Middleware(hub, sessionOpts),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	// Notify players and wait for them to disconnect
	hub.Shutdown(loopconfig.ShutdownWaitTimeout)
	cancelHub()
	log.Info("game hub stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown error", "err", err)
	}
}

func logEvent(id string, e game.Event) {
	switch e.Type {
	case game.EventGameOver:
		log.Info("game over", "id", id, "score", e.Score, "pauses", e.Pauses)
	case game.EventSpeedChanged:
		log.Debug("speed changed", "id", id, "interval", e.Interval)
	}
}
