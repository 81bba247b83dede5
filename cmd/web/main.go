package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/tomz197/tetris/internal/config"
	"github.com/tomz197/tetris/internal/game"
	loopconfig "github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
	"github.com/tomz197/tetris/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	if err := config.Load(); err != nil {
		log.Warn("could not load .env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	ctx, cancelHub := context.WithCancel(context.Background())
	hub := server.NewServer()
	go hub.Run(ctx)

	handler := web.NewHandler(hub, web.Config{
		SSHHost:  sshHost,
		Sessions: semaphore.NewWeighted(loopconfig.MaxSessions),
		OnEvent: func(id string, e game.Event) {
			if e.Type == game.EventGameOver {
				log.Info("game over", "id", id, "score", e.Score, "pauses", e.Pauses)
			}
		},
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	hub.Shutdown(loopconfig.ShutdownWaitTimeout)
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("shutdown error", "err", err)
	}
}
