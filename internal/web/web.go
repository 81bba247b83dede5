// Package web serves the landing page and plays games over websockets.
package web

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/loop/server"
)

//go:embed index.html
var htmlPage string

// Config configures the handler.
type Config struct {
	SSHHost  string              // Shown in the ssh instructions
	Sessions *semaphore.Weighted // Shared session cap; nil means unlimited
	OnEvent  func(id string, e game.Event)
}

// Handler routes the landing page, the leaderboard API and the game socket.
type Handler struct {
	router   *mux.Router
	hub      server.GameServer
	cfg      Config
	page     string
	upgrader websocket.Upgrader
}

// NewHandler builds the router for hub.
func NewHandler(hub server.GameServer, cfg Config) *Handler {
	h := &Handler{
		router: mux.NewRouter(),
		hub:    hub,
		cfg:    cfg,
		page:   strings.ReplaceAll(htmlPage, "{{.SSHHost}}", cfg.SSHHost),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	h.router.HandleFunc("/", h.serveIndex).Methods(http.MethodGet)
	h.router.HandleFunc("/api/scores", h.serveScores).Methods(http.MethodGet)
	h.router.HandleFunc("/ws", h.serveGame).Methods(http.MethodGet)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

// scoresResponse is the body of GET /api/scores.
type scoresResponse struct {
	Players     int          `json:"players"`
	GamesPlayed int          `json:"games_played"`
	TopScores   []scoreEntry `json:"top_scores"`
}

type scoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Pauses   int    `json:"pauses"`
}

func (h *Handler) serveScores(w http.ResponseWriter, _ *http.Request) {
	snap := h.hub.GetSnapshot()
	resp := scoresResponse{TopScores: []scoreEntry{}}
	if snap != nil {
		resp.Players = snap.Players
		resp.GamesPlayed = snap.GamesPlayed
		for _, e := range snap.TopScores {
			resp.TopScores = append(resp.TopScores, scoreEntry{Username: e.Username, Score: e.Score, Pauses: e.Pauses})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("encode scores", "err", err)
	}
}
