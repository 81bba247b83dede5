package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/tetris/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation, enabling
// testing and a local single-player hub.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID string)
	ReportResult(handle *ClientHandle, score, pauses int)
	GetSnapshot() *HubSnapshot
}

// Server is the hub shared by all sessions. Every game runs in its own
// client; the hub only tracks who is connected and the best results.
type Server struct {
	state        *HubState
	snapshot     atomic.Pointer[HubSnapshot]
	clients      map[string]*ClientHandle
	registerCh   chan *ClientHandle
	unregisterCh chan string
	resultCh     chan ClientResult
	done         chan struct{}
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       string
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)
}

// ClientResult is a finished game reported by a client.
type ClientResult struct {
	ClientID string
	Username string
	Score    int
	Pauses   int
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates a new hub.
func NewServer() *Server {
	s := &Server{
		state:        NewHubState(config.TopScoresShown),
		clients:      make(map[string]*ClientHandle),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan string, 16),
		resultCh:     make(chan ClientResult, 64),
		done:         make(chan struct{}),
	}

	// Create initial empty snapshot
	s.snapshot.Store(s.state.Snapshot(0))

	return s
}

// Run starts the hub loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()

		// Process registrations/unregistrations
		s.processRegistrations()

		// Fold finished games into the leaderboard
		s.collectResults()

		// Create new snapshot for clients
		s.createSnapshot()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.HubTickTime {
			select {
			case <-ctx.Done():
				return
			case <-time.After(config.HubTickTime - elapsed):
			}
		}
	}
}

// Shutdown notifies all connected clients about the shutdown and waits for
// them to disconnect (up to the given timeout). The caller should cancel the
// hub context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	if r := []rune(username); len(r) > config.MaxUsernameLength {
		username = string(r[:config.MaxUsernameLength])
	}
	handle := &ClientHandle{
		ID:       uuid.New().String(),
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	select {
	case s.registerCh <- handle:
	case <-s.done:
	}
	return handle
}

// UnregisterClient removes a client from the hub.
func (s *Server) UnregisterClient(clientID string) {
	select {
	case s.unregisterCh <- clientID:
	case <-s.done:
	}
}

// ReportResult records a finished game for the leaderboard.
func (s *Server) ReportResult(handle *ClientHandle, score, pauses int) {
	r := ClientResult{ClientID: handle.ID, Username: handle.Username, Score: score, Pauses: pauses}
	select {
	case s.resultCh <- r:
	default:
		// Result channel full, drop result
	}
}

// GetSnapshot returns the current hub snapshot.
func (s *Server) GetSnapshot() *HubSnapshot {
	return s.snapshot.Load()
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) processRegistrations() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Registrations first so a register+unregister pair in the same tick nets out.
	for drained := false; !drained; {
		select {
		case handle := <-s.registerCh:
			s.clients[handle.ID] = handle
		default:
			drained = true
		}
	}
	for {
		select {
		case id := <-s.unregisterCh:
			delete(s.clients, id)
		default:
			return
		}
	}
}

func (s *Server) collectResults() {
	for {
		select {
		case r := <-s.resultCh:
			username := r.Username
			if username == "" {
				username = "anonymous"
			}
			s.state.AddResult(username, r.Score, r.Pauses)
		default:
			return
		}
	}
}

func (s *Server) createSnapshot() {
	s.mu.RLock()
	players := len(s.clients)
	s.mu.RUnlock()
	s.snapshot.Store(s.state.Snapshot(players))
}
