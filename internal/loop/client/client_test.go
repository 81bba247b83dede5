package client

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/loop/server"
)

type fakeServer struct {
	mu           sync.Mutex
	handle       *server.ClientHandle
	unregistered []string
	results      []int
}

func (s *fakeServer) RegisterClient(username string) *server.ClientHandle {
	s.handle = &server.ClientHandle{ID: "test-id", Username: username, EventsCh: make(chan server.ClientEvent, 4)}
	return s.handle
}

func (s *fakeServer) UnregisterClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unregistered = append(s.unregistered, id)
}

func (s *fakeServer) ReportResult(_ *server.ClientHandle, score, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, score)
}

func (s *fakeServer) GetSnapshot() *server.HubSnapshot {
	return &server.HubSnapshot{Players: 1}
}

// scriptInput returns one batch of commands per Poll.
type scriptInput struct {
	steps  [][]game.Command
	i      int
	closed bool
}

func (s *scriptInput) Poll() []game.Command {
	if s.i >= len(s.steps) {
		return nil
	}
	cmds := s.steps[s.i]
	s.i++
	return cmds
}

func (s *scriptInput) Closed() bool {
	return s.closed && s.i >= len(s.steps)
}

type recordRenderer struct {
	frames      []game.Frame
	invalidated int
}

func (r *recordRenderer) Render(f game.Frame) error {
	r.frames = append(r.frames, f)
	return nil
}

func (r *recordRenderer) Invalidate() {
	r.invalidated++
}

func newTestClient(in game.InputSource) (*Client, *fakeServer, *recordRenderer, *game.ManualClock) {
	srv := &fakeServer{}
	out := &recordRenderer{}
	clock := game.NewManualClock()
	c := NewClient(srv, in, out, ClientOptions{Username: "tester", Seed: 42, Clock: clock})
	return c, srv, out, clock
}

func TestRunTitleThenQuit(t *testing.T) {
	in := &scriptInput{steps: [][]game.Command{
		nil,
		{game.CommandConfirm},
		{game.CommandQuit},
	}}
	c, srv, out, clock := newTestClient(in)

	require.NoError(t, c.Run(context.Background()))

	require.Len(t, out.frames, 2)
	assert.Contains(t, out.frames[0].String(), "Controls")
	assert.Equal(t, '╭', out.frames[1].At(0, 0))
	assert.GreaterOrEqual(t, out.invalidated, 1)
	assert.Equal(t, []string{"test-id"}, srv.unregistered)
	assert.Equal(t, 0, clock.Pending(), "engine released its timer")
}

func TestRunEscapeOnTitleLeaves(t *testing.T) {
	in := &scriptInput{steps: [][]game.Command{{game.CommandCancel}}}
	c, _, out, _ := newTestClient(in)

	require.NoError(t, c.Run(context.Background()))
	assert.Empty(t, out.frames)
}

func TestRunReturnsErrSessionClosed(t *testing.T) {
	in := &scriptInput{steps: [][]game.Command{nil}, closed: true}
	c, srv, _, _ := newTestClient(in)

	err := c.Run(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Len(t, srv.unregistered, 1)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	c, _, _, _ := newTestClient(&scriptInput{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, c.Run(ctx))
}

func TestGameOverIsReported(t *testing.T) {
	c, srv, _, clock := newTestClient(&scriptInput{})
	c.startGame()

	for i := 0; i < 5000 && c.engine.State() != game.StateGameOver; i++ {
		clock.Advance(time.Second)
		c.updatePlayingState(nil)
	}
	require.Equal(t, game.StateGameOver, c.engine.State())
	assert.Equal(t, []int{0}, srv.results)

	f := c.compose()
	assert.Contains(t, f.String(), "Final Score: 0")
	assert.Contains(t, f.String(), "Pause Count: 0")

	c.updatePlayingState([]game.Command{game.CommandCancel})
	assert.False(t, c.state.Running)
}

func TestInactivityWarningThenDisconnect(t *testing.T) {
	c, _, _, _ := newTestClient(&scriptInput{})
	start := time.Unix(1000, 0)
	c.now = func() time.Time { return start }
	c.lastInput = start
	c.startGame()

	c.processInput(start.Add(91 * time.Second))
	assert.True(t, c.state.isInactive)
	assert.Equal(t, game.StatePaused, c.engine.State(), "game paused while away")
	assert.Contains(t, c.compose().String(), "INACTIVITY WARNING")

	c.processInput(start.Add(121 * time.Second))
	assert.False(t, c.state.Running)
}

func TestShutdownCountdown(t *testing.T) {
	c, srv, _, _ := newTestClient(&scriptInput{})
	c.startGame()

	srv.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	require.Equal(t, GameStateShutdown, c.state.GameState)
	assert.Equal(t, game.StatePaused, c.engine.State())
	assert.True(t, strings.Contains(c.compose().String(), "SERVER SHUTTING DOWN"))

	c.state.delta = 4 * time.Second
	c.updateShutdownState(nil)
	assert.True(t, c.state.Running)
	c.state.delta = 7 * time.Second
	c.updateShutdownState(nil)
	assert.False(t, c.state.Running)
}
