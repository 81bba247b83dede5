package draw

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/tetris/internal/game"
)

func newSimScreen(t *testing.T, w, h int) (tcell.SimulationScreen, *TcellScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(w, h)
	s := NewTcellScreen(sim)
	t.Cleanup(func() { _ = s.Close() })
	return sim, s
}

func TestTcellScreenRender(t *testing.T) {
	sim, s := newSimScreen(t, 10, 4)

	require.NoError(t, s.Render(textFrame("ab", "cd")))
	r, _, _, _ := sim.GetContent(4, 1)
	assert.Equal(t, 'a', r)
	r, _, _, _ = sim.GetContent(5, 2)
	assert.Equal(t, 'd', r)
}

func TestTcellScreenPoll(t *testing.T) {
	sim, s := newSimScreen(t, 10, 4)

	sim.InjectKey(tcell.KeyLeft, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'e', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'P', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	want := []game.Command{
		game.CommandMoveLeft, game.CommandSpinCW, game.CommandPause,
		game.CommandConfirm, game.CommandQuit,
	}
	var got []game.Command
	require.Eventually(t, func() bool {
		got = append(got, s.Poll()...)
		return len(got) >= len(want)
	}, time.Second, time.Millisecond)
	assert.Equal(t, want, got)
}
