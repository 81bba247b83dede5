package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineStartsPlaying(t *testing.T) {
	m, clock := newTestMachine(t)

	s := m.Session()
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 0, s.PauseCount)
	assert.Equal(t, BaseFallInterval, s.FallInterval)
	assert.Equal(t, SpawnX, s.Piece.X)
	assert.Equal(t, SpawnY, s.Piece.Y)
	assert.Equal(t, 0, s.Piece.Rotation)
	require.NotNil(t, m.Scheduler())
	assert.True(t, m.Scheduler().Running())
	assert.Equal(t, 1, clock.Pending())
}

func TestFallMovesDownUntilLocked(t *testing.T) {
	m, _ := newTestMachine(t)
	m.sess.Piece = spawnPiece(KindO)
	m.sess.Next = KindT

	for i := 0; i < Rows-2; i++ {
		m.Fall()
	}
	assert.Equal(t, Rows-1, m.sess.Piece.Y)
	assert.Equal(t, 0, m.sess.Grid.OccupiedCount())

	m.Fall()
	assert.Equal(t, 4, m.sess.Grid.OccupiedCount())
	assert.Equal(t, KindT, m.sess.Piece.Kind)
	assert.Equal(t, SpawnY, m.sess.Piece.Y)
}

func TestLockAddsExactlyFourCells(t *testing.T) {
	m, _ := newTestMachine(t)
	for k := Kind(0); k < KindCount; k++ {
		m.sess.Piece = spawnPiece(k)
		m.sess.Piece.X = 1 + int(k)%3*3
		m.sess.Piece.Y = DropRow(&m.sess.Grid, m.sess.Piece)
		before := m.sess.Grid.OccupiedCount()

		m.Fall()
		require.Equal(t, StatePlaying, m.State())
		assert.Equal(t, before+4, m.sess.Grid.OccupiedCount(), "kind %s", k)
	}
}

func TestLineClearShiftsRowsAndScores(t *testing.T) {
	m, _ := newTestMachine(t)
	g := &m.sess.Grid
	fillRow(g, Rows, Cols)
	g.Set(1, Rows-1, true)
	g.Set(3, 10, true)

	m.sess.Piece = Piece{Kind: KindI, X: Cols, Y: Rows - 3}
	m.sess.Next = KindO
	m.Fall()

	assert.Equal(t, 1, m.sess.Score)
	assert.Equal(t, 5, g.OccupiedCount())
	assert.True(t, g.Occupied(1, Rows))
	assert.True(t, g.Occupied(3, 11))
	assert.False(t, g.Occupied(3, 10))
	for y := Rows - 2; y <= Rows; y++ {
		assert.True(t, g.Occupied(Cols, y))
	}
	assert.False(t, g.Occupied(Cols, Rows-3))
	assertBorders(t, g)
}

func TestMultiLineClear(t *testing.T) {
	m, _ := newTestMachine(t)
	g := &m.sess.Grid
	for y := Rows - 3; y <= Rows; y++ {
		fillRow(g, y, Cols)
	}

	var events []Event
	m.onEvent = func(e Event) { events = append(events, e) }
	m.sess.Piece = Piece{Kind: KindI, X: Cols, Y: Rows - 3}
	m.sess.Next = KindO
	m.Fall()

	assert.Equal(t, 4, m.sess.Score)
	assert.Equal(t, 0, g.OccupiedCount())
	require.Len(t, events, 2)
	assert.Equal(t, EventLocked, events[0].Type)
	assert.Equal(t, EventLinesCleared, events[1].Type)
	assert.Equal(t, 4, events[1].Lines)
}

func TestScoreThresholdSpeedsUpScheduler(t *testing.T) {
	m, _ := newTestMachine(t)
	var changed []Event
	m.onEvent = func(e Event) {
		if e.Type == EventSpeedChanged {
			changed = append(changed, e)
		}
	}
	m.sess.Score = 9
	fillRow(&m.sess.Grid, Rows, Cols)
	m.sess.Piece = Piece{Kind: KindI, X: Cols, Y: Rows - 3}
	m.sess.Next = KindO
	m.Fall()

	assert.Equal(t, 10, m.sess.Score)
	assert.Equal(t, 900*time.Millisecond, m.sess.FallInterval)
	assert.Equal(t, 900*time.Millisecond, m.Scheduler().Interval())
	require.Len(t, changed, 1)
	assert.Equal(t, 900*time.Millisecond, changed[0].Interval)
}

func TestGameOverWhenSpawnBlocked(t *testing.T) {
	m, clock := newTestMachine(t)
	var last Event
	m.onEvent = func(e Event) { last = e }

	m.sess.Grid.Set(SpawnX, SpawnY, true)
	m.sess.Piece = Piece{Kind: KindO, X: 1, Y: Rows - 1}
	m.sess.Next = KindO
	m.sess.PauseCount = 3
	m.Fall()

	require.Equal(t, StateGameOver, m.State())
	assert.Nil(t, m.Scheduler())
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, EventGameOver, last.Type)
	assert.Equal(t, 3, last.Pauses)

	frozen := m.Session()
	clock.Advance(time.Minute)
	m.Fall()
	assert.Equal(t, frozen, m.Session())
}

func TestPauseResumePreservesState(t *testing.T) {
	m, clock := newTestMachine(t)
	clock.Advance(600 * time.Millisecond)
	before := m.Session()

	require.True(t, m.Pause())
	assert.False(t, m.Pause(), "already paused")
	assert.False(t, m.Scheduler().Running())

	clock.Advance(10 * time.Second)
	m.Fall()

	require.True(t, m.Resume())
	after := m.Session()
	assert.Equal(t, before.Grid, after.Grid)
	assert.Equal(t, before.Piece, after.Piece)
	assert.Equal(t, before.Next, after.Next)
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, 1, after.PauseCount)
	assert.Equal(t, StatePlaying, after.State)

	// the countdown restarts from a full interval
	clock.Advance(999 * time.Millisecond)
	assert.False(t, pending(m.Scheduler()))
	clock.Advance(time.Millisecond)
	assert.True(t, pending(m.Scheduler()))
}

func TestRestartBuildsFreshSession(t *testing.T) {
	m, clock := newTestMachine(t)
	m.sess.Grid.Set(SpawnX, SpawnY, true)
	m.sess.Piece = Piece{Kind: KindO, X: 1, Y: Rows - 1}
	m.sess.Next = KindO
	m.sess.Score = 42
	m.Fall()
	require.Equal(t, StateGameOver, m.State())

	assert.False(t, m.Resume())
	require.True(t, m.Restart())

	s := m.Session()
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 0, s.PauseCount)
	assert.Equal(t, 0, s.Grid.OccupiedCount())
	require.NotNil(t, m.Scheduler())
	assert.True(t, m.Scheduler().Running())
	assert.Equal(t, 1, clock.Pending())
}

func TestCancelOnlyAfterGameOver(t *testing.T) {
	m, clock := newTestMachine(t)
	assert.False(t, m.Cancel())
	assert.False(t, m.Closed())

	m.sess.Grid.Set(SpawnX, SpawnY, true)
	m.sess.Piece = Piece{Kind: KindO, X: 1, Y: Rows - 1}
	m.sess.Next = KindO
	m.Fall()

	require.True(t, m.Cancel())
	assert.True(t, m.Closed())
	assert.Equal(t, 0, clock.Pending())
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	m, clock := newTestMachine(t)
	r := NewRouter(m)
	rng := rand.New(rand.NewPCG(3, 4))
	cmds := []Command{
		CommandMoveLeft, CommandMoveRight, CommandSoftDrop,
		CommandSpinCW, CommandSpinCCW, CommandPause, CommandConfirm,
	}

	lastScore := 0
	for i := 0; i < 5000; i++ {
		r.Apply(cmds[rng.IntN(len(cmds))])
		clock.Advance(250 * time.Millisecond)
		if s := m.Scheduler(); s != nil && pending(s) {
			m.Fall()
		}

		s := m.Session()
		assertBorders(t, &s.Grid)
		if s.State == StateGameOver {
			require.True(t, r.Apply(CommandConfirm))
			lastScore = 0
			continue
		}
		assert.GreaterOrEqual(t, s.Score, lastScore)
		lastScore = s.Score
		assert.Equal(t, FallIntervalFor(s.Score), s.FallInterval)
		for _, c := range s.Piece.Cells() {
			require.True(t, inPlayfield(c.X, c.Y))
			require.False(t, s.Grid.Occupied(c.X, c.Y), "active piece overlaps the stack")
		}
	}
}
