package game

import (
	"math/rand/v2"
	"testing"
)

// newTestMachine returns a machine on a manual clock with a fixed seed.
func newTestMachine(t *testing.T) (*Machine, *ManualClock) {
	t.Helper()
	clock := NewManualClock()
	m := NewMachine(Options{
		Clock: clock,
		Rand:  rand.New(rand.NewPCG(1, 2)),
	})
	return m, clock
}

// fillRow fills playable row y except the listed columns.
func fillRow(g *Grid, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 1; x <= Cols; x++ {
		if !skip[x] {
			g.Set(x, y, true)
		}
	}
}

// assertBorders fails the test if any wall cell is empty.
func assertBorders(t *testing.T, g *Grid) {
	t.Helper()
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if IsBorder(x, y) && !g.Occupied(x, y) {
				t.Fatalf("border cell (%d,%d) is empty", x, y)
			}
		}
	}
}
