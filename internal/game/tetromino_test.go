package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapesHaveFourCells(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		for r := 0; r < 4; r++ {
			assert.Equal(t, 4, ShapeOf(k, r).Count(), "kind %s rotation %d", k, r)
		}
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		t.Run(k.String(), func(t *testing.T) {
			base := ShapeOf(k, 0)

			cw := base
			ccw := base
			for i := 0; i < 4; i++ {
				cw = Rotate(cw, true)
				ccw = Rotate(ccw, false)
			}
			assert.Equal(t, base, cw)
			assert.Equal(t, base, ccw)
		})
	}
}

func TestRotateSwapsDimensions(t *testing.T) {
	s := ShapeOf(KindJ, 0)
	assert.Equal(t, 3, s.W)
	assert.Equal(t, 2, s.H)

	r := Rotate(s, true)
	assert.Equal(t, 2, r.W)
	assert.Equal(t, 3, r.H)
	// #.. / ### turns into ## / #. / #.
	assert.Equal(t, parseShape("##", "#.", "#."), r)
	assert.Equal(t, parseShape(".#", ".#", "##"), Rotate(s, false))
}

func TestRotationIndexMatchesRotate(t *testing.T) {
	for k := Kind(0); k < KindCount; k++ {
		for r := 0; r < 4; r++ {
			assert.Equal(t, ShapeOf(k, r+1), Rotate(ShapeOf(k, r), true))
			assert.Equal(t, ShapeOf(k, r+3), Rotate(ShapeOf(k, r), false))
		}
	}
}

func TestPieceCells(t *testing.T) {
	p := Piece{Kind: KindT, X: 4, Y: 7}
	assert.ElementsMatch(t, []Point{{5, 7}, {4, 8}, {5, 8}, {6, 8}}, p.Cells())
}

func TestRandomKindCoversAllKinds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	seen := make(map[Kind]int)
	for i := 0; i < 700; i++ {
		k := randomKind(rng)
		assert.True(t, k >= 0 && k < KindCount)
		seen[k]++
	}
	assert.Len(t, seen, KindCount)
}
