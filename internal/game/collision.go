package game

// WouldCollide reports whether shape placed with its top-left corner at
// (x, y) overlaps a wall, leaves the playable area, or covers a filled cell.
func WouldCollide(g *Grid, s Shape, x, y int) bool {
	for row := 0; row < s.H; row++ {
		for col := 0; col < s.W; col++ {
			if !s.Cells[row][col] {
				continue
			}
			gx, gy := x+col, y+row
			if !inPlayfield(gx, gy) || g.Occupied(gx, gy) {
				return true
			}
		}
	}
	return false
}

// DropRow returns the anchor row where p would come to rest if dropped
// straight down. Candidate rows are scanned from the bottom of the board
// upward; a row qualifies when the shape fits there and at every row on the
// way down from p.Y. If nothing below fits, p.Y is returned.
func DropRow(g *Grid, p Piece) int {
	s := p.Shape()
	for y := Rows - s.H + 1; y > p.Y; y-- {
		if WouldCollide(g, s, p.X, y) {
			continue
		}
		if pathClear(g, s, p.X, p.Y, y) {
			return y
		}
	}
	return p.Y
}

func pathClear(g *Grid, s Shape, x, from, to int) bool {
	for y := from; y <= to; y++ {
		if WouldCollide(g, s, x, y) {
			return false
		}
	}
	return true
}
