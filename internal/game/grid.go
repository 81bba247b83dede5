package game

// Board dimensions. The playable area is Cols×Rows; a permanent one-cell
// wall surrounds it, so the grid itself is Width×Height.
const (
	Cols   = 10
	Rows   = 20
	Width  = Cols + 2
	Height = Rows + 2
)

// Spawn anchor: first playable row, top-center column.
const (
	SpawnX = 5
	SpawnY = 1
)

// Grid holds cell occupancy for the board including its wall border.
// Border cells are set on construction and never change afterwards.
type Grid struct {
	cells [Height][Width]bool
}

// NewGrid returns an empty board with its walls in place.
func NewGrid() Grid {
	var g Grid
	for x := 0; x < Width; x++ {
		g.cells[0][x] = true
		g.cells[Height-1][x] = true
	}
	for y := 0; y < Height; y++ {
		g.cells[y][0] = true
		g.cells[y][Width-1] = true
	}
	return g
}

// IsBorder reports whether (x, y) is a wall cell.
func IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == Width-1 || y == Height-1
}

// inPlayfield reports whether (x, y) is a playable (non-border) cell.
func inPlayfield(x, y int) bool {
	return x >= 1 && x <= Cols && y >= 1 && y <= Rows
}

// Occupied reports whether the cell is filled. Positions outside the grid
// count as occupied.
func (g *Grid) Occupied(x, y int) bool {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return true
	}
	return g.cells[y][x]
}

// Set changes a playable cell. Border and out-of-range targets are ignored.
func (g *Grid) Set(x, y int, occupied bool) {
	if !inPlayfield(x, y) {
		return
	}
	g.cells[y][x] = occupied
}

// ClearRow empties every playable cell of row y.
func (g *Grid) ClearRow(y int) {
	if y < 1 || y > Rows {
		return
	}
	for x := 1; x <= Cols; x++ {
		g.cells[y][x] = false
	}
}

// ShiftRowsDown copies every playable row strictly above aboveY into the
// row below it and refills the top playable row with empty cells.
func (g *Grid) ShiftRowsDown(aboveY int) {
	if aboveY < 1 || aboveY > Rows {
		return
	}
	for y := aboveY; y > 1; y-- {
		for x := 1; x <= Cols; x++ {
			g.cells[y][x] = g.cells[y-1][x]
		}
	}
	for x := 1; x <= Cols; x++ {
		g.cells[1][x] = false
	}
}

// RowComplete reports whether playable row y has no empty cell.
func (g *Grid) RowComplete(y int) bool {
	if y < 1 || y > Rows {
		return false
	}
	for x := 1; x <= Cols; x++ {
		if !g.cells[y][x] {
			return false
		}
	}
	return true
}

// OccupiedCount returns the number of filled playable cells.
func (g *Grid) OccupiedCount() int {
	n := 0
	for y := 1; y <= Rows; y++ {
		for x := 1; x <= Cols; x++ {
			if g.cells[y][x] {
				n++
			}
		}
	}
	return n
}

// place writes the piece's cells into the grid.
func (g *Grid) place(p Piece) {
	for _, c := range p.Cells() {
		g.Set(c.X, c.Y, true)
	}
}

// ClearLines removes every completed row, bottom to top. After a removal
// the same row index is examined again, since the row above has shifted
// into it. onLine is called once per removed row. Returns the number of
// rows removed.
func (g *Grid) ClearLines(onLine func()) int {
	cleared := 0
	for y := Rows; y >= 1; {
		if !g.RowComplete(y) {
			y--
			continue
		}
		g.ClearRow(y)
		g.ShiftRowsDown(y)
		cleared++
		if onLine != nil {
			onLine()
		}
	}
	return cleared
}
