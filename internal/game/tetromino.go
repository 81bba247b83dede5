package game

import "math/rand/v2"

// Kind identifies one of the seven tetromino shapes.
type Kind int

const (
	KindI Kind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// KindCount is the number of distinct tetromino kinds.
const KindCount = 7

var kindNames = [KindCount]string{"I", "J", "L", "O", "S", "T", "Z"}

func (k Kind) String() string {
	if k < 0 || int(k) >= KindCount {
		return "?"
	}
	return kindNames[k]
}

// maxShapeSize bounds the side of any shape matrix (the I piece is 4 long).
const maxShapeSize = 4

// Shape is a small occupancy matrix. Cells is indexed [row][col]; only the
// top-left W×H region is meaningful and everything outside it is false,
// so two shapes can be compared with ==.
type Shape struct {
	W, H  int
	Cells [maxShapeSize][maxShapeSize]bool
}

// Occupied reports whether the relative cell (col, row) is filled.
func (s Shape) Occupied(col, row int) bool {
	if col < 0 || row < 0 || col >= s.W || row >= s.H {
		return false
	}
	return s.Cells[row][col]
}

// Count returns the number of filled cells.
func (s Shape) Count() int {
	n := 0
	for row := 0; row < s.H; row++ {
		for col := 0; col < s.W; col++ {
			if s.Cells[row][col] {
				n++
			}
		}
	}
	return n
}

// parseShape builds a Shape from rows of '#' (filled) and '.' (empty).
func parseShape(rows ...string) Shape {
	s := Shape{H: len(rows)}
	for row, line := range rows {
		if len(line) > s.W {
			s.W = len(line)
		}
		for col, ch := range line {
			s.Cells[row][col] = ch == '#'
		}
	}
	return s
}

// Base orientations, rotation index 0.
var baseShapes = [KindCount]Shape{
	KindI: parseShape("#", "#", "#", "#"),
	KindJ: parseShape("#..", "###"),
	KindL: parseShape("..#", "###"),
	KindO: parseShape("##", "##"),
	KindS: parseShape(".##", "##."),
	KindT: parseShape(".#.", "###"),
	KindZ: parseShape("##.", ".##"),
}

// rotations[k][r] is kind k rotated r quarter turns clockwise from its base.
var rotations [KindCount][4]Shape

func init() {
	for k := range baseShapes {
		s := baseShapes[k]
		for r := 0; r < 4; r++ {
			rotations[k][r] = s
			s = Rotate(s, true)
		}
	}
}

// ShapeOf returns the precomputed shape of kind at the given rotation index.
func ShapeOf(kind Kind, rotation int) Shape {
	return rotations[kind][((rotation%4)+4)%4]
}

// Point is a cell position in grid coordinates.
type Point struct {
	X, Y int
}

// Piece is the active falling tetromino: its kind, rotation index and the
// grid position of the top-left corner of its shape matrix.
type Piece struct {
	Kind     Kind
	Rotation int
	X, Y     int
}

// Shape returns the piece's current shape matrix.
func (p Piece) Shape() Shape {
	return ShapeOf(p.Kind, p.Rotation)
}

// Cells returns the absolute grid positions of the piece's filled cells.
func (p Piece) Cells() []Point {
	s := p.Shape()
	cells := make([]Point, 0, 4)
	for row := 0; row < s.H; row++ {
		for col := 0; col < s.W; col++ {
			if s.Cells[row][col] {
				cells = append(cells, Point{X: p.X + col, Y: p.Y + row})
			}
		}
	}
	return cells
}

// spawnPiece places kind at the fixed spawn anchor in its base orientation.
func spawnPiece(kind Kind) Piece {
	return Piece{Kind: kind, X: SpawnX, Y: SpawnY}
}

// randomKind draws uniformly among all seven kinds. Repeats are allowed.
func randomKind(rng *rand.Rand) Kind {
	return Kind(rng.IntN(KindCount))
}
