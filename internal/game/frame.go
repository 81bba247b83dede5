package game

import (
	"strconv"
	"strings"
)

// Frame is a rectangular grid of glyphs, indexed [row][col].
type Frame struct {
	rows [][]rune
}

// NewFrame returns a width×height frame filled with spaces.
func NewFrame(width, height int) Frame {
	rows := make([][]rune, height)
	for i := range rows {
		row := make([]rune, width)
		for j := range row {
			row[j] = ' '
		}
		rows[i] = row
	}
	return Frame{rows: rows}
}

// Width returns the number of columns.
func (f Frame) Width() int {
	if len(f.rows) == 0 {
		return 0
	}
	return len(f.rows[0])
}

// Height returns the number of rows.
func (f Frame) Height() int {
	return len(f.rows)
}

// At returns the glyph at (col, row), or a space outside the frame.
func (f Frame) At(col, row int) rune {
	if row < 0 || row >= len(f.rows) || col < 0 || col >= len(f.rows[row]) {
		return ' '
	}
	return f.rows[row][col]
}

// Set writes one glyph; positions outside the frame are ignored.
func (f Frame) Set(col, row int, r rune) {
	if row < 0 || row >= len(f.rows) || col < 0 || col >= len(f.rows[row]) {
		return
	}
	f.rows[row][col] = r
}

// WriteAt writes s starting at (col, row), clipped to the frame.
func (f Frame) WriteAt(col, row int, s string) {
	for _, r := range s {
		f.Set(col, row, r)
		col++
	}
}

// Line returns row i as a string.
func (f Frame) Line(i int) string {
	if i < 0 || i >= len(f.rows) {
		return ""
	}
	return string(f.rows[i])
}

// Lines returns every row as a string.
func (f Frame) Lines() []string {
	lines := make([]string, len(f.rows))
	for i := range f.rows {
		lines[i] = string(f.rows[i])
	}
	return lines
}

func (f Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}

// Glyph layout. Every cell is drawn three glyphs wide and two rows tall.
const (
	cellW = 3
	cellH = 2

	fieldW = Cols*cellW + 2
	fieldH = Rows*cellH + 2
	sideW  = 11
	nextH  = 10
	scoreH = 3

	FrameWidth  = fieldW + sideW
	FrameHeight = fieldH
)

const (
	cellTop    = "╭─╮"
	cellBottom = "╰─╯"
	previewDot = '•'
)

var pauseBanner = []string{
	"█████╗ ███╗ ██╗██╗█████╗█████╗",
	"██╔██║██╔██╗██║██║██╔══╝██╔══╝",
	"█████║█████║██║██║ ███╗ █████╗",
	"██╔══╝██╔██║██║██║   ██╗██╔══╝",
	"██║   ██║██║█████║█████║█████╗",
	"╚═╝   ╚═╝╚═╝╚════╝╚════╝╚════╝",
}

// Compose draws a snapshot: playfield with locked cells, drop preview and
// active piece, the lookahead box, the score box and, while paused, the
// pause banner.
func Compose(s Snapshot) Frame {
	f := NewFrame(FrameWidth, FrameHeight)

	drawBox(f, 0, 0, fieldW, fieldH)
	for y := 1; y <= Rows; y++ {
		for x := 1; x <= Cols; x++ {
			if s.Grid.Occupied(x, y) {
				drawCell(f, fieldCol(x), fieldRow(y))
			}
		}
	}

	if s.State != StateGameOver {
		shape := s.Piece.Shape()
		pieceBottom := s.Piece.Y + shape.H
		preview := s.Piece
		preview.Y = s.PreviewY
		for _, c := range preview.Cells() {
			if c.Y < pieceBottom {
				continue
			}
			fillCell(f, fieldCol(c.X), fieldRow(c.Y), previewDot)
		}
		for _, c := range s.Piece.Cells() {
			drawCell(f, fieldCol(c.X), fieldRow(c.Y))
		}
	}

	drawBox(f, fieldW, 0, sideW, nextH)
	next := ShapeOf(s.Next, 0)
	for row := 0; row < next.H; row++ {
		for col := 0; col < next.W; col++ {
			if next.Cells[row][col] {
				drawCell(f, fieldW+1+col*cellW, 1+row*cellH)
			}
		}
	}

	drawBox(f, fieldW, nextH, sideW, scoreH)
	score := strconv.Itoa(s.Score)
	f.WriteAt(FrameWidth-1-len(score), nextH+1, score)

	if s.State == StatePaused {
		top := fieldH/2 - len(pauseBanner)
		for i, line := range pauseBanner {
			col := 1
			for _, r := range line {
				if col >= fieldW-1 {
					break
				}
				f.Set(col, top+i, r)
				col++
			}
		}
	}
	return f
}

func fieldCol(x int) int { return 1 + (x-1)*cellW }
func fieldRow(y int) int { return 1 + (y-1)*cellH }

func drawCell(f Frame, col, row int) {
	f.WriteAt(col, row, cellTop)
	f.WriteAt(col, row+1, cellBottom)
}

func fillCell(f Frame, col, row int, r rune) {
	for dy := 0; dy < cellH; dy++ {
		for dx := 0; dx < cellW; dx++ {
			f.Set(col+dx, row+dy, r)
		}
	}
}

// drawBox draws a rounded box outline of the given outer size.
func drawBox(f Frame, col, row, w, h int) {
	f.Set(col, row, '╭')
	f.Set(col+w-1, row, '╮')
	f.Set(col, row+h-1, '╰')
	f.Set(col+w-1, row+h-1, '╯')
	for x := col + 1; x < col+w-1; x++ {
		f.Set(x, row, '─')
		f.Set(x, row+h-1, '─')
	}
	for y := row + 1; y < row+h-1; y++ {
		f.Set(col, y, '│')
		f.Set(col+w-1, y, '│')
	}
}
