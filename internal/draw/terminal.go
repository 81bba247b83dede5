package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/tomz197/tetris/internal/game"
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// ChunkWriter accumulates text for terminal output and writes in chunks for optimal
// network flow (e.g. over SSH). Use MoveCursor, WriteString, WriteRune to accumulate,
// then Flush to write to the underlying writer.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
	numBuf [20]byte      // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all MoveCursor coordinates (for frame centering).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based
// frame coordinates; offset is applied automatically.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes a string at a specific position. col and row are 1-based frame coordinates; offset is applied automatically.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FixedSize returns a TermSizeFunc that always reports width×height.
func FixedSize(width, height int) TermSizeFunc {
	return func() (int, int, error) { return width, height, nil }
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// Terminal renders frames as ANSI text, centered in the terminal. Only rows
// that changed since the previous frame are rewritten; a resize or an
// explicit Invalidate clears the screen and redraws everything.
type Terminal struct {
	w    io.Writer
	cw   *ChunkWriter
	size TermSizeFunc

	prev       []string
	termWidth  int
	termHeight int
	frameW     int
	frameH     int
}

// Ensure Terminal satisfies game.Renderer.
var _ game.Renderer = (*Terminal)(nil)

// NewTerminal creates a renderer writing to w. size reports the terminal
// dimensions; nil means DefaultTermSizeFunc.
func NewTerminal(w io.Writer, size TermSizeFunc) *Terminal {
	if size == nil {
		size = DefaultTermSizeFunc
	}
	return &Terminal{
		w:    w,
		cw:   NewChunkWriter(w, 0, 0),
		size: size,
	}
}

// Invalidate forces a full redraw on the next Render.
func (t *Terminal) Invalidate() {
	t.prev = nil
}

// Render draws f. Rows and columns that do not fit the terminal are clipped.
func (t *Terminal) Render(f game.Frame) error {
	tw, th, err := t.size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	if tw != t.termWidth || th != t.termHeight || f.Width() != t.frameW || f.Height() != t.frameH {
		t.termWidth, t.termHeight = tw, th
		t.frameW, t.frameH = f.Width(), f.Height()
		t.cw.SetOffset(centerOffset(tw, f.Width()), centerOffset(th, f.Height()))
		t.prev = nil
	}

	if t.prev == nil {
		t.cw.WriteString("\033[?25l\033[H\033[2J")
		t.prev = make([]string, f.Height())
	}

	rows := min(f.Height(), th)
	for row := 0; row < rows; row++ {
		line := f.Line(row)
		if line == t.prev[row] {
			continue
		}
		t.prev[row] = line
		t.cw.WriteAt(1, row+1, clip(line, tw))
	}

	if err := t.cw.Flush(); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close restores the cursor and clears the screen.
func (t *Terminal) Close() error {
	ClearScreen(t.w)
	ShowCursor(t.w)
	return nil
}

// centerOffset returns the 0-based offset that centers size inside avail.
func centerOffset(avail, size int) int {
	if avail <= size {
		return 0
	}
	return (avail - size) / 2
}

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
