package draw

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/input"
)

// TcellScreen is an alternate backend on top of tcell. It renders frames and
// also acts as the input source, since tcell owns the terminal once started.
type TcellScreen struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	style  tcell.Style
}

var (
	_ game.Renderer    = (*TcellScreen)(nil)
	_ game.InputSource = (*TcellScreen)(nil)
)

// OpenTcellScreen initializes the controlling terminal through tcell.
func OpenTcellScreen() (*TcellScreen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewTcellScreen(screen), nil
}

// NewTcellScreen wraps an already initialized screen and starts reading its
// events.
func NewTcellScreen(screen tcell.Screen) *TcellScreen {
	s := &TcellScreen{
		screen: screen,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
		style:  tcell.StyleDefault,
	}
	screen.HideCursor()
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case s.events <- ev:
			case <-s.quit:
				return
			}
		}
	}()
	return s
}

// Render draws f centered on the screen.
func (s *TcellScreen) Render(f game.Frame) error {
	w, h := s.screen.Size()
	offCol := centerOffset(w, f.Width())
	offRow := centerOffset(h, f.Height())

	s.screen.Clear()
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			s.screen.SetContent(col+offCol, row+offRow, f.At(col, row), nil, s.style)
		}
	}
	s.screen.Show()
	return nil
}

// Poll drains pending events (non-blocking) and returns the commands they encode.
func (s *TcellScreen) Poll() []game.Command {
	var cmds []game.Command
	for {
		select {
		case ev := <-s.events:
			if cmd := s.handleEvent(ev); cmd != game.CommandNone {
				cmds = append(cmds, cmd)
			}
		default:
			return cmds
		}
	}
}

func (s *TcellScreen) handleEvent(ev tcell.Event) game.Command {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyLeft:
			return game.CommandMoveLeft
		case tcell.KeyRight:
			return game.CommandMoveRight
		case tcell.KeyDown:
			return game.CommandSoftDrop
		case tcell.KeyEnter:
			return game.CommandConfirm
		case tcell.KeyEscape:
			return game.CommandCancel
		case tcell.KeyCtrlC:
			return game.CommandQuit
		case tcell.KeyRune:
			if r := ev.Rune(); r < 0x80 {
				return input.KeyCommand(byte(r))
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return game.CommandNone
}

// Close restores the terminal.
func (s *TcellScreen) Close() error {
	close(s.quit)
	s.screen.Fini()
	return nil
}
