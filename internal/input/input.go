package input

import (
	"bufio"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomz197/tetris/internal/game"
)

// escHold is how long a lone ESC waits for the rest of an escape sequence
// before it counts as the Escape key.
const escHold = 50 * time.Millisecond

// Stream delivers input bytes via a channel and turns them into game commands.
// It implements game.InputSource.
type Stream struct {
	ch        chan byte
	done      chan struct{}
	stopOnce  sync.Once
	closed    atomic.Bool
	partial   []byte    // unfinished escape sequence carried to the next Poll
	heldSince time.Time // when partial last grew
	last      time.Time
	now       func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:   make(chan byte, 128),
		done: make(chan struct{}),
		last: time.Now(),
		now:  time.Now,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				s.closed.Store(true)
				close(s.ch)
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				s.closed.Store(true)
				return
			}
		}
	}()
	return s
}

// Stop releases the reader goroutine once nobody polls anymore. A goroutine
// blocked inside the reader itself exits when that reader is closed.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Poll drains all available bytes from the stream (non-blocking) and returns
// the commands they encode, in arrival order.
func (s *Stream) Poll() []game.Command {
	buf := s.partial
	held := len(buf)
	s.partial = nil
	eof := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				eof = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	if len(buf) == 0 {
		return nil
	}

	now := s.now()
	if len(buf) > held {
		s.last = now
		s.heldSince = now
	} else if eof || now.Sub(s.heldSince) >= escHold {
		// Nothing completed the held sequence in time
		return Flush(buf)
	}

	cmds, rest := Parse(buf)
	if len(rest) > 0 {
		if eof {
			return append(cmds, Flush(rest)...)
		}
		s.partial = append([]byte(nil), rest...)
	}
	return cmds
}

// Closed reports whether the underlying reader has ended and every byte
// has been handed out.
func (s *Stream) Closed() bool {
	return s.closed.Load() && len(s.ch) == 0 && len(s.partial) == 0
}

// LastInput returns when bytes were last received. Used for inactivity checks.
func (s *Stream) LastInput() time.Time {
	return s.last
}

// Parse decodes raw terminal bytes into commands. An escape sequence that is
// cut off at the end of buf, including a trailing lone ESC, is returned as
// rest so the caller can complete it with later bytes or Flush it. Unknown
// bytes and sequences are skipped.
func Parse(buf []byte) (cmds []game.Command, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) {
			// May be the first byte of a sequence still in flight
			return cmds, buf[i:]
		}
		if b == '\x1b' && (buf[i+1] == '[' || buf[i+1] == 'O') {
			// CSI / SS3 sequence: ESC [ <params> <final>
			j := i + 2
			for j < len(buf) && (buf[j] < 0x40 || buf[j] > 0x7e) {
				j++
			}
			if j >= len(buf) {
				return cmds, buf[i:]
			}
			if cmd, ok := arrowKey(buf[j]); ok {
				cmds = append(cmds, cmd)
			}
			i = j
			continue
		}

		if cmd := KeyCommand(b); cmd != game.CommandNone {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// Flush decodes bytes that will never be completed, one key per byte. A lone
// ESC becomes Cancel.
func Flush(rest []byte) []game.Command {
	var cmds []game.Command
	for _, b := range rest {
		if cmd := KeyCommand(b); cmd != game.CommandNone {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func arrowKey(final byte) (game.Command, bool) {
	switch final {
	case 'B': // Down arrow
		return game.CommandSoftDrop, true
	case 'C': // Right arrow
		return game.CommandMoveRight, true
	case 'D': // Left arrow
		return game.CommandMoveLeft, true
	}
	return game.CommandNone, false
}

// KeyCommand maps a single key byte to its command, or CommandNone.
func KeyCommand(b byte) game.Command {
	switch b {
	case 'a', 'A':
		return game.CommandMoveLeft
	case 'd', 'D':
		return game.CommandMoveRight
	case 's', 'S':
		return game.CommandSoftDrop
	case 'e', 'E':
		return game.CommandSpinCW
	case 'q', 'Q':
		return game.CommandSpinCCW
	case 'p', 'P':
		return game.CommandPause
	case '\n', '\r':
		return game.CommandConfirm
	case '\x1b':
		return game.CommandCancel
	case '\x03': // Ctrl-C
		return game.CommandQuit
	}
	return game.CommandNone
}
