package game

// Command is an abstract player input.
type Command int

const (
	CommandNone Command = iota
	CommandMoveLeft
	CommandMoveRight
	CommandSoftDrop
	CommandSpinCW
	CommandSpinCCW
	CommandPause
	CommandResume
	CommandConfirm
	CommandCancel
	// CommandQuit ends the session from any state (Ctrl-C).
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandMoveLeft:
		return "move-left"
	case CommandMoveRight:
		return "move-right"
	case CommandSoftDrop:
		return "soft-drop"
	case CommandSpinCW:
		return "spin-cw"
	case CommandSpinCCW:
		return "spin-ccw"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandConfirm:
		return "confirm"
	case CommandCancel:
		return "cancel"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// InputSource yields the commands that became available since the last
// poll, in arrival order. Poll must not block.
type InputSource interface {
	Poll() []Command
}

// Renderer displays a composed frame.
type Renderer interface {
	Render(f Frame) error
}
