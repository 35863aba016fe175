package app

// Mode is the state of the pointer session.
type Mode int

const (
	// PointerMode moves the system cursor, clicks on pinch and scrolls.
	PointerMode Mode = iota
	// DrawMode draws strokes on the canvas with the index finger.
	DrawMode
)

// String returns the name used in logs and the session journal.
func (m Mode) String() string {
	if m == DrawMode {
		return "draw"
	}
	return "pointer"
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Banner is the mode line shown on the preview.
func (m Mode) Banner() string {
	if m == DrawMode {
		return "DRAW MODE (Open palm to lift pen)"
	}
	return "POINTER MODE (Pinch to click)"
}

// Command is a discrete user command polled once per frame.
type Command int

const (
	NoCommand Command = iota
	ToggleMode
	ClearCanvas
	SaveDrawing
	Quit
)

func (c Command) String() string {
	switch c {
	case ToggleMode:
		return "toggle-mode"
	case ClearCanvas:
		return "clear-canvas"
	case SaveDrawing:
		return "save-drawing"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

const keyEscape = 27

// CommandForKey maps a key code from the preview window to a command.
// Negative codes mean no key was pressed.
func CommandForKey(key int) Command {
	if key < 0 {
		return NoCommand
	}
	switch key & 0xFF {
	case 'd':
		return ToggleMode
	case 'c':
		return ClearCanvas
	case 's':
		return SaveDrawing
	case 'q', keyEscape:
		return Quit
	default:
		return NoCommand
	}
}

// Action texts shown on the status line.
const (
	ActionNoHand    = "No hand detected"
	ActionIdle      = "Hand detected"
	ActionMove      = "Moving cursor"
	ActionClick     = "Click (pinch)"
	ActionScroll    = "Scrolling"
	ActionDraw      = "Drawing"
	ActionPenLifted = "Pen lifted (open palm)"
)
