// Package input classifies raw terminal byte chunks into semantic events.
//
// The decoder assumes the terminal is in raw mode with mouse button-event
// reporting enabled, so each read delivers one complete keypress or mouse
// report. Decoding is stateless: a chunk either matches one of the known
// sequences exactly or it is dropped. Escape sequences split across reads
// are not reassembled.
package input

// Kind identifies the semantic meaning of a decoded chunk.
type Kind uint8

const (
	// Unrecognized indicates a chunk that matched no known sequence.
	// Callers should discard it.
	Unrecognized Kind = iota
	// Interrupt is Ctrl-C (a single ETX byte).
	Interrupt
	// NavigateLeft is the left-arrow escape sequence.
	NavigateLeft
	// NavigateRight is the right-arrow escape sequence.
	NavigateRight
	// ScrollUp is a mouse wheel report scrolling toward older output.
	ScrollUp
	// ScrollDown is a mouse wheel report scrolling toward newer output.
	ScrollDown
	// RestartKey is the lowercase 'k' restart shortcut.
	RestartKey
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Interrupt:
		return "interrupt"
	case NavigateLeft:
		return "navigate-left"
	case NavigateRight:
		return "navigate-right"
	case ScrollUp:
		return "scroll-up"
	case ScrollDown:
		return "scroll-down"
	case RestartKey:
		return "restart-key"
	default:
		return "unrecognized"
	}
}

// Event is the result of decoding one raw chunk.
type Event struct {
	Kind Kind
}

// Raw byte contracts. These must match the terminal's raw-mode output
// exactly; anything else is unrecognized.
const (
	etx        = 0x03 // Ctrl-C
	restartKey = 'k'
	esc        = 0x1b
)

// Mouse button-event reports arrive as ESC [ M <button> <x> <y>. Only the
// button byte is inspected: wheel events have both 0x60 bits set, and the
// low bit distinguishes wheel-down from wheel-up.
const (
	mouseButtonOffset = 3
	wheelMask         = 0x60
	wheelDownBit      = 0x01
)

// Decode classifies a single raw chunk into exactly one event. It never
// buffers: partial or malformed sequences decode as Unrecognized.
func Decode(chunk []byte) Event {
	switch {
	case len(chunk) == 1 && chunk[0] == etx:
		return Event{Kind: Interrupt}
	case len(chunk) == 1 && chunk[0] == restartKey:
		return Event{Kind: RestartKey}
	case len(chunk) == 3 && chunk[0] == esc && chunk[1] == '[' && chunk[2] == 'D':
		return Event{Kind: NavigateLeft}
	case len(chunk) == 3 && chunk[0] == esc && chunk[1] == '[' && chunk[2] == 'C':
		return Event{Kind: NavigateRight}
	case isMouseReport(chunk):
		return decodeMouse(chunk[mouseButtonOffset])
	default:
		return Event{Kind: Unrecognized}
	}
}

// isMouseReport reports whether the chunk starts with the X10 mouse report
// prefix and carries at least a button byte.
func isMouseReport(chunk []byte) bool {
	return len(chunk) > mouseButtonOffset &&
		chunk[0] == esc && chunk[1] == '[' && chunk[2] == 'M'
}

// decodeMouse classifies the button byte of a mouse report. Press, release
// and motion reports share the same framing as wheel events, so reports
// without both wheel bits set are dropped rather than misread as scrolls.
func decodeMouse(button byte) Event {
	if button&wheelMask != wheelMask {
		return Event{Kind: Unrecognized}
	}
	if button&wheelDownBit != 0 {
		return Event{Kind: ScrollDown}
	}
	return Event{Kind: ScrollUp}
}
