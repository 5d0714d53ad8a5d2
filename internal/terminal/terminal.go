// Package terminal owns the controlling terminal for the life of a session.
//
// It switches stdin to raw byte-at-a-time delivery, enables mouse
// button-event reporting, and guarantees both are undone exactly once on
// teardown no matter which exit path runs.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Escape sequences for X10 mouse reporting with UTF-8 extended
// coordinates. The "h" variants enable, the "l" variants restore.
const (
	mouseEnable  = "\x1b[?1005h\x1b[?1000h"
	mouseDisable = "\x1b[?1000l\x1b[?1005l"
)

// inputChunkSize bounds a single stdin read. In raw mode each keypress or
// mouse report arrives as its own short read, well under this size.
const inputChunkSize = 64

// Terminal wraps the process's controlling terminal.
type Terminal struct {
	in  *os.File
	out io.Writer

	mu       sync.Mutex
	saved    *term.State
	restored sync.Once
}

// New creates a Terminal reading from in and writing control sequences to
// out. Pass os.Stdin and os.Stdout for a real session.
func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// EnterRaw switches the terminal to raw mode and enables mouse reporting.
// Callers must pair it with Restore.
func (t *Terminal) EnterRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.saved = state

	if _, err := io.WriteString(t.out, mouseEnable); err != nil {
		_ = term.Restore(int(t.in.Fd()), state)
		t.saved = nil
		return fmt.Errorf("enable mouse reporting: %w", err)
	}
	return nil
}

// Restore disables mouse reporting and returns the terminal to its saved
// mode. Safe to call from any exit path; only the first call acts.
func (t *Terminal) Restore() {
	t.restored.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		_, _ = io.WriteString(t.out, mouseDisable)
		if t.saved != nil {
			_ = term.Restore(int(t.in.Fd()), t.saved)
			t.saved = nil
		}
	})
}

// Size returns the terminal dimensions in columns and rows.
func (t *Terminal) Size() (width, height int, err error) {
	width, height, err = term.GetSize(int(t.in.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("terminal size: %w", err)
	}
	return width, height, nil
}

// ReadChunks starts a goroutine that forwards raw stdin chunks until read
// fails (typically because the terminal was restored and closed). The
// returned channel is closed when reading stops. Each chunk is an
// independent copy, safe to retain.
func (t *Terminal) ReadChunks() <-chan []byte {
	ch := make(chan []byte)
	go func() {
		defer close(ch)
		buf := make([]byte, inputChunkSize)
		for {
			n, err := t.in.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				ch <- chunk
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}
