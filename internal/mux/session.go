// Package mux is the multiplexer state machine: one event loop that owns
// the session state and dispatches terminal input, child output, and child
// exit notifications in arrival order.
//
// All session state is mutated from the loop goroutine only, so the
// handlers need no locking. Handlers never block and trigger at most one
// redraw per event.
package mux

import (
	"fmt"
	"io"
	"syscall"

	"github.com/sformichella/process-manager/internal/history"
	"github.com/sformichella/process-manager/internal/input"
	"github.com/sformichella/process-manager/internal/process"
	"github.com/sformichella/process-manager/internal/render"
)

// InputChunk carries one raw terminal read into the event loop.
type InputChunk []byte

// Supervisor is the slice of the process supervisor the session drives.
// *process.Supervisor implements it; tests substitute a fake.
type Supervisor interface {
	Count() int
	State(tab int) process.State
	Interrupt(tab int) error
	Restart(tab int) (*process.Process, error)
	SignalAll(sig syscall.Signal)
}

// Renderer draws one frame. *render.Engine implements it.
type Renderer interface {
	Render(render.Frame)
}

// followMargin is how close to the tail the cursor must be for new output
// to drag the view along. A user who scrolled further back keeps their
// place.
const followMargin = 2

// Config assembles a session's collaborators.
type Config struct {
	// Store holds one history buffer per tab.
	Store *history.Store
	// Supervisor owns the child processes.
	Supervisor Supervisor
	// Renderer draws frames.
	Renderer Renderer
	// Events is the shared channel the supervisor and the input reader
	// feed. The session is its only consumer.
	Events chan any
	// ViewportHeight is the number of content lines per frame.
	ViewportHeight int
	// LogLevel filters session log lines.
	LogLevel LogLevel
	// LogFile optionally mirrors session log lines outside the screen.
	LogFile io.Writer
}

// Session is the multiplexer state: the active tab, the scroll cursor, and
// the wiring between decoder, histories, supervisor, and renderer.
type Session struct {
	store    *history.Store
	sup      Supervisor
	renderer Renderer
	log      *Logger
	events   chan any

	activeTab int
	cursor    int
	viewport  int

	exitCode int

	// pendingRedraw is set by the logger sink when a log line lands on a
	// visible tail mid-handler.
	pendingRedraw bool
}

// NewSession creates a session. The viewport height is clamped to at least
// one line.
func NewSession(cfg Config) *Session {
	if cfg.ViewportHeight < 1 {
		cfg.ViewportHeight = 1
	}
	s := &Session{
		store:    cfg.Store,
		sup:      cfg.Supervisor,
		renderer: cfg.Renderer,
		events:   cfg.Events,
		viewport: cfg.ViewportHeight,
	}
	s.log = NewLogger(cfg.LogLevel, func(line string) {
		if s.appendFollow(0, line) {
			s.pendingRedraw = true
		}
	})
	if cfg.LogFile != nil {
		s.log.SetFile(cfg.LogFile)
	}
	return s
}

// Post delivers an event to the loop. Used by the terminal input reader.
func (s *Session) Post(ev any) {
	s.events <- ev
}

// Run dispatches events in arrival order until the main tab receives an
// interrupt, then signals all children and returns the session exit code.
func (s *Session) Run() int {
	s.log.Info("session started with %d processes", s.sup.Count())
	s.redraw()

	for ev := range s.events {
		done, needsRedraw := s.dispatch(ev)
		if s.pendingRedraw {
			needsRedraw = true
			s.pendingRedraw = false
		}
		if done {
			break
		}
		if needsRedraw {
			s.redraw()
		}
	}
	return s.exitCode
}

// dispatch routes one event to its handler. It reports whether the session
// is over and whether the screen changed.
func (s *Session) dispatch(ev any) (done, needsRedraw bool) {
	switch ev := ev.(type) {
	case InputChunk:
		return s.handleInput(input.Decode(ev))
	case process.Output:
		return false, s.handleOutput(ev)
	case process.Exit:
		return false, s.handleExit(ev)
	default:
		return false, false
	}
}

// handleInput applies one decoded key or mouse event.
func (s *Session) handleInput(ev input.Event) (done, needsRedraw bool) {
	switch ev.Kind {
	case input.Interrupt:
		if s.activeTab == 0 {
			return s.interruptMain(), false
		}
		return false, s.interruptChild(s.activeTab)
	case input.NavigateLeft:
		s.navigate(-1)
		return false, true
	case input.NavigateRight:
		s.navigate(1)
		return false, true
	case input.ScrollUp:
		return false, s.scroll(-1)
	case input.ScrollDown:
		return false, s.scroll(1)
	case input.RestartKey:
		return false, s.restart()
	default:
		return false, false
	}
}

// interruptMain ends the session: pre-exit notice, then SIGTERM to every
// child exactly once. Nothing waits for the children; a child that ignores
// the signal is orphaned on purpose.
func (s *Session) interruptMain() bool {
	s.log.Info("received interrupt, terminating %d processes", s.sup.Count())
	s.sup.SignalAll(syscall.SIGTERM)
	return true
}

// interruptChild notes the interrupt in the child's history and sends it
// SIGINT. The exit notice follows asynchronously via the exit event.
func (s *Session) interruptChild(tab int) bool {
	s.appendFollow(tab, "")
	s.appendFollow(tab, "Received SIGINT")
	_ = s.sup.Interrupt(tab)
	return true
}

// navigate moves the active tab by delta with wrap-around and jumps the
// cursor to the new tab's tail.
func (s *Session) navigate(delta int) {
	tabs := s.store.Tabs()
	s.activeTab = ((s.activeTab+delta)%tabs + tabs) % tabs
	s.cursor = s.tail(s.activeTab)
}

// scroll moves the cursor one line and reports whether it actually moved.
func (s *Session) scroll(delta int) bool {
	next := s.cursor + delta
	if next < 0 {
		next = 0
	}
	if limit := s.tail(s.activeTab); next > limit {
		next = limit
	}
	if next == s.cursor {
		return false
	}
	s.cursor = next
	return true
}

// restart respawns the active tab's child if it has exited. On any other
// tab or state the key is ignored.
func (s *Session) restart() bool {
	tab := s.activeTab
	if tab == 0 || s.sup.State(tab) != process.StateExited {
		return false
	}
	if _, err := s.sup.Restart(tab); err != nil {
		s.log.Error("restart process %d: %v", tab, err)
		return true
	}
	s.appendFollow(tab, fmt.Sprintf("Restarting process %d", tab))
	return true
}

// handleOutput appends a child output line, following the tail if the
// writing tab is active and the user was already viewing the tail.
func (s *Session) handleOutput(ev process.Output) bool {
	return s.appendFollow(ev.Tab, ev.Line)
}

// handleExit records a child exit on the main tab and offers a restart on
// the child tab. The process record is already Exited by the time this
// event arrives; state is re-read rather than captured because the active
// tab may have changed since the child was signaled.
func (s *Session) handleExit(ev process.Exit) bool {
	main := s.appendFollow(0, fmt.Sprintf("process %d exited with code %d", ev.Tab, ev.Code))
	child := s.appendFollow(ev.Tab, fmt.Sprintf("Press 'K' to restart process %d", ev.Tab))
	return main || child
}

// appendFollow appends a line to tab's history and applies the auto-follow
// rule: if tab is active and the cursor was within followMargin of the
// tail, the cursor advances to the new tail. It reports whether the visible
// screen changed.
func (s *Session) appendFollow(tab int, line string) bool {
	oldTail := s.tail(tab)
	s.store.Append(tab, line)
	if tab != s.activeTab {
		return false
	}
	if oldTail-s.cursor <= followMargin {
		s.cursor = s.tail(tab)
		return true
	}
	return false
}

// tail is the maximum cursor value for tab: the offset that shows the most
// recent output.
func (s *Session) tail(tab int) int {
	t := s.store.Len(tab) - s.viewport
	if t < 0 {
		return 0
	}
	return t
}

// redraw paints the current state.
func (s *Session) redraw() {
	s.renderer.Render(render.Frame{
		ActiveTab: s.activeTab,
		TabCount:  s.store.Tabs(),
		Cursor:    s.cursor,
		Height:    s.viewport,
		Lines:     s.store.Get(s.activeTab),
	})
}
