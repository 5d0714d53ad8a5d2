// Package process spawns and supervises the session's child processes.
//
// The Supervisor owns one Process per child tab. Output lines and exit
// notifications are delivered to a single event channel supplied at
// construction; the session event loop is the only consumer, so ordering on
// that channel is the ordering the rest of the system observes.
package process

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
)

// Sentinel errors.
var (
	// ErrNotExited is returned when restart is requested for a child that
	// has not exited.
	ErrNotExited = errors.New("process has not exited")

	// ErrEmptyCommand is returned when a spec has no executable.
	ErrEmptyCommand = errors.New("empty command")
)

// Supervisor manages the session's children, indexed by tab.
//
// Tab indices are 1-based: tab N maps to the N-1th spawned spec, matching
// the session's tab layout where tab 0 is the main/log tab.
type Supervisor struct {
	mu     sync.Mutex
	procs  []*Process
	events chan<- any
}

// NewSupervisor creates a supervisor emitting Output and Exit values to
// events.
func NewSupervisor(events chan<- any) *Supervisor {
	return &Supervisor{events: events}
}

// Spawn starts a child for spec on the next tab and returns it. A spawn
// failure is returned to the caller; at session start it is fatal.
func (s *Supervisor) Spawn(spec Spec) (*Process, error) {
	if len(spec.Command) == 0 {
		return nil, fmt.Errorf("spawn %s: %w", spec.Name, ErrEmptyCommand)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proc := newProcess(len(s.procs)+1, spec)
	if err := proc.start(s.events); err != nil {
		return nil, err
	}
	s.procs = append(s.procs, proc)
	return proc, nil
}

// Count returns the number of supervised tabs.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}

// Process returns the current Process for tab, or nil for an invalid tab.
func (s *Supervisor) Process(tab int) *Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab < 1 || tab > len(s.procs) {
		return nil
	}
	return s.procs[tab-1]
}

// State returns the lifecycle state for tab. Invalid tabs report
// StateExited, which callers treat as "nothing to signal".
func (s *Supervisor) State(tab int) State {
	proc := s.Process(tab)
	if proc == nil {
		return StateExited
	}
	return proc.State()
}

// Interrupt sends SIGINT to the child on tab.
func (s *Supervisor) Interrupt(tab int) error {
	proc := s.Process(tab)
	if proc == nil {
		return nil
	}
	return proc.Interrupt()
}

// SignalAll delivers sig to every supervised child. Children that already
// exited are skipped; nothing waits for the survivors.
func (s *Supervisor) SignalAll(sig syscall.Signal) {
	s.mu.Lock()
	procs := make([]*Process, len(s.procs))
	copy(procs, s.procs)
	s.mu.Unlock()

	for _, p := range procs {
		if p.State() != StateExited {
			p.markTerminating()
		}
		_ = p.Signal(sig)
	}
}

// Restart respawns the child on tab from its retained spec. The new spawn
// keeps the tab index so output lands in the same history. Restarting a
// child that is still alive is refused.
func (s *Supervisor) Restart(tab int) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tab < 1 || tab > len(s.procs) {
		return nil, fmt.Errorf("restart tab %d: no such process", tab)
	}
	old := s.procs[tab-1]
	if old.State() != StateExited {
		return nil, fmt.Errorf("restart %s: %w", old.Spec.Name, ErrNotExited)
	}

	proc := newProcess(tab, old.Spec)
	if err := proc.start(s.events); err != nil {
		return nil, err
	}
	s.procs[tab-1] = proc
	return proc, nil
}
