package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
)

// State is the lifecycle of one managed child.
type State int32

const (
	// StateRunning indicates the child is alive.
	StateRunning State = iota
	// StateTerminating indicates a supervisor-issued signal was sent and
	// the exit notification has not arrived yet.
	StateTerminating
	// StateExited indicates the child is gone. Only Restart leaves this
	// state.
	StateExited
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Spec describes how to launch a child. It is retained for the life of the
// session so the same command can be respawned on restart.
type Spec struct {
	// Name is a human-readable label.
	Name string
	// Command is the executable followed by its arguments.
	Command []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env is appended to the parent environment; nil means inherit as-is.
	Env []string
}

// Output is emitted to the session event channel for every line a child
// writes to stdout or stderr.
type Output struct {
	// Tab is the child's tab index (>= 1).
	Tab int
	// Line is one output line, without the trailing newline.
	Line string
}

// Exit is emitted to the session event channel once per child lifetime,
// after both output streams have drained.
type Exit struct {
	// Tab is the child's tab index (>= 1).
	Tab int
	// Code is the child's exit code, -1 when the child died to a signal
	// or never reported one.
	Code int
}

// Process wraps one running child with lifecycle tracking.
//
// A supervisor-issued signal moves the state to Terminating without
// waiting; the transition to Exited happens when Wait returns. A child that
// dies on its own goes straight from Running to Exited — crash and
// requested termination are indistinguishable downstream.
type Process struct {
	// ID uniquely identifies this spawn. A restarted child gets a new ID.
	ID string
	// Tab is the tab index this child's output belongs to.
	Tab int
	// Spec is the launch description, kept for restarts.
	Spec Spec

	cmd      *exec.Cmd
	state    atomic.Int32
	exitCode atomic.Int32
	done     chan struct{}

	// streams holds the pipe-scanning goroutines so exit is reported only
	// after all buffered output has been forwarded.
	streams sync.WaitGroup
}

// newProcess builds the exec.Cmd for spec without starting it.
func newProcess(tab int, spec Spec) *Process {
	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	p := &Process{
		ID:   uuid.New().String(),
		Tab:  tab,
		Spec: spec,
		cmd:  cmd,
		done: make(chan struct{}),
	}
	p.exitCode.Store(-1)
	return p
}

// State returns the current lifecycle state.
func (p *Process) State() State {
	return State(p.state.Load())
}

// ExitCode returns the exit code, or -1 if the child has not exited.
func (p *Process) ExitCode() int {
	return int(p.exitCode.Load())
}

// Done returns a channel closed when the child has exited and its output
// has drained.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// PID returns the OS process ID, or -1 before start.
func (p *Process) PID() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// Signal delivers sig to the child. Signaling a child that is no longer
// running is a no-op, not an error: by the time a handler reacts to input
// the child may already be gone.
func (p *Process) Signal(sig syscall.Signal) error {
	if p.State() == StateExited || p.cmd.Process == nil {
		return nil
	}
	// The race where the child exits between the state check and the
	// signal resolves here, as another accepted no-op.
	_ = p.cmd.Process.Signal(sig)
	return nil
}

// Interrupt sends SIGINT and marks the child Terminating.
func (p *Process) Interrupt() error {
	p.markTerminating()
	return p.Signal(syscall.SIGINT)
}

// Terminate sends SIGTERM and marks the child Terminating.
func (p *Process) Terminate() error {
	p.markTerminating()
	return p.Signal(syscall.SIGTERM)
}

func (p *Process) markTerminating() {
	p.state.CompareAndSwap(int32(StateRunning), int32(StateTerminating))
}

// start launches the child and wires its output into events.
func (p *Process) start(events chan<- any) error {
	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.Spec.Name, err)
	}
	p.state.Store(int32(StateRunning))

	p.streams.Add(2)
	go p.scanStream(stdout, events)
	go p.scanStream(stderr, events)
	go p.waitLoop(events)

	return nil
}

// scanStream forwards one output stream line by line.
func (p *Process) scanStream(r io.Reader, events chan<- any) {
	defer p.streams.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		events <- Output{Tab: p.Tab, Line: scanner.Text()}
	}
}

// waitLoop reaps the child, settles the lifecycle state, and emits the exit
// notification after the output streams have drained so their ordering on
// the event channel is preserved.
func (p *Process) waitLoop(events chan<- any) {
	p.streams.Wait()
	err := p.cmd.Wait()

	code := 0
	if err != nil {
		code = -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
	}

	p.exitCode.Store(int32(code))
	p.state.Store(int32(StateExited))
	close(p.done)
	events <- Exit{Tab: p.Tab, Code: code}
}
