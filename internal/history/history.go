// Package history stores per-tab output lines for the session.
//
// Tab 0 (the main/log tab) keeps every line it is given. Child tabs keep a
// sliding window of the most recent lines: each child buffer is a
// fixed-capacity ring, so the retention bound holds structurally instead of
// relying on callers to truncate.
package history

// DefaultRetention is the number of lines kept per child tab when no
// explicit retention is configured.
const DefaultRetention = 1000

// Ring is a fixed-capacity line buffer with FIFO eviction. It is not safe
// for concurrent use; the session event loop is its only caller.
type Ring struct {
	lines []string
	head  int // next write position
	size  int
}

// NewRing creates a ring holding at most capacity lines. A capacity below 1
// falls back to DefaultRetention.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultRetention
	}
	return &Ring{lines: make([]string, capacity)}
}

// Append adds a line, evicting the oldest line once the ring is full.
func (r *Ring) Append(line string) {
	r.lines[r.head] = line
	r.head = (r.head + 1) % len(r.lines)
	if r.size < len(r.lines) {
		r.size++
	}
}

// Len returns the number of stored lines.
func (r *Ring) Len() int {
	return r.size
}

// Cap returns the retention bound.
func (r *Ring) Cap() int {
	return len(r.lines)
}

// Lines returns the stored lines, oldest first.
func (r *Ring) Lines() []string {
	out := make([]string, r.size)
	if r.size < len(r.lines) {
		copy(out, r.lines[:r.size])
		return out
	}
	n := copy(out, r.lines[r.head:])
	copy(out[n:], r.lines[:r.head])
	return out
}

// Store holds one buffer per tab. Buffers are created once, at session
// start, so every tab index a caller can hold is valid by construction.
type Store struct {
	main  []string
	rings []*Ring
}

// NewStore creates buffers for one main tab plus children child tabs, each
// child bounded to retention lines.
func NewStore(children, retention int) *Store {
	s := &Store{rings: make([]*Ring, children)}
	for i := range s.rings {
		s.rings[i] = NewRing(retention)
	}
	return s
}

// Tabs returns the total tab count, main tab included.
func (s *Store) Tabs() int {
	return len(s.rings) + 1
}

// Append adds a line to the buffer for tab.
func (s *Store) Append(tab int, line string) {
	if tab == 0 {
		s.main = append(s.main, line)
		return
	}
	s.rings[tab-1].Append(line)
}

// Get returns the lines for tab, oldest first. The returned slice is the
// caller's to keep; appends after the call are not reflected in it.
func (s *Store) Get(tab int) []string {
	if tab == 0 {
		out := make([]string, len(s.main))
		copy(out, s.main)
		return out
	}
	return s.rings[tab-1].Lines()
}

// Len returns the line count for tab without copying.
func (s *Store) Len(tab int) int {
	if tab == 0 {
		return len(s.main)
	}
	return s.rings[tab-1].Len()
}
