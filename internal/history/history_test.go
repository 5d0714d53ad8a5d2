package history

import (
	"fmt"
	"testing"
)

func TestRing_AppendBelowCapacity(t *testing.T) {
	r := NewRing(4)
	r.Append("a")
	r.Append("b")

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	got := r.Lines()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Lines() = %v, want [a b]", got)
	}
}

func TestRing_EvictsOldestFirst(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Append(fmt.Sprintf("line %d", i))
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	got := r.Lines()
	want := []string{"line 2", "line 3", "line 4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRing_NeverExceedsCapacity(t *testing.T) {
	r := NewRing(10)
	for i := 0; i < 1000; i++ {
		r.Append("x")
		if r.Len() > 10 {
			t.Fatalf("Len() = %d after %d appends, want <= 10", r.Len(), i+1)
		}
	}
}

func TestRing_DefaultCapacity(t *testing.T) {
	r := NewRing(0)
	if r.Cap() != DefaultRetention {
		t.Errorf("Cap() = %d, want %d", r.Cap(), DefaultRetention)
	}
}

func TestStore_MainTabUnbounded(t *testing.T) {
	s := NewStore(2, 5)
	for i := 0; i < 500; i++ {
		s.Append(0, "log line")
	}

	if s.Len(0) != 500 {
		t.Errorf("Len(0) = %d, want 500", s.Len(0))
	}
}

func TestStore_ChildTabsBounded(t *testing.T) {
	s := NewStore(2, 5)
	for i := 0; i < 20; i++ {
		s.Append(1, fmt.Sprintf("p0 %d", i))
		s.Append(2, fmt.Sprintf("p1 %d", i))
	}

	for tab := 1; tab <= 2; tab++ {
		if s.Len(tab) != 5 {
			t.Errorf("Len(%d) = %d, want 5", tab, s.Len(tab))
		}
	}
	got := s.Get(1)
	if got[0] != "p0 15" || got[4] != "p0 19" {
		t.Errorf("Get(1) = %v, want p0 15..p0 19", got)
	}
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	s := NewStore(1, 10)
	s.Append(0, "one")
	snap := s.Get(0)
	s.Append(0, "two")

	if len(snap) != 1 {
		t.Errorf("snapshot grew after append: %v", snap)
	}
}

func TestStore_Tabs(t *testing.T) {
	s := NewStore(3, 10)
	if s.Tabs() != 4 {
		t.Errorf("Tabs() = %d, want 4", s.Tabs())
	}
}
