package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Keep expected output byte-exact regardless of the test terminal.
	color.NoColor = true
}

func TestRender_FrameLayout(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out, 0)

	e.Render(Frame{
		ActiveTab: 0,
		TabCount:  3,
		Cursor:    0,
		Height:    10,
		Lines:     []string{"one", "two"},
	})

	want := clearScreen +
		header + "\r\n" +
		"\r\n" +
		"main [*] | process 1 [ ] | process 2 [ ] " + "\r\n" +
		"\r\n" +
		"one\r\n" +
		"two\r\n"
	if out.String() != want {
		t.Errorf("frame mismatch:\ngot  %q\nwant %q", out.String(), want)
	}
}

func TestRender_ActiveChildTab(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out, 0)

	e.Render(Frame{ActiveTab: 2, TabCount: 3, Height: 5})

	if !strings.Contains(out.String(), "main [ ] | process 1 [ ] | process 2 [*] ") {
		t.Errorf("tab bar missing active marker on tab 2: %q", out.String())
	}
}

func TestRender_VisibleWindow(t *testing.T) {
	lines := []string{"0", "1", "2", "3", "4", "5", "6"}
	var out bytes.Buffer
	e := NewEngine(&out, 0)

	e.Render(Frame{ActiveTab: 1, TabCount: 2, Cursor: 2, Height: 3, Lines: lines})

	body := out.String()
	for _, want := range []string{"2\r\n", "3\r\n", "4\r\n"} {
		if !strings.Contains(body, want) {
			t.Errorf("visible window missing %q", want)
		}
	}
	if strings.Contains(body, "5\r\n") || strings.Contains(body, "1\r\n\r\n") {
		t.Errorf("lines outside the window drawn: %q", body)
	}
}

func TestRender_WindowClampedToHistory(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(&out, 0)

	// Height larger than remaining history must not panic or pad.
	e.Render(Frame{ActiveTab: 1, TabCount: 2, Cursor: 1, Height: 20, Lines: []string{"a", "b"}})

	if !strings.HasSuffix(out.String(), "b\r\n") {
		t.Errorf("expected history to end at last line, got %q", out.String())
	}
}

func TestRender_Idempotent(t *testing.T) {
	f := Frame{ActiveTab: 1, TabCount: 2, Cursor: 0, Height: 4, Lines: []string{"x", "y"}}

	var first, second bytes.Buffer
	NewEngine(&first, 0).Render(f)
	NewEngine(&second, 0).Render(f)

	if first.String() != second.String() {
		t.Error("identical frames rendered differently")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello"},
		{"disabled", "hello world", 0, "hello world"},
		{"wide runes", "日本語テスト", 4, "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
