// Package render draws the fixed two-region session layout: a tab bar above
// the visible slice of the active tab's history.
//
// Every draw repaints the whole screen. Redraws happen only on discrete
// events, so the simplicity of a full repaint wins over diffing.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rivo/uniseg"
)

// header is the fixed instructional line at the top of every frame.
const header = "arrow keys: switch tabs | mouse wheel: scroll | ctrl-c: interrupt | k: restart"

// clearScreen erases the display and homes the cursor.
const clearScreen = "\x1b[2J\x1b[H"

// Frame is everything the engine needs to draw one screen. Identical
// frames draw identical screens.
type Frame struct {
	// ActiveTab is the selected tab, 0 for the main/log tab.
	ActiveTab int
	// TabCount is the total number of tabs, main tab included.
	TabCount int
	// Cursor is the index of the first visible line in Lines.
	Cursor int
	// Height is the number of content lines to draw.
	Height int
	// Lines is the active tab's full history, oldest first.
	Lines []string
}

// Engine writes frames to a terminal-like writer.
type Engine struct {
	out    io.Writer
	width  int
	active *color.Color
}

// NewEngine creates an engine drawing to out. Lines wider than width are
// truncated so a long line cannot wrap and push the layout off screen;
// width <= 0 disables truncation.
func NewEngine(out io.Writer, width int) *Engine {
	return &Engine{
		out:    out,
		width:  width,
		active: color.New(color.FgCyan, color.Bold),
	}
}

// Render repaints the screen for the given frame. The frame is assembled in
// memory and written in a single call to keep partially drawn screens off
// the terminal.
func (e *Engine) Render(f Frame) {
	var buf bytes.Buffer
	buf.WriteString(clearScreen)
	buf.WriteString(header)
	buf.WriteString("\r\n\r\n")
	buf.WriteString(e.tabBar(f.ActiveTab, f.TabCount))
	buf.WriteString("\r\n\r\n")

	end := f.Cursor + f.Height
	if end > len(f.Lines) {
		end = len(f.Lines)
	}
	for _, line := range f.Lines[f.Cursor:end] {
		buf.WriteString(truncate(line, e.width))
		buf.WriteString("\r\n")
	}

	_, _ = e.out.Write(buf.Bytes())
}

// tabBar renders every tab cell joined with "|", the active tab marked
// with [*] and highlighted.
func (e *Engine) tabBar(active, count int) string {
	cells := make([]string, count)
	for tab := 0; tab < count; tab++ {
		cell := tabCell(tab, tab == active)
		if tab == active {
			cell = e.active.Sprint(cell)
		}
		cells[tab] = cell
	}
	return strings.Join(cells, "|")
}

// tabCell formats one tab label: `main [*] ` for tab 0, ` process N [*] `
// for child tabs.
func tabCell(tab int, active bool) string {
	mark := " "
	if active {
		mark = "*"
	}
	if tab == 0 {
		return fmt.Sprintf("main [%s] ", mark)
	}
	return fmt.Sprintf(" process %d [%s] ", tab, mark)
}

// truncate cuts s to at most width terminal cells on a grapheme cluster
// boundary.
func truncate(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	return b.String()
}
