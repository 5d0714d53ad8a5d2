package input

import "testing"

func TestDecode_ControlBytes(t *testing.T) {
	tests := []struct {
		name  string
		chunk []byte
		want  Kind
	}{
		{"interrupt", []byte{0x03}, Interrupt},
		{"restart key", []byte{'k'}, RestartKey},
		{"navigate left", []byte{0x1b, '[', 'D'}, NavigateLeft},
		{"navigate right", []byte{0x1b, '[', 'C'}, NavigateRight},
		{"uppercase K is not restart", []byte{'K'}, Unrecognized},
		{"plain letter", []byte{'a'}, Unrecognized},
		{"interrupt with trailing byte", []byte{0x03, 'x'}, Unrecognized},
		{"bare escape", []byte{0x1b}, Unrecognized},
		{"partial arrow sequence", []byte{0x1b, '['}, Unrecognized},
		{"up arrow is ignored", []byte{0x1b, '[', 'A'}, Unrecognized},
		{"empty chunk", nil, Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.chunk)
			if got.Kind != tt.want {
				t.Errorf("Decode(%q) = %v, want %v", tt.chunk, got.Kind, tt.want)
			}
		})
	}
}

func TestDecode_MouseReports(t *testing.T) {
	report := func(button byte) []byte {
		// ESC [ M <button> <x> <y> with arbitrary coordinates.
		return []byte{0x1b, '[', 'M', button, 0x21, 0x21}
	}

	tests := []struct {
		name   string
		button byte
		want   Kind
	}{
		{"wheel up", 0x60, ScrollUp},
		{"wheel down", 0x61, ScrollDown},
		{"wheel up with modifiers", 0x70, ScrollUp},
		{"wheel down with modifiers", 0x71, ScrollDown},
		{"left button press", 0x20, Unrecognized},
		{"right button press", 0x22, Unrecognized},
		{"release", 0x23, Unrecognized},
		{"only high wheel bit", 0x40, Unrecognized},
		{"only low wheel bit", 0x20, Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(report(tt.button))
			if got.Kind != tt.want {
				t.Errorf("Decode(button=%#x) = %v, want %v", tt.button, got.Kind, tt.want)
			}
		})
	}
}

func TestDecode_TruncatedMouseReport(t *testing.T) {
	// Prefix without a button byte must not panic and must be dropped.
	got := Decode([]byte{0x1b, '[', 'M'})
	if got.Kind != Unrecognized {
		t.Errorf("Decode(truncated report) = %v, want %v", got.Kind, Unrecognized)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Interrupt, "interrupt"},
		{NavigateLeft, "navigate-left"},
		{NavigateRight, "navigate-right"},
		{ScrollUp, "scroll-up"},
		{ScrollDown, "scroll-down"},
		{RestartKey, "restart-key"},
		{Unrecognized, "unrecognized"},
		{Kind(200), "unrecognized"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
