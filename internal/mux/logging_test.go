package mux

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"garbage", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var lines []string
	l := NewLogger(LogLevelWarn, func(line string) { lines = append(lines, line) })

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept %d", 1)
	l.Error("kept %d", 2)

	if len(lines) != 2 {
		t.Fatalf("emitted %d lines, want 2: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[WARN] kept 1") {
		t.Errorf("line = %q, want WARN kept 1", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] kept 2") {
		t.Errorf("line = %q, want ERROR kept 2", lines[1])
	}
}

func TestLogger_FileMirror(t *testing.T) {
	var file bytes.Buffer
	l := NewLogger(LogLevelInfo, nil)
	l.SetFile(&file)

	l.Info("to the file")

	if !strings.Contains(file.String(), "to the file") {
		t.Errorf("file = %q, want mirrored line", file.String())
	}
	if !strings.HasSuffix(file.String(), "\n") {
		t.Error("file lines must be newline terminated")
	}
}

func TestLogger_NilSink(t *testing.T) {
	l := NewLogger(LogLevelInfo, nil)
	l.Info("must not panic")
}
