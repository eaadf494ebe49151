package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewStructuredLogger(t *testing.T) {
	logger := NewStructuredLogger("hostpulse", "test", "debug")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("debug level logger should enable debug records")
	}

	quiet := NewStructuredLogger("hostpulse", "test", "error")
	if quiet.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("error level logger should not enable info records")
	}
}
