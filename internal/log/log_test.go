package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	logger := New("info", FormatText)
	if logger == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, "debug", FormatText)
	logger.Debug("mentor ready", "locale", "pt-BR")

	output := buf.String()
	if !strings.Contains(output, "mentor ready") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "locale=pt-BR") {
		t.Errorf("expected output to contain attr, got: %s", output)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, "info", FormatJSON)
	logger.Info("request done", "status", 200)

	output := buf.String()
	if !strings.Contains(output, `"msg":"request done"`) {
		t.Errorf("expected JSON output with msg field, got: %s", output)
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, "warn", FormatText)
	logger.Info("hidden info")
	logger.Warn("visible warn")

	output := buf.String()
	if strings.Contains(output, "hidden info") {
		t.Errorf("info line should be filtered at warn level, got: %s", output)
	}
	if !strings.Contains(output, "visible warn") {
		t.Errorf("warn line missing, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	if logger == nil {
		t.Fatal("NewNop() returned nil")
	}

	// Should not panic at any level.
	logger.Debug("discarded")
	logger.Info("discarded")
	logger.Error("discarded")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := NewWithWriter(&buf, "info", FormatText)
	logger.With("component", "gemini").Info("key rotated")

	output := buf.String()
	if !strings.Contains(output, "component=gemini") {
		t.Errorf("expected output to contain component attr, got: %s", output)
	}
}
