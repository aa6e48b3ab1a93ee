// Package log builds the application's slog loggers.
//
// Mentora injects loggers instead of using a global: every component takes
// a *slog.Logger in its constructor and narrows it with With(). The
// factories here translate the string level/format pair carried by the
// configuration into a configured logger.
//
// Usage:
//
//	logger := log.New("debug", "text")
//	svc := chat.NewService(deps, logger.With("component", "chat"))
//
//	// in tests
//	logger := log.NewNop()
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger aliases *slog.Logger so dependents keep the full slog surface
// (With, WithGroup, level methods) without an interface of our own.
type Logger = *slog.Logger

// Format names accepted by New. Anything else falls back to FormatText.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to stderr.
// Unknown levels fall back to info, unknown formats to text.
func New(level, format string) Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a logger writing to w. Tests use this with a
// bytes.Buffer to inspect output.
func NewWithWriter(w io.Writer, level, format string) Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewNop creates a logger that discards everything. Test use only;
// production callers always want New or NewWithWriter.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config string to a slog.Level. Case-insensitive;
// unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
