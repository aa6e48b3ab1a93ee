package testutil

import (
	"log/slog"
)

// DiscardLogger returns a slog.Logger that drops everything. Handy for
// constructing stores and services in tests without log noise.
//
// log.Logger is an alias for *slog.Logger, so where a test works with the
// internal/log package directly, log.NewNop() is the same thing.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
