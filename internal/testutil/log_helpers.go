package testutil

import (
	"log/slog"
	"os"
)

// Logger returns a logger for tests that only reports errors, keeping test
// output readable.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
