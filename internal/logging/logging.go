package logging

import (
	"log/slog"
	"os"
)

// Init installs the process-wide slog handler. Non-verbose runs only
// surface warnings so scheduled executions stay quiet.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
