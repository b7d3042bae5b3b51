package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates a logger writing text to stderr. When logFile is set,
// records are also written to it as JSON. The returned cleanup function
// closes the file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	if logFile == "" {
		return slog.New(newHandler(os.Stderr, nil, level)), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// Fall back to stderr-only if the file cannot be opened.
		logger := slog.New(newHandler(os.Stderr, nil, level))
		logger.Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return logger, func() error { return nil }
	}

	return slog.New(newHandler(os.Stderr, file, level)), file.Close
}

// newHandler writes text records to console and, when file is non-nil, JSON
// records to file.
func newHandler(console, file io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(console, opts)
	if file == nil {
		return text
	}
	return slogmulti.Fanout(text, slog.NewJSONHandler(file, opts))
}
