// Package logger provides the process-wide structured logger.
//
// Call Init once at startup, after configuration is loaded. Handlers
// and stores use the package-level L; slog's default logger is also
// replaced so stray log calls end up in the same JSON stream.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the global logger instance.
var L *slog.Logger = slog.Default()

// Init configures the global JSON logger at the given level.
// Unknown levels fall back to info.
func Init(levelStr string) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("Invalid log level, defaulting to info", "configured", levelStr)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)
	slog.SetDefault(L)
	L.Info("Logger initialized", "level", level.String())
}
