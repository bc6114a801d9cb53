package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the process-wide logger. Init must run before any package uses it.
var L *slog.Logger

func init() {
	// Sensible default so library tests can log before Init runs.
	L = slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// Init configures the global logger. Call once at startup, after config.
func Init(logLevelStr string) {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("Invalid LOG_LEVEL specified, defaulting to INFO", "configuredLevel", logLevelStr)
	}

	// Logs go to stderr so report output and resolver prompts own stdout.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)
	slog.SetDefault(L)
}
