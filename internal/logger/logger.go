// Package logger configures slog for the serve path. CLI commands print
// directly; only the HTTP server logs structurally.
package logger

import (
	"log/slog"
	"os"

	"github.com/misterclayt0n/periodize/internal/config"
)

// Setup builds the server logger from config and installs it as the default.
func Setup(cfg *config.ServerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
