// Package iologger sets up the slog default logger for p1db.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/p1data/p1db/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "p1db.log"

// Init sets the default slog logger according to cfg. With the "file"
// destination the log goes to logDir/p1db.log, which is truncated unless
// append is true.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	var writer io.Writer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if append {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}

		file, err := os.OpenFile(logPath, flags, 0644)
		if err != nil {
			return CreateLogFileError(logPath, err)
		}
		writer = file
	default:
		writer = os.Stderr
	}

	slog.SetDefault(slog.New(newHandler(writer, cfg)))
	return nil
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	switch cfg.Format {
	case "text", "tint":
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// parseLevel converts string level to slog.Level.
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
