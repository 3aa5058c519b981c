package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/focusflow/internal/osutil"
	"github.com/ayoisaiah/focusflow/internal/pathutil"
)

const (
	logMaxSizeMB  = 5
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// newLogger returns a JSON logger writing to the rotating log file. The
// terminal is owned by the timer view, so nothing is logged to stderr.
func newLogger(level slog.Leveler) (*slog.Logger, io.Closer) {
	path := pathutil.LogFilePath()

	if err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission); err != nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), io.NopCloser(nil)
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	return slog.New(h), w
}
