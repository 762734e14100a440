// Package log wires the debug logger. When debug mode is off all log
// output is discarded; when on, JSON records go to a size-capped rolling
// file so long interactive sessions can't fill the disk.
package log

import (
	"io"
	"log/slog"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the default slog logger. With debug disabled it
// swallows everything. Returns a closer for the log file (nil-safe).
func Init(debug bool, path string) io.Closer {
	if !debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nopCloser{}
	}

	rolling := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	handler := slog.NewJSONHandler(rolling, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))
	return rolling
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
