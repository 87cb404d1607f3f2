package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging installs the default slog handler and returns a closer for
// the log file, if any.
func setupLogging(path string, debug bool) io.Closer {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out, closer = file, file
		if !debug {
			level = slog.LevelInfo
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return closer
}
