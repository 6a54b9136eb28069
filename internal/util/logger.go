// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide logger. It discards output until InitLogger runs.
var Logger = slog.New(slog.DiscardHandler)

// InitLogger initializes the global logger with appropriate log level
// Set SECFIELD_DEBUG=1 environment variable to enable debug logging
func InitLogger() {
	InitLoggerTo(os.Stderr)
}

// InitLoggerTo is InitLogger writing to w. Interactive hosts pass a file so
// log lines do not corrupt the terminal UI.
func InitLoggerTo(w io.Writer) {
	level := slog.LevelInfo

	if os.Getenv("SECFIELD_DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time attribute for cleaner CLI output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	Logger = slog.New(handler)
}

// Debug logs a debug message (only shown when SECFIELD_DEBUG is set)
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
