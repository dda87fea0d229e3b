package main

import (
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger on w. Durations are written as
// milliseconds; at debug level records carry their source location.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindDuration {
				return slog.Float64(a.Key+"_ms", float64(a.Value.Duration().Microseconds())/1000)
			}
			return a
		},
	})
	return slog.New(h).With("app", "pong-tracker")
}
