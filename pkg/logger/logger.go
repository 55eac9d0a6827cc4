// Package logger configures slog for the analyzer. Records go to the writer
// given to Setup, never to stdout, which carries the report.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type runIDKey struct{}

// Setup installs the default logger. format is "json" or "text"; an unknown
// level falls back to info. Debug output carries the source location.
func Setup(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// WithRunID tags ctx so that FromContext adds a run_id attribute.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func FromContext(ctx context.Context) *slog.Logger {
	if runID, ok := ctx.Value(runIDKey{}).(string); ok && runID != "" {
		return slog.Default().With("run_id", runID)
	}
	return slog.Default()
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
