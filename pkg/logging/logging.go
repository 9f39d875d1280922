// Package logging configures structured slog output for the process.
//
// Findings routed through a logger built here are split by severity range:
// info and warning records go to stdout, error and above go to stderr. This
// keeps machine-readable reports separable from hard failures in CI logs.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum level emitted. Overridden by LOG_LEVEL if set.
	Level slog.Level

	// JSON selects JSON output instead of text.
	JSON bool

	// Stdout and Stderr default to os.Stdout / os.Stderr when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// rangeHandler forwards records whose level falls within [min, max] and
// discards the rest. The bounds are inclusive on both ends.
type rangeHandler struct {
	handler  slog.Handler
	min, max slog.Level
}

func (h rangeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min && level <= h.max && h.handler.Enabled(ctx, level)
}

func (h rangeHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.handler.Handle(ctx, record)
}

func (h rangeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return rangeHandler{handler: h.handler.WithAttrs(attrs), min: h.min, max: h.max}
}

func (h rangeHandler) WithGroup(name string) slog.Handler {
	return rangeHandler{handler: h.handler.WithGroup(name), min: h.min, max: h.max}
}

// splitHandler fans a record out to every handler that accepts its level.
type splitHandler struct {
	handlers []slog.Handler
}

func (h splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h splitHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, record.Level) {
			if err := hh.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (h splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithAttrs(attrs)
	}
	return splitHandler{handlers: out}
}

func (h splitHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithGroup(name)
	}
	return splitHandler{handlers: out}
}

// New builds a logger with severity-range routing: records up to warning go
// to Stdout, records at error and above go to Stderr.
func New(opts Options) *slog.Logger {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	level := opts.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = ParseLevel(env)
	}

	build := func(w io.Writer) slog.Handler {
		hopts := &slog.HandlerOptions{Level: level}
		if opts.JSON {
			return slog.NewJSONHandler(w, hopts)
		}
		return slog.NewTextHandler(w, hopts)
	}

	return slog.New(splitHandler{handlers: []slog.Handler{
		rangeHandler{handler: build(stdout), min: slog.LevelDebug, max: slog.LevelWarn},
		rangeHandler{handler: build(stderr), min: slog.LevelError, max: slog.Level(127)},
	}})
}

// SetDefaultStructuredLogger installs a split logger annotated with the
// application name and version as the process default.
func SetDefaultStructuredLogger(name, version string, opts Options) {
	logger := New(opts).With("app", name, "version", version)
	slog.SetDefault(logger)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
