package logging

import (
	"context"
	"io"
	"log/slog"
)

type attrsKey struct{}

// ContextWithAttrs returns a copy of ctx carrying key/value pairs that
// SlogLogger appends to every record logged with that context. Pairs added
// to a derived context follow the ones already present.
func ContextWithAttrs(ctx context.Context, args ...any) context.Context {
	prev := attrsFromContext(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(append(merged, prev...), args...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(attrsKey{}).([]any)
	return a
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// NewJSONLogger builds a SlogLogger writing JSON lines to w at the given level.
func NewJSONLogger(w io.Writer, level slog.Level) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

func (s *SlogLogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if ctxArgs := attrsFromContext(ctx); len(ctxArgs) > 0 {
		args = append(append(make([]any, 0, len(ctxArgs)+len(args)), ctxArgs...), args...)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.l.Log(ctx, level, msg, args...)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
