package logging

import (
	"context"
)

type contextKey int

const (
	invocationIDKey contextKey = iota
	loggerKey
)

// WithInvocationIDCtx returns a new context carrying the invocation ID.
func WithInvocationIDCtx(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromCtx extracts the invocation ID from the context.
func InvocationIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(invocationIDKey).(string); ok {
		return id
	}
	return ""
}

// WithLoggerCtx returns a new context with the logger attached.
func WithLoggerCtx(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFromCtx returns the logger from context, or nil if not set.
func LoggerFromCtx(ctx context.Context) *Logger {
	l, _ := ctx.Value(loggerKey).(*Logger)
	return l
}

// ContextLogger returns the context's logger, falling back to base and then
// to the global logger, tagged with the context's invocation ID if any.
func ContextLogger(ctx context.Context, base *Logger) *Logger {
	l := LoggerFromCtx(ctx)
	if l == nil {
		l = base
	}
	if l == nil {
		l = Global()
	}
	if id := InvocationIDFromCtx(ctx); id != "" {
		l = l.WithInvocationID(id)
	}
	return l
}
