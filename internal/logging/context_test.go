package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestInvocationIDCtx(t *testing.T) {
	ctx := WithInvocationIDCtx(context.Background(), "req-123")
	if got := InvocationIDFromCtx(ctx); got != "req-123" {
		t.Errorf("InvocationIDFromCtx() = %q, want req-123", got)
	}
	if got := InvocationIDFromCtx(context.Background()); got != "" {
		t.Errorf("InvocationIDFromCtx() = %q, want empty", got)
	}
}

func TestLoggerCtx(t *testing.T) {
	l := DefaultLogger()
	ctx := WithLoggerCtx(context.Background(), l)
	if LoggerFromCtx(ctx) != l {
		t.Error("LoggerFromCtx should return the same logger")
	}
	if LoggerFromCtx(context.Background()) != nil {
		t.Error("LoggerFromCtx should return nil when no logger in context")
	}
}

func TestContextLoggerPrefersContext(t *testing.T) {
	var ctxBuf, baseBuf bytes.Buffer
	ctxLogger := New(Config{Level: LevelInfo, Output: &ctxBuf})
	base := New(Config{Level: LevelInfo, Output: &baseBuf})

	ctx := WithLoggerCtx(context.Background(), ctxLogger)
	ctx = WithInvocationIDCtx(ctx, "req-9")
	ContextLogger(ctx, base).Info("hello")

	if baseBuf.Len() != 0 {
		t.Error("base logger should not be used when context has a logger")
	}
	var entry Entry
	if err := json.Unmarshal(ctxBuf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if entry.InvocationID != "req-9" {
		t.Errorf("invocationId = %q, want req-9", entry.InvocationID)
	}
}

func TestContextLoggerFallsBackToBase(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: LevelInfo, Output: &buf})

	ContextLogger(context.Background(), base).Info("hello")
	if buf.Len() == 0 {
		t.Error("base logger should be used when context has none")
	}
}

func TestContextLoggerFallsBackToGlobal(t *testing.T) {
	if ContextLogger(context.Background(), nil) != Global() {
		t.Error("global logger should be used when neither context nor base has one")
	}
}
