package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, []any{"error", err}, normalize([]any{err}))
	assert.Equal(t, []any{"detail", "raw"}, normalize([]any{"raw"}))
	assert.Equal(t, []any{"k", 1}, normalize([]any{"k", 1}))

	attr := slog.String("k", "v")
	assert.Equal(t, []any{attr}, normalize([]any{attr}))
	assert.Empty(t, normalize(nil))
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "abc123")

	assert.Equal(t, "abc123", TraceIDFromContext(ctx))
	assert.Equal(t, []any{"trace_id", "abc123"}, WithTrace(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.Nil(t, WithTrace(context.Background()))
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer

	InitWriter("production", &buf)
	t.Cleanup(func() { Init("development") })

	Debug("hidden")
	Info("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":1`)
}
