package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

// TraceIDKey carries the per-request trace id set by middleware.RequestTrace.
const TraceIDKey ctxKey = "trace_id"

var log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init configures the process-wide logger. Production gets JSON at info level,
// every other environment gets human-readable text at debug level.
func Init(environment string) {
	InitWriter(environment, os.Stdout)
}

// InitWriter is Init with an explicit destination; the CLI logs to stderr.
func InitWriter(environment string, w io.Writer) {
	var handler slog.Handler

	switch strings.ToLower(environment) {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
	os.Exit(1)
}

// WithTrace returns the trace id attribute for ctx, or nothing when absent.
func WithTrace(ctx context.Context) []any {
	if tid := TraceIDFromContext(ctx); tid != "" {
		return []any{"trace_id", tid}
	}
	return nil
}

func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// normalize lets callers pass a bare error (logger.Error("msg", err)) without
// breaking slog's key/value pairing.
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
		if _, ok := args[0].(slog.Attr); !ok {
			return []any{"detail", args[0]}
		}
	}
	return args
}
