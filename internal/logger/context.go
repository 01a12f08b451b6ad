package logger

import "context"

type contextKey string

// TraceIDKey carries the per-invocation trace id so log lines from different
// packages can be correlated to one inbound message.
const TraceIDKey contextKey = "trace_id"

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}
