package client

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a type for context keys.
type contextKey string

// traceKey is the context key for trace ID.
const traceKey contextKey = "d1_trace"

// WithTraceID stores a trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey, traceID)
}

// TraceIDFromContext retrieves a trace ID from the context.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceKey).(string)
	return id, ok && id != ""
}

// ensureTraceID returns ctx carrying a trace ID, minting one if needed.
func ensureTraceID(ctx context.Context) (context.Context, string) {
	if id, ok := TraceIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithTraceID(ctx, id), id
}
