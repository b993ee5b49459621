// Package requestcontext provides HTTP-independent accessors for
// request-scoped values.
//
// Middleware sets the values; services read them without importing net/http.
//
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests and workers inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	operatorKey    struct{}
)

// Exported keys for tests that need context.WithValue directly.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyOperator    = operatorKey{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Operator returns the free-form operator label attached by the caller
// (X-Operator header). It is recorded in the audit trail only; there is no
// authentication behind it.
func Operator(ctx context.Context) string {
	if op, ok := ctx.Value(ContextKeyOperator).(string); ok && op != "" {
		return op
	}
	return "anonymous"
}

// WithOperator injects the operator label.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, ContextKeyOperator, operator)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for workers, CLI commands and tests that did not set one.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
