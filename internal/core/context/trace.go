// Package context carries per-request metadata (trace ids, resolved resource)
// through context.Context.
package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext contains request tracing information.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

// ResourceContext identifies the list resource a request is served from.
type ResourceContext struct {
	Name       string
	Connection string
}

type (
	traceContextKey    struct{}
	resourceContextKey struct{}
)

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetTraceID returns trace ID from context or generates new one.
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return uuid.New().String()
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext builds a TraceContext, generating any id that is empty.
func NewTraceContext(requestID, traceID string) *TraceContext {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	if traceID == "" {
		traceID = requestID
	}
	return &TraceContext{
		TraceID:   traceID,
		SpanID:    uuid.New().String()[:16],
		RequestID: requestID,
	}
}

// WithResource records the resource being listed.
func WithResource(ctx context.Context, name, connection string) context.Context {
	return context.WithValue(ctx, resourceContextKey{}, &ResourceContext{Name: name, Connection: connection})
}

// GetResource returns the ResourceContext or nil.
func GetResource(ctx context.Context) *ResourceContext {
	if v, ok := ctx.Value(resourceContextKey{}).(*ResourceContext); ok {
		return v
	}
	return nil
}
