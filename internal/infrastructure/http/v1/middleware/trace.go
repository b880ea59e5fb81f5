package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "crudcenter/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Gin context keys.
const (
	KeyRequestID = "request_id"
	KeyTraceID   = "trace_id"
	KeyResource  = "resource"
)

// Trace middleware adds request tracing context.
// Incoming ids are kept; missing ones are generated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		c.Set(KeyTraceID, trace.TraceID)
		c.Set(KeyRequestID, trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
