package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"crudcenter/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// It also puts log into the request context for handlers and the query layer.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, "error", errs)
		}

		// the request context now also names the resolved resource
		log.WithContext(c.Request.Context()).Infow("http request", fields...)
	}
}
