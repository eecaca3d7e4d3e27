package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fatflowers/fieldbook/pkg/logctx"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

// TraceMiddleware tags every request with a trace id, taken from X-Request-ID
// when the client sends a usable one. The id is echoed back on the response.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(requestIDHeader)
		if traceID == "" || len(traceID) > maxRequestIDLength {
			traceID = uuid.NewString()
		}

		c.Set(logctx.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logctx.TraceIDKey, traceID))
		c.Header(requestIDHeader, traceID)

		c.Next()
	}
}
