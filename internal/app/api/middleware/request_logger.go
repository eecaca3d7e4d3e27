package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/fieldbook/pkg/logctx"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with
// trace_id to gin.Context and request context. AuthMiddleware adds user_id later.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString(logctx.TraceIDKey)

		setRequestLogger(c, base.With("trace_id", traceID))
		c.Next()
	}
}

func setRequestLogger(c *gin.Context, lg *zap.SugaredLogger) {
	c.Set(logctx.LoggerKey, lg)
	c.Request = c.Request.WithContext(logctx.WithLogger(c.Request.Context(), lg))
}
