package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SugaryLLC/sugary-web/internal/logger"
)

// RequestLogger tags every request with an ID, attaches a
// request-scoped logger to the context, and logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		l := logger.FromContext(c.Request.Context()).With("request_id", requestID)
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), l))
		c.Writer.Header().Set("X-Request-Id", requestID)

		c.Next()

		l.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
