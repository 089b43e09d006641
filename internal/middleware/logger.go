package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloworks/user-service/internal/observability"
)

func Logger(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("http_request", map[string]any{
			"request_id":  c.GetString("request_id"),
			"method":      method,
			"path":        path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		})
	}
}
