package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nurture-backend/internal/observability"
)

// Metrics records request latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observability.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
