package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
)

// MonitoringMiddleware records request counts, status distribution, and
// response times for every request that passes through the router.
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementRequest()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordResponseTime(duration)
		metrics.RecordRequestByStatus(status)
		if status >= 500 {
			metrics.IncrementError()
		}

		logger.RequestLogger(c.Request.Method, c.Request.URL.Path, c.ClientIP(), status, duration)
	}
}
