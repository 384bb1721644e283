package middleware

import (
	"strconv"
	"time"

	"pawsay/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求耗时与状态码
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.ObserveHTTP(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
