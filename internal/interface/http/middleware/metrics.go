package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/pkg/metrics"
)

// Metrics 记录HTTP请求数、耗时、并发数
// path使用路由模板(/books/:id)，避免标签基数膨胀
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()
	return func(c *gin.Context) {
		metrics.HTTPRequestsInProgress.Inc()
		start := time.Now()

		c.Next()

		metrics.HTTPRequestsInProgress.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
