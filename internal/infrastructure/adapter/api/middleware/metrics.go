package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/metrics"
)

// Metrics middleware records request counts and latencies per route.
// The route template (not the raw path) is used as the label so user ids
// don't explode the cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
		).Observe(time.Since(start).Seconds())
	}
}
