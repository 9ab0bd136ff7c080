package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfoliocms/internal/metrics"
)

// Metrics records request latency by route template, not raw path, so ids
// do not explode the label set.
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
