package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"cashbook/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping the
// route label's cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns a Gin middleware that reports every request to collector,
// labelled with the matched route template rather than the raw path.
func Metrics(collector metrics.Collector) gin.HandlerFunc {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		collector.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
