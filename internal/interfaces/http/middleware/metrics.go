package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics receives per-request measurements.
type HTTPMetrics interface {
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration, respSize int)
	IncActiveRequests(method string)
	DecActiveRequests(method string)
}

// Metrics records request count, latency and response size. Paths are
// labelled by route template so that label cardinality stays bounded;
// unmatched requests share the "unmatched" label.
func Metrics(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		m.IncActiveRequests(method)
		start := time.Now()

		c.Next()

		m.DecActiveRequests(method)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(method, path, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
