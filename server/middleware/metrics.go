package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/observability"
)

// Metrics records in-flight and completed requests, labelled by the
// ":resource" route parameter when present.
func Metrics(m *observability.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)
		c.Next()
		m.RecordRequestEnd(ctx, c.Param("resource"), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
