package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/logger"
)

var quietPaths = map[string]bool{"/health": true, "/info": true}

// RequestLogger logs every request with method, path, status and duration.
// Health and info paths are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := logger.ExchangeFields(c.Request.Method, path, status, latency)
		fields["client"] = c.ClientIP()
		if resource := c.Param("resource"); resource != "" {
			fields[logger.FieldResource] = resource
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}
		logByStatus(log.WithContext(c.Request.Context()), fields, status)
	}
}

// logByStatus logs at error for 5xx, warn for 4xx and debug otherwise.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
