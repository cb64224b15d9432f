// Package endpoint provides the health and info handlers mounted by the server.
package endpoint

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/observability"
	"github.com/kbukum/dataproxy/version"
)

// Health reports aggregated component health. Any component that is down
// turns the response into a 503.
func Health(serviceName string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.CheckAll(c.Request.Context(), serviceName, version.Version, checkers...)
		c.JSON(sh.HTTPStatus(), gin.H{
			"status":     sh.Status,
			"service":    sh.Service,
			"version":    sh.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}
