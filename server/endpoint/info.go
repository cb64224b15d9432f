package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/version"
)

var started = time.Now()

// InfoResponse is the /info body.
type InfoResponse struct {
	Service string `json:"service"`
	*version.Info
	UserAgent     string `json:"user_agent"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Info reports the service name, build metadata and uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service:       serviceName,
			Info:          version.GetVersionInfo(),
			UserAgent:     version.UserAgent(),
			UptimeSeconds: int64(time.Since(started).Seconds()),
		})
	}
}
