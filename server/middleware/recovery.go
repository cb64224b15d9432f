package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/logger"
)

// Recovery recovers from handler panics, logs the stack and answers 500
// with a plain-text body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				fields := logger.Fields(
					logger.FieldMethod, c.Request.Method,
					logger.FieldURI, c.Request.URL.Path,
					logger.FieldResource, c.Param("resource"),
					"stack", string(debug.Stack()),
				)
				log.WithContext(c.Request.Context()).Error("handler panicked",
					logger.MergeWithError(fields, fmt.Errorf("%v", err)))
				c.Abort()
				c.String(http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
