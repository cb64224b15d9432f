// Package middleware holds the Gin middleware installed by server.ApplyMiddleware.
package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// Middleware decorates a standard handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that mws[0] sees the request first.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for _, mw := range slices.Backward(mws) {
			h = mw(h)
		}
		return h
	}
}

// GinWrap runs a standard Middleware inside a Gin chain. A request replaced
// by mw (for example with a wrapped body) continues down the Gin chain.
func GinWrap(mw Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
	}
}
