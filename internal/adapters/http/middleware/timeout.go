package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// SimpleTimeout sets a deadline on the request context. Store calls
// observe it through their context; nothing is aborted here.
func SimpleTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
