package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/bytestream/account-service/internal/platform/logging"
)

// ErrorAborter writes a translated error and aborts the chain.
type ErrorAborter interface {
	AbortWithError(c *gin.Context, err error)
}

// Recovery returns middleware that recovers from panics.
// The panic is logged with its stack and then handed to the error
// translator as a generic failure, so the client gets a 500 carrying the
// panic text in the usual {"error": ...} body.
//
// This middleware should be applied first in the chain.
func Recovery(aborter ErrorAborter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			err := panicError(r)

			logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "panic recovered",
				slog.String("error", err.Error()),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			aborter.AbortWithError(c, err)
		}()

		c.Next()
	}
}

func panicError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}
