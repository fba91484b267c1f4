// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bytestream/account-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single HTTP exchange.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a business transaction across services.
	// An upstream value is propagated; otherwise this request is the origin.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// maxInboundIDLength bounds caller-supplied IDs before they reach logs.
const maxInboundIDLength = 128

type idSource struct {
	header string
	key    string
	enrich func(ctx context.Context, id string) context.Context
}

var (
	requestIDSource = idSource{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		enrich: logging.WithRequestID,
	}

	correlationIDSource = idSource{
		header: HeaderCorrelationID,
		key:    ContextKeyCorrelationID,
		enrich: logging.WithCorrelationID,
	}
)

// RequestID returns middleware that reads X-Request-ID or generates a UUID,
// echoes it on the response and attaches it to the context logger.
func RequestID() gin.HandlerFunc {
	return requestIDSource.middleware()
}

// CorrelationID returns the same middleware for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return correlationIDSource.middleware()
}

// GetRequestID returns the request ID, or "" outside the middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func (s idSource) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(s.header)
		if id == "" || len(id) > maxInboundIDLength {
			id = uuid.New().String()
		}

		c.Set(s.key, id)
		c.Header(s.header, id)
		c.Request = c.Request.WithContext(s.enrich(c.Request.Context(), id))

		c.Next()
	}
}
