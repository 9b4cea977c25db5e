package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id on responses (and may be
// supplied by a trusted upstream on requests).
const RequestIDHeader = "x-request-id"

const (
	requestIDKey = "requestID"
	loggerKey    = "requestLogger"
)

// RequestID assigns each request a correlation id and binds a logger
// carrying it into the request context. The logger lives and dies with the
// request; nothing is registered globally.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set(requestIDKey, id)
		c.Set(loggerKey, slog.Default().With("request_id", id))
		c.Next()
	}
}

// GetRequestID returns the correlation id, "" outside the API group.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger returns the request-scoped logger, falling back to the process
// default for routes outside the API group.
func Logger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
