package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestID assigns every request a correlation id: the caller's
// X-Request-ID header if present and at most 64 bytes long, else a fresh
// UUID.
// The id is echoed back on the response and stashed in the Gin context
// for handlers and the access-log middleware to read.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if l := len(requestID); l < 1 || l > 64 {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(RequestIDKey, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request id stashed by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
