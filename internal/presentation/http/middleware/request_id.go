package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/infrastructure/security"
)

// RequestIDKey is the gin context key carrying the per-request ULID.
const RequestIDKey = "requestId"

// RequestIDMiddleware assigns each request a ULID and echoes it in the
// response headers. Incoming X-Request-ID values are trusted as-is so
// upstream proxies can correlate.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = security.GenerateULID()
		}

		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
