package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-account-service/pkg/logger"
)

// RequestIDHeader is the response header carrying the generated request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a UUID, stores it on the request
// context for log correlation, and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
