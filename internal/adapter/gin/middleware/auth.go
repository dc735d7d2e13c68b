package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-account-service/pkg/logger"
	"user-account-service/pkg/response"
	"user-account-service/pkg/token"
)

// IdentityKey is the gin context key the verified token subject is
// stored under.
const IdentityKey = "authSubject"

// TokenVerifier verifies a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Subject, error)
}

// Auth guards a route group with bearer-token authentication. The
// Authorization header must carry "Bearer <token>"; on success the
// decoded identity is attached to the request context and the request
// proceeds.
func Auth(tokens TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.New(http.StatusUnauthorized, "Access denied. Token missing."))
			return
		}

		subject, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Warn("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.New(http.StatusUnauthorized, "Invalid or expired token."))
			return
		}

		c.Set(IdentityKey, subject)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, subject.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Identity returns the verified token subject attached by Auth, or nil
// on an unguarded route.
func Identity(c *gin.Context) *token.Subject {
	if v, ok := c.Get(IdentityKey); ok {
		if s, ok := v.(*token.Subject); ok {
			return s
		}
	}
	return nil
}
