package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-account-service/pkg/token"
)

func setupGuardedRouter(t *testing.T, tokens TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded", Auth(tokens, zaptest.NewLogger(t)), func(c *gin.Context) {
		subject := Identity(c)
		require.NotNil(t, subject)
		c.JSON(http.StatusOK, gin.H{"id": subject.ID, "name": subject.Name})
	})
	return router
}

func authMessage(t *testing.T, body []byte) string {
	t.Helper()
	var env struct {
		ReturnValue struct {
			Message string `json:"message"`
		} `json:"returnValue"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	return env.ReturnValue.Message
}

func TestAuth_MissingHeader(t *testing.T) {
	router := setupGuardedRouter(t, token.NewService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. Token missing.", authMessage(t, w.Body.Bytes()))
}

func TestAuth_NonBearerHeader(t *testing.T) {
	router := setupGuardedRouter(t, token.NewService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. Token missing.", authMessage(t, w.Body.Bytes()))
}

func TestAuth_GarbledToken(t *testing.T) {
	router := setupGuardedRouter(t, token.NewService("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token.", authMessage(t, w.Body.Bytes()))
}

func TestAuth_WrongSecret(t *testing.T) {
	issuer := token.NewService("other-secret", time.Hour)
	router := setupGuardedRouter(t, token.NewService("test-secret", time.Hour))

	tok, err := issuer.Issue("64f1c2b8a1b2c3d4e5f60718", "John Doe")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token.", authMessage(t, w.Body.Bytes()))
}

func TestAuth_ValidToken(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)
	router := setupGuardedRouter(t, svc)

	tok, err := svc.Issue("64f1c2b8a1b2c3d4e5f60718", "John Doe")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "64f1c2b8a1b2c3d4e5f60718", body["id"])
	assert.Equal(t, "John Doe", body["name"])
}
