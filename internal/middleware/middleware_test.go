package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/middleware"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		clientID, _ := middleware.GetClientIDFromContext(c)
		middleware.GetLoggerFromContext(c).Info("ping")
		c.String(http.StatusOK, clientID)
	})
	return r
}

func get(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signed(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret-key-that-is-long-enough"
	r := newRouter(middleware.AuthMiddleware(secret))

	w := get(r, http.Header{"Authorization": {"Bearer " + signed(t, secret, "chat-frontend", time.Hour)}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chat-frontend", w.Body.String())

	w = get(r, http.Header{"Authorization": {"Bearer " + signed(t, secret, "chat-frontend", -time.Hour)}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")

	w = get(r, http.Header{"Authorization": {"Bearer " + signed(t, "other-secret", "x", time.Hour)}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, http.Header{"Authorization": {"Token abc"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := newRouter(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))

	w := get(r, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, http.Header{"X-Request-Id": {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimit_Memory(t *testing.T) {
	l, err := middleware.NewRateLimiter("2-M", nil)
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(l))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := middleware.NewRateLimiter("1-M", client)
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(l))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, nil).Code)
}

func TestNewRateLimiter_InvalidFormat(t *testing.T) {
	_, err := middleware.NewRateLimiter("lots", nil)
	assert.Error(t, err)
}
