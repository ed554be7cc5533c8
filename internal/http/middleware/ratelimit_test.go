package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/records", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, mw)

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	rec := serve(t, RateLimitMiddleware(RateLimitConfig{RPS: 1}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_DisabledWithZeroRPS(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	rec := serve(t, RateLimitMiddleware(RateLimitConfig{Redis: rdb}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_RedisErrorFailsOpen(t *testing.T) {
	// nothing listens on port 1, so the pipeline errors
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()

	rec := serve(t, RateLimitMiddleware(RateLimitConfig{Redis: rdb, RPS: 1}))
	assert.Equal(t, http.StatusOK, rec.Code)
}
