package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	echo "github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/insights/internal/metrics"
)

func newLimited(t *testing.T, rps int, now *time.Time) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.GET("/records", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		RateLimitMiddleware(RateLimitConfig{
			Redis:          rdb,
			RPS:            rps,
			KeyPrefix:      "rl:ip:",
			Window:         time.Second,
			RetryAfterHint: true,
			Now:            func() time.Time { return *now },
		}))
	return e, mr
}

func hit(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_RejectsOverRPSWithinWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 250*int64(time.Millisecond))
	e, mr := newLimited(t, 2, &now)
	before := testutil.ToFloat64(metrics.RateLimitedTotal)

	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.1").Code)

	rec := hit(e, "192.0.2.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limited"}`, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitedTotal))

	// counters are per client ip
	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.2").Code)

	key := "rl:ip:192.0.2.1:1700000000"
	assert.True(t, mr.Exists(key))
	v, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	assert.Equal(t, 2*time.Second, mr.TTL(key))
}

func TestRateLimit_NextWindowResets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e, _ := newLimited(t, 1, &now)

	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "192.0.2.1").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.1").Code)
}
