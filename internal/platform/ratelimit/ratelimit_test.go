package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *Limiter, at *time.Time) {
	l.now = func() time.Time { return *at }
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New(2, 2)
	fixedClock(l, &now)

	ok, _ := l.Allow("a")
	require.True(t, ok)
	ok, _ = l.Allow("a")
	require.True(t, ok)
	ok, wait := l.Allow("a")
	require.False(t, ok)
	require.Greater(t, wait, time.Duration(0))

	ok, _ = l.Allow("b")
	require.True(t, ok, "keys have independent buckets")

	now = now.Add(500 * time.Millisecond)
	ok, _ = l.Allow("a")
	require.True(t, ok)
}

func TestLimiter_DisabledWhenRateNotPositive(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 100; i++ {
		ok, _ := l.Allow("a")
		require.True(t, ok)
	}
	require.Zero(t, l.Len())
}

func TestLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New(1, 1)
	fixedClock(l, &now)

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Len())

	now = now.Add(defaultIdleTTL + time.Second)
	l.Allow("c")
	require.Equal(t, 1, l.Len())
}

func TestMiddleware_RespondsWithProblem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(New(1, 1)))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "application/problem+json", second.Header().Get("Content-Type"))
	require.NotEmpty(t, second.Header().Get("Retry-After"))
	require.Contains(t, second.Body.String(), "Too Many Requests")
}
