package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func limitedHandler(t *testing.T, rdb *redis.Client, maxRequests int) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(rdb, maxRequests, time.Second, zap.NewNop())(next)
}

func doRequest(handler http.Handler, addr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	handler := limitedHandler(t, rdb, 2)

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1111"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:1111"))

	// A different client ip has its own window.
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2:1111"))
}

func TestRateLimitWindowExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	handler := limitedHandler(t, rdb, 1)

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1111"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:1111"))

	mr.FastForward(2 * time.Second)
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1111"))
}

func TestRateLimitFailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	handler := limitedHandler(t, rdb, 1)
	mr.Close()

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1111"))
}

func TestRateLimitPanicsOnBadArguments(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	require.Panics(t, func() { RateLimit(nil, 1, time.Second, zap.NewNop()) })
	require.Panics(t, func() { RateLimit(rdb, 0, time.Second, zap.NewNop()) })
}
