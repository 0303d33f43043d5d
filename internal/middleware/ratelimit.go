package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pairpad/internal/models"
	"pairpad/internal/utils"
)

// RateLimit returns a fixed-window per-IP limiter backed by Redis. INCR and
// EXPIRE run in one pipeline to keep the counter and its window together.
// When Redis is unreachable the request is let through; the glue endpoints
// should not go dark because the limiter store did.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if rdb == nil {
		panic("redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + clientIP(r)

			pipe := rdb.Pipeline()
			incr := pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, window)
			if _, err := pipe.Exec(r.Context()); err != nil {
				logger.Warn("rate limiter redis error", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if incr.Val() > int64(maxRequests) {
				utils.JSON(w, http.StatusTooManyRequests, models.ErrorResponse{
					Code:    "rate_limited",
					Message: "Too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from X-Forwarded-For.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
