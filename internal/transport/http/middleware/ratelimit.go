package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/infrastructure/redis"
	"github.com/baechuer/company-registry/internal/logger"
)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

type FixedWindowConfig struct {
	RouteKey string // e.g. "auth.login"; becomes part of the counter key
	Limit    int
	Window   time.Duration
}

// RateLimitFixedWindow caps requests per route and caller: the user id once
// authenticated, the client IP before that. Limiter failures let the request through.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RouteKey == "" {
		cfg.RouteKey = "unknown"
	}

	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limitKey(cfg.RouteKey, callerIdentity(r), windowBucket(time.Now(), cfg.Window))

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().
					Err(err).
					Str("route", cfg.RouteKey).
					Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if dec.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			}
			if dec.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			rateLimited.WithLabelValues(cfg.RouteKey).Inc()
			if dec.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(dec.RetryAfter)))
			}
			writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
		})
	}
}

func limitKey(route, identity string, bucket int64) string {
	return "rl:" + route + ":" + identity + ":" + strconv.FormatInt(bucket, 10)
}

// windowBucket numbers fixed windows since the epoch; sub-second windows count as 60s.
func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window / time.Second)
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// retryAfterSeconds rounds up so clients never retry before the window resets.
func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}

func callerIdentity(r *http.Request) string {
	if uid, ok := UserIDFromContext(r.Context()); ok {
		return "u:" + uid
	}
	return "ip:" + clientIP(r)
}

// clientIP reads RemoteAddr, which chi's RealIP has already rewritten for proxied requests.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
