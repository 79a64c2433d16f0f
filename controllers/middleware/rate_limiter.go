package middleware

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	MaxLoginAttempts = 30
	RateLimitWindow  = 5 * time.Minute
)

// RateLimiter applies a sliding-window limit on login endpoints, keyed by
// client IP. With no redis client it is a no-op, and redis failures fail
// open: login availability beats precise throttling here.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redis: client}
}

func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, err := rl.Allow(r.Context(), clientIP(r))
		if err != nil {
			log.Printf("rate limiter: redis error, failing open: %v", err)
			allowed = true
		}
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"detail":"Too many login attempts"}`)
			return
		}
		next(w, r)
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	if rl == nil || rl.redis == nil {
		return true, nil
	}

	key := "rate_limit:login:" + clientIP
	now := time.Now()
	windowStart := now.Add(-RateLimitWindow)

	if _, err := rl.redis.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.Unix(), 10)).Result(); err != nil {
		return false, err
	}

	count, err := rl.redis.ZCard(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count >= MaxLoginAttempts {
		return false, nil
	}

	if _, err := rl.redis.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.Unix()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	}).Result(); err != nil {
		return false, err
	}
	_, err = rl.redis.Expire(ctx, key, RateLimitWindow*2).Result()
	return true, err
}

// clientIP prefers the first X-Forwarded-For hop, since the service runs
// behind the console's reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
