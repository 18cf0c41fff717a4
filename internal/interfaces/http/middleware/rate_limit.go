// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/cafe-backend/internal/config"
	"golang.org/x/time/rate"
)

// RateLimit limits each client IP to RateLimitPerMinute requests per minute
// using a Redis counter shared by every instance. When Redis is unavailable
// the limit is enforced per instance with an in-memory token bucket.
func RateLimit(cfg *config.Config, redisClient *redis.Client, log *logrus.Logger) gin.HandlerFunc {
	limit := cfg.Security.RateLimitPerMinute
	fallback := newLocalLimiter(rate.Limit(float64(limit)/60), cfg.Security.RateLimitBurst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		current, err := incrWindow(c.Request.Context(), redisClient, clientIP)
		if err != nil {
			log.WithError(err).Debug("Rate limit store unavailable, using local limiter")
			if !fallback.allow(clientIP) {
				tooManyRequests(c, 60)
				return
			}
			c.Next()
			return
		}

		remaining := limit - int(current)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(current) > limit {
			tooManyRequests(c, 60)
			return
		}

		c.Next()
	}
}

// incrWindow counts the request in the client's current one-minute window
func incrWindow(ctx context.Context, client *redis.Client, clientIP string) (int64, error) {
	if client == nil {
		return 0, fmt.Errorf("no redis client")
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	window := time.Now().UTC().Unix() / 60
	key := fmt.Sprintf("rate_limit:%s:%d", clientIP, window)

	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func tooManyRequests(c *gin.Context, retryAfter int) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "Rate limit exceeded",
		"retry_after": retryAfter,
	})
}

// localLimiter keeps one token bucket per client IP
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLocalLimiter(limit rate.Limit, burst int) *localLimiter {
	if burst < 1 {
		burst = 1
	}
	return &localLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
