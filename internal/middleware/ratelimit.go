package middleware

import (
	"fmt"
	"strconv"
	"time"

	"linkhub/internal/pkg"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware enforces a fixed-window per-IP request limit
// backed by Redis, so the limit holds across replicas.
type RateLimitMiddleware struct {
	redis    RedisClient
	requests int
	window   time.Duration
	logger   *pkg.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(redis RedisClient, requests int, window time.Duration, logger *pkg.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redis:    redis,
		requests: requests,
		window:   window,
		logger:   logger,
	}
}

// Limit rejects requests over the per-IP budget with 429. When the
// limiter store is unreachable the request is allowed through; rate
// limiting degrades before availability does.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.redis == nil || m.requests <= 0 {
			c.Next()
			return
		}

		window := time.Now().Unix() / int64(m.window.Seconds())
		key := fmt.Sprintf("rate_limit:%s:%d", c.ClientIP(), window)

		count, err := m.redis.Incr(c.Request.Context(), key, m.window)
		if err != nil {
			m.logger.WithFields(map[string]interface{}{
				"ip": c.ClientIP(),
			}).ErrorWithCause("rate limit store unavailable", err)
			c.Next()
			return
		}

		remaining := int64(m.requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(m.requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(m.requests) {
			pkg.RateLimitResponse(c, "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
