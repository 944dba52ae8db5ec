package middleware

import (
	"fmt"
	"net/http"
	"time"

	"nontonin-api/internal/infra/cache"
	"nontonin-api/internal/infra/logging"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit allows limit requests per window per caller and route. The
// caller is the authenticated user when known, the client IP otherwise.
// A nil client disables the limit, a Redis error lets the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		caller := c.GetString("user_id")
		if caller == "" {
			caller = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), caller)

		count, err := cache.Hit(c.Request.Context(), rdb, key, window)
		if err != nil {
			logging.LogError(err, "rate limit check failed")
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
