package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"meeple-cafe/backend/pkg/redis"
	"meeple-cafe/backend/pkg/response"
)

// RateLimit 基于 Redis 的按 IP 限流
// rdb 为 nil 或限流检查出错时直接放行（可用性优先）
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.Request.URL.Path, c.ClientIP())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, 429, 42901, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
