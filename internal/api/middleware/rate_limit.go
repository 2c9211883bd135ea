package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/ratelimit"
	"github.com/yoockh/careerpilot/internal/utils"
)

// RateLimit counts requests per client IP under action. Rejected requests get
// 429 with the window's reset time in epoch milliseconds.
func RateLimit(l *ratelimit.Limiter, action string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := l.Check(c.Request.Context(), action, c.ClientIP(), maxRequests, window)
		if res.Success {
			c.Next()
			return
		}

		wait := time.Until(res.ResetTime).Seconds()
		c.Header("Retry-After", strconv.Itoa(int(math.Max(1, math.Ceil(wait)))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":   false,
			"error":     "too many requests, try again later",
			"code":      utils.CodeRateLimited,
			"resetTime": res.ResetTime.UnixMilli(),
		})
	}
}
