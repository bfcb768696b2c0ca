package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/orgdesk/pkg/errors"
	"github.com/charlesng35/orgdesk/pkg/logger"
	"github.com/charlesng35/orgdesk/pkg/response"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimit limits requests per caller and route within a fixed window. Callers are
// identified by user id once authenticated, otherwise by client IP. Store failures
// let the request through.
func RateLimit(store RateStore, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		caller := c.GetString(CtxUserIDKey)
		if caller == "" {
			caller = "ip:" + c.ClientIP()
		} else {
			caller = "user:" + caller
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := rateLimitKeyPrefix + caller + "|" + c.Request.Method + " " + route

		count, ttl, err := store.Increment(c.Request.Context(), key, window)
		if err != nil {
			logger.WithModule("http").Warn("rate limit store unavailable",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if ttl < 0 {
			ttl = 0
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))

		if count > limit {
			c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			response.Abort(c, errors.ErrRateLimit)
			return
		}

		c.Next()
	}
}
