package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"users-api/internal/adapter/ratelimit"
	pkgerrors "users-api/pkg/errors"
	"users-api/pkg/i18n"
	"users-api/pkg/metrics"
)

// RateLimiter returns a Gin middleware for rate limiting using the shared
// Redis token bucket. A disabled limiter lets everything through.
func RateLimiter(limiter *ratelimit.RateLimiter, tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		// One bucket per route template, so /:id is not split by id.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("http:%s:%s:%s", c.Request.Method, route, c.ClientIP())
		if !limiter.Allow(c.Request.Context(), key) {
			cfg := limiter.Config()
			rlErr := pkgerrors.NewRateLimitError("http")
			metrics.RateLimitBlocked.WithLabelValues(rlErr.Scope).Inc()
			metrics.DomainErrorsTotal.WithLabelValues(rlErr.Code()).Inc()
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%.2f", cfg.RequestsPerSecond))
			c.Header("X-RateLimit-Burst", fmt.Sprintf("%d", cfg.BurstCapacity))
			AbortWithError(c, tr, rlErr.HTTPStatus(), rlErr.Code(), i18n.MsgRateLimited)
			return
		}

		c.Next()
	}
}
