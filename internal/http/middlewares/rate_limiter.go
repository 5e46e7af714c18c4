package middlewares

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soraleth/wavedex/internal/observability"
	"github.com/soraleth/wavedex/internal/ratelimit"
)

type RateLimiter struct {
	store  ratelimit.CounterStore
	scope  string
	limit  int
	window time.Duration
	prom   *observability.Prom
	log    *slog.Logger
}

func NewRateLimiter(store ratelimit.CounterStore, scope string, limit int, window time.Duration, prom *observability.Prom, log *slog.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		scope:  scope,
		limit:  limit,
		window: window,
		prom:   prom,
		log:    log,
	}
}

// Middleware enforces the window per client IP. A failing counter store
// fails open: losing rate limiting must not take the API down with it.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":" + clientIP(c)

		count, windowEnd, err := rl.store.Incr(c.Request.Context(), key, rl.window)

		if err != nil {
			if rl.log != nil {
				rl.log.Warn("rate limit store unavailable", "scope", rl.scope, "err", err)
			}

			c.Next()
			return
		}

		if count > rl.limit {
			retryAfter := int(time.Until(windowEnd).Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			if rl.prom != nil {
				rl.prom.RateLimitedTotal.WithLabelValues(rl.scope).Inc()
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})

			return
		}

		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	// strip the port if the proxy handed us host:port

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
