package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"policy-training-assistant/pkg/response"
)

// RateLimit enforces a sustained per-client rate with a burst allowance.
// Clients are keyed by IP; the limiter store is LRU-bounded.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := m.limiterFor(c.ClientIP())
		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "rate limit exceeded for client %s", c.ClientIP())
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m Middleware) limiterFor(key string) *rate.Limiter {
	if limiter, ok := m.limiters.Get(key); ok {
		return limiter
	}

	candidate := rate.NewLimiter(rate.Limit(float64(m.rateCfg.PerMinute)/60.0), m.rateCfg.Burst)
	if previous, ok, _ := m.limiters.PeekOrAdd(key, candidate); ok {
		return previous
	}
	return candidate
}
