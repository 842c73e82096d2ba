package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits requests per client IP using a token bucket
// per key. Limiters are never evicted; the key space is bounded by the
// set of client addresses behind the load balancer.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 5
	}

	var limiters sync.Map

	getLimiter := func(key string) *rate.Limiter {
		if v, ok := limiters.Load(key); ok {
			return v.(*rate.Limiter)
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		actual, _ := limiters.LoadOrStore(key, lim)
		return actual.(*rate.Limiter)
	}

	return func(c *gin.Context) {
		if !getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
