package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu  sync.Mutex
	ips map[string]*rate.Limiter
}

// NewRateLimiter allows requests per interval seconds for each IP.
func NewRateLimiter(requests int, interval int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Every(time.Duration(interval) * time.Second / time.Duration(requests)),
		burst: requests,
		ips:   make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.ips[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.ips[ip] = l
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "too many requests, please slow down",
			})
			return
		}
		c.Next()
	}
}

// NewStrictRateLimiter is for login: 5 requests per minute per IP.
func NewStrictRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(5, 60).RateLimit()
}
