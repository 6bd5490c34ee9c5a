package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter implements rate limiting for API endpoints
type RateLimiter struct {
	ipLimiters      map[string]*rate.Limiter
	authLimiters    map[string]*rate.Limiter
	ipMutex         sync.RWMutex
	authMutex       sync.RWMutex
	ipLimiterRate   rate.Limit
	authLimiterRate rate.Limit
	ipBurst         int
	authBurst       int
	cleanupTicker   *time.Ticker
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(ipRequestsPerSecond, authRequestsPerMinute float64, ipBurst, authBurst int) *RateLimiter {
	limiter := &RateLimiter{
		ipLimiters:      make(map[string]*rate.Limiter),
		authLimiters:    make(map[string]*rate.Limiter),
		ipLimiterRate:   rate.Limit(ipRequestsPerSecond),
		authLimiterRate: rate.Limit(authRequestsPerMinute / 60),
		ipBurst:         ipBurst,
		authBurst:       authBurst,
		cleanupTicker:   time.NewTicker(5 * time.Minute),
	}

	go limiter.cleanup()

	return limiter
}

// cleanup periodically removes old limiters to prevent memory leaks
func (rl *RateLimiter) cleanup() {
	for range rl.cleanupTicker.C {
		rl.ipMutex.Lock()
		rl.ipLimiters = make(map[string]*rate.Limiter)
		rl.ipMutex.Unlock()

		rl.authMutex.Lock()
		rl.authLimiters = make(map[string]*rate.Limiter)
		rl.authMutex.Unlock()
	}
}

// Stop stops the rate limiter cleanup
func (rl *RateLimiter) Stop() {
	rl.cleanupTicker.Stop()
}

// getIPLimiter returns the rate limiter for an IP
func (rl *RateLimiter) getIPLimiter(ip string) *rate.Limiter {
	rl.ipMutex.RLock()
	limiter, exists := rl.ipLimiters[ip]
	rl.ipMutex.RUnlock()

	if !exists {
		rl.ipMutex.Lock()
		// A concurrent first request may have created the limiter
		// between the locks; keep the winner.
		if limiter, exists = rl.ipLimiters[ip]; !exists {
			limiter = rate.NewLimiter(rl.ipLimiterRate, rl.ipBurst)
			rl.ipLimiters[ip] = limiter
		}
		rl.ipMutex.Unlock()
	}

	return limiter
}

// getAuthLimiter returns the rate limiter for authentication attempts
func (rl *RateLimiter) getAuthLimiter(key string) *rate.Limiter {
	rl.authMutex.RLock()
	limiter, exists := rl.authLimiters[key]
	rl.authMutex.RUnlock()

	if !exists {
		rl.authMutex.Lock()
		if limiter, exists = rl.authLimiters[key]; !exists {
			limiter = rate.NewLimiter(rl.authLimiterRate, rl.authBurst)
			rl.authLimiters[key] = limiter
		}
		rl.authMutex.Unlock()
	}

	return limiter
}

// IPRateLimiterMiddleware limits requests based on IP address
func (rl *RateLimiter) IPRateLimiterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := rl.getIPLimiter(ip)

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimiterMiddleware limits authentication attempts per IP. Tighter
// than the general IP limiter so that password guessing is throttled early.
func (rl *RateLimiter) AuthRateLimiterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		key := ip + ":" + c.FullPath()
		authLimiter := rl.getAuthLimiter(key)

		if !authLimiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many authentication attempts, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
