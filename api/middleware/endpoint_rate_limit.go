package middleware

import (
	"github.com/gin-gonic/gin"
)

// EndpointLimit caps one method and route pattern, as registered with gin.
type EndpointLimit struct {
	Method    string
	Path      string
	PerMinute int
	Burst     int
}

func (l EndpointLimit) key() string {
	return l.Method + " " + l.Path
}

// EndpointRateLimiter applies tighter per-client limits to expensive routes,
// such as bill uploads, on top of the global limiter. The set of routes is
// fixed at construction so lookups need no locking.
type EndpointRateLimiter struct {
	limiters map[string]*RateLimiter
}

func NewEndpointRateLimiter(limits ...EndpointLimit) *EndpointRateLimiter {
	erl := &EndpointRateLimiter{limiters: make(map[string]*RateLimiter, len(limits))}
	for _, l := range limits {
		erl.limiters[l.key()] = NewRateLimiter(l.PerMinute, l.Burst)
	}
	return erl
}

func (erl *EndpointRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter, ok := erl.limiters[c.Request.Method+" "+c.FullPath()]
		if ok && !limiter.Allow(c.ClientIP()) {
			tooManyRequests(c, limiter, "rate limit exceeded for this endpoint")
			return
		}
		c.Next()
	}
}
