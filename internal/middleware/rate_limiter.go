package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
)

// Fixed-window request counting per client IP. Window state lives in memory;
// a multi-instance deployment would need the counters in Redis instead.

type ipWindow struct {
	count int
	reset time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	windows map[string]*ipWindow
	limit   int
	window  time.Duration
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	l := &ipLimiter{
		windows: make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
	}
	go l.janitor()
	return l
}

// allow counts one request for ip and reports whether it is within the limit.
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[ip]
	if !ok || now.After(w.reset) {
		w = &ipWindow{reset: now.Add(l.window)}
		l.windows[ip] = w
	}
	w.count++
	return w.count <= l.limit
}

// janitor drops expired windows so the map cannot grow without bound.
func (l *ipLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, w := range l.windows {
			if now.After(w.reset) {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

var loginLimiter = newIPLimiter(20, time.Minute)

// LoginRateLimiter caps login attempts at 20 per minute per IP. Applied only
// to the login route so credential stuffing cannot hammer bcrypt.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loginLimiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, try again in a minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	limiter := newIPLimiter(limit, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
