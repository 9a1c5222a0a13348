package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/scholarlink/internal/platform/apierr"
	"github.com/yungbote/scholarlink/internal/platform/ctxutil"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// MemoryLimiter is a fixed-window limiter local to one process.
type MemoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*rateBucket
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{now: time.Now, buckets: make(map[string]*rateBucket)}
}

func (r *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// RateLimit throttles the scoring and generation endpoints per caller, falling back to
// the client IP before authentication.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 || window <= 0 {
			c.Next()
			return
		}
		key := "ratelimit:" + scope + ":" + c.ClientIP()
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			key = "ratelimit:" + scope + ":" + rd.UserID.String()
		}
		if !limiter.Allow(key, limit, window) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abort(c, http.StatusTooManyRequests, apierr.CodeRateLimited, "too many requests, try again shortly")
			return
		}
		c.Next()
	}
}
