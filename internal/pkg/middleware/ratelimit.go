package middleware

import (
	"net/http"
	"sync"

	"pawsay/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter 按 key (IP 或会话) 存储限流器
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewKeyedRateLimiter 创建限流器
// r: 每秒允许的请求数 (QPS)
// b: 桶的大小 (Burst)
func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

// GetLimiter 获取指定 key 的限流器
func (l *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.limiters[key] = limiter
	}

	return limiter
}

// KeyFunc 从请求中取限流 key
type KeyFunc func(c *gin.Context) string

// ByClientIP 按客户端 IP 限流
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// BySession 按会话限流，需放在 AuthMiddleware 之后
func BySession(c *gin.Context) string {
	if sess := CurrentSession(c); sess != nil {
		return sess.ID
	}
	return c.ClientIP()
}

// RateLimitMiddleware 限流中间件
func RateLimitMiddleware(l *KeyedRateLimiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.GetLimiter(key(c)).Allow() {
			response.Abort(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
