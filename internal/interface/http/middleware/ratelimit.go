package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/response"
)

// limiterTTL 超过该时间未访问的客户端限流器会被清理
const limiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端IP的令牌桶限流
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		now:      time.Now,
	}
}

// Allow 消耗key对应的一个令牌
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.limiters[key]
	if !ok {
		rl.evict(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evict 新客户端到来时顺带清理长期不活跃的限流器
func (rl *RateLimiter) evict(now time.Time) {
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > limiterTTL {
			delete(rl.limiters, key)
		}
	}
}

// Handler gin中间件，超限返回429
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.Allow(key) {
			logger.Ctx(c.Request.Context()).Warn("rate limit exceeded",
				zap.String("client_ip", key),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Code:    http.StatusTooManyRequests,
				Message: "请求过于频繁，请稍后再试",
				Kind:    "rate_limited",
			})
			return
		}
		c.Next()
	}
}
