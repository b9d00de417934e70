package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"snapvault-server/internal/config"
	"snapvault-server/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(client.lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// allowRedis 使用 Redis 固定窗口计数判断是否放行；
// Redis 不可用时返回 false, false 让调用方回退本地限流。
func allowRedis(scope, ip string, rps float64, burst int) (allowed bool, decided bool) {
	redisClient := service.GetRedisClient()
	if redisClient == nil {
		return false, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	window := strconv.FormatInt(time.Now().Unix(), 10)
	key := service.RedisKey("ratelimit", scope, ip, window)

	count, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, false
	}
	if count == 1 {
		_ = redisClient.Expire(ctx, key, 2*time.Second).Err()
	}

	limit := int64(rps)
	if int64(burst) > limit {
		limit = int64(burst)
	}
	return count <= limit, true
}

// RateLimitMiddleware 创建一个按 IP 限流的中间件。
// scope 用于区分不同接口组（auth/upload）的独立计数；
// 优先使用 Redis 固定窗口，Redis 不可用时回退本地令牌桶。
func RateLimitMiddleware(scope string, rpsOf func(config.RateLimitConfig) float64, burstOf func(config.RateLimitConfig) int) gin.HandlerFunc {
	var limiter *IPRateLimiter
	var once sync.Once

	return func(c *gin.Context) {
		rl := config.Get().RateLimit
		// 检查总开关
		if !rl.Enabled {
			c.Next()
			return
		}

		currentRPS := rpsOf(rl)
		currentBurst := burstOf(rl)

		ip := c.ClientIP()

		if allowed, decided := allowRedis(scope, ip, currentRPS, currentBurst); decided {
			if !allowed {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// 初始化本地 Limiter
		once.Do(func() {
			limiter = NewIPRateLimiter(rate.Limit(currentRPS), currentBurst)
		})

		l := limiter.getLimiter(ip)

		// 动态更新 limit 和 burst (如果配置发生变更)
		if l.Limit() != rate.Limit(currentRPS) {
			l.SetLimit(rate.Limit(currentRPS))
		}
		if l.Burst() != currentBurst {
			l.SetBurst(currentBurst)
		}

		if !l.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRateLimit 认证接口限流
func AuthRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware("auth",
		func(rl config.RateLimitConfig) float64 { return rl.AuthRPS },
		func(rl config.RateLimitConfig) int { return rl.AuthBurst })
}

// UploadRateLimit 上传接口限流
func UploadRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware("upload",
		func(rl config.RateLimitConfig) float64 { return rl.UploadRPS },
		func(rl config.RateLimitConfig) int { return rl.UploadBurst })
}
