package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"OnTrack/config"
	"OnTrack/pkg/errors"
	"OnTrack/pkg/logger"
	"OnTrack/pkg/response"
	"OnTrack/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口（秒）
	Window int
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 阻塞时长（秒），超过限制后禁止访问的时间
	BlockDuration int
}

// DefaultRateLimitConfig 默认限流配置。单用户服务，按 IP 限流即可
var DefaultRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   100,
	KeyPrefix:     "rate:limit",
	BlockDuration: 300, // 阻塞5分钟
}

// SyncRateLimitConfig 同步接口限流：同步代价高，限制更紧
var SyncRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   10,
	KeyPrefix:     "sync:rate",
	BlockDuration: 120,
}

// RateLimiter 限流器
type RateLimiter struct {
	config RateLimitConfig
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config: config,
	}
}

// getKey 生成限流键
func (rl *RateLimiter) getKey(c *app.RequestContext) string {
	return redis.Key(rl.config.KeyPrefix, fmt.Sprintf("ip:%s", c.ClientIP()))
}

// Allow 检查是否允许请求，使用滑动窗口算法
func (rl *RateLimiter) Allow(ctx context.Context, c *app.RequestContext) (bool, int, error) {
	key := rl.getKey(c)
	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	// zset 来实现滑动窗口限流
	client := redis.Client()
	pipe := client.Pipeline()

	// 移除窗口开始时间之前的所有请求记录，每次请求会先移除
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))

	// 添加当前请求（使用时间戳作为 score 和 member）
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})

	// 获取当前窗口内的请求数
	zcardCmd := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	allowed := count <= rl.config.MaxRequests

	return allowed, count, nil
}

func (rl *RateLimiter) blockKey(c *app.RequestContext) string {
	return redis.Key(rl.config.KeyPrefix, "block", fmt.Sprintf("ip:%s", c.ClientIP()))
}

func (rl *RateLimiter) Block(ctx context.Context, c *app.RequestContext) error {
	return redis.Client().Set(ctx, rl.blockKey(c), "1", time.Duration(rl.config.BlockDuration)*time.Second).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, c *app.RequestContext) (bool, error) {
	result, err := redis.Client().Exists(ctx, rl.blockKey(c)).Result()
	return result > 0, err
}

// RateLimitMiddleware 创建限流中间件
func RateLimitMiddleware(cfg RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(cfg)

	return func(ctx context.Context, c *app.RequestContext) {
		if !config.Cfg.RateLimitEnabled {
			c.Next(ctx)
			return
		}

		// 检查是否被阻塞
		blocked, err := limiter.IsBlocked(ctx, c)
		if err != nil {
			logger.Logger.Error("Failed to check block status", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}

		if blocked {
			c.AbortWithStatus(consts.StatusTooManyRequests)
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		allowed, count, err := limiter.Allow(ctx, c)
		if err != nil {
			logger.Logger.Error("Failed to check rate limit", zap.Error(err))
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}

		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(cfg.MaxRequests-count))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Duration(cfg.Window)*time.Second).Unix(), 10))

		if !allowed {
			if err := limiter.Block(ctx, c); err != nil {
				logger.Logger.Error("Failed to block client", zap.Error(err))
			}

			c.AbortWithStatus(consts.StatusTooManyRequests)
			response.Error(ctx, c, errors.TooManyRequests)
			return
		}

		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 通用限流中间件，窗口内的上限由 RATE_LIMIT_RPS 推导
func GeneralRateLimitMiddleware() app.HandlerFunc {
	cfg := DefaultRateLimitConfig
	if config.Cfg.RateLimitRPS > 0 {
		cfg.MaxRequests = config.Cfg.RateLimitRPS * cfg.Window
	}
	return RateLimitMiddleware(cfg)
}

// SyncRateLimitMiddleware 同步接口限流中间件
func SyncRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(SyncRateLimitConfig)
}
