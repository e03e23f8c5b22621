package cache

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"OnTrack/storage/redis"
)

const (
	// 应用日观测与日界事件的投放标记，worker / scheduler 共用
	appDayObservedKey      = "appday:last"
	dayChangePublishedPfx  = "appday:change:published"
	messageProcessedPrefix = "message:processed"
	syncRunningPrefix      = "sync:running"
	provisionalScorePrefix = "score:provisional"

	publishedTTL = 48 * time.Hour
	processedTTL = 48 * time.Hour
	scoreTTL     = 36 * time.Hour
)

// GetLastObservedAppDay 读取进程外持久化的最近应用日（"2006-01-02"）。
// 未记录时返回空串，调度器以当前时钟初始化。
func GetLastObservedAppDay(ctx context.Context) (string, error) {
	val, err := redis.Client().Get(ctx, redis.Key(appDayObservedKey)).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last observed app day: %w", err)
	}
	return val, nil
}

// SetLastObservedAppDay 持久化最近观测到的应用日，调度器重启后接续。
func SetLastObservedAppDay(ctx context.Context, day string) error {
	return redis.Client().Set(ctx, redis.Key(appDayObservedKey), day, 0).Err()
}

// TryMarkDayChangePublished 原子标记某个新应用日的变更消息已投放（SETNX）。
// 返回 false 表示已有实例投放过，调用方应跳过发布。
func TryMarkDayChangePublished(ctx context.Context, newAppDay string) (bool, error) {
	key := redis.Key(dayChangePublishedPfx, newAppDay)
	ok, err := redis.Client().SetNX(ctx, key, "1", publishedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark day change published: %w", err)
	}
	return ok, nil
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}

// TryLockSync 为某一天的同步加短锁，避免 full / quick 同步并发交叠。
func TryLockSync(ctx context.Context, date string, ttl time.Duration) (bool, error) {
	key := redis.Key(syncRunningPrefix, date)
	ok, err := redis.Client().SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock sync for %s: %w", date, err)
	}
	return ok, nil
}

// UnlockSync 释放同步锁。
func UnlockSync(ctx context.Context, date string) error {
	return redis.Client().Del(ctx, redis.Key(syncRunningPrefix, date)).Err()
}

// CacheProvisionalScore 缓存当日临时分，供前台快速刷新读取，落库仍是权威。
func CacheProvisionalScore(ctx context.Context, date string, score int) error {
	key := redis.Key(provisionalScorePrefix, date)
	return redis.Client().Set(ctx, key, score, scoreTTL).Err()
}

// GetProvisionalScore 读取缓存的临时分。未命中返回 (0, false)。
func GetProvisionalScore(ctx context.Context, date string) (int, bool, error) {
	key := redis.Key(provisionalScorePrefix, date)
	score, err := redis.Client().Get(ctx, key).Int()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get provisional score: %w", err)
	}
	return score, true, nil
}
