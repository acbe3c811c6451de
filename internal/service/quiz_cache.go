package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutorpress_backend/internal/quiz/wire"

	"github.com/go-redis/redis/v8"
)

// CachedQuiz 是缓存条目。作者ID随内容一起缓存，命中时也能做权限检查。
type CachedQuiz struct {
	AuthorID uint             `json:"author_id"`
	Quiz     wire.QuizPayload `json:"quiz"`
}

// QuizCache 缓存测验内容接口的响应
type QuizCache interface {
	Get(ctx context.Context, quizID uint) (CachedQuiz, bool, error)
	Set(ctx context.Context, quizID uint, entry CachedQuiz) error
	Invalidate(ctx context.Context, quizID uint) error
}

func quizCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d", quizID)
}

type RedisQuizCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisQuizCache(rdb *redis.Client, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{Redis: rdb, TTL: ttl}
}

func (c *RedisQuizCache) Get(ctx context.Context, quizID uint) (CachedQuiz, bool, error) {
	val, err := c.Redis.Get(ctx, quizCacheKey(quizID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedQuiz{}, false, nil
	}
	if err != nil {
		return CachedQuiz{}, false, err
	}
	var entry CachedQuiz
	if err := json.Unmarshal(val, &entry); err != nil || entry.AuthorID == 0 {
		// 损坏或缺少作者的缓存按未命中处理
		c.Redis.Del(ctx, quizCacheKey(quizID))
		return CachedQuiz{}, false, nil
	}
	return entry, true, nil
}

func (c *RedisQuizCache) Set(ctx context.Context, quizID uint, entry CachedQuiz) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, quizCacheKey(quizID), b, c.TTL).Err()
}

func (c *RedisQuizCache) Invalidate(ctx context.Context, quizID uint) error {
	return c.Redis.Del(ctx, quizCacheKey(quizID)).Err()
}

// NopQuizCache 在未配置 Redis 时使用
type NopQuizCache struct{}

func (NopQuizCache) Get(context.Context, uint) (CachedQuiz, bool, error) {
	return CachedQuiz{}, false, nil
}
func (NopQuizCache) Set(context.Context, uint, CachedQuiz) error { return nil }
func (NopQuizCache) Invalidate(context.Context, uint) error      { return nil }
