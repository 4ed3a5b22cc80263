package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"faceregistry/domain/services"
	"faceregistry/pkg/logger"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisClient wraps go-redis for the gallery statistics cache. Every cache
// failure is logged and swallowed so callers degrade to direct queries.
type RedisClient struct {
	client *redis.Client
}

var _ services.StatsCache = (*RedisClient)(nil)

func NewRedisClient(config RedisConfig) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisClient{client: client}
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Warn(logger.CategoryDB, "cache_get_failed", "Cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", false
	}
	return value, true
}

func (r *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn(logger.CategoryDB, "cache_set_failed", "Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (r *RedisClient) Del(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Warn(logger.CategoryDB, "cache_del_failed", "Cache invalidation failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
