// ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/config"
	"github.com/arbiterhq/arbiter/logging"
)

// RedisStore counts requests in a sliding window per scope key, using a
// sorted set of request timestamps. The pipeline keeps the
// trim/add/count/expire sequence on one round trip.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisStoreFromConfig connects using the viper-managed redis settings
// and verifies the connection.
func NewRedisStoreFromConfig(ctx context.Context) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.GetString("redis.addr"),
		Password: config.GetString("redis.password"),
		DB:       config.GetInt("redis.db"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logging.Info("Connected to rate limit store", zap.String("addr", config.GetString("redis.addr")))
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Check(ctx context.Context, scopeKey string, limit int, window time.Duration) (Result, error) {
	pipe := s.client.Pipeline()
	now := time.Now()
	key := fmt.Sprintf("ratelimit:%s", scopeKey)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now.UnixNano()-window.Nanoseconds()))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	allowed := count <= int64(limit)
	logging.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return Result{Allowed: allowed, Remaining: remaining, ResetAt: now.Add(window)}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
