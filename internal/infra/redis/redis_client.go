package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"smallbiz-billing/internal/config"
)

// RedisClient is the narrow surface the cache decorator needs. Callers that
// care about cache misses compare the Get error against redis.Nil.
type RedisClient interface {
	Ping(ctx context.Context) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Close() error
}

var _ RedisClient = (*client)(nil)

type client struct {
	rdb *redis.Client
}

// NewClient connects and pings so a bad address fails at startup, not on the
// first cached read.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &client{rdb: rdb}, nil
}

func (c *client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *client) Close() error { return c.rdb.Close() }
