package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct{ client *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Redis) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
