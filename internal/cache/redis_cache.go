package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LeventeLantos/call-scheduler/internal/client"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func key(callID string) string {
	return fmt.Sprintf("call:%s", callID)
}

func (c *RedisCache) Store(ctx context.Context, callID string, call client.Call) error {
	b, err := json.Marshal(call)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(callID), b, c.ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, callID string) (client.Call, bool, error) {
	raw, err := c.rdb.Get(ctx, key(callID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return client.Call{}, false, nil
	}
	if err != nil {
		return client.Call{}, false, err
	}

	var call client.Call
	if err := json.Unmarshal(raw, &call); err != nil {
		return client.Call{}, false, err
	}
	return call, true, nil
}

var _ StatusCache = (*RedisCache)(nil)
