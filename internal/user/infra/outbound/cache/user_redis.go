package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	sharedCache "github.com/davicafu/hexapager/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/hexapager/internal/shared/infra/utils"
	"github.com/davicafu/hexapager/internal/user/domain"
)

// RedisCache guarda los valores serializados en JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Verificación estática
var (
	_ sharedCache.Cache = (*RedisCache)(nil)
	_ domain.UserCache  = (*RedisCache)(nil)
)

// NewRedisCache usa ttl cuando Set recibe ttlSecs <= 0.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// ConnectRedis crea el cliente y comprueba que el servidor responde.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, sharedUtils.TTL(ttlSecs, c.ttl)).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
