package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"courier-dispatch-service/internal/domain"
	"courier-dispatch-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisDistanceCache is a Redis-backed implementation of ports.DistanceCache.
// Entries expire after ttl so stale road data ages out.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

func redisKey(from, to domain.Coordinates) string {
	return "dist:" + coordKey(from) + "|" + coordKey(to)
}

// Get fetches a cached distance for one coordinate pair.
func (c *RedisDistanceCache) Get(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ float64, _ bool, err error) {
	defer obs.Time(ctx, "distance.cache.redis.Get")(&err)

	val, err := c.client.Get(ctx, redisKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: %w", err)
	}

	km, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: parse %q: %w", val, err)
	}

	return km, true, nil
}

// Put stores a distance result for one coordinate pair.
func (c *RedisDistanceCache) Put(ctx context.Context, from, to domain.Coordinates, km float64) error {
	val := strconv.FormatFloat(km, 'f', 2, 64)
	if err := c.client.Set(ctx, redisKey(from, to), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert distance cache: %w", err)
	}
	return nil
}
