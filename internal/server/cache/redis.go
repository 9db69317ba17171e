package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// KeyPrefix namespaces every report key in Redis.
	KeyPrefix = "roomstats:report:"
	// GenerationKey holds the counter bumped by Invalidate.
	GenerationKey = "roomstats:gen"
)

// redisClient is the part of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var (
	_ redisClient = (*redis.Client)(nil)
	_ Cache       = (*RedisCache)(nil)
)

type RedisCache struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisCache connects to addr and pings it. Entries expire after ttl,
// which must be positive.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("redis cache: ttl must be positive, got %s", ttl)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisCache(rdb, ttl), nil
}

func newRedisCache(client redisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// key is roomstats:report:<gen>:<name>.
func key(gen int64, name string) string {
	return KeyPrefix + strconv.FormatInt(gen, 10) + ":" + name
}

func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (c *RedisCache) Get(ctx context.Context, gen int64, name string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key(gen, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", name, err)
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, gen int64, name string, payload []byte) error {
	if err := c.client.Set(ctx, key(gen, name), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

// Invalidate bumps the generation. Entries of older generations are left
// to expire with their TTL.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, GenerationKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
