// Package cache keeps the popular-cafe lists in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

const defaultKeyPrefix = "cafe-finder"

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// PopularCache implements application.PopularCache. Lists are stored as JSON
// under a generation counter; Invalidate bumps the generation so every list
// written before it becomes unreachable and expires on its own.
type PopularCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewPopularCache(client *redis.Client, ttl time.Duration, prefix string) *PopularCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &PopularCache{client: client, ttl: ttl, prefix: prefix}
}

func (c *PopularCache) Get(ctx context.Context, limit int) ([]domain.Cafe, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, c.listKey(gen, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read popular list: %w", err)
	}
	var cafes []domain.Cafe
	if err := json.Unmarshal(raw, &cafes); err != nil {
		return nil, false, fmt.Errorf("decode popular list: %w", err)
	}
	return cafes, true, nil
}

func (c *PopularCache) Set(ctx context.Context, limit int, cafes []domain.Cafe) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(cafes)
	if err != nil {
		return fmt.Errorf("encode popular list: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(gen, limit), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write popular list: %w", err)
	}
	return nil
}

func (c *PopularCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("invalidate popular lists: %w", err)
	}
	return nil
}

func (c *PopularCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read popular generation: %w", err)
	}
	return gen, nil
}

func (c *PopularCache) generationKey() string {
	return fmt.Sprintf("%s:popular:gen", c.prefix)
}

func (c *PopularCache) listKey(gen int64, limit int) string {
	return fmt.Sprintf("%s:popular:%d:%d", c.prefix, gen, limit)
}
