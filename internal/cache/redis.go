// Package cache holds an optional Redis cache for the redirect hot path.
// An entry's TTL never exceeds the link's remaining validity, so a cache hit
// always refers to an unexpired link.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb *redis.Client
}

func ConnectRedis(addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{rdb: rdb}, nil
}

func (c *Cache) Get(ctx context.Context, shortcode string) (string, error) {
	return c.rdb.Get(ctx, shortcode).Result()
}

func (c *Cache) Set(ctx context.Context, shortcode, originalURL string, ttl time.Duration) error {
	return c.rdb.Set(ctx, shortcode, originalURL, ttl).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
