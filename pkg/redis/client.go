// Package redis wraps go-redis/v9 for publishing finished run reports.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
)

// Client wraps a go-redis client.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies the connection with a PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Client{rdb: rdb}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// SetAll writes every pair in one MULTI/EXEC so readers never see a pointer
// to a report that is not stored yet. ttl of zero keeps the keys forever.
func (c *Client) SetAll(ctx context.Context, pairs map[string][]byte, ttl time.Duration) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range pairs {
			pipe.Set(ctx, k, v, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %d keys: %w", len(pairs), err)
	}
	return nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// IsNilError reports whether err is a Redis nil (key-not-found) error.
func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
