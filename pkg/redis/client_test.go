package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
)

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "redis ping 127.0.0.1:1")
}

func TestIsNilError(t *testing.T) {
	assert.True(t, IsNilError(redis.Nil))
	assert.True(t, IsNilError(fmt.Errorf("get: %w", redis.Nil)))
	assert.False(t, IsNilError(nil))
}

// Needs a live server: TEST_REDIS_ADDR=localhost:6379.
func TestSetAllLive(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.SetAll(ctx, map[string][]byte{"tfidf:test:a": []byte("1"), "tfidf:test:b": []byte("2")}, time.Minute))
	defer c.Del(ctx, "tfidf:test:a", "tfidf:test:b")

	v, err := c.Get(ctx, "tfidf:test:b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	_, err = c.Get(ctx, "tfidf:test:missing")
	assert.True(t, IsNilError(err))
}
