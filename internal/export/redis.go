package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/internal/pipeline"
	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/redis"
)

const (
	redisRunKeyPrefix = "tfidf:run:"
	redisLatestKey    = "tfidf:latest"
)

// RunKey is the Redis key holding the JSON report of a run.
func RunKey(runID string) string {
	return redisRunKeyPrefix + runID
}

// RedisSink stores the JSON report of each run and points tfidf:latest at it.
type RedisSink struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSink(client *redis.Client, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, ttl: ttl}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Export(ctx context.Context, res *pipeline.Result) error {
	body, err := json.Marshal(newRunRecord(res))
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", res.RunID, err)
	}
	return s.client.SetAll(ctx, map[string][]byte{
		RunKey(res.RunID): body,
		redisLatestKey:    []byte(res.RunID),
	}, s.ttl)
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
