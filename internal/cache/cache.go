// Package cache stores processed content results so repeated requests for
// the same document and options skip the processors.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"unihub/internal/model"
)

// ErrMiss is returned by Get when no entry exists.
var ErrMiss = errors.New("cache miss")

// ContentCache caches content processing results.
type ContentCache interface {
	Get(ctx context.Context, key string) (*model.ProcessResult, error)
	Set(ctx context.Context, key string, res *model.ProcessResult) error
}

// Key builds the cache key for a document processed with the given options.
func Key(documentID string, questions int, summary, keywords bool) string {
	return fmt.Sprintf("content:%s:%d:%s", documentID, questions, flags(summary, keywords))
}

func flags(summary, keywords bool) string {
	b := []byte("--")
	if summary {
		b[0] = 's'
	}
	if keywords {
		b[1] = 'k'
	}
	return string(b)
}

// Redis implements ContentCache on a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient creates a cache from an existing Redis client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

// Get returns the cached result or ErrMiss.
func (c *Redis) Get(ctx context.Context, key string) (*model.ProcessResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var res model.ProcessResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return &res, nil
}

// Set stores res under key with the configured TTL.
func (c *Redis) Set(ctx context.Context, key string, res *model.ProcessResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Redis) Close() error {
	return c.client.Close()
}

// Noop is used when no Redis server is configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (*model.ProcessResult, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, *model.ProcessResult) error    { return nil }
