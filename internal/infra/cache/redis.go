package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/resilience/retry"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces headline cache keys in a shared Redis.
const DefaultKeyPrefix = "marketpulse:headlines:"

// Redis stores article lists as JSON strings with a server-side expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedisClient connects to redisURL. A value that is not a redis:// URL is
// treated as a plain host:port address.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps client. An empty prefix selects DefaultKeyPrefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Get returns the article list stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]entity.Article, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var articles []entity.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, false, fmt.Errorf("decode cached articles: %w", err)
	}
	if articles == nil {
		articles = []entity.Article{}
	}
	return articles, true, nil
}

// Set stores articles under key with the given expiry.
func (r *Redis) Set(ctx context.Context, key string, articles []entity.Article, ttl time.Duration) error {
	if articles == nil {
		articles = []entity.Article{}
	}
	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}

	return retry.WithBackoff(ctx, retry.CacheConfig(), func() error {
		if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
			return fmt.Errorf("redis set: %w", err)
		}
		return nil
	})
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
