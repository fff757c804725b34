package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRedis_DefaultPrefix(t *testing.T) {
	r := NewRedis(unreachableClient(t), "")
	assert.Equal(t, DefaultKeyPrefix, r.prefix)

	r = NewRedis(unreachableClient(t), "custom:")
	assert.Equal(t, "custom:", r.prefix)
}

func TestRedis_UnavailableServer(t *testing.T) {
	r := NewRedis(unreachableClient(t), "")
	ctx := context.Background()

	_, ok, err := r.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, r.Set(ctx, "k", articles, time.Minute))
	assert.Error(t, r.Ping(ctx))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, "redis://127.0.0.1:1/0")
	assert.Error(t, err)
	assert.Nil(t, client)
}
