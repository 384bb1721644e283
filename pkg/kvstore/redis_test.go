package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要真实 Redis：REDIS_ADDR=localhost:6379 go test ./pkg/kvstore/...
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(ctx).Err())

	store := NewRedisStore(client, "test:"+uuid.NewString()+":")
	t.Cleanup(func() { store.Close() })

	c := NewCollection[item](store, KeyPosts)
	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = c.Mutate(ctx, func(items []item) ([]item, error) {
		return append(items, item{ID: "a", Count: 2}), nil
	})
	require.NoError(t, err)

	items, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a", Count: 2}}, items)

	require.NoError(t, store.Delete(ctx, KeyPosts))
	_, err = store.Get(ctx, KeyPosts)
	assert.ErrorIs(t, err, ErrNotFound)
}
