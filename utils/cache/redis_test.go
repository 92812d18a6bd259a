package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Total int `json:"total"`
	}
	require.NoError(t, c.SetJSON(ctx, "k", payload{Total: 4}, time.Minute))

	var got payload
	require.NoError(t, c.GetJSON(ctx, "k", &got))
	assert.Equal(t, 4, got.Total)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.GetJSON(ctx, "k", &got), ErrNotFound)
}

func TestIncrementWithTTLKeepsFirstWindow(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	n, err := c.IncrementWithTTL(ctx, "attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mr.FastForward(30 * time.Second)

	n, err = c.IncrementWithTTL(ctx, "attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := c.TTL(ctx, "attempts")
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, 30*time.Second)

	mr.FastForward(31 * time.Second)
	exists, err := c.Exists(ctx, "attempts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache("::not a url")
	assert.Error(t, err)
}
