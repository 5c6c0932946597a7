package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisKV(t *testing.T, ttl time.Duration) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKV(client, ttl), server
}

func TestRedisKV_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	kv, server := newRedisKV(t, 0)

	_, ok, err := kv.Get(ctx, "ws:oms_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "ws:oms_token", "tok"))
	require.NoError(t, kv.Set(ctx, "ws:oms_user", `{"id":"1"}`))
	assert.True(t, server.Exists("oms:session:ws:oms_token"))

	val, ok, err := kv.Get(ctx, "ws:oms_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", val)

	require.NoError(t, kv.Delete(ctx, "ws:oms_token", "ws:oms_user"))
	assert.False(t, server.Exists("oms:session:ws:oms_token"))
	assert.False(t, server.Exists("oms:session:ws:oms_user"))
	require.NoError(t, kv.Delete(ctx))
}

func TestRedisKV_TTL(t *testing.T) {
	ctx := context.Background()
	kv, server := newRedisKV(t, time.Hour)

	require.NoError(t, kv.Set(ctx, "ws:oms_token", "tok"))
	assert.Equal(t, time.Hour, server.TTL("oms:session:ws:oms_token"))

	server.FastForward(2 * time.Hour)
	_, ok, err := kv.Get(ctx, "ws:oms_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisKV_Ping(t *testing.T) {
	kv, server := newRedisKV(t, 0)
	require.NoError(t, kv.Ping(context.Background()))

	server.Close()
	assert.Error(t, kv.Ping(context.Background()))
}
