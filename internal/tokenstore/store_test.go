package tokenstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anupgautam23/oms-frontend/internal/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := New(kv, "ws-1")

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, empty.HasToken())
	assert.Nil(t, empty.User)

	user := &domain.User{ID: "42", Name: "jane", Email: "jane@example.com", Role: domain.RoleUser}
	require.NoError(t, store.SaveToken(ctx, "tok-1"))
	require.NoError(t, store.SaveUser(ctx, user))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, user, loaded.User)

	raw, ok, err := kv.Get(ctx, "ws-1:oms_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", raw)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := New(kv, "ws-1")
	require.NoError(t, store.SaveToken(ctx, "tok"))
	require.NoError(t, store.SaveUser(ctx, &domain.User{ID: "1"}))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, kv.Len())
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StoredSession{}, loaded)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	a := New(kv, "a")
	b := New(kv, "b")

	require.NoError(t, a.SaveToken(ctx, "tok-a"))
	require.NoError(t, b.SaveToken(ctx, "tok-b"))
	require.NoError(t, a.Clear(ctx))

	tokenB, err := b.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-b", tokenB)
	tokenA, err := a.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tokenA)
}

func TestStore_CorruptCachedUserIsIgnored(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "ws:oms_token", "tok"))
	require.NoError(t, kv.Set(ctx, "ws:oms_user", "{not json"))

	loaded, err := New(kv, "ws").Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
	assert.Nil(t, loaded.User)
}
