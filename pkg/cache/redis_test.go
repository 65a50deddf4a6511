package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	_, ok, err := s.Get(ctx, "/|anonymous")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "/|anonymous", []byte("<html>"), time.Minute))
	v, ok, err := s.Get(ctx, "/|anonymous")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("<html>"), v)
	assert.True(t, mr.Exists(KeyPrefix+"/|anonymous"))
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Set(ctx, "/|leo", []byte("page"), 20*time.Second))
	mr.FastForward(19 * time.Second)
	_, ok, err := s.Get(ctx, "/|leo")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok, err = s.Get(ctx, "/|leo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Set(ctx, "/|anonymous", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "/?page=2|leo", []byte("b"), time.Minute))
	require.NoError(t, mr.Set("sessions:leo", "keep me"))

	require.NoError(t, s.Clear(ctx))

	assert.False(t, mr.Exists(KeyPrefix+"/|anonymous"))
	assert.False(t, mr.Exists(KeyPrefix+"/?page=2|leo"))
	got, err := mr.Get("sessions:leo")
	require.NoError(t, err)
	assert.Equal(t, "keep me", got)

	require.NoError(t, s.Clear(ctx))
}
