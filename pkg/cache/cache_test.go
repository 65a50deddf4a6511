package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	_, ok, err := s.Get(ctx, "/")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "/", []byte("<html>"), time.Minute))
	v, ok, err := s.Get(ctx, "/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("<html>"), v)

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Get(ctx, "/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	require.NoError(t, s.Set(ctx, "/", []byte("old"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := s.Get(ctx, "/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url")
	assert.Error(t, err)
}
