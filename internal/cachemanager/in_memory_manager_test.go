package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type widgetKey string

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[widgetKey, []string]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "fil", []string{"File"}, DefaultExpiration)

	got, ok := cache.Get(ctx, "fil")
	require.True(t, ok)
	require.Equal(t, []string{"File"}, got)
	require.Equal(t, 1, cache.Len())

	_, ok = cache.Get(ctx, "missing")
	require.False(t, ok)
}

func TestInMemoryCacheManager_WrongTypeIsMiss(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("search", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("k", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "short", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := cache.Get(ctx, "short")
	require.False(t, ok)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "a", 1, DefaultExpiration)
	cache.Set(ctx, "b", 2, DefaultExpiration)
	cache.Set(ctx, "c", 3, DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)

	require.NoError(t, cache.Flush(ctx))
	require.Equal(t, 0, cache.Len())
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, int]("search", DefaultExpiration, DefaultCleanupInterval)

	cache.Set(ctx, "k", 7, 40*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	got, ok := cache.GetWithRefresh(ctx, "k", time.Minute)
	require.True(t, ok)
	require.Equal(t, 7, got)

	time.Sleep(25 * time.Millisecond)
	_, ok = cache.Get(ctx, "k")
	require.True(t, ok, "refresh should have extended the ttl")
}
