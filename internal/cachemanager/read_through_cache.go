package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache computes values with fn on a miss and stores them.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
}

// NewReadThroughCache wraps cache around fn. With shouldSkipCache every call
// goes straight to fn.
func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key or computes it from input.
// Errors from fn are returned and nothing is cached.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, r.cache.Get)
}

// GetWithRefresh is Get, extending the TTL of a cached value.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, error) {
	return r.get(ctx, key, input, ttl, func(ctx context.Context, key K) (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThroughCache[K, V, I]) get(
	ctx context.Context,
	key K,
	input I,
	ttl time.Duration,
	lookup func(context.Context, K) (V, bool),
) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, input)
	}

	if value, ok := lookup(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}
