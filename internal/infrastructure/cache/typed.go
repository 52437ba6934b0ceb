package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TypedCache stores JSON-encoded values of one type under a key prefix
type TypedCache[T any] struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// NewTypedCache creates a typed view over store. Keys are namespaced by prefix.
func NewTypedCache[T any](store Store, prefix string, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{store: store, prefix: prefix, ttl: ttl}
}

// Get returns the cached value and whether it was found
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool, error) {
	raw, err := c.store.Get(ctx, c.prefix+key)
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("decode cached %s%s: %w", c.prefix, key, err)
	}
	return &value, true, nil
}

// Set stores value with the cache TTL
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s%s: %w", c.prefix, key, err)
	}
	return c.store.Set(ctx, c.prefix+key, raw, c.ttl)
}

// Delete removes one key
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.prefix+key)
}

// Clear removes every key under the prefix
func (c *TypedCache[T]) Clear(ctx context.Context) error {
	return c.store.DeleteByPrefix(ctx, c.prefix)
}
