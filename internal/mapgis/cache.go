// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mapgis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
)

// # Memory Cache

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryCache keeps lookups in process memory. Expired entries are dropped
// when read, and all of them at most once per sweep interval when writing.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// memorySweepInterval spaces out full scans of the cache.
const memorySweepInterval = time.Minute

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// WithClock replaces the time source. It is meant for tests.
func (cache *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	cache.now = now
	return cache
}

// Len returns the number of stored entries, expired or not.
func (cache *MemoryCache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.entries)
}

func (cache *MemoryCache) Get(_ context.Context, cbml string) ([]byte, bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	entry, found := cache.entries[cbml]
	if !found {
		return nil, false, nil
	}
	if !cache.now().Before(entry.expiresAt) {
		delete(cache.entries, cbml)
		return nil, false, nil
	}
	return entry.raw, true, nil
}

func (cache *MemoryCache) Set(_ context.Context, cbml string, raw []byte, ttl time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	now := cache.now()
	if now.Sub(cache.lastSweep) >= memorySweepInterval {
		cache.sweep(now)
	}

	cache.entries[cbml] = memoryEntry{
		raw:       append([]byte(nil), raw...),
		expiresAt: now.Add(ttl),
	}
	return nil
}

// sweep drops every expired entry. Callers hold mu.
func (cache *MemoryCache) sweep(now time.Time) {
	for cbml, entry := range cache.entries {
		if !now.Before(entry.expiresAt) {
			delete(cache.entries, cbml)
		}
	}
	cache.lastSweep = now
}

// # Redis Cache

// RedisCache keeps lookups in Redis under "lateral:mapgis:<cbml>".
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (cache *RedisCache) Get(ctx context.Context, cbml string) ([]byte, bool, error) {
	raw, err := cache.client.Get(ctx, constants.RedisPrefixMapGIS+cbml).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mapgis_cache_get: %w", err)
	}
	return raw, true, nil
}

func (cache *RedisCache) Set(ctx context.Context, cbml string, raw []byte, ttl time.Duration) error {
	if err := cache.client.Set(ctx, constants.RedisPrefixMapGIS+cbml, raw, ttl).Err(); err != nil {
		return fmt.Errorf("mapgis_cache_set: %w", err)
	}
	return nil
}
