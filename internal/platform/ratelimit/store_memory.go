// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buckets in process memory. Stale buckets are removed by
// the limiter when read; ttl is ignored.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]Bucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

func (store *MemoryStore) Get(_ context.Context, key string) (*Bucket, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	bucket, found := store.buckets[key]
	if !found {
		return nil, nil
	}
	return &bucket, nil
}

func (store *MemoryStore) Put(_ context.Context, key string, bucket *Bucket, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.buckets[key] = *bucket
	return nil
}

func (store *MemoryStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.buckets, key)
	return nil
}
