// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/pkg/atomicfile"
)

// fileEntry is one bucket on disk with the expiry requested by the limiter.
type fileEntry struct {
	Bucket    Bucket    `json:"bucket"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileStore keeps all buckets in one owner-only JSON file.
//
// It lets short-lived processes such as the CLI accumulate attempts across
// runs. Staleness is judged by the limiter, as with [MemoryStore]; entries
// past their ttl are pruned whenever the file is rewritten.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// WithClock replaces the time source used for pruning. It is meant for tests.
func (store *FileStore) WithClock(now func() time.Time) *FileStore {
	store.now = now
	return store
}

func (store *FileStore) Get(_ context.Context, key string) (*Bucket, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries, err := store.read()
	if err != nil {
		return nil, err
	}

	entry, found := entries[key]
	if !found {
		return nil, nil
	}
	return &entry.Bucket, nil
}

func (store *FileStore) Put(_ context.Context, key string, bucket *Bucket, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries, err := store.read()
	if err != nil {
		return err
	}

	entries[key] = fileEntry{Bucket: *bucket, ExpiresAt: store.now().Add(ttl)}
	return store.write(entries)
}

func (store *FileStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries, err := store.read()
	if err != nil {
		return err
	}
	if _, found := entries[key]; !found {
		return nil
	}

	delete(entries, key)
	return store.write(entries)
}

// read loads every entry. A missing file is an empty store. Callers hold mu.
func (store *FileStore) read() (map[string]fileEntry, error) {
	raw, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]fileEntry), nil
		}
		return nil, fmt.Errorf("ratelimit_file_read: %w", err)
	}

	entries := make(map[string]fileEntry)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("ratelimit_file_decode: %w", err)
	}
	return entries, nil
}

// write prunes expired entries and replaces the file. Callers hold mu.
func (store *FileStore) write(entries map[string]fileEntry) error {
	now := store.now()
	for key, entry := range entries {
		if now.After(entry.ExpiresAt) {
			delete(entries, key)
		}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("ratelimit_file_encode: %w", err)
	}

	if err := atomicfile.Write(store.path, raw, 0o600); err != nil {
		return fmt.Errorf("ratelimit_file_write: %w", err)
	}
	return nil
}
