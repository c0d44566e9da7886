// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory.
//
// It backs tests and development runs without Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored session.
func (store *MemoryStore) Load(_ context.Context) (*Session, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.current == nil {
		return nil, nil
	}
	return store.current.clone(), nil
}

// Save stores a copy of session.
func (store *MemoryStore) Save(_ context.Context, session *Session) error {
	copied := session.clone()

	store.mu.Lock()
	store.current = copied
	store.mu.Unlock()
	return nil
}

// Replace stores a copy of session if one is already stored.
func (store *MemoryStore) Replace(_ context.Context, session *Session) (bool, error) {
	copied := session.clone()

	store.mu.Lock()
	defer store.mu.Unlock()

	if store.current == nil {
		return false, nil
	}
	store.current = copied
	return true, nil
}

// Clear drops the stored session.
func (store *MemoryStore) Clear(_ context.Context) error {
	store.mu.Lock()
	store.current = nil
	store.mu.Unlock()
	return nil
}
