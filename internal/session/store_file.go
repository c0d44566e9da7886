// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/SamirJoseGil/360Lateral-sub000/pkg/atomicfile"
)

// FileStore persists the session as a JSON file readable only by its owner.
//
// It is the command-line counterpart of a browser's persistent storage.
// Writes go to a temporary file that is renamed over the target, so readers
// never observe a half-written session.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the session file. A missing file means no session.
func (store *FileStore) Load(_ context.Context) (*Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	raw, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file_session_read_failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("file_session_decode_failed: %w", err)
	}
	return &session, nil
}

// Save writes the session atomically.
func (store *FileStore) Save(_ context.Context, session *Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	return store.write(session)
}

// Replace writes the session only if the file still exists.
func (store *FileStore) Replace(_ context.Context, session *Session) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, err := os.Stat(store.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("file_session_stat_failed: %w", err)
	}

	if err := store.write(session); err != nil {
		return false, err
	}
	return true, nil
}

// write encodes and stores session. Callers hold mu.
func (store *FileStore) write(session *Session) error {
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("file_session_encode_failed: %w", err)
	}

	if err := atomicfile.Write(store.path, raw, 0o600); err != nil {
		return fmt.Errorf("file_session_write_failed: %w", err)
	}
	return nil
}

// Clear removes the session file.
func (store *FileStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file_session_remove_failed: %w", err)
	}
	return nil
}
