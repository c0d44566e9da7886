// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
)

// RedisStore implements [Store] using Redis.
//
// The session is stored as one JSON string under "lateral:session:<key>" with
// a TTL that is refreshed on every save.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store for the session identified by sessionKey.
func NewRedisStore(client *redis.Client, sessionKey string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    constants.RedisPrefixSession + sessionKey,
		ttl:    ttl,
	}
}

/*
Load retrieves and decodes the session.

Parameters:
  - context: context.Context

Returns:
  - *Session: Decoded session, or nil if the key is absent or expired
  - error: Connectivity or decoding failures
*/
func (store *RedisStore) Load(context context.Context) (*Session, error) {
	raw, err := store.client.Get(context, store.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return &session, nil
}

/*
Save encodes and stores the session with the configured TTL.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Encoding or storage failures
*/
func (store *RedisStore) Save(context context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, store.key, raw, store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Replace stores the session only if the key still exists (SET ... XX), so a
session deleted by a concurrent logout is never recreated.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - bool: false when the key was absent
  - error: Encoding or storage failures
*/
func (store *RedisStore) Replace(context context.Context, session *Session) (bool, error) {
	raw, err := json.Marshal(session)
	if err != nil {
		return false, fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	replaced, err := store.client.SetXX(context, store.key, raw, store.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_session_replace_failed: %w", err)
	}

	return replaced, nil
}

/*
Clear deletes the session key.

Parameters:
  - context: context.Context

Returns:
  - error: Deletion failures
*/
func (store *RedisStore) Clear(context context.Context) error {
	if err := store.client.Del(context, store.key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
