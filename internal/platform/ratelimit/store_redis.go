// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
)

// RedisStore keeps buckets in Redis under "lateral:ratelimit:<key>".
//
// Keys expire when their window closes, so abandoned buckets do not
// accumulate.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (store *RedisStore) Get(context context.Context, key string) (*Bucket, error) {
	raw, err := store.client.Get(context, constants.RedisPrefixRateLimit+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ratelimit_redis_get: %w", err)
	}

	var bucket Bucket
	if err := json.Unmarshal(raw, &bucket); err != nil {
		return nil, fmt.Errorf("ratelimit_redis_decode: %w", err)
	}
	return &bucket, nil
}

func (store *RedisStore) Put(context context.Context, key string, bucket *Bucket, ttl time.Duration) error {
	raw, err := json.Marshal(bucket)
	if err != nil {
		return fmt.Errorf("ratelimit_redis_encode: %w", err)
	}

	// A zero TTL would persist the key forever.
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := store.client.Set(context, constants.RedisPrefixRateLimit+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("ratelimit_redis_set: %w", err)
	}
	return nil
}

func (store *RedisStore) Delete(context context.Context, key string) error {
	if err := store.client.Del(context, constants.RedisPrefixRateLimit+key).Err(); err != nil {
		return fmt.Errorf("ratelimit_redis_del: %w", err)
	}
	return nil
}
