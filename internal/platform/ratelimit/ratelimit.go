// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit throttles repeated actions (such as login attempts) with a
per-key sliding window counter.

# Semantics

A bucket {attempts, first_attempt_at} starts with the first recorded attempt.
Attempts accumulate until the window has elapsed since first_attempt_at; the
bucket is then stale. A stale bucket counts as absent, and [Limiter.IsBlocked]
deletes it when it reads one, so a blocked key unblocks on its own once the
window passes.

The per-IP request limiter of the HTTP server is a different mechanism (token
bucket, see the middleware package). This package counts discrete attempts.
*/
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Bucket is the persisted state of one key.
type Bucket struct {
	Attempts       int       `json:"attempts"`
	FirstAttemptAt time.Time `json:"first_attempt_at"`
}

// stale reports whether the window has elapsed since the first attempt.
func (bucket *Bucket) stale(now time.Time, window time.Duration) bool {
	return now.Sub(bucket.FirstAttemptAt) > window
}

// BucketStore persists buckets by key.
//
// Get returns (nil, nil) for an absent key. ttl on Put is a hint for
// stores that expire keys on their own.
type BucketStore interface {
	Get(ctx context.Context, key string) (*Bucket, error)
	Put(ctx context.Context, key string, bucket *Bucket, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Limiter applies the sliding window rules over a [BucketStore].
type Limiter struct {
	store  BucketStore
	logger *slog.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// New builds a limiter over store.
func New(store BucketStore, logger *slog.Logger) *Limiter {
	return &Limiter{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the time source. It is meant for tests.
func (limiter *Limiter) WithClock(now func() time.Time) *Limiter {
	limiter.now = now
	return limiter
}

/*
IsBlocked reports whether key has reached maxAttempts within window.

A missing or stale bucket is not blocked. A stale bucket is deleted on read.

Parameters:
  - ctx: context.Context
  - key: string (e.g. "login_ana@example.com")
  - maxAttempts: int
  - window: time.Duration

Returns:
  - bool: true when further attempts must be refused
  - error: storage failure
*/
func (limiter *Limiter) IsBlocked(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	bucket, err := limiter.store.Get(ctx, key)
	if err != nil || bucket == nil {
		return false, err
	}

	if bucket.stale(limiter.now(), window) {
		if err := limiter.store.Delete(ctx, key); err != nil {
			return false, err
		}
		limiter.logger.DebugContext(ctx, "rate_limit_window_reset", slog.String("key", key))
		return false, nil
	}

	return bucket.Attempts >= maxAttempts, nil
}

// RecordAttempt counts one attempt for key, opening a new window when there
// is no live bucket.
func (limiter *Limiter) RecordAttempt(ctx context.Context, key string, window time.Duration) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()

	bucket, err := limiter.store.Get(ctx, key)
	if err != nil {
		return err
	}

	if bucket == nil || bucket.stale(now, window) {
		bucket = &Bucket{Attempts: 1, FirstAttemptAt: now}
	} else {
		bucket.Attempts++
	}

	return limiter.store.Put(ctx, key, bucket, remaining(bucket, now, window))
}

// RemainingTime returns how long until the current window of key closes,
// or zero when there is no live bucket.
func (limiter *Limiter) RemainingTime(ctx context.Context, key string, window time.Duration) (time.Duration, error) {
	bucket, err := limiter.store.Get(ctx, key)
	if err != nil || bucket == nil {
		return 0, err
	}
	return remaining(bucket, limiter.now(), window), nil
}

// Reset forgets key, typically after a successful attempt.
func (limiter *Limiter) Reset(ctx context.Context, key string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	return limiter.store.Delete(ctx, key)
}

func remaining(bucket *Bucket, now time.Time, window time.Duration) time.Duration {
	left := window - now.Sub(bucket.FirstAttemptAt)
	if left < 0 {
		return 0
	}
	return left
}
