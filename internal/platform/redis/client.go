// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client behind the portal's volatile state.

It backs the data that must outlive a single process or be shared between
replicas: browser sessions (tokens and cached profile), login throttling
buckets and cached MapGIS lookups. Everything stored here carries a TTL.

When no REDIS_URL is configured the portal falls back to in-memory stores and
this package is not used.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations. Session reads sit on the request
// path, so they are kept well below the backend timeout.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 1 * time.Second
	writeTimeout = 1 * time.Second
	pingTimeout  = 2 * time.Second
)

/*
NewClient parses a Redis URL and returns a connected client.

Parameters:
  - ctx: context.Context (bounds the initial ping)
  - redisURL: string (redis:// or rediss://)
  - logger: *slog.Logger

Returns:
  - *redis.Client
  - error: Invalid URL or unreachable server
*/
func NewClient(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	tune(options)

	client := redis.NewClient(options)

	// Fail at startup rather than on the first login.
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// tune applies pool sizes and timeouts the URL did not set.
func tune(options *redis.Options) {
	if options.PoolSize == 0 {
		options.PoolSize = 10
	}
	if options.MinIdleConns == 0 {
		options.MinIdleConns = 2
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = dialTimeout
	}
	if options.ReadTimeout == 0 {
		options.ReadTimeout = readTimeout
	}
	if options.WriteTimeout == 0 {
		options.WriteTimeout = writeTimeout
	}
}

// Ping verifies that the Redis server answers within pingTimeout.
func Ping(ctx context.Context, client *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
