// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package testkit holds helpers shared by package tests: JWT minting, quiet
// loggers and a Redis fake.
package testkit

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// signingKey only needs to be stable: the portal never verifies signatures.
var signingKey = []byte("testkit-signing-key")

// Token mints an HS256 JWT whose exp is ttl from now. A negative ttl yields an
// expired token.
func Token(t testing.TB, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"exp":        time.Now().Add(ttl).Unix(),
		"token_type": "access",
		"user_id":    7,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Redis starts a miniredis server and a client connected to it. Both are
// closed when the test ends.
func Redis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return server, client
}
