// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the client-side security primitives of the portal.
//
// # Architecture
//
// This package isolates role mapping, the capability table and JWT inspection
// from the services that use them. Nothing here verifies signatures: tokens
// are issued and verified by the backend, and the checks below are hints that
// let the portal avoid requests that are bound to fail.
package sec

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of the backend's access-token payload the portal reads.
type TokenClaims struct {
	jwt.RegisteredClaims

	// UserID is the backend's user identifier claim (numeric or UUID).
	UserID any `json:"user_id,omitempty"`
}

// parser decodes tokens without verifying them.
var parser = jwt.NewParser()

// InspectToken decodes the payload segment of token without verifying its
// signature.
func InspectToken(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// IsTokenExpired reports whether token should be treated as expired at now.
//
// # Fail-closed
//
// A token is considered valid only when it decodes cleanly and carries an
// exp claim strictly after now. Wrong segment counts, bad base64, bad JSON
// and a missing exp all report true.
func IsTokenExpired(token string, now time.Time) bool {
	claims, err := InspectToken(token)
	if err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return true
	}

	return !claims.ExpiresAt.Time.After(now)
}
