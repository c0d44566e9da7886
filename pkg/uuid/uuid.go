// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues and checks the opaque identifiers the portal hands out
(browser session ids and request ids).

Identifiers are UUIDv7: time-ordered, so session keys in Redis and request ids
in logs sort by creation time.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string, falling back to a random v4 if the
// v7 generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// # Validation

// Valid reports whether s is a canonical UUID string. Session cookies that
// fail this check are replaced rather than used as store keys.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	return uuid.Validate(s) == nil
}
