// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query reads typed values from URL query strings.

Every helper is fault-tolerant: malformed input yields the default rather
than an error, which suits optional filters on list endpoints. Do not use it
where a malformed value must be reported to the caller.
*/
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Bool reports whether values[key] parses as true ("1", "true", "t", ...).
func Bool(values url.Values, key string) bool {
	v, _ := strconv.ParseBool(values.Get(key))
	return v
}

// Int returns values[key] as an int, or def when absent or malformed.
func Int(values url.Values, key string, def int) int {
	raw := values.Get(key)
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}

// String returns the trimmed values[key].
func String(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}
