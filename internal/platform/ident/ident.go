// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ident holds the opaque identifier type shared by backend entities.
package ident

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque backend identifier.
//
// Depending on the endpoint the backend serializes ids as JSON numbers or as
// UUID strings. Both decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("ident: invalid id: %w", err)
		}
		*id = ID(raw)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("ident: id must be a string or number: %w", err)
	}
	*id = ID(number.String())
	return nil
}

// String returns the identifier as used in URLs.
func (id ID) String() string { return string(id) }
