// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textkey derives comparison keys from Spanish free text.
//
// # Usage
//
// Lot names and owner names arrive with inconsistent accents and casing
// ("Lote Álamo", "lote alamo"). Keys produced here compare equal for both,
// which makes them suitable for sorting, grouping and substring search.
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold converts s into an accent-insensitive, lowercase key.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents). ñ becomes n.
// 3. Converts to lowercase.
// 4. Collapses runs of whitespace into single spaces and trims.
func Fold(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	// 2. Lowercase and collapse whitespace
	return strings.Join(strings.Fields(strings.ToLower(result)), " ")
}

// Contains reports whether needle occurs in haystack, ignoring accents and case.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Less orders a before b by their folded keys, falling back to the raw
// strings so the order is total.
func Less(a, b string) bool {
	ka, kb := Fold(a), Fold(b)
	if ka != kb {
		return ka < kb
	}
	return a < b
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
