// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities (Filter, GroupBy, Window) leveraging generics.
*/
package slice

// Filter filters a slice, returning only elements where the predicate function evaluates to true.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	// Not pre-allocating to full length to avoid excessive memory on heavy filters
	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// GroupBy partitions input by key. Keys are returned in order of first
// appearance and each group keeps the input order.
func GroupBy[T any, K comparable](input []T, key func(T) K) ([]K, map[K][]T) {
	var keys []K
	groups := make(map[K][]T)

	for _, v := range input {
		k := key(v)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], v)
	}

	return keys, groups
}

// Window returns input[offset:offset+limit], clamped to the slice bounds.
func Window[T any](input []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(input) || limit <= 0 {
		return []T{}
	}

	end := offset + limit
	if end > len(input) {
		end = len(input)
	}
	return input[offset:end]
}
