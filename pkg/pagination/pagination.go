// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters,
// how the backend's paginated list bodies are decoded, and how the resulting
// metadata is delivered in the portal's response envelope.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/SamirJoseGil/360Lateral-sub000/pkg/query"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage bounds the page number so offsets cannot overflow.
	MaxPage = 100_000
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the zero-based index of the first item of [Page].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Normalize replaces unset or negative values with the defaults and clamps
// oversized ones to [MaxPage] and [MaxLimit].
func (p Params) Normalize() Params {
	switch {
	case p.Page < 1:
		p.Page = DefaultPage
	case p.Page > MaxPage:
		p.Page = MaxPage
	}

	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

// Query encodes p the way the backend expects it (page, page_size).
func (p Params) Query() url.Values {
	normalized := p.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("page_size", strconv.Itoa(normalized.Limit))
	return values
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Page is the backend's paginated list body: {count, next, previous, results}.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Meta derives portal metadata for a backend page fetched with params.
func (p Page[T]) Meta(params Params) Meta {
	normalized := params.Normalize()
	return NewMeta(normalized.Page, normalized.Limit, p.Count)
}

// HasNext reports whether the backend advertised a following page.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or non-positive values fall back to [DefaultPage] and
// [DefaultLimit]. Excessive values are clamped to [MaxPage] and [MaxLimit].
func FromRequest(r *http.Request) Params {
	values := r.URL.Query()
	page := query.Int(values, "page", DefaultPage)
	limit := query.Int(values, "limit", DefaultLimit)

	return Params{Page: page, Limit: limit}.Normalize()
}
