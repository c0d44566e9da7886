// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mapgis looks up parcel data from the municipal GIS (MapGIS) through the
backend, keyed by CBML cadastral code.

# Caching

Results are cached per CBML for a configurable TTL. MapGIS answers change
rarely and the backend scrapes them on demand, so repeated lookups of the same
parcel are served from the cache. Cache failures never fail a lookup: they are
logged and the backend is asked directly.

The response body is kept as raw JSON. Its shape is owned by the backend.
*/
package mapgis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/validate"
)

// FieldCBML names the CBML in validation errors.
const FieldCBML = "cbml"

// Result is one MapGIS lookup.
type Result struct {
	CBML   string          `json:"cbml"`
	Data   json.RawMessage `json:"data"`
	Cached bool            `json:"cached"`
}

// Cache stores raw lookup bodies by CBML.
//
// Get reports found=false for a missing or expired entry.
type Cache interface {
	Get(ctx context.Context, cbml string) (raw []byte, found bool, err error)
	Set(ctx context.Context, cbml string, raw []byte, ttl time.Duration) error
}

// Service performs cached CBML lookups.
type Service struct {
	client *httpclient.Client
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewService builds a lookup service. cache may be nil to disable caching.
func NewService(client *httpclient.Client, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{client: client, cache: cache, ttl: ttl, logger: logger}
}

/*
LookupCBML returns the MapGIS data of a parcel.

Parameters:
  - ctx: context.Context
  - cbml: string (10 to 14 digits)

Returns:
  - *Result
  - error: Validation or backend errors
*/
func (service *Service) LookupCBML(ctx context.Context, cbml string) (*Result, error) {
	cbml = strings.TrimSpace(cbml)

	validator := &validate.Validator{}
	if err := validator.CBML(FieldCBML, cbml).Err(); err != nil {
		return nil, err
	}

	// ── 1. Cache ──
	if raw, found := service.cached(ctx, cbml); found {
		return &Result{CBML: cbml, Data: raw, Cached: true}, nil
	}

	// ── 2. Backend ──
	var raw json.RawMessage
	path := fmt.Sprintf(constants.PathMapGISCBML, url.PathEscape(cbml))
	if err := service.client.Get(ctx, path, &raw); err != nil {
		return nil, err
	}

	// ── 3. Store successful answers only ──
	if service.cache != nil && cacheable(raw) {
		if err := service.cache.Set(ctx, cbml, raw, service.ttl); err != nil {
			service.logger.WarnContext(ctx, "mapgis_cache_write_failed", slog.String("cbml", cbml), slog.Any("error", err))
		}
	}

	return &Result{CBML: cbml, Data: raw}, nil
}

func (service *Service) cached(ctx context.Context, cbml string) ([]byte, bool) {
	if service.cache == nil {
		return nil, false
	}

	raw, found, err := service.cache.Get(ctx, cbml)
	if err != nil {
		service.logger.WarnContext(ctx, "mapgis_cache_read_failed", slog.String("cbml", cbml), slog.Any("error", err))
		return nil, false
	}
	return raw, found
}

// cacheable rejects empty bodies and bodies flagged {"success": false}.
func cacheable(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}

	var envelope struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		// Not an object: arrays and scalars are cached as-is.
		return true
	}
	return envelope.Success == nil || *envelope.Success
}
