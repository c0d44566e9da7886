// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire portal.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Backend Access: Client timeout and backend endpoint paths.
  - Rate Limiting: Burst capacities, IP tracking TTLs and login throttling.
  - Sessions: Cookie names and Redis key prefixes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lateral-portal"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// It must exceed BackendRequestTimeout so proxied calls can report their own timeout.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Backend Access

const (
	// BackendRequestTimeout bounds every call to the REST backend.
	BackendRequestTimeout = 10 * time.Second

	PathLogin          = "/auth/login/"
	PathRegister       = "/auth/register/"
	PathLogout         = "/auth/logout/"
	PathProfile        = "/users/me/"
	PathUsers          = "/users/"
	PathLots           = "/lotes/"
	PathDocumentList   = "/documents/validation/list/"
	PathDocumentAction = "/documents/validation/%s/action/"
	PathMapGISCBML     = "/mapgis/consulta/cbml/%s/"

	// MaxDocumentGroupPages caps the backend pages read to group documents by lot.
	MaxDocumentGroupPages = 20
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// DefaultLoginMaxAttempts is the number of failed logins tolerated per window.
	DefaultLoginMaxAttempts = 5

	// DefaultLoginWindow is the sliding window for login throttling.
	DefaultLoginWindow = 15 * time.Minute

	// LoginRateKeyPrefix namespaces login buckets (login_<email>).
	LoginRateKeyPrefix = "login_"
)

// # Sessions

const (
	// SessionCookieName is the default name of the browser session cookie.
	SessionCookieName = "lateral_sid"

	// SessionJanitorInterval is how often idle workspaces are evicted.
	SessionJanitorInterval = 1 * time.Minute

	// DefaultSessionKey is the store key used by single-session clients (CLI).
	DefaultSessionKey = "default"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderXTruncated    = "X-Results-Truncated"
	MIMEApplicationJSON = "application/json"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession   = "lateral:session:"
	RedisPrefixRateLimit = "lateral:ratelimit:"
	RedisPrefixMapGIS    = "lateral:mapgis:"
)
