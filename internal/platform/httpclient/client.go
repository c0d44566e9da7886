// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package httpclient is the single entry point for calls to the 360Lateral REST
backend.

# Contract

  - Every request carries "Content-Type: application/json".
  - A bearer token is attached when the [TokenSource] holds a usable one.
    Expired tokens are never transmitted.
  - Every request is bounded by the client timeout. Exceeding it yields an
    [apperr.KindTimeout] error with status 408.
  - Transport failures yield [apperr.KindNetwork] with status 0.
  - Non-2xx responses yield [apperr.KindHTTP] carrying the real status and,
    when the body is parseable, the backend's message and field errors.

Callers therefore handle exactly one error type, [*apperr.AppError].
*/
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ctxutil"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 2 * 1024 * 1024

// TokenSource yields the bearer token for outgoing requests.
//
// Implementations return "" when there is no token or the token is expired.
type TokenSource interface {
	UsableAccessToken(ctx context.Context) string
}

// Client performs JSON requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  TokenSource
	logger  *slog.Logger
}

/*
New creates a client rooted at baseURL.

Parameters:
  - baseURL: string (scheme and host, trailing slashes are ignored)
  - timeout: time.Duration (non-positive selects [constants.BackendRequestTimeout])
  - tokens: TokenSource (may be nil for anonymous clients)
  - logger: *slog.Logger

Returns:
  - *Client
*/
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = constants.BackendRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: timeout,
		tokens:  tokens,
		logger:  logger,
	}
}

// WithTokens returns a copy of the client bound to another token source.
// The underlying connection pool is shared.
func (client *Client) WithTokens(tokens TokenSource) *Client {
	clone := *client
	clone.tokens = tokens
	return &clone
}

// BaseURL returns the normalized backend root.
func (client *Client) BaseURL() string { return client.baseURL }

// # Request Options

type callOptions struct {
	skipAuth bool
	query    url.Values
}

// Option adjusts a single call.
type Option func(*callOptions)

// WithoutAuth suppresses the bearer header even if a token is available.
func WithoutAuth() Option {
	return func(options *callOptions) { options.skipAuth = true }
}

// WithQuery appends query parameters to the request URL.
func WithQuery(values url.Values) Option {
	return func(options *callOptions) { options.query = values }
}

// # Verb Helpers

func (client *Client) Get(ctx context.Context, path string, out any, options ...Option) error {
	return client.Do(ctx, http.MethodGet, path, nil, out, options...)
}

func (client *Client) Post(ctx context.Context, path string, body, out any, options ...Option) error {
	return client.Do(ctx, http.MethodPost, path, body, out, options...)
}

func (client *Client) Put(ctx context.Context, path string, body, out any, options ...Option) error {
	return client.Do(ctx, http.MethodPut, path, body, out, options...)
}

func (client *Client) Patch(ctx context.Context, path string, body, out any, options ...Option) error {
	return client.Do(ctx, http.MethodPatch, path, body, out, options...)
}

func (client *Client) Delete(ctx context.Context, path string, out any, options ...Option) error {
	return client.Do(ctx, http.MethodDelete, path, nil, out, options...)
}

/*
Do sends one request and decodes a 2xx JSON body into out.

Parameters:
  - ctx: context.Context
  - method: string
  - path: string (joined to the base URL)
  - body: any (JSON-encoded when non-nil)
  - out: any (decode target, nil to discard the body)
  - options: ...Option

Returns:
  - error: always a *apperr.AppError when non-nil
*/
func (client *Client) Do(ctx context.Context, method, path string, body, out any, options ...Option) error {

	settings := callOptions{}
	for _, option := range options {
		option(&settings)
	}

	// ── 1. Encode payload ──
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Internal(fmt.Errorf("httpclient_encode_body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	// ── 2. Build request under the client timeout ──
	callCtx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(callCtx, method, client.resolve(path, settings.query), reader)
	if err != nil {
		return apperr.Internal(fmt.Errorf("httpclient_build_request: %w", err))
	}

	request.Header.Set(constants.HeaderContentType, constants.MIMEApplicationJSON)
	request.Header.Set("Accept", constants.MIMEApplicationJSON)

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	if !settings.skipAuth && client.tokens != nil {
		if token := client.tokens.UsableAccessToken(ctx); token != "" {
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
		}
	}

	// ── 3. Execute ──
	started := time.Now()
	response, err := client.http.Do(request)
	if err != nil {
		client.logger.DebugContext(ctx, "backend_call_failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("latency", time.Since(started)),
			slog.Any("error", err),
		)
		return transportError(callCtx, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return transportError(callCtx, err)
	}

	client.logger.DebugContext(ctx, "backend_call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Duration("latency", time.Since(started)),
	)

	// ── 4. Map status ──
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return parseErrorBody(response.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.MalformedResponse("The server returned an unreadable response", err)
	}
	return nil
}

// resolve joins path to the base URL and appends query.
func (client *Client) resolve(path string, query url.Values) string {
	trimmed := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	target := client.baseURL + trimmed
	if len(query) > 0 {
		separator := "?"
		if strings.Contains(target, "?") {
			separator = "&"
		}
		target += separator + query.Encode()
	}
	return target
}

// transportError classifies a failure that produced no HTTP response.
func transportError(callCtx context.Context, err error) *apperr.AppError {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Timeout(err)
	}

	return apperr.Network(err)
}
