// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for the portal.

It provides a rich error type that bridges the gap between low-level transport
failures, backend error bodies, and the uniform error shape rendered to callers.

Architecture:

  - AppError: A struct containing a machine-readable Code, a [Kind] and a
    user-friendly message.
  - Shape: Every AppError serializes to {error, message, status_code, field_errors}
    regardless of whether it was raised locally or decoded from the backend.
  - Mapping: Explicit constructors per error kind with fixed status sentinels
    (0 for network failures, 408 for client timeouts).

Every error that leaves the service layer should be an [AppError] so that
calling code has exactly one error-handling path.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an [AppError] independently of its wire code.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindRateLimited       Kind = "rate_limited"
	KindNetwork           Kind = "network"
	KindTimeout           Kind = "timeout"
	KindHTTP              Kind = "http"
	KindMalformedResponse Kind = "malformed_response"
	KindInternal          Kind = "internal"
)

// StatusNetworkError is the status sentinel for requests that never reached the server.
const StatusNetworkError = 0

// AppError is the canonical error type for the portal.
//
// # Security
//
// The Cause field is for server-side logging only and is never serialized.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NETWORK_ERROR").
	Code string `json:"error"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the status code, or a sentinel for network/timeout failures.
	HTTPStatus int `json:"status_code"`
	// Details holds per-field validation errors.
	Details []FieldError `json:"field_errors,omitempty"`
	// Kind classifies the failure.
	Kind Kind `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Local Failures

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
		Kind:       KindValidation,
	}
}

// Unauthenticated creates a 401 [AppError] for operations attempted without
// a usable session. It is raised locally, before any network call.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
		Kind:       KindUnauthenticated,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
		Kind:       KindForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Lot") // Returns "Lot not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Kind:       KindNotFound,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many attempts. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
		Kind:       KindRateLimited,
	}
}

// # Transport Failures

// Network creates an [AppError] for requests that could not reach the server.
func Network(cause error) *AppError {
	return &AppError{
		Code:       "NETWORK_ERROR",
		Message:    "Could not reach the server. The backend may be unreachable.",
		HTTPStatus: StatusNetworkError,
		Kind:       KindNetwork,
		Cause:      cause,
	}
}

// Timeout creates a 408 [AppError] for requests that exceeded the client timeout.
func Timeout(cause error) *AppError {
	return &AppError{
		Code:       "TIMEOUT",
		Message:    "The request took too long to complete",
		HTTPStatus: http.StatusRequestTimeout,
		Kind:       KindTimeout,
		Cause:      cause,
	}
}

// HTTP creates an [AppError] for a non-2xx backend response.
//
// Empty code or message fall back to values derived from the status.
func HTTP(status int, code, msg string, details ...FieldError) *AppError {
	if code == "" {
		code = "HTTP_ERROR"
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", status)
	}
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: status,
		Details:    details,
		Kind:       KindHTTP,
	}
}

// MalformedResponse creates a 502 [AppError] for 2xx responses whose body
// lacks the expected fields.
func MalformedResponse(msg string, cause error) *AppError {
	return &AppError{
		Code:       "MALFORMED_RESPONSE",
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
		Kind:       KindMalformedResponse,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Kind:       KindInternal,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsKind reports whether err carries an [*AppError] of the given kind.
func IsKind(err error, kind Kind) bool {
	ae := As(err)
	return ae != nil && ae.Kind == kind
}
