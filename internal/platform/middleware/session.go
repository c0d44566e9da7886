// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ctxutil"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/respond"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/uuid"
)

// CookieSettings configures the browser session cookie.
type CookieSettings struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

/*
SessionCookie assigns every browser an opaque session id.

# Flow
 1. Reuse the id of the incoming cookie when it is a well-formed UUID that
    known reports as issued by this server.
 2. Otherwise mint a new one and set the cookie (HttpOnly, SameSite=Lax).
 3. Inject the id into the request context.

Ids picked by the client are never adopted. Backend tokens never reach the
browser; this id is the only thing it holds.
*/
func SessionCookie(settings CookieSettings, known func(ctx context.Context, id string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Existing Session ──
			cookie, err := request.Cookie(settings.Name)
			if err == nil && uuid.Valid(cookie.Value) && known(request.Context(), cookie.Value) {
				ctx := ctxutil.WithSessionID(request.Context(), cookie.Value)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 2. New Session ──
			id := uuid.New()
			SetSessionCookie(writer, settings, id)

			// ── 3. Context Injection ──
			ctx := ctxutil.WithSessionID(request.Context(), id)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// SetSessionCookie writes the session cookie carrying id.
func SetSessionCookie(writer http.ResponseWriter, settings CookieSettings, id string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     settings.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(settings.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth blocks requests whose session is not authenticated.
//
// # Usage
//
// Must be registered AFTER [SessionCookie]. The check is local: it inspects
// the stored access token and never calls the backend.
func RequireAuth(authenticated func(request *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !authenticated(request) {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
