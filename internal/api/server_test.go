// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/api"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/config"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ratelimit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/testkit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/portal"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"
)

// newBackend fakes the REST backend for one admin account.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	access := testkit.Token(t, time.Hour)
	user := `{"id": 1, "email": "admin@lateral.co", "first_name": "Ana", "role": "admin", "is_active": true}`

	router := chi.NewRouter()
	router.Post("/auth/login/", func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`{"message": "ok", "user": ` + user + `, "tokens": {"access": "` + access + `", "refresh": "r1"}}`))
	})
	router.Post("/auth/logout/", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	router.Get("/users/", func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer "+access {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = writer.Write([]byte(`{"count": 1, "next": null, "previous": null, "results": [` + user + `]}`))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newPortal(t *testing.T) http.Handler {
	t.Helper()
	backend := newBackend(t)
	logger := testkit.Logger()

	cfg := &config.Config{
		ServerPort:     "0",
		Environment:    "development",
		BackendURL:     backend.URL,
		RequestTimeout: time.Second,
		SessionTTL:     time.Hour,
		SessionIdleTTL: time.Hour,
		SessionCookie:  "lateral_sid",
	}

	registry := portal.NewRegistry(portal.Dependencies{
		Client:         httpclient.New(cfg.BackendURL, cfg.RequestTimeout, nil, logger),
		SessionTTL:     cfg.SessionTTL,
		IdleTTL:        cfg.SessionIdleTTL,
		Limiter:        ratelimit.New(ratelimit.NewMemoryStore(), logger),
		LoginPolicy:    auth.DefaultLoginPolicy(),
		MapGISCache:    mapgis.NewMemoryCache(),
		MapGISCacheTTL: time.Hour,
		Logger:         logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := api.NewHealthHandlers(nil, logger)
	handlers := api.NewHandlers(registry, api.CookieSettings(cfg), liveness, readiness)
	server := api.NewServer(ctx, cfg, logger, registry, handlers)
	return server.Handler()
}

// browser replays the session cookie like a real browser would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if b.cookie != nil {
		request.AddCookie(b.cookie)
	}

	recorder := httptest.NewRecorder()
	b.handler.ServeHTTP(recorder, request)

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == "lateral_sid" {
			b.cookie = cookie
		}
	}
	return recorder
}

/*
TestServer_SessionFlow logs in through the portal and uses the session for a
protected route, then logs out.
*/
func TestServer_SessionFlow(t *testing.T) {
	client := &browser{t: t, handler: newPortal(t)}

	// ── 1. Anonymous ──
	response := client.do(http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusUnauthorized, response.Code)
	require.NotNil(t, client.cookie)

	// ── 2. Login ──
	anonymous := client.cookie.Value
	response = client.do(http.MethodPost, "/api/v1/auth/login", `{"email": "admin@lateral.co", "password": "secret123"}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var login struct {
		Data auth.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &login))
	assert.Equal(t, "/admin", login.Data.RedirectTo)
	assert.NotContains(t, response.Body.String(), "r1")
	assert.NotEqual(t, anonymous, client.cookie.Value)

	// ── 3. Protected route ──
	response = client.do(http.MethodGet, "/api/v1/users?page=1", "")
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.Contains(t, response.Body.String(), `"total":1`)

	// ── 4. Logout ──
	response = client.do(http.MethodPost, "/api/v1/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, response.Code)

	response = client.do(http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusUnauthorized, response.Code)
}

/*
TestServer_SessionsAreIsolated keeps one browser's login away from another.
*/
func TestServer_SessionsAreIsolated(t *testing.T) {
	handler := newPortal(t)
	first := &browser{t: t, handler: handler}
	second := &browser{t: t, handler: handler}

	response := first.do(http.MethodPost, "/api/v1/auth/login", `{"email": "admin@lateral.co", "password": "secret123"}`)
	require.Equal(t, http.StatusOK, response.Code)

	assert.Equal(t, http.StatusOK, first.do(http.MethodGet, "/api/v1/users", "").Code)
	assert.Equal(t, http.StatusUnauthorized, second.do(http.MethodGet, "/api/v1/users", "").Code)
}

/*
TestServer_LoginRotatesPlantedSession stops a session id handed to the victim
before login from becoming an authenticated session.
*/
func TestServer_LoginRotatesPlantedSession(t *testing.T) {
	handler := newPortal(t)

	// ── 1. Attacker obtains a server-issued id ──
	attacker := &browser{t: t, handler: handler}
	require.Equal(t, http.StatusOK, attacker.do(http.MethodGet, "/api/v1/auth/session", "").Code)
	planted := attacker.cookie.Value

	// ── 2. Victim signs in carrying the planted id ──
	victim := &browser{t: t, handler: handler, cookie: &http.Cookie{Name: "lateral_sid", Value: planted}}
	response := victim.do(http.MethodPost, "/api/v1/auth/login", `{"email": "admin@lateral.co", "password": "secret123"}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.NotEqual(t, planted, victim.cookie.Value)

	// ── 3. Only the victim is signed in ──
	assert.Equal(t, http.StatusOK, victim.do(http.MethodGet, "/api/v1/users", "").Code)
	assert.Equal(t, http.StatusUnauthorized, attacker.do(http.MethodGet, "/api/v1/users", "").Code)
}

/*
TestServer_RejectsChosenSessionID replaces a well-formed id the server never issued.
*/
func TestServer_RejectsChosenSessionID(t *testing.T) {
	chosen := "0190b5e2-7c3a-7000-8000-000000000001"
	client := &browser{t: t, handler: newPortal(t), cookie: &http.Cookie{Name: "lateral_sid", Value: chosen}}

	response := client.do(http.MethodPost, "/api/v1/auth/login", `{"email": "admin@lateral.co", "password": "secret123"}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.NotEqual(t, chosen, client.cookie.Value)

	replay := &browser{t: t, handler: client.handler, cookie: &http.Cookie{Name: "lateral_sid", Value: chosen}}
	assert.Equal(t, http.StatusUnauthorized, replay.do(http.MethodGet, "/api/v1/users", "").Code)
}

/*
TestHealth reports liveness and failing readiness checks.
*/
func TestHealth(t *testing.T) {
	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: "redis", Probe: func(context.Context) error { return nil }},
		{Name: "backend", Probe: func(context.Context) error { return errors.New("down") }},
	}, testkit.Logger())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
	assert.Contains(t, recorder.Body.String(), `"down"`)
}
