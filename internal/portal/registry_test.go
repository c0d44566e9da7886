// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package portal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ctxutil"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/middleware"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ratelimit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/testkit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/portal"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRegistry(redisClient *redis.Client) (*portal.Registry, *clock) {
	logger := testkit.Logger()
	fake := &clock{now: time.Unix(1_800_000_000, 0)}

	registry := portal.NewRegistry(portal.Dependencies{
		Client:         httpclient.New("http://backend.invalid", time.Second, nil, logger),
		Redis:          redisClient,
		SessionTTL:     time.Hour,
		IdleTTL:        30 * time.Minute,
		Limiter:        ratelimit.New(ratelimit.NewMemoryStore(), logger),
		LoginPolicy:    auth.DefaultLoginPolicy(),
		MapGISCache:    mapgis.NewMemoryCache(),
		MapGISCacheTTL: time.Hour,
		Logger:         logger,
	}).WithClock(fake.Now)

	return registry, fake
}

/*
TestRegistry_SharedWorkspace returns one workspace per session id, even under
concurrent first use.
*/
func TestRegistry_SharedWorkspace(t *testing.T) {
	registry, _ := newRegistry(nil)

	var wg sync.WaitGroup
	results := make([]*portal.Workspace, 20)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = registry.Workspace("sid-a")
		}()
	}
	wg.Wait()

	for _, workspace := range results {
		assert.Same(t, results[0], workspace)
	}
	assert.NotSame(t, results[0], registry.Workspace("sid-b"))
	assert.Equal(t, 2, registry.Len())
}

/*
TestRegistry_Sweep evicts only idle workspaces.
*/
func TestRegistry_Sweep(t *testing.T) {
	registry, fake := newRegistry(nil)

	registry.Workspace("idle")
	fake.Advance(20 * time.Minute)
	registry.Workspace("active")
	fake.Advance(15 * time.Minute)

	assert.Equal(t, 1, registry.Sweep())
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 0, registry.Sweep())
}

/*
TestRegistry_RedisSurvivesEviction rebuilds an evicted workspace from Redis.
*/
func TestRegistry_RedisSurvivesEviction(t *testing.T) {
	server, redisClient := testkit.Redis(t)
	registry, fake := newRegistry(redisClient)
	ctx := context.Background()

	access := testkit.Token(t, time.Hour)
	first := registry.Workspace("sid-redis")
	require.NoError(t, first.Tokens.Establish(ctx, session.Pair{Access: access, Refresh: "refresh"}, &account.User{Email: "ana@lateral.co"}))
	assert.True(t, server.Exists("lateral:session:sid-redis"))

	fake.Advance(time.Hour)
	require.Equal(t, 1, registry.Sweep())

	second := registry.Workspace("sid-redis")
	assert.NotSame(t, first, second)
	assert.Equal(t, access, second.Tokens.AccessToken(ctx))
	assert.True(t, second.Auth.IsAuthenticated(ctx))
}

/*
TestRegistry_Resolvers require a browser session on the request.
*/
func TestRegistry_Resolvers(t *testing.T) {
	registry, _ := newRegistry(nil)

	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := registry.AuthResolver()(anonymous)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	assert.False(t, registry.Authenticated(anonymous))

	request := anonymous.WithContext(ctxutil.WithSessionID(anonymous.Context(), "sid-c"))
	workspace := registry.Workspace("sid-c")

	authService, err := registry.AuthResolver()(request)
	require.NoError(t, err)
	assert.Same(t, workspace.Auth, authService)

	accounts, err := registry.AccountResolver()(request)
	require.NoError(t, err)
	assert.Same(t, workspace.Accounts, accounts)

	lotService, err := registry.LotResolver()(request)
	require.NoError(t, err)
	assert.Same(t, workspace.Lots, lotService)

	documentService, err := registry.DocumentResolver()(request)
	require.NoError(t, err)
	assert.Same(t, workspace.Documents, documentService)

	lookup, err := registry.MapGISResolver()(request)
	require.NoError(t, err)
	assert.Same(t, workspace.MapGIS, lookup)

	assert.False(t, registry.Authenticated(request))
}

/*
TestRegistry_Run stops with its context.
*/
func TestRegistry_Run(t *testing.T) {
	registry, _ := newRegistry(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		registry.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

/*
TestRegistry_Known accepts live and persisted sessions only.
*/
func TestRegistry_Known(t *testing.T) {
	ctx := context.Background()

	memory, _ := newRegistry(nil)
	assert.False(t, memory.Known(ctx, "sid-new"))
	assert.Equal(t, 0, memory.Len())

	memory.Workspace("sid-new")
	assert.True(t, memory.Known(ctx, "sid-new"))

	server, redisClient := testkit.Redis(t)
	persisted, _ := newRegistry(redisClient)
	require.NoError(t, server.Set("lateral:session:sid-stored", `{"access_token": "a"}`))

	assert.True(t, persisted.Known(ctx, "sid-stored"))
	assert.False(t, persisted.Known(ctx, "sid-other"))
}

/*
TestRegistry_Rotate moves a signed-in session under a new id and forgets the
old one.
*/
func TestRegistry_Rotate(t *testing.T) {
	server, redisClient := testkit.Redis(t)
	registry, _ := newRegistry(redisClient)
	ctx := context.Background()

	// ── 1. Unknown or anonymous sessions cannot rotate ──
	_, err := registry.Rotate(ctx, "sid-missing")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))

	registry.Workspace("sid-anon")
	_, err = registry.Rotate(ctx, "sid-anon")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))

	// ── 2. Signed-in session moves ──
	access := testkit.Token(t, time.Hour)
	planted := registry.Workspace("sid-planted")
	require.NoError(t, planted.Tokens.Establish(ctx, session.Pair{Access: access, Refresh: "refresh"}, nil))

	rotated, err := registry.Rotate(ctx, "sid-planted")
	require.NoError(t, err)
	assert.NotEqual(t, "sid-planted", rotated)

	assert.False(t, server.Exists("lateral:session:sid-planted"))
	assert.True(t, server.Exists("lateral:session:"+rotated))
	assert.False(t, registry.Known(ctx, "sid-planted"))
	assert.True(t, registry.Known(ctx, rotated))

	// ── 3. Only the new id is authenticated ──
	assert.True(t, registry.Workspace(rotated).Auth.IsAuthenticated(ctx))
	assert.False(t, registry.Workspace("sid-planted").Auth.IsAuthenticated(ctx))
}

/*
TestRegistry_SessionRotator sends the rotated id as the session cookie.
*/
func TestRegistry_SessionRotator(t *testing.T) {
	registry, _ := newRegistry(nil)
	ctx := context.Background()

	workspace := registry.Workspace("sid-login")
	require.NoError(t, workspace.Tokens.Establish(ctx, session.Pair{Access: testkit.Token(t, time.Hour), Refresh: "r"}, nil))

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	request = request.WithContext(ctxutil.WithSessionID(request.Context(), "sid-login"))
	recorder := httptest.NewRecorder()

	rotate := registry.SessionRotator(middleware.CookieSettings{Name: "lateral_sid", MaxAge: time.Hour})
	require.NoError(t, rotate(recorder, request))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "lateral_sid", cookies[0].Name)
	assert.NotEqual(t, "sid-login", cookies[0].Value)
	assert.True(t, registry.Known(ctx, cookies[0].Value))
	assert.False(t, registry.Known(ctx, "sid-login"))
}
