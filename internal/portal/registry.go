// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package portal

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/documents"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/lots"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ctxutil"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/middleware"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ratelimit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"
	"github.com/SamirJoseGil/360Lateral-sub000/pkg/uuid"
)

// Dependencies are the process-wide components shared by every workspace.
type Dependencies struct {
	// Client is the anonymous backend client. Each workspace rebinds it to its tokens.
	Client *httpclient.Client

	// Redis persists sessions when set. Nil keeps them in memory.
	Redis      *redis.Client
	SessionTTL time.Duration
	IdleTTL    time.Duration

	Limiter     *ratelimit.Limiter
	LoginPolicy auth.LoginPolicy

	MapGISCache    mapgis.Cache
	MapGISCacheTTL time.Duration

	Logger *slog.Logger
}

// Registry owns the workspaces of all live browser sessions.
//
// # Concurrency
//
// Registry is safe for concurrent use. Two requests of the same session that
// arrive together always share one workspace.
type Registry struct {
	deps Dependencies

	mu         sync.Mutex
	workspaces map[string]*Workspace
	now        func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Dependencies) *Registry {
	return &Registry{
		deps:       deps,
		workspaces: make(map[string]*Workspace),
		now:        time.Now,
	}
}

// WithClock replaces the time source. It is meant for tests.
func (registry *Registry) WithClock(now func() time.Time) *Registry {
	registry.now = now
	return registry
}

// # Workspaces

// Workspace returns the workspace of session id, creating it if needed.
func (registry *Registry) Workspace(id string) *Workspace {
	now := registry.now()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if workspace, found := registry.workspaces[id]; found {
		workspace.touch(now)
		return workspace
	}

	workspace := newWorkspace(id, registry.store(id), registry.deps, now)
	registry.workspaces[id] = workspace

	registry.deps.Logger.Debug("workspace_created", slog.String("session_id", id))
	return workspace
}

// store picks the persistence of a new session.
func (registry *Registry) store(id string) session.Store {
	if registry.deps.Redis != nil {
		return session.NewRedisStore(registry.deps.Redis, id, registry.deps.SessionTTL)
	}
	return session.NewMemoryStore()
}

// Known reports whether id belongs to a session this server issued: a live
// workspace, or with Redis a persisted session that outlived its workspace.
// It never creates a workspace.
func (registry *Registry) Known(ctx context.Context, id string) bool {
	registry.mu.Lock()
	_, found := registry.workspaces[id]
	registry.mu.Unlock()

	if found || registry.deps.Redis == nil {
		return found
	}

	count, err := registry.deps.Redis.Exists(ctx, constants.RedisPrefixSession+id).Result()
	if err != nil {
		registry.deps.Logger.WarnContext(ctx, "session_lookup_failed", slog.Any("error", err))
		return false
	}
	return count > 0
}

/*
Rotate moves the session of oldID under a freshly minted id and forgets oldID.

It runs after every successful sign-in so an id planted in the browser before
login never becomes an authenticated session.

Parameters:
  - ctx: context.Context
  - oldID: string

Returns:
  - string: the new session id
  - error: Unauthenticated when oldID has no workspace or no session to move
*/
func (registry *Registry) Rotate(ctx context.Context, oldID string) (string, error) {
	newID := uuid.New()
	now := registry.now()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	// ── 1. Locate the signed-in workspace ──
	previous, found := registry.workspaces[oldID]
	if !found {
		return "", apperr.Unauthenticated("Session no longer exists")
	}

	// ── 2. Move the tokens ──
	next := newWorkspace(newID, registry.store(newID), registry.deps, now)
	if err := previous.Tokens.Transfer(ctx, next.Tokens); err != nil {
		return "", err
	}

	// ── 3. Swap the workspaces ──
	delete(registry.workspaces, oldID)
	registry.workspaces[newID] = next

	registry.deps.Logger.InfoContext(ctx, "session_rotated",
		slog.String("session_id", newID),
		slog.String("previous_session_id", oldID),
	)
	return newID, nil
}

// Len returns the number of live workspaces.
func (registry *Registry) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.workspaces)
}

// Sweep evicts the workspaces idle for longer than the idle TTL and returns
// how many were removed.
func (registry *Registry) Sweep() int {
	cutoff := registry.now().Add(-registry.deps.IdleTTL)

	registry.mu.Lock()
	defer registry.mu.Unlock()

	evicted := 0
	for id, workspace := range registry.workspaces {
		if workspace.LastSeen().Before(cutoff) {
			delete(registry.workspaces, id)
			evicted++
		}
	}
	return evicted
}

/*
Run evicts idle workspaces every interval until ctx is cancelled.

Parameters:
  - ctx: context.Context (stops the loop)
  - interval: time.Duration (non-positive selects the default)
*/
func (registry *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.SessionJanitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := registry.Sweep(); evicted > 0 {
				registry.deps.Logger.Info("workspaces_evicted",
					slog.Int("evicted", evicted),
					slog.Int("remaining", registry.Len()),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

// # Request Resolution

// FromRequest returns the workspace of the request's session cookie.
func (registry *Registry) FromRequest(request *http.Request) (*Workspace, error) {
	id := ctxutil.GetSessionID(request.Context())
	if id == "" {
		return nil, apperr.Unauthenticated("No browser session")
	}
	return registry.Workspace(id), nil
}

func (registry *Registry) AuthResolver() auth.Resolver {
	return func(request *http.Request) (*auth.Service, error) {
		workspace, err := registry.FromRequest(request)
		if err != nil {
			return nil, err
		}
		return workspace.Auth, nil
	}
}

func (registry *Registry) AccountResolver() account.Resolver {
	return func(request *http.Request) (*account.Service, error) {
		workspace, err := registry.FromRequest(request)
		if err != nil {
			return nil, err
		}
		return workspace.Accounts, nil
	}
}

func (registry *Registry) LotResolver() lots.Resolver {
	return func(request *http.Request) (*lots.Service, error) {
		workspace, err := registry.FromRequest(request)
		if err != nil {
			return nil, err
		}
		return workspace.Lots, nil
	}
}

func (registry *Registry) DocumentResolver() documents.Resolver {
	return func(request *http.Request) (*documents.Service, error) {
		workspace, err := registry.FromRequest(request)
		if err != nil {
			return nil, err
		}
		return workspace.Documents, nil
	}
}

func (registry *Registry) MapGISResolver() mapgis.Resolver {
	return func(request *http.Request) (*mapgis.Service, error) {
		workspace, err := registry.FromRequest(request)
		if err != nil {
			return nil, err
		}
		return workspace.MapGIS, nil
	}
}

// SessionRotator rotates the request's session and sends the new cookie.
func (registry *Registry) SessionRotator(cookie middleware.CookieSettings) auth.Rotator {
	return func(writer http.ResponseWriter, request *http.Request) error {
		id, err := registry.Rotate(request.Context(), ctxutil.GetSessionID(request.Context()))
		if err != nil {
			return err
		}
		middleware.SetSessionCookie(writer, cookie, id)
		return nil
	}
}

// Authenticated reports whether the request's session holds a usable token.
func (registry *Registry) Authenticated(request *http.Request) bool {
	id := ctxutil.GetSessionID(request.Context())
	if id == "" {
		return false
	}
	return registry.Workspace(id).Auth.IsAuthenticated(request.Context())
}
