// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package portal binds browser sessions to backend sessions.

Every browser holds an opaque session cookie. The [Registry] maps that id to a
[Workspace]: the token store of the backend session plus every domain service
bound to those tokens. Handlers never build services themselves; they resolve
them through the registry for the request at hand.

# Lifecycle

Workspaces are created on first use and evicted by a janitor once idle. With
Redis configured the tokens outlive the workspace, so an evicted session is
rebuilt transparently on the next request until its Redis TTL runs out.
*/
package portal

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/documents"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/lots"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/session"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"
)

// Workspace is the set of services bound to one browser session.
type Workspace struct {
	ID string

	Tokens    *session.TokenStore
	Auth      *auth.Service
	Accounts  *account.Service
	Lots      *lots.Service
	Documents *documents.Service
	MapGIS    *mapgis.Service

	lastSeen atomic.Int64
}

// newWorkspace wires the services of session id around store.
func newWorkspace(id string, store session.Store, deps Dependencies, now time.Time) *Workspace {
	logger := deps.Logger.With(slog.String("session_id", id))

	tokens := session.NewTokenStore(store, logger)
	authService := auth.NewService(deps.Client, tokens, deps.Limiter, deps.LoginPolicy, logger)
	client := authService.Client()

	workspace := &Workspace{
		ID:        id,
		Tokens:    tokens,
		Auth:      authService,
		Accounts:  account.NewService(client, authService, logger),
		Lots:      lots.NewService(client, logger),
		Documents: documents.NewService(client, logger),
		MapGIS:    mapgis.NewService(client, deps.MapGISCache, deps.MapGISCacheTTL, logger),
	}
	workspace.touch(now)
	return workspace
}

func (workspace *Workspace) touch(now time.Time) {
	workspace.lastSeen.Store(now.UnixNano())
}

// LastSeen returns when the workspace was last resolved.
func (workspace *Workspace) LastSeen() time.Time {
	return time.Unix(0, workspace.lastSeen.Load())
}
