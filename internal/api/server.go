// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation boundary of the portal.
  - It is the composition root for the HTTP transport (chi router).
  - Only this package and cmd/portal import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/documents"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/lots"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/config"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/middleware"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/portal"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/account"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Auth      *auth.Handler
	Accounts  *account.Handler
	Lots      *lots.Handler
	Documents *documents.Handler
	MapGIS    *mapgis.Handler
}

// NewHandlers builds every domain handler on top of the registry's resolvers.
func NewHandlers(registry *portal.Registry, cookie middleware.CookieSettings, liveness, readiness http.HandlerFunc) Handlers {
	return Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(registry.AuthResolver(), registry.SessionRotator(cookie)),
		Accounts:  account.NewHandler(registry.AccountResolver()),
		Lots:      lots.NewHandler(registry.LotResolver()),
		Documents: documents.NewHandler(registry.DocumentResolver()),
		MapGIS:    mapgis.NewHandler(registry.MapGISResolver()),
	}
}

// Sessions is the view of the session registry the router needs.
type Sessions interface {
	// Known reports whether the server issued session id.
	Known(ctx context.Context, id string) bool
	// Authenticated reports whether the request's session holds a usable token.
	Authenticated(request *http.Request) bool
}

// CookieSettings derives the session cookie from the configuration.
func CookieSettings(cfg *config.Config) middleware.CookieSettings {
	return middleware.CookieSettings{
		Name:   cfg.SessionCookie,
		MaxAge: cfg.SessionTTL,
		Secure: !cfg.IsDevelopment(),
	}
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups.

Parameters:
  - ctx: context.Context (stops background loops of the middleware)
  - cfg: *config.Config
  - log: *slog.Logger
  - sessions: Sessions (issued ids and the local session check)
  - h: Handlers
*/
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, sessions Sessions, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.SessionCookie(CookieSettings(cfg), sessions.Known))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		// Everything else needs a usable backend session.
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(sessions.Authenticated))

			protected.Mount("/users", h.Accounts.Routes())
			protected.Mount("/lots", h.Lots.Routes())
			protected.Mount("/documents", h.Documents.Routes())
			protected.Mount("/mapgis", h.MapGIS.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
