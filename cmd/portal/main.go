// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command portal is the entry point for the 360Lateral web portal.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis when configured, else use in-memory stores.
//  4. Build the shared components (backend client, login limiter, MapGIS cache).
//  5. Start the session registry janitor.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	goredis "github.com/redis/go-redis/v9"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/api"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/mapgis"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/config"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/constants"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/httpclient"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/ratelimit"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/portal"
	"github.com/SamirJoseGil/360Lateral-sub000/internal/users/auth"

	redisstore "github.com/SamirJoseGil/360Lateral-sub000/internal/platform/redis"
)

func main() {
	banner()

	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend_url", cfg.BackendURL),
		slog.Bool("redis", cfg.RedisURL != ""),
	)

	// Root context of background loops; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// ── 3. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		startupCancel()
		must(log, err, "connect to redis")

		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()
	} else {
		log.Warn("redis_not_configured", slog.String("fallback", "memory"))
	}

	// ── 4. Shared Components ──────────────────────────────────────────────
	var (
		buckets ratelimit.BucketStore = ratelimit.NewMemoryStore()
		cache   mapgis.Cache          = mapgis.NewMemoryCache()
		checks  []api.Check
	)
	if rdb != nil {
		buckets = ratelimit.NewRedisStore(rdb)
		cache = mapgis.NewRedisCache(rdb)
		checks = append(checks, api.Check{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	registry := portal.NewRegistry(portal.Dependencies{
		Client:     httpclient.New(cfg.BackendURL, cfg.RequestTimeout, nil, log),
		Redis:      rdb,
		SessionTTL: cfg.SessionTTL,
		IdleTTL:    cfg.SessionIdleTTL,
		Limiter:    ratelimit.New(buckets, log),
		LoginPolicy: auth.LoginPolicy{
			MaxAttempts: cfg.LoginMaxAttempts,
			Window:      cfg.LoginWindow,
		},
		MapGISCache:    cache,
		MapGISCacheTTL: cfg.MapGISCacheTTL,
		Logger:         log,
	})

	// ── 5. Session Janitor ────────────────────────────────────────────────
	go registry.Run(rootCtx, constants.SessionJanitorInterval)

	// ── 6. Handlers ───────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(checks, log)
	handlers := api.NewHandlers(registry, api.CookieSettings(cfg), liveness, readiness)

	server := api.NewServer(rootCtx, cfg, log, registry, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	rootCancel()

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

func banner() {
	figure.NewFigure("360Lateral", "cybermedium", true).Print()
	fmt.Println()
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
