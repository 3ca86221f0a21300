// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/contravento/internal/api"
	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/authz"
	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/geocode"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/photos"
	"github.com/tomtom215/contravento/internal/service"
	"github.com/tomtom215/contravento/internal/supervisor"
	"github.com/tomtom215/contravento/internal/supervisor/services"
	"github.com/tomtom215/contravento/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("ContraVento stopped with error")
		os.Exit(1)
	}
}

// sessionCleanupInterval is how often expired refresh sessions are purged.
const sessionCleanupInterval = time.Hour

//nolint:gocyclo // sequential startup
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", api.Version).
		Str("db_driver", cfg.Database.Driver).
		Str("events", cfg.Events.Transport).
		Str("session_store", cfg.Security.SessionStore).
		Msg("Starting ContraVento")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	store, err := photos.NewStore(&cfg.Uploads)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		return err
	}
	sessions, err := auth.NewSessionStore(&cfg.Security)
	if err != nil {
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	bus, err := events.NewBus(&cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}

	hub := websocket.NewHub()
	resizer := photos.NewResizer(store, &cfg.Uploads, service.RecordVariants(db, store))
	svc := service.New(service.Deps{
		Config:   cfg,
		DB:       db,
		Photos:   store,
		Resizer:  resizer,
		Events:   bus,
		Tokens:   tokens,
		Sessions: sessions,
		Pusher:   hub,
	})

	if err := svc.RebuildNearbyIndex(ctx); err != nil {
		logging.Warn().Err(err).Msg("Nearby index rebuild failed, starting with an empty index")
	}

	geocoder := geocode.New(&cfg.Geocoder, geocode.NewNominatimClient(&cfg.Geocoder))
	handler := api.NewHandler(svc, geocoder, hub, cfg)
	router := api.NewRouter(handler, auth.NewMiddleware(tokens, svc), enforcer)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddWorker(resizer)
	tree.AddWorker(services.NewTickerService("stats-reconcile", cfg.Stats.ReconcileInterval, func(ctx context.Context) error {
		n, err := svc.ReconcileStats(ctx)
		if err == nil {
			logging.Info().Int("users", n).Msg("Stats reconciled")
		}
		return err
	}))
	tree.AddWorker(services.NewTickerService("session-cleanup", sessionCleanupInterval, func(ctx context.Context) error {
		n, err := sessions.CleanupExpired(ctx)
		if n > 0 {
			logging.Info().Int("removed", n).Msg("Expired sessions removed")
		}
		return err
	}))

	if srv := bus.Server(); srv != nil {
		tree.AddMessaging(srv)
	}
	tree.AddMessaging(hub)
	tree.AddMessaging(svc.RegisterHandlers(events.NewConsumer("notifications", bus)))

	tree.AddAPI(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	var runErr error
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		runErr = err
	}
	logging.Info().Msg("Supervisor tree stopped")

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil {
		for _, s := range unstopped {
			logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("ContraVento stopped")
	return runErr
}
