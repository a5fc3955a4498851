// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alisoncf/guara/internal/api"
	"github.com/alisoncf/guara/internal/auth"
	"github.com/alisoncf/guara/internal/authz"
	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/media"
	"github.com/alisoncf/guara/internal/sparql"
	"github.com/alisoncf/guara/internal/supervisor"
	"github.com/alisoncf/guara/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("query_url", cfg.SPARQL.QueryURL).
		Msg("Starting Guara")

	client := sparql.NewClient(cfg.SPARQL)
	cat, err := catalog.New(client, cfg.SPARQL, cfg.Ontology)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize catalog")
	}

	tokenCache, err := auth.NewTokenCache(cfg.Auth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token cache")
	}
	defer closeIfCloser(tokenCache, "token cache")
	logging.Info().Str("backend", tokenCache.Backend()).Msg("Token cache ready")

	authn := auth.NewAuthenticator(client, cfg.SPARQL, cfg.Auth, tokenCache)
	authSvc := auth.NewService(client, cfg.SPARQL, cfg.Auth, authn, cat)

	var authzMW *authz.Middleware
	if cfg.Authz.Enabled {
		enforcer, err := authz.NewEnforcer(cfg.Authz)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize route authorization")
		}
		authzMW = authz.NewMiddleware(enforcer)
		logging.Info().Msg("Route authorization enabled")
	}

	store, err := media.NewStore(cfg.Media)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize media store")
	}
	journal, err := media.OpenJournal(cfg.Media.Journal)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open media journal")
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing media journal")
		}
	}()
	if cfg.Media.Journal.InMemory {
		logging.Warn().Msg("Media journal is in memory; pending removals are lost on restart")
	}

	handler := api.NewHandler(api.Dependencies{
		Config:  cfg,
		SPARQL:  client,
		Catalog: cat,
		Admin:   sparql.NewAdmin(client, cfg.FusekiAdmin),
		Auth:    authSvc,
		Store:   store,
		Remover: media.NewRemover(store, journal, cat),
		Journal: journal,
	})

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Inbound rate limiting is DISABLED")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin; set security.cors_origins in production")
		}
	}
	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)),
		auth.NewMiddleware(authn, api.WriteAuthError),
		authzMW,
	)

	addr := cfg.Server.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(media.NewRecoveryService(journal, store, cat,
		cfg.Media.Journal.RetryInterval, cfg.Media.Journal.MaxAttempts))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	logging.Info().Msg("Guara stopped")
}

func closeIfCloser(v interface{}, name string) {
	c, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		logging.Error().Err(err).Str("component", name).Msg("Close failed")
	}
}
