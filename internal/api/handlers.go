// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"time"

	"github.com/alisoncf/guara/internal/auth"
	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/media"
	"github.com/alisoncf/guara/internal/sparql"
)

// Dependencies are the services the HTTP handlers call.
type Dependencies struct {
	Config  *config.Config
	SPARQL  *sparql.Client
	Catalog *catalog.Service
	Admin   *sparql.Admin
	Auth    *auth.Service
	Store   *media.Store
	Remover *media.Remover
	Journal media.Journal
}

// Handler holds the HTTP handlers of every route group.
type Handler struct {
	cfg       *config.Config
	client    *sparql.Client
	catalog   *catalog.Service
	admin     *sparql.Admin
	auth      *auth.Service
	store     *media.Store
	remover   *media.Remover
	journal   media.Journal
	startTime time.Time
}

// NewHandler returns a Handler over deps.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		cfg:       deps.Config,
		client:    deps.SPARQL,
		catalog:   deps.Catalog,
		admin:     deps.Admin,
		auth:      deps.Auth,
		store:     deps.Store,
		remover:   deps.Remover,
		journal:   deps.Journal,
		startTime: time.Now(),
	}
}
