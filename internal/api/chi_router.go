// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alisoncf/guara/internal/auth"
	"github.com/alisoncf/guara/internal/authz"
	"github.com/alisoncf/guara/internal/middleware"
)

// slowRequestThreshold marks requests logged at warn level.
const slowRequestThreshold = 2 * time.Second

// Router wires the handlers to their routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter returns a Router. authzMW may be nil when route authorization
// is disabled.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authMW *auth.Middleware, authzMW *authz.Middleware) *Router {
	return &Router{handler: handler, chiMiddleware: chiMW, auth: authMW, authz: authzMW}
}

// protected returns the middleware chain of token-protected routes.
func (router *Router) protected() []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{router.auth.RequireToken}
	if router.authz != nil {
		chain = append(chain, router.authz.Authorize)
	}
	return chain
}

// SetupChi builds the chi mux. Route prefixes are those the collection
// editor already calls.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(slowRequestThreshold))
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.Get("/health", h.Health)
	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		guard := router.protected()

		r.Route("/sparqapi", func(r chi.Router) {
			r.Get("/query", h.SPARQLQuery)
			r.Post("/update", h.SPARQLUpdate)
		})

		r.Route("/classapi", func(r chi.Router) {
			r.Get("/list", h.ClassList)
			r.Post("/list", h.ClassList)
			r.Post("/adicionar_classe", h.ClassAdd)
			r.Post("/alterar_classe", h.ClassUpdate)
			r.Delete("/excluir_classe", h.ClassDelete)
			r.Post("/excluir_classe", h.ClassDelete)
		})

		r.Post("/fis/listar_objetos", h.PhysicalList)

		r.Route("/dim", func(r chi.Router) {
			r.Get("/list", h.DimensionalList)
			r.Post("/list", h.DimensionalList)
			r.Get("/listall", h.DimensionalListAll)
			r.Post("/listall", h.DimensionalListAll)
			r.Get("/listar_arquivos", h.ObjectFiles)

			r.Group(func(r chi.Router) {
				r.Use(guard...)
				r.Post("/create", h.ObjectCreate)
				r.Delete("/delete", h.ObjectDelete)
				r.Post("/delete", h.ObjectDelete)
				r.Delete("/remover_relacao", h.ObjectRemoveTriple)
				r.Post("/remover_relacao", h.ObjectRemoveTriple)
				r.Put("/update", h.ObjectUpdate)
				r.Post("/update", h.ObjectUpdate)
				r.Put("/update_old", h.ObjectUpdateLegacy)
				r.Post("/update_old", h.ObjectUpdateLegacy)
				r.Post("/add_relation", h.ObjectAddTriple)
			})
		})

		r.Route("/relation", func(r chi.Router) {
			r.Get("/list", h.RelationList)
			r.Post("/list", h.RelationList)

			r.Group(func(r chi.Router) {
				r.Use(guard...)
				r.Post("/add", h.RelationAdd)
				r.Delete("/delete", h.RelationDelete)
				r.Post("/delete", h.RelationDelete)
				r.Delete("/remover_relacao", h.RelationRemove)
				r.Post("/remover_relacao", h.RelationRemove)
				r.Put("/update", h.RelationUpdate)
				r.Post("/update", h.RelationUpdate)
				r.Post("/add_relation", h.RelationAddMedia)
			})
		})

		r.Get("/midias/list", h.MediaList)

		r.Route("/repositorios", func(r chi.Router) {
			for _, path := range []string{"/list", "/listar_repositorios"} {
				r.Get(path, h.RepositoryList)
				r.Post(path, h.RepositoryList)
			}
			r.Post("/create", h.RepositoryCreate)
			r.Post("/create_dataset", h.DatasetCreate)
			r.With(guard...).Put("/update", h.RepositoryUpdate)
			r.With(guard...).Post("/update", h.RepositoryUpdate)
		})

		r.Get("/graph/main_data", h.MainData)

		r.Route("/uploadapi", func(r chi.Router) {
			r.Post("/upload", h.Upload)
			r.With(guard...).Post("/remove", h.RemoveMedia)
			r.With(guard...).Delete("/remove", h.RemoveMedia)
		})

		r.Route("/acesso", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
			r.Post("/add_user", h.AddUser)
		})
	})

	return r
}
