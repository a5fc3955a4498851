// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/alisoncf/guara/internal/auth"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
)

// MsgForbidden is returned when no role of the session allows the request.
const MsgForbidden = "Permissão negada"

// Middleware enforces the policy on token-protected routes.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware returns a Middleware for enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize must run after auth.Middleware.RequireToken. A request without
// a session is refused.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		if !ok {
			writeForbidden(w)
			return
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.EnforceAny(session.Permissions, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		metrics.RecordAuthzDecision(action, allowed)
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Str("user", session.UserURI).
				Strs("roles", session.Permissions).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("Request denied by policy")
			writeForbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": MsgForbidden})
}
