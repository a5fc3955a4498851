// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
)

// Messages of the token check responses.
const (
	MsgTokenMissing = "Token não fornecido"
	MsgTokenInvalid = "Token inválido"
	MsgTokenExpired = "Token expirado"
)

// ErrorWriter renders errors that are not token failures, such as an
// unreachable user graph.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware enforces the token check on protected routes.
type Middleware struct {
	authn     *Authenticator
	onError   ErrorWriter
	secLogger *logging.SecurityLogger
}

// NewMiddleware returns a Middleware. onError may be nil, in which case
// unexpected failures become a bare 500.
func NewMiddleware(authn *Authenticator, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}
	return &Middleware{authn: authn, onError: onError, secLogger: logging.NewSecurityLogger()}
}

// RequireToken rejects requests without a valid, unexpired token and stores
// the Session in the request context.
func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		session, err := m.authn.Authenticate(r.Context(), token)
		switch {
		case err == nil:
			metrics.RecordTokenCheck("valid")
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		case errors.Is(err, ErrTokenMissing):
			metrics.RecordTokenCheck("missing")
			writeMessage(w, http.StatusUnauthorized, MsgTokenMissing)
		case errors.Is(err, ErrTokenInvalid):
			metrics.RecordTokenCheck("invalid")
			m.secLogger.LogTokenRejected(token, clientIP(r), "unknown token")
			writeMessage(w, http.StatusUnauthorized, MsgTokenInvalid)
		case errors.Is(err, ErrTokenExpired):
			metrics.RecordTokenCheck("expired")
			m.secLogger.LogTokenRejected(token, clientIP(r), "expired")
			writeMessage(w, http.StatusForbidden, MsgTokenExpired)
		default:
			metrics.RecordTokenCheck("error")
			logging.Ctx(r.Context()).Error().Err(err).Msg("Token lookup failed")
			m.onError(w, r, err)
		}
	})
}

// ExtractToken returns the Authorization header value without an optional
// "Bearer " prefix.
func ExtractToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) >= 7 && strings.EqualFold(h[:7], "bearer ") {
		h = strings.TrimSpace(h[7:])
	}
	return h
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
