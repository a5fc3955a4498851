// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"context"
	"time"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
	"github.com/alisoncf/guara/internal/sparql"
)

// Client is the subset of *sparql.Client used for the user graph.
type Client interface {
	Select(ctx context.Context, endpoint, query string) (*sparql.Results, error)
	Update(ctx context.Context, endpoint, update string) error
}

// Authenticator resolves tokens against the user graph.
type Authenticator struct {
	client   Client
	queryURL string
	cache    TokenCache
	cacheTTL time.Duration
	loc      *time.Location
	now      func() time.Time
}

// NewAuthenticator returns an Authenticator querying sparqlCfg.UserQueryURL.
// A nil cache disables caching.
func NewAuthenticator(client Client, sparqlCfg config.SPARQLConfig, authCfg config.AuthConfig, tc TokenCache) *Authenticator {
	if tc == nil {
		tc = noopTokenCache{}
	}
	loc, err := time.LoadLocation(authCfg.LegacyTimezone)
	if err != nil || authCfg.LegacyTimezone == "" {
		loc = time.UTC
	}
	return &Authenticator{
		client:   client,
		queryURL: sparqlCfg.UserQueryURL,
		cache:    tc,
		cacheTTL: authCfg.Cache.TTL,
		loc:      loc,
		now:      time.Now,
	}
}

// Authenticate returns the session for token, or ErrTokenInvalid /
// ErrTokenExpired. Other errors come from the triplestore.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	backend := a.cache.Backend()
	cached, hit, err := a.cache.Get(ctx, token)
	if err != nil {
		metrics.TokenCacheErrors.WithLabelValues(backend).Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("backend", backend).Msg("Token cache read failed, querying triplestore")
	}
	if backend != CacheNone && err == nil {
		metrics.RecordTokenCache(backend, hit)
	}
	if hit {
		if cached.IsExpired(a.now()) {
			_ = a.cache.Delete(ctx, token)
			return nil, ErrTokenExpired
		}
		return cached, nil
	}

	session, err := a.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(a.now()) {
		return nil, ErrTokenExpired
	}

	ttl := session.ExpiresAt.Sub(a.now())
	if a.cacheTTL > 0 && a.cacheTTL < ttl {
		ttl = a.cacheTTL
	}
	if err := a.cache.Set(ctx, session, ttl); err != nil {
		metrics.TokenCacheErrors.WithLabelValues(backend).Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("backend", backend).Msg("Token cache write failed")
	}
	return session, nil
}

// Forget drops token from the cache, e.g. after a new login replaced it.
func (a *Authenticator) Forget(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := a.cache.Delete(ctx, token); err != nil {
		metrics.TokenCacheErrors.WithLabelValues(a.cache.Backend()).Inc()
	}
}

func tokenQuery(token string) sparql.Select {
	user, validade, permissao, permissoes := sparql.V("user"), sparql.V("validade"), sparql.V("permissao"), sparql.V("permissoes")
	return sparql.Select{
		Prefixes: sparql.Standard(),
		Projection: []sparql.Projection{
			user, validade,
			sparql.As(sparql.GroupConcat(sparql.E(permissao), ",", true), permissoes),
		},
		Where: sparql.Where(
			sparql.T(user, sparql.UsrToken, sparql.NewLiteral(token)),
			sparql.T(user, sparql.UsrValidade, validade),
			sparql.Opt(sparql.T(user, sparql.UsrTemPermissao, permissao)),
		),
		GroupBy: []sparql.Var{user, validade},
		Limit:   1,
	}
}

func (a *Authenticator) lookup(ctx context.Context, token string) (*Session, error) {
	q := tokenQuery(token)
	res, err := a.client.Select(ctx, a.queryURL, q.String())
	if err != nil {
		return nil, err
	}
	rows := res.Rows()
	if len(rows) == 0 || rows[0].Get("user") == "" {
		return nil, ErrTokenInvalid
	}
	row := rows[0]
	expires, err := ParseValidity(row.Get("validade"), a.loc)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user", row.Get("user")).Msg("Unreadable token validade")
		return nil, ErrTokenInvalid
	}
	return &Session{
		UserURI:     row.Get("user"),
		Token:       token,
		ExpiresAt:   expires,
		Permissions: splitPermissions(row.Get("permissoes")),
	}, nil
}
