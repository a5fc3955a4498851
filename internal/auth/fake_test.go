// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"context"
	"errors"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/alisoncf/guara/internal/catalog"
	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/sparql"
)

const (
	userQueryURL  = "http://fuseki:3030/usuarios/query"
	userUpdateURL = "http://fuseki:3030/usuarios/update"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	mu        sync.Mutex
	results   *sparql.Results
	selectErr error
	updateErr error
	selects   []string
	updates   []string
}

func (f *fakeClient) Select(_ context.Context, endpoint, query string) (*sparql.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects = append(f.selects, query)
	if endpoint != userQueryURL {
		return nil, errors.New("unexpected endpoint " + endpoint)
	}
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	if f.results == nil {
		return &sparql.Results{Results: &sparql.Bindings{}}, nil
	}
	return f.results, nil
}

func (f *fakeClient) Update(_ context.Context, endpoint, update string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if endpoint != userUpdateURL {
		return errors.New("unexpected endpoint " + endpoint)
	}
	return f.updateErr
}

func (f *fakeClient) selectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.selects)
}

func lit(v string) sparql.Value { return sparql.Value{Type: "literal", Value: v} }

func uri(v string) sparql.Value { return sparql.Value{Type: "uri", Value: v} }

func resultRows(rows ...sparql.Binding) *sparql.Results {
	return &sparql.Results{Results: &sparql.Bindings{Bindings: rows}}
}

func tokenRow(validade, permissoes string) *sparql.Results {
	return resultRows(sparql.Binding{
		"user":       uri("http://guara.ueg.br/ontologias/usuarios#maria"),
		"validade":   lit(validade),
		"permissoes": lit(permissoes),
	})
}

func testSPARQLConfig() config.SPARQLConfig {
	return config.SPARQLConfig{UserQueryURL: userQueryURL, UserUpdateURL: userUpdateURL}
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		TokenTTL:       24 * time.Hour,
		LegacyTimezone: "America/Sao_Paulo",
		Cache:          config.TokenCacheConfig{Backend: CacheMemory, TTL: time.Minute, Size: 16},
	}
}

func newTestAuthenticator(fc *fakeClient, tc TokenCache) *Authenticator {
	a := NewAuthenticator(fc, testSPARQLConfig(), testAuthConfig(), tc)
	a.now = func() time.Time { return testNow }
	return a
}

// failingCache always errors, to exercise the triplestore fallback.
type failingCache struct{}

func (failingCache) Get(context.Context, string) (*Session, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingCache) Set(context.Context, *Session, time.Duration) error { return errors.New("connection refused") }
func (failingCache) Delete(context.Context, string) error                { return errors.New("connection refused") }
func (failingCache) Backend() string                                     { return "failing" }

// recordingCache remembers the TTL of the last Set.
type recordingCache struct {
	*MemoryTokenCache
	mu      sync.Mutex
	lastTTL time.Duration
}

func (c *recordingCache) Set(ctx context.Context, s *Session, ttl time.Duration) error {
	c.mu.Lock()
	c.lastTTL = ttl
	c.mu.Unlock()
	return c.MemoryTokenCache.Set(ctx, s, ttl)
}

type fakeRepos struct {
	repo *catalog.Repository
	err  error
}

func (f fakeRepos) RepositoryByName(context.Context, string) (*catalog.Repository, error) {
	return f.repo, f.err
}
