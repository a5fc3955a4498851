// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package auth implements the curator token check and login.

Tokens are opaque UUIDs stored in the user graph next to their expiry:

	<user> usr:token "…" ;
	       usr:validade "2026-10-19T12:00:00Z" ;
	       usr:temPermissao "admin" .

Key Components:

  - Authenticator: resolves a token to a Session, fronted by a TokenCache
  - TokenCache: in-memory TTL LRU, Redis, or none (auth.cache.backend)
  - Middleware.RequireToken: 401/403 handling and Session in the context
  - Service.Login / Service.AddUser: credential check and token issue

Usage Example:

	authn := auth.NewAuthenticator(client, cfg.SPARQL, cfg.Auth, tokenCache)
	mw := auth.NewMiddleware(authn, api.WriteAuthError)
	r.With(mw.RequireToken).Post("/dim/create", h.CreateObject)

	// in a handler
	session, _ := auth.SessionFromContext(r.Context())

Cached sessions live for min(auth.cache.ttl, time until the token expires),
so a cache hit never extends a token's validity. A failing cache backend is
logged and counted, and the lookup falls back to the triplestore.

Passwords are verified with bcrypt. Legacy plain-text values are only
accepted when auth.allow_plain_passwords is set, and compared in constant
time.
*/
package auth
