// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package cache provides the in-memory TTL LRU used to front token lookups.
//
// Entries carry their own expiry so a cached session never outlives the
// token it describes:
//
//	c := cache.NewLRU[Session](1024, time.Minute)
//	c.AddWithTTL(token, session, time.Until(session.ExpiresAt))
//	if s, ok := c.Get(token); ok { ... }
package cache
