// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package middleware holds the HTTP middleware shared by every route:
// request IDs, Prometheus instrumentation and request logging.
//
// Order matters. RequestID runs first so later middleware and handlers can
// log with the request ID:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.RequestLogger(0))
package middleware
