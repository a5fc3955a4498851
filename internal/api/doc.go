// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package api provides the HTTP surface of the gateway.

Handlers translate JSON bodies, HTML forms and query strings into calls on
the catalog, auth and media services, and render the results as JSON. List
routes pass the triplestore answer through unmodified so clients keep
reading head.vars and results.bindings.

# Route Groups

	/sparqapi      raw query and update proxy
	/classapi      owl:Class listing and maintenance
	/fis, /dim     physical and dimensional objects
	/relation      triples between resources
	/midias        local media listing
	/repositorios  repository records and Fuseki datasets
	/graph         the start page aggregate
	/uploadapi     file upload and media removal
	/acesso        login and curator registration
	/health        liveness and readiness

Routes that change collection data require a token issued by /acesso/login,
sent as "Authorization: Bearer <token>". When authorization is enabled the
token's permission must also allow the route's action.

# Errors

Every error answer has the shape

	{"error": "<kind>", "message": "<detail>", "details": ..., "request_id": "..."}

Validation failures are 400 "Invalid input". Upstream SPARQL failures keep
the upstream status with the kind "SPARQL Query Error" or "SPARQL Update
Error". An unreachable Fuseki is 502 and an open circuit breaker is 503.

# Middleware

The chi stack sets X-Request-ID, logs each request with zerolog, records
Prometheus metrics, applies go-chi/cors and limits each client IP with
go-chi/httprate. Login has a stricter per-minute limit of its own.
*/
package api
