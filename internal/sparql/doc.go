// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package sparql builds SPARQL 1.1 queries and updates and sends them to
Apache Jena Fuseki.

# Building queries

Request data never reaches query text directly. Values become terms first:

	iri, err := sparql.NewIRI(req.ObjectURI)     // rejects <>"{}|^`\ and spaces
	title := sparql.NewLiteral(req.Title)         // escaped on render
	term, err := sparql.ParseTerm(req.O)          // legacy "<iri>", "lit"@pt, prefix:name

and terms are assembled into one of the query types:

	q := sparql.Select{
		Prefixes:   sparql.Standard(),
		Projection: []sparql.Projection{sparql.V("class"), sparql.V("label")},
		Where: sparql.Where(
			sparql.T(sparql.V("class"), sparql.A, sparql.OWLClass),
			sparql.Opt(sparql.T(sparql.V("class"), sparql.RDFSLabel, sparql.V("label"))),
			sparql.KeywordFilter(keyword, sparql.V("label")),
		),
		OrderBy: []sparql.Order{sparql.Asc(sparql.V("class"))},
	}

# Talking to Fuseki

Client sends queries as form POSTs and updates as application/sparql-update.
Idempotent queries are retried on 429/502/503/504, every endpoint host has a
gobreaker circuit breaker, and an optional x/time/rate limiter caps the
outbound request rate. Failures surface as *UpstreamError (non-2xx answer),
*NetworkError (no answer) or ErrCircuitOpen.

Request-supplied endpoints are checked by Client.CheckEndpoint against
sparql.allowed_endpoints; configured endpoints are always allowed.
*/
package sparql
