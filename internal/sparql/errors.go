// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"errors"
	"fmt"
)

// Operation names used in errors, logs and metric labels.
const (
	OpQuery  = "query"
	OpUpdate = "update"
	OpAdmin  = "admin"
)

// maxErrorBody caps the upstream body kept in an UpstreamError.
const maxErrorBody = 64 << 10

var (
	// ErrInvalidEndpoint is returned for endpoint URLs that are not absolute
	// http(s) URLs.
	ErrInvalidEndpoint = errors.New("sparql: invalid endpoint")

	// ErrEndpointNotAllowed is returned when a request-supplied endpoint is
	// outside sparql.allowed_endpoints.
	ErrEndpointNotAllowed = errors.New("sparql: endpoint not allowed")

	// ErrCircuitOpen is returned while the endpoint's circuit breaker rejects
	// calls.
	ErrCircuitOpen = errors.New("sparql: circuit open")
)

// UpstreamError is a non-2xx answer from the triplestore.
type UpstreamError struct {
	Op         string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("sparql %s at %s: HTTP %d: %s", e.Op, e.Endpoint, e.StatusCode, truncate(e.Body, 200))
}

// NetworkError is a transport failure or timeout; no HTTP answer arrived.
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("sparql %s at %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
