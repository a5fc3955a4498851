// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Uptime         float64 `json:"uptime"`
	SPARQLReady    bool    `json:"sparql_ready"`
	SPARQLError    string  `json:"sparql_error,omitempty"`
	CircuitBreaker string  `json:"circuit_breaker"`
	JournalPending int     `json:"media_journal_pending"`
}

// Health reports uptime, the query endpoint's reachability and the number
// of media removals waiting for replay.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := HealthStatus{
		Status:         "healthy",
		Uptime:         time.Since(h.startTime).Seconds(),
		SPARQLReady:    true,
		CircuitBreaker: h.client.BreakerState(h.cfg.SPARQL.QueryURL),
		JournalPending: -1,
	}
	if err := h.client.Probe(r.Context(), h.cfg.SPARQL.QueryURL); err != nil {
		status.Status = "degraded"
		status.SPARQLReady = false
		status.SPARQLError = err.Error()
	}
	if h.journal != nil {
		if pending, err := h.journal.Pending(r.Context()); err == nil {
			status.JournalPending = len(pending)
		}
	}
	rw.OK(status)
}

// HealthLive answers 200 while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).OK(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 when the configured query endpoint answers, and
// 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.client.Probe(r.Context(), h.cfg.SPARQL.QueryURL); err != nil {
		rw.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	rw.OK(map[string]interface{}{"status": "ready"})
}
