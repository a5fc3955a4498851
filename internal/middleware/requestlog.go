// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package middleware

import (
	"net/http"
	"time"

	"github.com/alisoncf/guara/internal/logging"
)

// DefaultSlowRequestThreshold marks requests worth a warning. Most of the
// time goes to the triplestore, so this mirrors the SPARQL client timeout.
const DefaultSlowRequestThreshold = 5 * time.Second

// RequestLogger writes one log line per request. Requests slower than
// threshold, and 5xx responses, are logged at warn level.
func RequestLogger(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			switch {
			case rw.statusCode >= 500:
				event = logger.Warn()
			case duration > threshold:
				event = logger.Warn().Bool("slow", true)
			}
			event.
				Str("method", r.Method).
				Str("path", logging.SanitizeLogValue(r.URL.Path)).
				Str("route", routePattern(r)).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Msg("HTTP request")
		})
	}
}
