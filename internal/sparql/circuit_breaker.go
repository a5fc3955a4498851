// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
)

// breakers holds one circuit breaker per endpoint host, created on first use.
// Datasets on the same Fuseki share a breaker because they fail together.
//
// The breaker uses real time for its interval and timeout; tests that need
// an open circuit trip it with consecutive failures.
type breakers struct {
	cfg config.BreakerConfig

	mu sync.Mutex
	m  map[string]*gobreaker.CircuitBreaker[*Response]
}

func newBreakers(cfg config.BreakerConfig) *breakers {
	return &breakers{cfg: cfg, m: make(map[string]*gobreaker.CircuitBreaker[*Response])}
}

func (b *breakers) get(host string) *gobreaker.CircuitBreaker[*Response] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.m[host]; ok {
		return cb
	}

	name := "sparql:" + host
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	threshold := b.cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: b.cfg.MaxRequests,
		Interval:    b.cfg.Interval,
		Timeout:     b.cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().Str("breaker", name).Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("Opening circuit")
			}
			return trip
		},

		// A 4xx means the triplestore is up and rejected the query; only
		// transport errors and 5xx count against the endpoint.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var ue *UpstreamError
			if errors.As(err, &ue) {
				return ue.StatusCode < 500
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	b.m[host] = cb
	return cb
}

// execute runs fn under the breaker for host. Rejections are reported as
// ErrCircuitOpen.
func (b *breakers) execute(host string, fn func() (*Response, error)) (*Response, error) {
	cb := b.get(host)
	name := cb.Name()

	resp, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
			logging.Warn().Str("breaker", name).Err(err).Msg("Request rejected by circuit breaker")
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, host)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
	return resp, nil
}

// state reports the breaker state for host, or closed if none exists yet.
func (b *breakers) state(host string) gobreaker.State {
	b.mu.Lock()
	cb, ok := b.m[host]
	b.mu.Unlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
