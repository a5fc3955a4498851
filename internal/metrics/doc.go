// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package metrics defines Guara's Prometheus metrics.

Metrics are registered on the default registry through promauto and exposed
at /metrics:

	curl http://localhost:5000/metrics

# Available Metrics

HTTP:
  - guara_api_requests_total{method,endpoint,status_code}
  - guara_api_request_duration_seconds{method,endpoint}
  - guara_api_active_requests
  - guara_api_rate_limit_hits_total{endpoint}

SPARQL upstream:
  - guara_sparql_requests_total{operation,endpoint,outcome}
  - guara_sparql_request_duration_seconds{operation,endpoint}
  - guara_sparql_retries_total{endpoint,status_code}
  - guara_circuit_breaker_* per endpoint host

Auth:
  - guara_token_checks_total{result}
  - guara_token_cache_{hits,misses,errors}_total{backend}
  - guara_logins_total{result}
  - guara_authz_decisions_total{action,decision}

Media:
  - guara_media_files_stored_total, guara_media_upload_bytes_total
  - guara_media_removals_total{outcome}
  - guara_media_journal_pending
  - guara_media_journal_recovered_total{result}

Endpoint labels use the chi route pattern, never the raw path.
*/
package metrics
