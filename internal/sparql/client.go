// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
)

const (
	contentTypeResultsJSON = "application/sparql-results+json"
	contentTypeUpdate      = "application/sparql-update"
	contentTypeForm        = "application/x-www-form-urlencoded"

	acceptQuery = contentTypeResultsJSON + ", application/json;q=0.9, */*;q=0.1"

	// probeQuery is the cheapest query every SPARQL endpoint answers.
	probeQuery = "SELECT * WHERE { ?s ?p ?o } LIMIT 1"
)

// Response is an upstream answer passed through to the caller unmodified.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client talks SPARQL 1.1 over HTTP to Fuseki.
//
// Idempotent queries are retried on 429/502/503/504 with exponential backoff,
// honoring Retry-After. Updates are sent once. Every call passes through the
// outbound rate limiter (when configured) and the circuit breaker of the
// endpoint's host.
//
// Client is safe for concurrent use.
type Client struct {
	http           *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	limiter        *rate.Limiter
	breakers       *breakers
	allowed        []string
	trusted        map[string]struct{}
}

// NewClient builds a client from the sparql configuration. The configured
// endpoint URLs are always allowed.
func NewClient(cfg config.SPARQLConfig) *Client {
	c := &Client{
		http:           &http.Client{Timeout: cfg.Timeout},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		allowed:        cfg.AllowedEndpoints,
		trusted:        make(map[string]struct{}),
	}
	if cfg.RateLimitPerSecond > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), burst)
	}
	if cfg.Breaker.Enabled {
		c.breakers = newBreakers(cfg.Breaker)
	}
	for _, u := range []string{
		cfg.QueryURL, cfg.UpdateURL, cfg.UserQueryURL, cfg.UserUpdateURL,
		cfg.RepoQueryURL, cfg.RepoUpdateURL, cfg.ObjectQueryURL,
	} {
		c.Trust(u)
	}
	return c
}

// Trust allows endpoint regardless of sparql.allowed_endpoints.
func (c *Client) Trust(endpoint string) {
	if endpoint != "" {
		c.trusted[endpoint] = struct{}{}
	}
}

// CheckEndpoint validates an endpoint URL supplied by a client: it must be
// an absolute http(s) URL and, when an allow-list is configured, fall under
// one of its entries. An entry matches on scheme and host:port, and its path
// is a prefix of the endpoint's ending at a "/" boundary.
func (c *Client) CheckEndpoint(endpoint string) error {
	u, err := checkEndpointURL(endpoint)
	if err != nil {
		return err
	}
	if _, ok := c.trusted[endpoint]; ok || len(c.allowed) == 0 {
		return nil
	}
	for _, entry := range c.allowed {
		if allowedBy(u, entry) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEndpointNotAllowed, endpoint)
}

func allowedBy(u *url.URL, entry string) bool {
	allowed, err := url.Parse(entry)
	if err != nil || allowed.Host == "" {
		return false
	}
	if !strings.EqualFold(u.Scheme, allowed.Scheme) || !strings.EqualFold(u.Host, allowed.Host) {
		return false
	}
	prefix := strings.TrimSuffix(allowed.Path, "/")
	if prefix == "" {
		return true
	}
	p := path.Clean("/" + u.Path)
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// Query sends a query as an HTML form POST and returns the raw answer.
func (c *Client) Query(ctx context.Context, endpoint, query string) (*Response, error) {
	logging.Ctx(ctx).Debug().Str("endpoint", endpoint).Str("query", query).Msg("SPARQL query")
	return c.do(ctx, OpQuery, endpoint, true, func(ctx context.Context) (*http.Request, error) {
		form := url.Values{"query": {query}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentTypeForm)
		req.Header.Set("Accept", acceptQuery)
		return req, nil
	})
}

// QueryGET sends a query as GET ?query=, the form used by the raw proxy.
func (c *Client) QueryGET(ctx context.Context, endpoint, query string) (*Response, error) {
	logging.Ctx(ctx).Debug().Str("endpoint", endpoint).Str("query", query).Msg("SPARQL query (GET)")
	return c.do(ctx, OpQuery, endpoint, true, func(ctx context.Context) (*http.Request, error) {
		return getQueryRequest(ctx, endpoint, query)
	})
}

// Select runs a SELECT query and decodes the bindings.
func (c *Client) Select(ctx context.Context, endpoint, query string) (*Results, error) {
	resp, err := c.Query(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	return ParseResults(resp.Body)
}

// Ask runs an ASK query.
func (c *Client) Ask(ctx context.Context, endpoint, query string) (bool, error) {
	res, err := c.Select(ctx, endpoint, query)
	if err != nil {
		return false, err
	}
	if res.Boolean == nil {
		return false, fmt.Errorf("sparql: ASK answer from %s has no boolean", endpoint)
	}
	return *res.Boolean, nil
}

// Update sends a SPARQL update. Updates are never retried.
func (c *Client) Update(ctx context.Context, endpoint, update string) error {
	logging.Ctx(ctx).Debug().Str("endpoint", endpoint).Str("update", update).Msg("SPARQL update")
	_, err := c.do(ctx, OpUpdate, endpoint, false, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(update))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentTypeUpdate)
		return req, nil
	})
	return err
}

// Probe checks that endpoint answers SPARQL. A 400 still proves the server
// is up, so both 200 and 400 count as alive. Probe bypasses retries and the
// circuit breaker so it reports the endpoint's real state.
func (c *Client) Probe(ctx context.Context, endpoint string) error {
	req, err := getQueryRequest(ctx, endpoint, probeQuery)
	if err != nil {
		return &NetworkError{Op: OpQuery, Endpoint: endpoint, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: OpQuery, Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return &UpstreamError{Op: OpQuery, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return nil
}

// BreakerState reports "closed", "half-open" or "open" for endpoint's host.
func (c *Client) BreakerState(endpoint string) string {
	if c.breakers == nil {
		return "disabled"
	}
	return stateToString(c.breakers.state(endpointHost(endpoint)))
}

func getQueryRequest(ctx context.Context, endpoint, query string) (*http.Request, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptQuery)
	return req, nil
}

type requestFunc func(ctx context.Context) (*http.Request, error)

func (c *Client) do(ctx context.Context, op, endpoint string, idempotent bool, build requestFunc) (*Response, error) {
	if err := c.CheckEndpoint(endpoint); err != nil {
		return nil, err
	}
	host := endpointHost(endpoint)
	start := time.Now()

	call := func() (*Response, error) {
		return c.roundTrip(ctx, op, endpoint, host, idempotent, build)
	}
	var (
		resp *Response
		err  error
	)
	if c.breakers != nil {
		resp, err = c.breakers.execute(host, call)
	} else {
		resp, err = call()
	}

	elapsed := time.Since(start)
	metrics.RecordSPARQLRequest(op, host, outcome(err), elapsed)

	l := logging.Ctx(ctx)
	if err != nil {
		l.Warn().Err(err).Str("op", op).Str("endpoint", endpoint).Dur("duration", elapsed).Msg("SPARQL request failed")
		return nil, err
	}
	l.Debug().Str("op", op).Str("endpoint", endpoint).Int("status", resp.StatusCode).Dur("duration", elapsed).Msg("SPARQL request completed")
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, op, endpoint, host string, idempotent bool, build requestFunc) (*Response, error) {
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, &NetworkError{Op: op, Endpoint: endpoint, Err: err}
			}
		}

		req, err := build(ctx)
		if err != nil {
			return nil, fmt.Errorf("sparql: build request: %w", err)
		}
		httpResp, err := c.http.Do(req)
		if err != nil {
			return nil, &NetworkError{Op: op, Endpoint: endpoint, Err: err}
		}
		body, err := io.ReadAll(httpResp.Body)
		_ = httpResp.Body.Close()
		if err != nil {
			return nil, &NetworkError{Op: op, Endpoint: endpoint, Err: err}
		}

		if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
			return &Response{
				StatusCode:  httpResp.StatusCode,
				ContentType: httpResp.Header.Get("Content-Type"),
				Body:        body,
			}, nil
		}

		if idempotent && retryable(httpResp.StatusCode) && attempt < c.maxRetries {
			delay := retryDelay(httpResp.Header.Get("Retry-After"), c.retryBaseDelay, attempt)
			metrics.RecordSPARQLRetry(host, httpResp.StatusCode)
			logging.Ctx(ctx).Debug().Str("endpoint", endpoint).Int("status", httpResp.StatusCode).
				Int("attempt", attempt+1).Dur("delay", delay).Msg("Retrying SPARQL query")

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
				continue
			case <-ctx.Done():
				timer.Stop()
				return nil, &NetworkError{Op: op, Endpoint: endpoint, Err: ctx.Err()}
			}
		}

		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &UpstreamError{Op: op, Endpoint: endpoint, StatusCode: httpResp.StatusCode, Body: string(body)}
	}
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryDelay returns base*2^attempt, or the Retry-After value (seconds or an
// HTTP date) when the server sent one.
func retryDelay(retryAfter string, base time.Duration, attempt int) time.Duration {
	delay := base * time.Duration(1<<uint(attempt))
	if retryAfter == "" {
		return delay
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
		return 0
	}
	return delay
}

func outcome(err error) string {
	var (
		ue *UpstreamError
		ne *NetworkError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ue):
		return "upstream_error"
	case errors.As(err, &ne):
		return "network_error"
	case errors.Is(err, ErrCircuitOpen):
		return "rejected"
	default:
		return "error"
	}
}
