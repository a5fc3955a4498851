// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alisoncf/guara/internal/config"
)

const selectBody = `{"head":{"vars":["s"]},"results":{"bindings":[{"s":{"type":"uri","value":"http://x/1"}}]}}`

func testConfig(endpoints ...string) config.SPARQLConfig {
	cfg := config.SPARQLConfig{
		Timeout:        5 * time.Second,
		MaxRetries:     2,
		RetryBaseDelay: time.Millisecond,
		Breaker: config.BreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 2,
		},
	}
	if len(endpoints) > 0 {
		cfg.QueryURL = endpoints[0]
	}
	return cfg
}

func TestClientQuerySendsForm(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != contentTypeForm {
			t.Errorf("Content-Type = %s", ct)
		}
		if !strings.HasPrefix(r.Header.Get("Accept"), contentTypeResultsJSON) {
			t.Errorf("Accept = %s", r.Header.Get("Accept"))
		}
		if q := r.FormValue("query"); q != "SELECT * WHERE { ?s ?p ?o }" {
			t.Errorf("query = %q", q)
		}
		w.Header().Set("Content-Type", contentTypeResultsJSON)
		_, _ = io.WriteString(w, selectBody)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	resp, err := c.Query(context.Background(), server.URL, "SELECT * WHERE { ?s ?p ?o }")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if string(resp.Body) != selectBody {
		t.Errorf("body not passed through: %s", resp.Body)
	}
	if resp.ContentType != contentTypeResultsJSON {
		t.Errorf("ContentType = %s", resp.ContentType)
	}

	res, err := c.Select(context.Background(), server.URL, "SELECT * WHERE { ?s ?p ?o }")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if rows := res.Rows(); len(rows) != 1 || rows[0].Get("s") != "http://x/1" || !rows[0].IsURI("s") {
		t.Errorf("rows = %+v", rows)
	}
}

func TestClientUpdate(t *testing.T) {
	t.Parallel()

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != contentTypeUpdate {
			t.Errorf("Content-Type = %s", ct)
		}
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	if err := c.Update(context.Background(), server.URL, "CLEAR DEFAULT"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got != "CLEAR DEFAULT" {
		t.Errorf("update body = %q", got)
	}
}

func TestClientRetriesIdempotentQueries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, selectBody)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	if _, err := c.Query(context.Background(), server.URL, "ASK {}"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestClientDoesNotRetryUpdates(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "busy")
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Breaker.Enabled = false
	c := NewClient(cfg)
	err := c.Update(context.Background(), server.URL, "CLEAR DEFAULT")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.StatusCode != http.StatusServiceUnavailable || ue.Body != "busy" || ue.Op != OpUpdate {
		t.Errorf("UpstreamError = %+v", ue)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestClientUpstreamErrorCarriesBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Parse error: Lexical error at line 1", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	_, err := c.Query(context.Background(), server.URL, "SELEC")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.StatusCode != http.StatusBadRequest || !strings.Contains(ue.Body, "Lexical error") {
		t.Errorf("UpstreamError = %+v", ue)
	}
	// 4xx answers do not count against the breaker.
	for i := 0; i < 5; i++ {
		_, _ = c.Query(context.Background(), server.URL, "SELEC")
	}
	if state := c.BreakerState(server.URL); state != "closed" {
		t.Errorf("breaker state = %s, want closed", state)
	}
}

func TestClientBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	for i := 0; i < 2; i++ {
		_, err := c.Query(context.Background(), server.URL, "ASK {}")
		var ue *UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("call %d: error = %v, want *UpstreamError", i, err)
		}
	}

	_, err := c.Query(context.Background(), server.URL, "ASK {}")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error = %v, want ErrCircuitOpen", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2 (third rejected without a request)", n)
	}
	if state := c.BreakerState(server.URL); state != "open" {
		t.Errorf("breaker state = %s", state)
	}
}

func TestClientNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := testConfig(url)
	cfg.Breaker.Enabled = false
	c := NewClient(cfg)
	_, err := c.Query(context.Background(), url, "ASK {}")
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
}

func TestClientAsk(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"head":{},"boolean":true}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	ok, err := c.Ask(context.Background(), server.URL, "ASK {}")
	if err != nil || !ok {
		t.Errorf("Ask = %v, %v", ok, err)
	}
}

func TestCheckEndpoint(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://fuseki:3030/acervo/query")
	cfg.AllowedEndpoints = []string{"http://fuseki:3030/", "http://fuseki", "https://triplas.ueg.br/acervo"}
	c := NewClient(cfg)

	tests := []struct {
		endpoint string
		want     error
	}{
		{"http://fuseki:3030/outro/update", nil},
		{"http://fuseki:3030/acervo/query", nil},
		{"http://FUSEKI:3030/acervo/query", nil},
		{"http://fuseki/acervo/update", nil},
		{"https://triplas.ueg.br/acervo", nil},
		{"https://triplas.ueg.br/acervo/update", nil},
		{"http://evil:3030/acervo/update", ErrEndpointNotAllowed},
		{"http://fuseki:30301/ds/update", ErrEndpointNotAllowed},
		{"http://fuseki.evil.example/ds/update", ErrEndpointNotAllowed},
		{"https://fuseki:3030/acervo/update", ErrEndpointNotAllowed},
		{"https://triplas.ueg.br/acervo2/update", ErrEndpointNotAllowed},
		{"https://triplas.ueg.br/outro/update", ErrEndpointNotAllowed},
		{"http://triplas.ueg.br/acervo/update", ErrEndpointNotAllowed},
		{"https://triplas.ueg.br/acervo/../outro/update", ErrEndpointNotAllowed},
		{"ftp://fuseki:3030/acervo", ErrInvalidEndpoint},
		{"fuseki/acervo", ErrInvalidEndpoint},
		{"http://user:pw@fuseki:3030/acervo", ErrInvalidEndpoint},
	}
	for _, tt := range tests {
		err := c.CheckEndpoint(tt.endpoint)
		if tt.want == nil && err != nil {
			t.Errorf("CheckEndpoint(%q) unexpected error: %v", tt.endpoint, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("CheckEndpoint(%q) = %v, want %v", tt.endpoint, err, tt.want)
		}
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, true},
		{http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Query().Get("query") != probeQuery {
				t.Errorf("probe request = %s %s", r.Method, r.URL)
			}
			w.WriteHeader(tt.status)
		}))
		err := NewClient(testConfig(server.URL)).Probe(context.Background(), server.URL)
		if (err != nil) != tt.wantErr {
			t.Errorf("status %d: Probe error = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
		server.Close()
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	if d := retryDelay("", base, 2); d != 400*time.Millisecond {
		t.Errorf("backoff = %v", d)
	}
	if d := retryDelay("3", base, 0); d != 3*time.Second {
		t.Errorf("Retry-After seconds = %v", d)
	}
	past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
	if d := retryDelay(past, base, 0); d != 0 {
		t.Errorf("Retry-After in the past = %v", d)
	}
	if d := retryDelay("soon", base, 1); d != 200*time.Millisecond {
		t.Errorf("unparseable Retry-After = %v", d)
	}
}

func TestAdminCreateDataset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/$/datasets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Errorf("basic auth = %s:%s %v", user, pass, ok)
		}
		if r.FormValue("dbName") != "museu" || r.FormValue("dbType") != "tdb2" {
			t.Errorf("form = %v", r.Form)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(testConfig())
	admin := NewAdmin(c, config.FusekiAdminConfig{URL: server.URL + "/", Username: "admin", Password: "secret"})
	resp, err := admin.CreateDataset(context.Background(), "museu", "")
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestEndpointHelpers(t *testing.T) {
	t.Parallel()

	updates := map[string]string{
		"http://f:3030/museu":         "http://f:3030/museu/update",
		"http://f:3030/museu/":        "http://f:3030/museu/update",
		"http://f:3030/museu/update":  "http://f:3030/museu/update",
		"http://f:3030/museu/update/": "http://f:3030/museu/update",
	}
	for in, want := range updates {
		if got := UpdateEndpoint(in, "update"); got != want {
			t.Errorf("UpdateEndpoint(%q) = %q, want %q", in, got, want)
		}
	}

	queries := map[string]string{
		"http://f:3030/museu":        "http://f:3030/museu/query",
		"http://f:3030/museu/query":  "http://f:3030/museu/query",
		"http://f:3030/museu/sparql": "http://f:3030/museu/sparql",
	}
	for in, want := range queries {
		if got := QueryEndpoint(in); got != want {
			t.Errorf("QueryEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
