// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
)

// DefaultDatasetType is the Fuseki storage used for new datasets.
const DefaultDatasetType = "tdb2"

// Admin calls the Fuseki administration protocol.
type Admin struct {
	client   *Client
	endpoint string
	username string
	password string
}

// NewAdmin returns an Admin for the configured Fuseki server.
func NewAdmin(client *Client, cfg config.FusekiAdminConfig) *Admin {
	endpoint := strings.TrimRight(cfg.URL, "/") + "/$/datasets"
	client.Trust(endpoint)
	return &Admin{client: client, endpoint: endpoint, username: cfg.Username, password: cfg.Password}
}

// CreateDataset creates a dataset named name. A non-2xx answer is returned
// as an *UpstreamError carrying Fuseki's status, e.g. 409 when it exists.
func (a *Admin) CreateDataset(ctx context.Context, name, dbType string) (*Response, error) {
	if dbType == "" {
		dbType = DefaultDatasetType
	}
	logging.Ctx(ctx).Info().Str("dataset", name).Str("type", dbType).Msg("Creating Fuseki dataset")
	return a.client.do(ctx, OpAdmin, a.endpoint, false, func(ctx context.Context) (*http.Request, error) {
		form := url.Values{"dbName": {name}, "dbType": {dbType}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentTypeForm)
		if a.username != "" {
			req.SetBasicAuth(a.username, a.password)
		}
		return req, nil
	})
}
