// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package sparql

import (
	"fmt"
	"net/url"
	"strings"
)

// UpdateEndpoint returns the update endpoint of a dataset URL, appending
// updatePath unless repo already ends with it.
func UpdateEndpoint(repo, updatePath string) string {
	repo = strings.TrimRight(repo, "/")
	updatePath = strings.Trim(updatePath, "/")
	if updatePath == "" || strings.HasSuffix(repo, "/"+updatePath) {
		return repo
	}
	return repo + "/" + updatePath
}

// QueryEndpoint returns the query endpoint for a repository URI stored in
// the repository graph. URIs already ending in /query or /sparql are kept.
func QueryEndpoint(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if strings.HasSuffix(uri, "/query") || strings.HasSuffix(uri, "/sparql") {
		return uri
	}
	return uri + "/query"
}

// endpointHost returns the host[:port] used to key breakers and metrics.
func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "invalid"
	}
	return u.Host
}

func checkEndpointURL(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q must use http or https", ErrInvalidEndpoint, endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidEndpoint, endpoint)
	}
	if u.User != nil {
		return nil, fmt.Errorf("%w: %q must not carry credentials", ErrInvalidEndpoint, endpoint)
	}
	return u, nil
}
