// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultFusekiImage runs Jena Fuseki with an admin password from the
	// environment.
	DefaultFusekiImage = "stain/jena-fuseki:latest"

	// DefaultFusekiPassword is the admin password of test containers.
	DefaultFusekiPassword = "guara-test"

	fusekiPort = "3030/tcp"
)

// FusekiContainer is a running Fuseki server.
type FusekiContainer struct {
	testcontainers.Container

	// URL is the server root, e.g. http://localhost:32768.
	URL      string
	Password string
}

// QueryURL returns the query endpoint of dataset.
func (f *FusekiContainer) QueryURL(dataset string) string {
	return f.URL + "/" + dataset + "/query"
}

// UpdateURL returns the update endpoint of dataset.
func (f *FusekiContainer) UpdateURL(dataset string) string {
	return f.URL + "/" + dataset + "/update"
}

// FusekiOption configures the container.
type FusekiOption func(*fusekiConfig)

type fusekiConfig struct {
	image        string
	datasets     []string
	startTimeout time.Duration
}

// WithFusekiImage replaces DefaultFusekiImage.
func WithFusekiImage(image string) FusekiOption {
	return func(c *fusekiConfig) { c.image = image }
}

// WithDatasets creates TDB2 datasets at startup.
func WithDatasets(names ...string) FusekiOption {
	return func(c *fusekiConfig) { c.datasets = append(c.datasets, names...) }
}

// NewFusekiContainer starts Fuseki and waits until /$/ping answers.
//
//	fuseki, err := testinfra.NewFusekiContainer(ctx, testinfra.WithDatasets("acervo", "usuarios"))
//	if err != nil {
//	    t.Fatal(err)
//	}
//	testinfra.CleanupContainer(t, fuseki)
func NewFusekiContainer(ctx context.Context, opts ...FusekiOption) (*FusekiContainer, error) {
	cfg := &fusekiConfig{image: DefaultFusekiImage, startTimeout: 90 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	env := map[string]string{"ADMIN_PASSWORD": DefaultFusekiPassword}
	for i, name := range cfg.datasets {
		env[fmt.Sprintf("FUSEKI_DATASET_%d", i+1)] = name
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.image,
			ExposedPorts: []string{fusekiPort},
			Env:          env,
			WaitingFor: wait.ForHTTP("/$/ping").
				WithPort(fusekiPort).
				WithStartupTimeout(cfg.startTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create fuseki container: %w", err)
	}

	url, err := container.Endpoint(ctx, "http")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("fuseki endpoint: %w", err)
	}
	return &FusekiContainer{
		Container: container,
		URL:       strings.TrimRight(url, "/"),
		Password:  DefaultFusekiPassword,
	}, nil
}
