// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

// Package testinfra starts the gateway's real dependencies in Docker with
// testcontainers-go for integration tests: Jena Fuseki and Redis.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon. The first run pulls the images.
package testinfra
