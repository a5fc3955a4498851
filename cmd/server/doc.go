// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package main runs the Guara gateway.

Guara exposes a JSON HTTP API over an Apache Jena Fuseki server holding a
cultural collection: classes, physical and dimensional objects, relations
between them, repository records and the media files attached to objects.
Curators log in against a user graph in Fuseki and send the returned token
on every route that changes data.

# Process Tree

	guara
	├── data-layer
	│   └── media-journal-recovery   replays interrupted media removals
	└── api-layer
	    └── http-server              chi router on server.host:server.port

# Configuration

Configuration is loaded with koanf from built-in defaults, then the YAML
file named by CONFIG_PATH (or ./config.yaml, /etc/guara/config.yaml), then
the environment. Commonly set variables:

	FUSEKI_QUERY_URL      default query endpoint
	FUSEKI_UPDATE_URL     default update endpoint
	USER_QUERY_URL        user graph query endpoint
	USER_UPDATE_URL       user graph update endpoint
	REPO_QUERY_URL        repository records query endpoint
	REPO_UPDATE_URL       repository records update endpoint
	FUSEKI_ADMIN_URL      Fuseki server root for dataset creation
	UPLOAD_FOLDER         local media folder
	MEDIA_JOURNAL_PATH    BadgerDB directory of the removal journal
	TOKEN_CACHE_BACKEND   memory, redis or none
	REDIS_ADDR            token cache when the backend is redis
	AUTHZ_ENABLED         Casbin route authorization
	CORS_ORIGINS          comma-separated allowed origins
	LOG_LEVEL, LOG_FORMAT zerolog level and json or console output

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
requests for server.shutdown_timeout, then the media journal is closed.
*/
package main
