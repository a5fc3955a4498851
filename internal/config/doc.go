// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

/*
Package config loads Guara's configuration with koanf.

# Sources

Values are layered, later sources winning:
  - built-in defaults
  - a YAML file: CONFIG_PATH, ./config.yaml or /etc/guara/config.yaml
  - environment variables

# Environment Variables

Endpoints:
  - FUSEKI_QUERY_URL, FUSEKI_UPDATE_URL: collection dataset
  - USER_QUERY_URL, USER_UPDATE_URL: users and tokens
  - REPO_QUERY_URL, REPO_UPDATE_URL: repository registry
  - OBJECT_QUERY_URL: physical objects listing
  - SPARQL_ALLOWED_ENDPOINTS: comma-separated prefixes that request-supplied
    repository URLs must start with

Media:
  - UPLOAD_FOLDER (default /var/www/imagens)
  - MAX_CONTENT_LENGTH in bytes (default 16 MiB)
  - ALLOWED_EXTENSIONS (default jpg,jpeg,png,gif,mp4)

Auth:
  - TOKEN_TTL (default 24h)
  - TOKEN_CACHE_BACKEND: memory, redis or none
  - REDIS_ADDR when the backend is redis

Server and logging:
  - HTTP_HOST, HTTP_PORT (default 0.0.0.0:5000)
  - CORS_ORIGINS (default http://localhost:9000,https://localhost:9000)
  - LOG_LEVEL, LOG_FORMAT

See envMappings for the complete list.

# Example config.yaml

	sparql:
	  query_url: http://fuseki:3030/acervo/query
	  update_url: http://fuseki:3030/acervo/update
	  allowed_endpoints:
	    - http://fuseki:3030/
	ontology:
	  summary_predicate: dc:abstract
	media:
	  upload_folder: /srv/guara/imagens
*/
package config
