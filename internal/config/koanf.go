// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/guara/config.yaml",
	"/etc/guara/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		SPARQL: SPARQLConfig{
			QueryURL:           "http://localhost:3030/acervo/query",
			UpdateURL:          "http://localhost:3030/acervo/update",
			UserQueryURL:       "http://localhost:3030/usuarios/query",
			UserUpdateURL:      "http://localhost:3030/usuarios/update",
			RepoQueryURL:       "http://localhost:3030/repositorios/query",
			RepoUpdateURL:      "http://localhost:3030/repositorios/update",
			ObjectQueryURL:     "http://localhost:3030/acervo/query",
			UpdatePath:         "update",
			Timeout:            15 * time.Second,
			MaxRetries:         3,
			RetryBaseDelay:     200 * time.Millisecond,
			RateLimitPerSecond: 0,
			RateLimitBurst:     20,
			AllowedEndpoints:   []string{},
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      3,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		FusekiAdmin: FusekiAdminConfig{
			URL:      "http://localhost:3030",
			Username: "admin",
			Password: "",
		},
		Ontology: OntologyConfig{
			BaseObjectNamespace: "http://guara.ueg.br/ontologias/v1/objetos#",
			PrefixBaseRepo:      "http://guara.ueg.br/repositorios/",
			SummaryPredicate:    "dc:abstract",
		},
		Auth: AuthConfig{
			TokenTTL:            24 * time.Hour,
			AllowPlainPasswords: false,
			LegacyTimezone:      "UTC",
			Cache: TokenCacheConfig{
				Backend: "memory",
				TTL:     time.Minute,
				Size:    1024,
			},
			Redis: RedisConfig{
				Addr:   "",
				DB:     0,
				Prefix: "guara:token:",
			},
		},
		Authz: AuthzConfig{
			Enabled: false,
		},
		Media: MediaConfig{
			UploadFolder:      "/var/www/imagens",
			MaxUploadBytes:    16 << 20,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "mp4"},
			DefaultFolder:     "geral",
			PublicBaseURL:     "http://localhost:5000/imagens",
			Journal: JournalConfig{
				Path:          "/data/guara/journal",
				RetryInterval: 30 * time.Second,
				MaxAttempts:   100,
			},
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:9000", "https://localhost:9000"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
			LoginRateLimit:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration in three layers: struct defaults, the
// optional YAML file, then environment variables. The result is validated.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// FUSEKI_QUERY_URL -> sparql.query_url
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as
// strings from the environment.
var sliceConfigPaths = []string{
	"sparql.allowed_endpoints",
	"media.allowed_extensions",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// The fuseki_* and UPLOAD_FOLDER names match the keys deployments already use.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// SPARQL endpoints
	"fuseki_query_url":         "sparql.query_url",
	"fuseki_update_url":        "sparql.update_url",
	"user_query_url":           "sparql.user_query_url",
	"user_update_url":          "sparql.user_update_url",
	"repo_query_url":           "sparql.repo_query_url",
	"repo_update_url":          "sparql.repo_update_url",
	"object_query_url":         "sparql.object_query_url",
	"sparql_update_path":       "sparql.update_path",
	"sparql_timeout":           "sparql.timeout",
	"sparql_max_retries":       "sparql.max_retries",
	"sparql_retry_base_delay":  "sparql.retry_base_delay",
	"sparql_rate_limit":        "sparql.rate_limit_per_second",
	"sparql_rate_limit_burst":  "sparql.rate_limit_burst",
	"sparql_allowed_endpoints": "sparql.allowed_endpoints",
	"sparql_breaker_enabled":   "sparql.breaker.enabled",
	"sparql_breaker_failures":  "sparql.breaker.failure_threshold",
	"sparql_breaker_timeout":   "sparql.breaker.timeout",

	// Fuseki admin
	"fuseki_admin_url":      "fuseki_admin.url",
	"fuseki_admin_user":     "fuseki_admin.username",
	"fuseki_admin_password": "fuseki_admin.password",

	// Ontology
	"base_object_namespace": "ontology.base_object_namespace",
	"prefix_base_repo":      "ontology.prefix_base_repo",
	"summary_predicate":     "ontology.summary_predicate",

	// Auth
	"token_ttl":             "auth.token_ttl",
	"allow_plain_passwords": "auth.allow_plain_passwords",
	"legacy_timezone":       "auth.legacy_timezone",
	"token_cache_backend":   "auth.cache.backend",
	"token_cache_ttl":       "auth.cache.ttl",
	"token_cache_size":      "auth.cache.size",
	"redis_addr":            "auth.redis.addr",
	"redis_password":        "auth.redis.password",
	"redis_db":              "auth.redis.db",

	// Authz
	"authz_enabled":      "authz.enabled",
	"casbin_model_path":  "authz.model_path",
	"casbin_policy_path": "authz.policy_path",

	// Media
	"upload_folder":         "media.upload_folder",
	"max_content_length":    "media.max_upload_bytes",
	"allowed_extensions":    "media.allowed_extensions",
	"media_default_folder":  "media.default_folder",
	"media_public_base_url": "media.public_base_url",
	"media_journal_path":    "media.journal.path",
	"media_journal_retry":   "media.journal.retry_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"login_rate_limit":    "security.login_rate_limit",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns the koanf path for an environment variable, or ""
// so unrelated variables never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
