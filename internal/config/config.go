// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Loading order (see LoadWithKoanf):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/guara/config.yaml)
//  3. Environment variables
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	SPARQL      SPARQLConfig      `koanf:"sparql"`
	FusekiAdmin FusekiAdminConfig `koanf:"fuseki_admin"`
	Ontology    OntologyConfig    `koanf:"ontology"`
	Auth        AuthConfig        `koanf:"auth"`
	Authz       AuthzConfig       `koanf:"authz"`
	Media       MediaConfig       `koanf:"media"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SPARQLConfig names the Fuseki endpoints the service talks to and the
// resilience settings of the SPARQL client.
type SPARQLConfig struct {
	QueryURL       string `koanf:"query_url"`
	UpdateURL      string `koanf:"update_url"`
	UserQueryURL   string `koanf:"user_query_url"`
	UserUpdateURL  string `koanf:"user_update_url"`
	RepoQueryURL   string `koanf:"repo_query_url"`
	RepoUpdateURL  string `koanf:"repo_update_url"`
	ObjectQueryURL string `koanf:"object_query_url"`

	// UpdatePath is appended to a request-supplied dataset URL when a route
	// receives the dataset root rather than its update endpoint.
	UpdatePath string `koanf:"update_path"`

	Timeout            time.Duration `koanf:"timeout"`
	MaxRetries         int           `koanf:"max_retries"`
	RetryBaseDelay     time.Duration `koanf:"retry_base_delay"`
	RateLimitPerSecond float64       `koanf:"rate_limit_per_second"` // 0 disables
	RateLimitBurst     int           `koanf:"rate_limit_burst"`

	// AllowedEndpoints restricts request-supplied repository URLs to these
	// prefixes. Empty allows any http(s) URL.
	AllowedEndpoints []string `koanf:"allowed_endpoints"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the per-endpoint circuit breakers.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`      // allowed in half-open
	Interval         time.Duration `koanf:"interval"`          // closed-state counter reset
	Timeout          time.Duration `koanf:"timeout"`           // open -> half-open
	FailureThreshold uint32        `koanf:"failure_threshold"` // consecutive failures to trip
}

// FusekiAdminConfig is used by dataset creation.
type FusekiAdminConfig struct {
	URL      string `koanf:"url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// OntologyConfig holds namespaces that differ between deployments.
type OntologyConfig struct {
	BaseObjectNamespace string `koanf:"base_object_namespace"`
	PrefixBaseRepo      string `koanf:"prefix_base_repo"`

	// SummaryPredicate is written for an object's summary. Reads accept both
	// dc:abstract and dc:subject.
	SummaryPredicate string `koanf:"summary_predicate"`
}

// AuthConfig configures tokens, login and the token cache.
type AuthConfig struct {
	TokenTTL            time.Duration    `koanf:"token_ttl"`
	AllowPlainPasswords bool             `koanf:"allow_plain_passwords"`
	LegacyTimezone      string           `koanf:"legacy_timezone"`
	Cache               TokenCacheConfig `koanf:"cache"`
	Redis               RedisConfig      `koanf:"redis"`
}

// TokenCacheConfig selects the token cache backend.
type TokenCacheConfig struct {
	Backend string        `koanf:"backend"` // memory, redis or none
	TTL     time.Duration `koanf:"ttl"`
	Size    int           `koanf:"size"`
}

// RedisConfig is used when the token cache backend is redis.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// AuthzConfig enables Casbin route authorization. Empty paths use the
// embedded model and policy.
type AuthzConfig struct {
	Enabled    bool   `koanf:"enabled"`
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// MediaConfig configures local upload storage.
type MediaConfig struct {
	UploadFolder      string        `koanf:"upload_folder"`
	MaxUploadBytes    int64         `koanf:"max_upload_bytes"`
	AllowedExtensions []string      `koanf:"allowed_extensions"`
	DefaultFolder     string        `koanf:"default_folder"`
	PublicBaseURL     string        `koanf:"public_base_url"`
	Journal           JournalConfig `koanf:"journal"`
}

// JournalConfig configures the media removal journal.
type JournalConfig struct {
	Path          string        `koanf:"path"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	MaxAttempts   int           `koanf:"max_attempts"`
	InMemory      bool          `koanf:"in_memory"`
}

// SecurityConfig holds CORS and inbound rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	LoginRateLimit    int           `koanf:"login_rate_limit"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig is passed to logging.Init.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, the optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
