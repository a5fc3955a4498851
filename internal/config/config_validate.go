// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alisoncf/guara/internal/logging"
)

// Validate checks that required configuration is present and well formed.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSPARQL,
		c.validateFusekiAdmin,
		c.validateOntology,
		c.validateAuth,
		c.validateMedia,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	for name, d := range map[string]time.Duration{
		"HTTP_READ_TIMEOUT":     c.Server.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    c.Server.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":     c.Server.IdleTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": c.Server.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateSPARQL() error {
	s := c.SPARQL
	required := []struct {
		value, name string
	}{
		{s.QueryURL, "FUSEKI_QUERY_URL"},
		{s.UpdateURL, "FUSEKI_UPDATE_URL"},
		{s.UserQueryURL, "USER_QUERY_URL"},
		{s.UserUpdateURL, "USER_UPDATE_URL"},
		{s.RepoQueryURL, "REPO_QUERY_URL"},
		{s.RepoUpdateURL, "REPO_UPDATE_URL"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
		if err := validateHTTPURL(r.value, r.name); err != nil {
			return err
		}
	}
	if err := validateOptionalHTTPURL(s.ObjectQueryURL, "OBJECT_QUERY_URL"); err != nil {
		return err
	}
	for _, prefix := range s.AllowedEndpoints {
		if err := validateHTTPURL(prefix, "SPARQL_ALLOWED_ENDPOINTS"); err != nil {
			return err
		}
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("SPARQL_TIMEOUT must be positive, got %v", s.Timeout)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("SPARQL_MAX_RETRIES must be non-negative, got %d", s.MaxRetries)
	}
	if s.RateLimitPerSecond < 0 {
		return fmt.Errorf("SPARQL_RATE_LIMIT must be non-negative, got %v", s.RateLimitPerSecond)
	}
	if s.RateLimitPerSecond > 0 && s.RateLimitBurst < 1 {
		return fmt.Errorf("SPARQL_RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if s.Breaker.Enabled && s.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("SPARQL_BREAKER_FAILURES must be at least 1 when the breaker is enabled")
	}
	return nil
}

func (c *Config) validateFusekiAdmin() error {
	return validateOptionalHTTPURL(c.FusekiAdmin.URL, "FUSEKI_ADMIN_URL")
}

func (c *Config) validateOntology() error {
	if err := validateHTTPURL(c.Ontology.BaseObjectNamespace, "BASE_OBJECT_NAMESPACE"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Ontology.PrefixBaseRepo, "PREFIX_BASE_REPO"); err != nil {
		return err
	}
	switch c.Ontology.SummaryPredicate {
	case "dc:abstract", "dc:subject":
		return nil
	default:
		return fmt.Errorf("SUMMARY_PREDICATE must be dc:abstract or dc:subject, got %q", c.Ontology.SummaryPredicate)
	}
}

func (c *Config) validateAuth() error {
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %v", c.Auth.TokenTTL)
	}
	if _, err := time.LoadLocation(c.Auth.LegacyTimezone); err != nil {
		return fmt.Errorf("LEGACY_TIMEZONE is invalid: %w", err)
	}
	switch c.Auth.Cache.Backend {
	case "none":
	case "memory":
		if c.Auth.Cache.Size < 1 {
			return fmt.Errorf("TOKEN_CACHE_SIZE must be at least 1, got %d", c.Auth.Cache.Size)
		}
	case "redis":
		if c.Auth.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when TOKEN_CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("TOKEN_CACHE_BACKEND must be memory, redis or none, got %q", c.Auth.Cache.Backend)
	}
	if c.Auth.Cache.Backend != "none" && c.Auth.Cache.TTL <= 0 {
		return fmt.Errorf("TOKEN_CACHE_TTL must be positive, got %v", c.Auth.Cache.TTL)
	}
	return nil
}

func (c *Config) validateMedia() error {
	m := c.Media
	if m.UploadFolder == "" {
		return fmt.Errorf("UPLOAD_FOLDER is required")
	}
	if m.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must be positive, got %d", m.MaxUploadBytes)
	}
	if len(m.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must list at least one extension")
	}
	for _, ext := range m.AllowedExtensions {
		if strings.ContainsAny(ext, "/\\. ") {
			return fmt.Errorf("ALLOWED_EXTENSIONS entry %q must be a bare extension such as jpg", ext)
		}
	}
	if m.DefaultFolder == "" || strings.ContainsAny(m.DefaultFolder, "/\\") || m.DefaultFolder == ".." {
		return fmt.Errorf("MEDIA_DEFAULT_FOLDER must be a single path segment, got %q", m.DefaultFolder)
	}
	if err := validateOptionalHTTPURL(m.PublicBaseURL, "MEDIA_PUBLIC_BASE_URL"); err != nil {
		return err
	}
	if !m.Journal.InMemory && m.Journal.Path == "" {
		return fmt.Errorf("MEDIA_JOURNAL_PATH is required")
	}
	if m.Journal.RetryInterval <= 0 {
		return fmt.Errorf("MEDIA_JOURNAL_RETRY must be positive, got %v", m.Journal.RetryInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	if c.Security.LoginRateLimit < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be at least 1, got %d", c.Security.LoginRateLimit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
