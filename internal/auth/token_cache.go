// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/alisoncf/guara/internal/cache"
	"github.com/alisoncf/guara/internal/config"
)

// Token cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// TokenCache holds recently validated sessions keyed by token.
type TokenCache interface {
	// Get returns the cached session. A miss is (nil, false, nil).
	Get(ctx context.Context, token string) (*Session, bool, error)
	// Set caches s for ttl. A non-positive ttl removes the entry.
	Set(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
	// Backend names the implementation for metrics.
	Backend() string
}

// NewTokenCache builds the backend selected by cfg.Cache.Backend.
func NewTokenCache(cfg config.AuthConfig) (TokenCache, error) {
	switch cfg.Cache.Backend {
	case "", CacheMemory:
		return NewMemoryTokenCache(cfg.Cache.Size, cfg.Cache.TTL), nil
	case CacheRedis:
		if cfg.Redis.Addr == "" {
			return nil, errors.New("auth: redis token cache needs auth.redis.addr")
		}
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			MaxRetries:   2,
		})
		return NewRedisTokenCache(client, cfg.Redis.Prefix), nil
	case CacheNone:
		return noopTokenCache{}, nil
	default:
		return nil, fmt.Errorf("auth: unknown token cache backend %q", cfg.Cache.Backend)
	}
}

// MemoryTokenCache keeps sessions in a process-local TTL LRU.
type MemoryTokenCache struct {
	lru *cache.LRU[Session]
}

// NewMemoryTokenCache returns a cache of at most size sessions, each kept
// for at most ttl.
func NewMemoryTokenCache(size int, ttl time.Duration) *MemoryTokenCache {
	return &MemoryTokenCache{lru: cache.NewLRU[Session](size, ttl)}
}

func (c *MemoryTokenCache) Get(_ context.Context, token string) (*Session, bool, error) {
	s, ok := c.lru.Get(token)
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (c *MemoryTokenCache) Set(_ context.Context, s *Session, ttl time.Duration) error {
	c.lru.AddWithTTL(s.Token, *s, ttl)
	return nil
}

func (c *MemoryTokenCache) Delete(_ context.Context, token string) error {
	c.lru.Remove(token)
	return nil
}

func (c *MemoryTokenCache) Backend() string { return CacheMemory }

// RedisTokenCache shares sessions between replicas. Each session is a hash
// {data, cached_at} under prefix+token with a key expiry.
type RedisTokenCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTokenCache wraps an existing client.
func NewRedisTokenCache(client redis.UniversalClient, prefix string) *RedisTokenCache {
	return &RedisTokenCache{client: client, prefix: prefix}
}

func (c *RedisTokenCache) key(token string) string { return c.prefix + token }

func (c *RedisTokenCache) Get(ctx context.Context, token string) (*Session, bool, error) {
	data, err := c.client.HGet(ctx, c.key(token), "data").Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, false, fmt.Errorf("redis decode: %w", err)
	}
	return &s, true, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, s *Session, ttl time.Duration) error {
	if ttl <= 0 {
		return c.Delete(ctx, s.Token)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}
	key := c.key(s.Token)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"data":      string(data),
		"cached_at": time.Now().Unix(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisTokenCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, c.key(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisTokenCache) Backend() string { return CacheRedis }

// Ping checks the connection, for readiness probes.
func (c *RedisTokenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}

type noopTokenCache struct{}

func (noopTokenCache) Get(context.Context, string) (*Session, bool, error) { return nil, false, nil }
func (noopTokenCache) Set(context.Context, *Session, time.Duration) error  { return nil }
func (noopTokenCache) Delete(context.Context, string) error                { return nil }
func (noopTokenCache) Backend() string                                     { return CacheNone }
