// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package cache is a resource-keyed read cache backed by Redis. A nil or
// unreachable client behaves like a permanent miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
)

const keyPrefix = "tappio:"

type Client struct {
	rdb redis.UniversalClient
}

// New returns nil when no address is configured.
func New(cfg config.RedisConfig) *Client {
	if cfg.Addr == "" {
		return nil
	}
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

// NewWithClient wraps an existing redis client.
func NewWithClient(rdb redis.UniversalClient) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached bytes, or nil on miss or when redis is unavailable.
func (c *Client) Get(ctx context.Context, key string) []byte {
	if !c.enabled() {
		return nil
	}
	b, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		return nil
	}
	return b
}

// Set stores value with ttl. Errors are logged and swallowed.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops the given keys.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		slog.Warn("cache invalidate failed", "keys", keys, "error", err)
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}

// Fetch returns the cached value for key or loads, stores and returns it.
func Fetch[T any](ctx context.Context, c *Client, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if raw := c.Get(ctx, key); raw != nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		slog.Warn("cache entry undecodable", "key", key)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c.enabled() {
		if raw, err := json.Marshal(v); err == nil {
			c.Set(ctx, key, raw, ttl)
		}
	}
	return v, nil
}
