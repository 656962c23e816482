// Package redis provides an analysis result cache backed by a redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// DefaultPrefix namespaces every key written by the cache.
const DefaultPrefix = "clauseguard:analysis:"

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

// Config configures the redis cache.
type Config struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// Cache stores JSON-encoded analyses in redis.
type Cache struct {
	rdb    redis.UniversalClient
	prefix string
}

// New creates a cache client. It does not contact the server; use Ping.
func New(cfg Config) *Cache {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	return NewWithClient(rdb, cfg.Prefix)
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb redis.UniversalClient, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{rdb: rdb, prefix: prefix}
}

// Key returns the namespaced redis key.
func (c *Cache) Key(key string) string {
	return c.prefix + key
}

// Ping checks the server is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Get returns the cached analysis or domain.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Analysis, error) {
	data, err := c.rdb.Get(ctx, c.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", domain.ErrCacheUnavailable, key, err)
	}

	var a domain.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return &a, nil
}

// Set stores an analysis for ttl. A zero ttl means no expiry.
func (c *Cache) Set(ctx context.Context, key string, a *domain.Analysis, ttl time.Duration) error {
	if a == nil {
		return fmt.Errorf("%w: nil analysis", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrCacheUnavailable, err)
	}
	if err := c.rdb.Set(ctx, c.Key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return nil
}

// Close closes the client connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
