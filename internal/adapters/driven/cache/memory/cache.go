// Package memory provides an in-process analysis result cache.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

type entry struct {
	data    []byte
	expires time.Time
}

// Cache stores encoded analyses in a map guarded by a RWMutex.
// Entries are stored encoded so callers never share memory with the cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached analysis or domain.ErrCacheMiss.
func (c *Cache) Get(_ context.Context, key string) (*domain.Analysis, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, domain.ErrCacheMiss
	}

	var a domain.Analysis
	if err := json.Unmarshal(e.data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrCacheUnavailable, key, err)
	}
	return &a, nil
}

// Set stores an analysis for ttl. A zero ttl means no expiry.
func (c *Cache) Set(_ context.Context, key string, a *domain.Analysis, ttl time.Duration) error {
	if a == nil {
		return fmt.Errorf("%w: nil analysis", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", domain.ErrCacheUnavailable, err)
	}

	e := entry{data: data}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *Cache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}
