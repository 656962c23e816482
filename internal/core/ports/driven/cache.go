package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// ResultCache caches complete analyses keyed by content hash and rules version.
// This is an optional service - when nil, every request is analysed afresh.
type ResultCache interface {
	// Get returns the cached analysis or domain.ErrCacheMiss.
	Get(ctx context.Context, key string) (*domain.Analysis, error)

	// Set stores an analysis for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, a *domain.Analysis, ttl time.Duration) error

	// Close releases resources.
	Close() error
}
