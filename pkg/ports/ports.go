package ports

import (
	"context"
	"time"

	"github.com/aescanero/gistproxy/pkg/domain"
)

// UpstreamClient fetches public gists from the upstream API.
type UpstreamClient interface {
	// ListGists fetches one page of a user's public gists. The returned
	// rate limit reflects the headers observed on this call and may be
	// partially nil if the upstream omitted them.
	ListGists(ctx context.Context, username string, page, perPage int) ([]domain.Gist, *domain.RateLimit, error)
}

// Cache stores assembled response pages keyed by username and pagination.
type Cache interface {
	// Get returns the cached page for key, or ok=false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (*domain.GistsPage, bool, error)

	// Set stores a page under key with the cache's configured TTL.
	Set(ctx context.Context, key string, page *domain.GistsPage) error

	// Remove drops a single key.
	Remove(ctx context.Context, key string) error

	// Clear drops all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)

	// Stats reports entry counts and the configured TTL.
	Stats(ctx context.Context) (*domain.CacheStats, error)
}

// MetricsCollector records service metrics.
type MetricsCollector interface {
	RecordRequest(status int, duration time.Duration)
	RecordCacheHit()
	RecordCacheMiss()
	RecordUpstreamRequest(status int, duration time.Duration)
	SetRateLimitRemaining(remaining int)
	SetCacheEntries(valid, expired int)
}
