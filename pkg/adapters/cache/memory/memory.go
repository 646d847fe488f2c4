package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aescanero/gistproxy/pkg/domain"
)

// Cache implements ports.Cache using an in-memory map with TTL.
// Expired entries are dropped lazily on Get and counted by Stats.
type Cache struct {
	entries map[string]entry
	ttl     time.Duration
	mu      sync.RWMutex

	// now is overridable for tests
	now func() time.Time
}

type entry struct {
	page     *domain.GistsPage
	storedAt time.Time
}

// NewCache creates a new in-memory cache with the given TTL
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached page for key if present and not expired
func (c *Cache) Get(ctx context.Context, key string) (*domain.GistsPage, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if c.now().Sub(e.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock, another Get may have raced
		if e2, ok := c.entries[key]; ok && c.now().Sub(e2.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached envelope
	pageCopy := *e.page
	return &pageCopy, true, nil
}

// Set stores a page under key with the current timestamp
func (c *Cache) Set(ctx context.Context, key string, page *domain.GistsPage) error {
	pageCopy := *page

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{page: &pageCopy, storedAt: c.now()}
	return nil
}

// Remove drops a single key
func (c *Cache) Remove(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Clear drops all entries and reports how many were removed
func (c *Cache) Clear(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[string]entry)
	return removed, nil
}

// Stats reports entry counts and the configured TTL
func (c *Cache) Stats(ctx context.Context) (*domain.CacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	valid := 0
	for _, e := range c.entries {
		if now.Sub(e.storedAt) < c.ttl {
			valid++
		}
	}

	return &domain.CacheStats{
		TotalEntries:   len(c.entries),
		ValidEntries:   valid,
		ExpiredEntries: len(c.entries) - valid,
		TTLSeconds:     int(c.ttl.Seconds()),
	}, nil
}
