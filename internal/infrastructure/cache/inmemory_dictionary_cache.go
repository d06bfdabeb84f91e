package cache

import (
	"context"
	"sync"
	"time"

	appmarketplace "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/domain/marketplace"
)

// InMemoryDictionaryCache is a process-local dictionary cache for tests
// and single-instance deployments without Redis.
type InMemoryDictionaryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]inMemoryEntry

	// now is overridable in tests
	now func() time.Time
}

type inMemoryEntry struct {
	values    []marketplace.DictionaryValue
	expiresAt time.Time
}

var _ appmarketplace.DictionaryCache = (*InMemoryDictionaryCache)(nil)

// NewInMemoryDictionaryCache creates an in-memory dictionary cache.
func NewInMemoryDictionaryCache(ttl time.Duration) *InMemoryDictionaryCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &InMemoryDictionaryCache{
		ttl:     ttl,
		entries: make(map[string]inMemoryEntry),
		now:     time.Now,
	}
}

// Get returns cached values for the query key, false on miss or expiry.
func (c *InMemoryDictionaryCache) Get(ctx context.Context, code marketplace.Code, query marketplace.DictionaryQuery) ([]marketplace.DictionaryValue, bool) {
	c.mu.RLock()
	entry, ok := c.entries[dictionaryKey(code, query)]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.values, true
}

// Put stores values for the query key.
func (c *InMemoryDictionaryCache) Put(ctx context.Context, code marketplace.Code, query marketplace.DictionaryQuery, values []marketplace.DictionaryValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dictionaryKey(code, query)] = inMemoryEntry{
		values:    values,
		expiresAt: c.now().Add(c.ttl),
	}
}
