package search

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
)

// Searcher is the interface the cache wraps.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]cards.Card, error)
}

var _ Searcher = (*Client)(nil)
var _ recommendations.SearchClient = (*CachedClient)(nil)

type cacheEntry struct {
	results  []cards.Card
	storedAt time.Time
}

// CachedClient memoizes search results per query for a bounded time. It is
// an optimization only; eviction or disabling never changes results beyond
// staleness.
type CachedClient struct {
	inner   Searcher
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
}

// NewCachedClient wraps a searcher with a TTL cache. maxSize of 0 means
// unlimited entries.
func NewCachedClient(inner Searcher, ttl time.Duration, maxSize int) *CachedClient {
	return &CachedClient{
		inner:   inner,
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Search returns cached results when fresh, otherwise queries the inner
// searcher and stores the outcome. Errors are never cached.
func (c *CachedClient) Search(ctx context.Context, query string, limit int) ([]cards.Card, error) {
	key := cacheKey(query, limit)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Sub(entry.storedAt) < c.ttl {
			results := cloneCards(entry.results)
			c.mu.Unlock()
			return results, nil
		}
		c.evict(key)
	}
	c.mu.Unlock()

	results, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.maxSize > 0 {
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			c.evict(c.order[0])
		}
	}
	c.entries[key] = cacheEntry{results: cloneCards(results), storedAt: c.now()}
	c.order = append(c.order, key)
	c.mu.Unlock()

	return results, nil
}

// Purge drops all cached entries.
func (c *CachedClient) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.order = nil
}

// Len returns the number of cached queries.
func (c *CachedClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict removes one key. Caller holds the lock.
func (c *CachedClient) evict(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func cacheKey(query string, limit int) string {
	return query + "\x00" + strconv.Itoa(limit)
}

// cloneCards copies the slice so callers cannot mutate cached entries.
func cloneCards(in []cards.Card) []cards.Card {
	out := make([]cards.Card, len(in))
	copy(out, in)
	return out
}
