package icons

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/ev-charger-map/internal/domain"
	"github.com/couchcryptid/ev-charger-map/internal/observability"
)

// CachedResolver wraps an IconResolver with an in-memory LRU cache keyed by
// account and color.
type CachedResolver struct {
	inner   domain.IconResolver
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around an icon resolver.
func NewCachedResolver(inner domain.IconResolver, maxEntries int, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedResolver) ResolveIcon(ctx context.Context, account string, color domain.Color) (domain.IconResource, error) {
	key := account + "|" + string(color)
	if res, ok := c.cache.get(key); ok {
		c.metrics.IconCache.WithLabelValues("hit").Inc()
		return res, nil
	}
	c.metrics.IconCache.WithLabelValues("miss").Inc()

	res, err := c.inner.ResolveIcon(ctx, account, color)
	if err != nil {
		return res, err
	}
	// Failures are not cached so a fixed asset is picked up on the next render.
	c.cache.put(key, res)
	return res, nil
}

// lruCache is a thread-safe LRU cache for rendered icons. The front of order
// is the most recently used entry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
}

type cacheEntry struct {
	key   string
	value domain.IconResource
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *lruCache) get(key string) (domain.IconResource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.IconResource{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key string, value domain.IconResource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
