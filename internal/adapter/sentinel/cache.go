package sentinel

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/purell"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
)

// CachedProductLister wraps a ProductLister with an in-memory LRU cache whose entries
// expire after a fixed time to live.
type CachedProductLister struct {
	inner   domain.ProductLister
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProductLister creates a cache decorator around a product lister.
func NewCachedProductLister(inner domain.ProductLister, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedProductLister {
	return &CachedProductLister{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl),
		metrics: metrics,
	}
}

// ListProducts returns the cached listing for pageURL or fetches it. URLs that differ
// only in fragment, query order, or case of scheme and host share an entry.
func (c *CachedProductLister) ListProducts(ctx context.Context, pageURL string) ([]domain.Product, error) {
	key := cacheKey(pageURL)
	if products, ok := c.cache.get(key); ok {
		c.metrics.ProductCache.WithLabelValues("hit").Inc()
		return products, nil
	}
	c.metrics.ProductCache.WithLabelValues("miss").Inc()

	products, err := c.inner.ListProducts(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty listings so a page that is still being published can be retried.
	if len(products) > 0 {
		c.cache.put(key, products)
	}
	return products, nil
}

func cacheKey(pageURL string) string {
	normalized, err := purell.NormalizeURLString(pageURL,
		purell.FlagsSafe|purell.FlagRemoveFragment|purell.FlagSortQuery)
	if err != nil {
		return pageURL
	}
	return normalized
}

// lruCache holds product listings keyed by normalized page URL. The front of order is
// the most recently used listing. Expired listings are dropped lazily on lookup.
type lruCache struct {
	maxEntries int
	ttl        time.Duration

	mu    sync.Mutex
	order *list.List
	index map[string]*list.Element
}

type listing struct {
	url       string
	products  []domain.Product
	expiresAt time.Time
}

func newLRUCache(maxEntries int, ttl time.Duration) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		index:      make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	l := el.Value.(*listing)
	if !domain.Now().Before(l.expiresAt) {
		c.drop(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return l.products, true
}

func (c *lruCache) put(key string, products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := &listing{url: key, products: products, expiresAt: domain.Now().Add(c.ttl)}
	if el, ok := c.index[key]; ok {
		el.Value = l
		c.order.MoveToFront(el)
		return
	}
	c.index[key] = c.order.PushFront(l)

	for c.order.Len() > max(c.maxEntries, 1) {
		c.drop(c.order.Back())
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// drop removes el from both order and index. Callers hold mu.
func (c *lruCache) drop(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*listing).url)
}
