package resolve

import (
	"container/list"
	"sync"
	"time"

	"github.com/flipradar/flipradar/internal/model"
)

// memoryCache is a small in-memory LRU with TTL for resolved records. It is
// ephemeral by design: durable storage belongs to the caller.
type memoryCache struct {
	maxSize int
	ttl     time.Duration

	mu    sync.Mutex
	items map[string]*list.Element
	lru   *list.List
}

type cacheItem struct {
	key       string
	value     *model.NormalizedProduct
	expiresAt time.Time
}

func newMemoryCache(maxSize int, ttl time.Duration) *memoryCache {
	return &memoryCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns a copy of the cached record. Entries are copied on both Put
// and Get so no caller ever holds a pointer into the cache; mutating a
// returned record cannot poison later hits.
func (c *memoryCache) Get(key string) (*model.NormalizedProduct, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return nil, false
	}
	item := element.Value.(*cacheItem)
	if time.Now().After(item.expiresAt) {
		c.lru.Remove(element)
		delete(c.items, key)
		return nil, false
	}
	c.lru.MoveToFront(element)
	return cloneProduct(item.value), true
}

func (c *memoryCache) Put(key string, value *model.NormalizedProduct) {
	value = cloneProduct(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		item := element.Value.(*cacheItem)
		item.value = value
		item.expiresAt = time.Now().Add(c.ttl)
		c.lru.MoveToFront(element)
		return
	}

	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheItem).key)
	}

	c.items[key] = c.lru.PushFront(&cacheItem{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// cloneProduct copies a record with its Dimensions and Listing sections, so
// cache entries and caller-held records never share mutable structure.
func cloneProduct(p *model.NormalizedProduct) *model.NormalizedProduct {
	if p == nil {
		return nil
	}
	out := *p
	if p.Dimensions != nil {
		d := *p.Dimensions
		out.Dimensions = &d
	}
	if p.Listing != nil {
		l := *p.Listing
		out.Listing = &l
	}
	return &out
}
