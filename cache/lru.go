package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
)

// Cache defines the common interface for the in-process caches.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Len() int
	Purge()
	// Cleanup drops every expired entry and returns how many were removed.
	Cleanup() int
}

type entry[V any] struct {
	key     string
	value   V
	stored  time.Time
	element *list.Element
}

type lruCache[V any] struct {
	mu       sync.Mutex
	name     string
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[string]*entry[V]
	order    *list.List
}

// Option customizes an LRU cache.
type Option func(*options)

type options struct {
	name string
	now  func() time.Time
}

// WithName labels the cache in metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithClock injects the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewLRU creates an LRU cache with capacity and TTL. An entry is stale once
// its age reaches the TTL.
func NewLRU[V any](capacity int, ttl time.Duration, opts ...Option) Cache[V] {
	if capacity <= 0 {
		capacity = 512
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	o := options{name: "default", now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &lruCache[V]{
		name:     o.name,
		capacity: capacity,
		ttl:      ttl,
		now:      o.now,
		items:    make(map[string]*entry[V], capacity),
		order:    list.New(),
	}
}

func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.items[key]
	if !ok {
		metrics.IncCacheLookup(c.name, "miss")
		return zero, false
	}
	if c.expired(ent, c.now()) {
		c.removeEntry(ent)
		metrics.IncCacheLookup(c.name, "expired")
		metrics.IncCacheEviction(c.name, "expired")
		return zero, false
	}
	c.order.MoveToFront(ent.element)
	metrics.IncCacheLookup(c.name, "hit")
	return ent.value, true
}

func (c *lruCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.value = value
		ent.stored = c.now()
		c.order.MoveToFront(ent.element)
		return
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry[V]{
		key:     key,
		value:   value,
		stored:  c.now(),
		element: elem,
	}
	for c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *lruCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry[V], c.capacity)
	c.order.Init()
}

func (c *lruCache[V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if ent, ok := c.items[elem.Value.(string)]; ok && c.expired(ent, now) {
			c.removeEntry(ent)
			removed++
		}
		elem = prev
	}
	for i := 0; i < removed; i++ {
		metrics.IncCacheEviction(c.name, "expired")
	}
	return removed
}

func (c *lruCache[V]) expired(ent *entry[V], now time.Time) bool {
	return now.Sub(ent.stored) >= c.ttl
}

func (c *lruCache[V]) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
		metrics.IncCacheEviction(c.name, "capacity")
	}
}

func (c *lruCache[V]) removeEntry(ent *entry[V]) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
