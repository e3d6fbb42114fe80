package cache

import "sync"

// Cache is a thread-safe LRU cache. When a limit is set and exceeded, the
// least recently used entries are evicted.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	order   list[K, V]
	limit   int

	// OnEvict, when set before use, receives every value that leaves the
	// cache through eviction, Delete or Clear. It runs without the lock held.
	OnEvict func(K, V)

	hits, misses, evictions uint64
}

// New creates a cache holding at most limit entries. Zero means unlimited.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*node[K, V]),
		limit:   limit,
	}
}

// Get retrieves a value and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(n)
	return n.value, true
}

// Contains reports whether key is present without touching recency or stats.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Set stores a value, replacing any previous one for key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	var evicted []*node[K, V]
	if n, ok := c.entries[key]; ok {
		old := *n
		n.value = value
		c.order.moveToFront(n)
		evicted = append(evicted, &old)
	} else {
		n := &node[K, V]{key: key, value: value}
		c.entries[key] = n
		c.order.pushFront(n)
	}
	for c.limit > 0 && c.order.len > c.limit {
		oldest := c.order.tail
		c.order.remove(oldest)
		delete(c.entries, oldest.key)
		c.evictions++
		evicted = append(evicted, oldest)
	}
	c.mu.Unlock()

	c.notify(evicted)
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.order.remove(n)
		delete(c.entries, key)
	}
	c.mu.Unlock()

	if ok {
		c.notify([]*node[K, V]{n})
	}
	return ok
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	var all []*node[K, V]
	for n := c.order.head; n != nil; n = n.next {
		all = append(all, n)
	}
	c.entries = make(map[K]*node[K, V])
	c.order = list[K, V]{}
	c.mu.Unlock()

	c.notify(all)
}

// Keys returns the keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.len)
	for n := c.order.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.len
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       c.order.len,
		Capacity:  c.limit,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

func (c *Cache[K, V]) notify(nodes []*node[K, V]) {
	if c.OnEvict == nil {
		return
	}
	for _, n := range nodes {
		c.OnEvict(n.key, n.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// HitRate is hits over lookups, 0.0 to 1.0.
	HitRate float64
}
