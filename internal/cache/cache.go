package cache

import (
	"fmt"
	"sync"
)

// Cache is a generic thread-safe LRU cache with a hard capacity.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*cacheEntry[K, V]
	lru      lruList[K]
	capacity int
	onEvict  func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

type cacheEntry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf("Cache[%d/%d, %.1f%% hits, %d evicted]",
		s.Len, s.Capacity, s.HitRate()*100, s.Evictions)
}

// New creates a cache holding at most capacity entries.
// A capacity of 0 means unlimited. onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache[K, V]{
		entries:  make(map[K]*cacheEntry[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.lru.MoveToFront(entry.node)
	return entry.value, true
}

// Set stores a value, replacing (and evicting) any previous value for key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		old := entry.value
		entry.value = value
		c.lru.MoveToFront(entry.node)
		c.evicted(key, old)
		return
	}
	c.insert(key, value)
}

// GetOrCreate returns the cached value for key or builds it with create.
// create is called under lock, so concurrent callers never build the same
// key twice. A create error is returned as is and nothing is cached.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		c.hits++
		c.lru.MoveToFront(entry.node)
		return entry.value, nil
	}
	c.misses++

	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.insert(key, value)
	return value, nil
}

// Delete removes key, passing its value to the eviction callback.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lru.Remove(entry.node)
	delete(c.entries, key)
	c.evicted(key, entry.value)
	return true
}

// Clear removes every entry, passing each value to the eviction callback.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		c.evicted(key, entry.value)
	}
	c.entries = make(map[K]*cacheEntry[K, V])
	c.lru.Clear()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Cache[K, V]) insert(key K, value V) {
	c.entries[key] = &cacheEntry[K, V]{value: value, node: c.lru.PushFront(key)}
	for c.capacity > 0 && len(c.entries) > c.capacity {
		oldest, ok := c.lru.RemoveOldest()
		if !ok {
			return
		}
		entry := c.entries[oldest]
		delete(c.entries, oldest)
		c.evicted(oldest, entry.value)
	}
}

func (c *Cache[K, V]) evicted(key K, value V) {
	c.evictions++
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
