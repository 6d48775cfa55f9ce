package similarity

import (
	"container/list"
	"strconv"
	"strings"
	"sync"
)

// DefaultCacheSize bounds each memo map of a Scorer.
const DefaultCacheSize = 10000

// LRU is a mutex-guarded least-recently-used map.
// Get promotes the entry, so reads take the write lock.
type LRU[V any] struct {
	maxSize int
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
}

type lruEntry[V any] struct {
	key   string
	value V
}

// NewLRU creates an LRU holding at most maxSize entries.
func NewLRU[V any](maxSize int) *LRU[V] {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &LRU[V]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the value for key and marks it as recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[V]).value, true
	}
	var zero V
	return zero, false
}

// Set adds or updates key, evicting the least recently used entry when full.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry[V]).value = value
		return
	}

	elem := c.order.PushFront(&lruEntry[V]{key: key, value: value})
	c.items[key] = elem

	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry[V]).key)
		}
	}
}

// GetOrCompute returns the cached value for key, computing and storing it on a miss.
// compute runs outside the lock; concurrent misses may compute twice.
func (c *LRU[V]) GetOrCompute(key string, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Set(key, v)
	return v
}

// Clear removes all entries.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order = list.New()
}

// Len returns the number of entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// pairKey builds an order-independent key from the sorted pair and any extra
// parts. Each part is length-prefixed, so separators inside titles cannot
// make two different pairs share a key.
//
//	pairKey("b", "a", "x") == "1:a|1:b|1:x"
func pairKey(a, b string, extra ...string) string {
	if b < a {
		a, b = b, a
	}
	var sb strings.Builder
	sb.Grow(len(a) + len(b) + 8*(2+len(extra)))
	for i, part := range append([]string{a, b}, extra...) {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(len(part)))
		sb.WriteByte(':')
		sb.WriteString(part)
	}
	return sb.String()
}
