package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a size-bounded cache whose entries also expire after ttl. A ttl of
// zero keeps entries until they are evicted.
type LRU[T any] struct {
	mu      sync.Mutex
	size    int
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*list.Element
	order   *list.List // front is most recently used
}

type entry[T any] struct {
	key     string
	value   T
	expires time.Time
}

var _ Cache[string] = (*LRU[string])(nil)

// NewLRU returns an empty cache holding at most size entries.
func NewLRU[T any](size int, ttl time.Duration) *LRU[T] {
	if size < 1 {
		size = 1
	}
	return &LRU[T]{
		size:    size,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *LRU[T]) expired(e *entry[T], now time.Time) bool {
	return c.ttl > 0 && now.After(e.expires)
}

func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[T])
	if c.expired(e, c.now()) {
		c.remove(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *LRU[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, value: value, expires: c.now().Add(c.ttl)}
	if el, ok := c.entries[key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(e)
	if c.order.Len() > c.size {
		c.remove(c.order.Back())
	}
}

func (c *LRU[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
}

func (c *LRU[T]) remove(el *list.Element) {
	delete(c.entries, el.Value.(*entry[T]).key)
	c.order.Remove(el)
}

// Sweep removes expired entries.
func (c *LRU[T]) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if c.expired(el.Value.(*entry[T]), now) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *LRU[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
