// Package cache implements a bounded node cache: a mapping from node id
// to node with least-recently-accessed eviction.
package cache

import (
	"container/list"
	"sync"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

type entry struct {
	id   string
	node types.OntologicalNode
}

// Cache is a bounded, thread-safe id->node map with LRU eviction. The
// zero value is not usable; construct with New.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New constructs a cache with the given capacity. A non-positive
// capacity is treated as 1.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached node for id, bumping its recency on hit.
func (c *Cache) Get(id string) (types.OntologicalNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id]
	if !ok {
		return types.OntologicalNode{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).node, true
}

// Put inserts or replaces the cached node for id, evicting the least-
// recently-accessed entry if the cache is at capacity.
func (c *Cache) Put(id string, n types.OntologicalNode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		el.Value.(*entry).node = n
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{id: id, node: n})
	c.items[id] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).id)
			logging.CacheDebug("evicted id=%s (capacity=%d)", oldest.Value.(*entry).id, c.capacity)
		}
	}
}

// Remove evicts id from the cache, if present.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[id]; ok {
		c.ll.Remove(el)
		delete(c.items, id)
	}
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
