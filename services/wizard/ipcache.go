package wizard

import (
	"container/list"
	"sync"
	"time"

	"platter/models"
)

// ipCache is a bounded LRU of IP lookups. Entries also expire after ttl.
type ipCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	queue    *list.List
	now      func() time.Time
}

type ipCacheItem struct {
	ip        string
	coords    models.Coordinates
	expiresAt time.Time
}

func newIPCache(capacity int, ttl time.Duration) *ipCache {
	return &ipCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
		now:      time.Now,
	}
}

func (c *ipCache) Get(ip string) (models.Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[ip]
	if !ok {
		return models.Coordinates{}, false
	}
	item := element.Value.(*ipCacheItem)
	if c.ttl > 0 && !c.now().Before(item.expiresAt) {
		c.queue.Remove(element)
		delete(c.items, ip)
		return models.Coordinates{}, false
	}
	c.queue.MoveToFront(element)
	return item.coords, true
}

func (c *ipCache) Set(ip string, coords models.Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return
	}
	expiresAt := c.now().Add(c.ttl)
	if element, ok := c.items[ip]; ok {
		item := element.Value.(*ipCacheItem)
		item.coords, item.expiresAt = coords, expiresAt
		c.queue.MoveToFront(element)
		return
	}
	if c.queue.Len() >= c.capacity {
		if oldest := c.queue.Back(); oldest != nil {
			c.queue.Remove(oldest)
			delete(c.items, oldest.Value.(*ipCacheItem).ip)
		}
	}
	c.items[ip] = c.queue.PushFront(&ipCacheItem{ip: ip, coords: coords, expiresAt: expiresAt})
}

func (c *ipCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}
