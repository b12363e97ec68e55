// ABOUTME: Thread-safe TTL cache of fetched user profiles
// ABOUTME: Size-limited with O(1) insertion-order eviction

package users

import (
	"container/list"
	"sync"
	"time"

	"github.com/parlorchat/parlor/internal/api"
)

// cacheEntry stores a cached user, its fetch time, and its list element.
type cacheEntry struct {
	user      api.User
	timestamp time.Time
	element   *list.Element
}

// cache is a thread-safe, TTL-based, size-limited store of user profiles
// keyed by user id. A doubly-linked list maintains insertion order for O(1)
// eviction of the oldest entry.
type cache struct {
	mu      sync.RWMutex
	users   map[int64]*cacheEntry
	order   *list.List // user ids in insertion order, oldest at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// newCache creates a cache with the given TTL and maximum size. A
// background goroutine periodically removes expired entries.
func newCache(ttl time.Duration, maxSize int) *cache {
	c := &cache{
		users:   make(map[int64]*cacheEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// get returns the cached profile for id, if present and not expired.
func (c *cache) get(id int64) (api.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.users[id]
	if !ok || time.Since(entry.timestamp) >= c.ttl {
		return api.User{}, false
	}
	return entry.user, true
}

// put stores a profile, evicting the oldest entry when at capacity.
func (c *cache) put(user api.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	if entry, exists := c.users[user.ID]; exists {
		entry.user = user
		entry.timestamp = now
		c.order.MoveToBack(entry.element)
		return
	}

	if len(c.users) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(user.ID)
	c.users[user.ID] = &cacheEntry{
		user:      user,
		timestamp: now,
		element:   elem,
	}
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	id, _ := front.Value.(int64)
	c.order.Remove(front)
	delete(c.users, id)
}

// cleanup runs in a background goroutine, dropping expired entries.
func (c *cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

// runCleanup removes all expired entries.
func (c *cache) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.users {
		if now.Sub(entry.timestamp) > c.ttl {
			c.order.Remove(entry.element)
			delete(c.users, id)
		}
	}
}

// close stops the background cleanup goroutine. Safe to call multiple times.
func (c *cache) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
