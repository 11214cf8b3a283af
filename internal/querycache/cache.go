// Package querycache holds resolved gateway query results keyed by
// (entity, parameters, identity). It is the only shared mutable resource on
// the client; every read and write goes through a key an entity store
// declares, never through ad hoc globals. Mutations invalidate the scopes
// they could have changed; switching identity invalidates rather than
// reuses, because identity is part of the key.
package querycache

import (
	"sync"
	"time"
)

// Key identifies one cached query result. Identity is empty for data that is
// not user-scoped (e.g. the catalog).
type Key struct {
	Entity   string
	Params   string
	Identity string
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache is a TTL-based result cache. The zero value is not usable; use New.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[Key]entry
}

// DefaultTTL is the staleness window for cached results.
const DefaultTTL = 30 * time.Second

// New builds a cache. ttl <= 0 falls back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, entries: make(map[Key]entry)}
}

// Get returns the cached value for k, or ok=false when the key is missing or
// stale. Stale entries are dropped on access.
func (c *Cache) Get(k Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if time.Since(e.fetchedAt) > c.ttl {
		delete(c.entries, k)
		return nil, false
	}
	return e.value, true
}

// Set stores a freshly resolved result under k.
func (c *Cache) Set(k Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k] = entry{value: v, fetchedAt: time.Now()}
}

// Invalidate drops a single key.
func (c *Cache) Invalidate(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, k)
}

// InvalidateEntity drops every result for one entity, all parameters and
// identities included.
func (c *Cache) InvalidateEntity(entity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Entity == entity {
			delete(c.entries, k)
		}
	}
}

// InvalidateEntityParams drops an entity+params result for every identity.
// Used when a mutation changes data other identities also observe, like the
// like total of a product.
func (c *Cache) InvalidateEntityParams(entity, params string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Entity == entity && k.Params == params {
			delete(c.entries, k)
		}
	}
}

// InvalidateIdentity drops every result scoped to one identity. Called on
// sign-out and identity switch so a previous user's rows can never be served
// to the next.
func (c *Cache) InvalidateIdentity(identity string) {
	if identity == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Identity == identity {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of live entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
