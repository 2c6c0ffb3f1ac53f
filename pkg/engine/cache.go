package engine

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var errEmptyRebuild = errors.New("rebuild produced no items")

// Cache is a TTL cache around a ranked-list producer. Concurrent
// callers during a stale window coalesce behind a single producer run;
// if the producer fails or comes back empty while a previous non-empty
// result exists, the stale result keeps being served.
type Cache[T any] struct {
	ttl time.Duration
	now func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	items   []T
	builtAt time.Time
}

// NewCache creates a cache with the given TTL. now may be nil, in
// which case time.Now is used.
func NewCache[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{ttl: ttl, now: now}
}

// Get returns the cached items and their age, rebuilding through
// produce when the cache is stale or empty.
func (c *Cache[T]) Get(produce func() ([]T, error)) ([]T, time.Duration) {
	if items, age, ok := c.fresh(); ok {
		return items, age
	}

	v, err, _ := c.group.Do("rebuild", func() (any, error) {
		// A coalesced caller may land here just after the winner
		// repopulated the cache; don't rebuild twice.
		if items, _, ok := c.fresh(); ok {
			return items, nil
		}

		items, err := produce()
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, errEmptyRebuild
		}

		c.mu.Lock()
		c.items = items
		c.builtAt = c.now()
		c.mu.Unlock()
		return items, nil
	})

	if err != nil {
		// Stale-if-error: a failed or empty rebuild never clobbers a
		// previous good result.
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.items, c.ageLocked()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return v.([]T), c.ageLocked()
}

// fresh returns the cached items if they are non-empty and inside TTL.
func (c *Cache[T]) fresh() ([]T, time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) > 0 && c.now().Sub(c.builtAt) < c.ttl {
		return c.items, c.ageLocked(), true
	}
	return nil, 0, false
}

// Clear drops the cached result, forcing the next Get to rebuild.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.items = nil
	c.builtAt = time.Time{}
	c.mu.Unlock()
}

func (c *Cache[T]) ageLocked() time.Duration {
	if c.builtAt.IsZero() {
		return 0
	}
	age := c.now().Sub(c.builtAt)
	if age < 0 {
		age = 0
	}
	return age
}
