// Package lru provides a bounded, pin-aware cache of namespace shards.
package lru

import (
	"context"
	"sync"

	"github.com/fwojciec/rhinodoc"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the number of shards kept resident when no capacity
// is configured.
const DefaultCapacity = 100

// LoadFunc loads a shard on a cache miss.
type LoadFunc func(ctx context.Context) (*rhinodoc.Shard, error)

// Stats reports cache activity since creation.
type Stats struct {
	Hits      int
	Misses    int
	Loads     int
	Evictions int

	// Uncached counts loads served without being retained because every
	// resident shard was pinned.
	Uncached int
}

type entry struct {
	shard *rhinodoc.Shard
	pins  int
}

// ShardCache keeps at most Capacity shards resident. Shards are loaded at
// most once per miss even under concurrent access, evicted least recently
// used first, and never evicted while a caller holds them.
type ShardCache struct {
	mu       sync.Mutex
	capacity int
	entries  *simplelru.LRU[string, *entry]
	group    singleflight.Group
	stats    Stats
}

// NewShardCache returns a cache holding up to capacity shards. A capacity
// below one falls back to DefaultCapacity.
func NewShardCache(capacity int) *ShardCache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	// The cache evicts by hand so the inner LRU never needs to; its size
	// only has to exceed ours.
	entries, err := simplelru.NewLRU[string, *entry](capacity+1, nil)
	if err != nil {
		panic(err)
	}
	return &ShardCache{capacity: capacity, entries: entries}
}

// Capacity returns the maximum number of resident shards.
func (c *ShardCache) Capacity() int {
	return c.capacity
}

// Acquire returns the shard for namespace, calling load on a miss. The
// returned release func unpins the shard and must be called exactly once
// when the caller is done with it; calling it again has no effect.
//
// Load errors are returned to every waiting caller and are not cached.
func (c *ShardCache) Acquire(ctx context.Context, namespace string, load LoadFunc) (*rhinodoc.Shard, func(), error) {
	if shard, release, ok := c.pin(namespace, true); ok {
		return shard, release, nil
	}
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	ch := c.group.DoChan(namespace, func() (any, error) {
		// A fill that finished after our miss has already stored the shard.
		if shard, ok := c.resident(namespace); ok {
			return shard, nil
		}
		// Waiters share this load, so it must outlive the first caller's
		// cancellation.
		shard, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(namespace, shard)
		return shard, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, nil, res.Err
	}

	if shard, release, ok := c.pin(namespace, false); ok {
		return shard, release, nil
	}
	return res.Val.(*rhinodoc.Shard), func() {}, nil
}

// store makes a freshly loaded shard resident while the load is still
// in flight, so no caller can miss it between the load and its insertion.
func (c *ShardCache) store(namespace string, shard *rhinodoc.Shard) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Loads++
	if c.entries.Contains(namespace) {
		return
	}
	if !c.makeRoom() {
		c.stats.Uncached++
		return
	}
	c.entries.Add(namespace, &entry{shard: shard})
}

// resident returns the shard for namespace without touching its recency.
func (c *ShardCache) resident(namespace string) (*rhinodoc.Shard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(namespace)
	if !ok {
		return nil, false
	}
	return e.shard, true
}

// pin returns a resident shard with its pin count raised.
func (c *ShardCache) pin(namespace string, hit bool) (*rhinodoc.Shard, func(), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(namespace)
	if !ok {
		return nil, nil, false
	}
	e.pins++
	if hit {
		c.stats.Hits++
	}
	return e.shard, c.releaser(e), true
}

func (c *ShardCache) releaser(e *entry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			e.pins--
			c.mu.Unlock()
		})
	}
}

// makeRoom evicts unpinned shards, oldest first, until one more fits.
// Reports false if the cache is full of pinned shards. c.mu must be held.
func (c *ShardCache) makeRoom() bool {
	for c.entries.Len() >= c.capacity {
		victim, ok := c.oldestUnpinned()
		if !ok {
			return false
		}
		c.entries.Remove(victim)
		c.stats.Evictions++
	}
	return true
}

func (c *ShardCache) oldestUnpinned() (string, bool) {
	for _, key := range c.entries.Keys() {
		if e, ok := c.entries.Peek(key); ok && e.pins == 0 {
			return key, true
		}
	}
	return "", false
}

// Contains reports whether namespace is resident without touching its
// recency.
func (c *ShardCache) Contains(namespace string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Contains(namespace)
}

// Len returns the number of resident shards.
func (c *ShardCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a snapshot of cache counters.
func (c *ShardCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
