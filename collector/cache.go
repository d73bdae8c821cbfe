// Package collector produces timestamped PoolSnapshot values into a
// shared cache via polling and event-stream ingestion (spec.md §4.4).
package collector

import (
	"sync"

	"github.com/rvasquez-dev/suiarb/types"
)

// key identifies a pool independent of which collector wrote it.
type key struct {
	dex      types.Dex
	objectID string
}

// Cache is the shared pool-state cache: many collector goroutines write,
// the orchestrator's Scanner reads. Grounded on
// original_source/bot-rs/crates/collector/src/pool_cache.rs's
// Arc<DashMap<PoolId, PoolState>>, translated into Go per Design Notes'
// "single lock held only during pointer-swap" pattern: the map value is
// always a fresh, fully-populated *PoolSnapshot, so readers never
// observe a partially written snapshot (spec.md §5).
type Cache struct {
	mu    sync.RWMutex
	pools map[key]*types.PoolSnapshot
}

func NewCache() *Cache {
	return &Cache{pools: make(map[key]*types.PoolSnapshot)}
}

// Put writes snapshot if it is strictly newer than whatever is cached
// for the same pool, or if nothing is cached yet. Writers may only
// overwrite with a strictly newer timestamp (spec.md §3 invariant, §5).
func (c *Cache) Put(snapshot *types.PoolSnapshot) (written bool) {
	k := key{dex: snapshot.Dex, objectID: snapshot.ObjectID}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.pools[k]
	if ok && existing.LastUpdatedMs >= snapshot.LastUpdatedMs {
		return false
	}
	c.pools[k] = snapshot
	return true
}

// Get returns the latest snapshot for (dex, objectID).
func (c *Cache) Get(dex types.Dex, objectID string) (*types.PoolSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.pools[key{dex: dex, objectID: objectID}]
	return s, ok
}

// Snapshot returns a point-in-time copy of every cached pool, safe for
// the Scanner to iterate without holding the cache lock during an O(N^2)
// or O(N^3) scan.
func (c *Cache) Snapshot() []*types.PoolSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*types.PoolSnapshot, 0, len(c.pools))
	for _, v := range c.pools {
		out = append(out, v)
	}
	return out
}

// Len reports how many pools are currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pools)
}
