package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvasquez-dev/suiarb/types"
)

func snapshot(dex types.Dex, objectID string, updatedMs uint64) *types.PoolSnapshot {
	return &types.PoolSnapshot{ObjectID: objectID, Dex: dex, LastUpdatedMs: updatedMs}
}

func TestCachePutThenGetReturnsSameSnapshot(t *testing.T) {
	c := NewCache()

	written := c.Put(snapshot(types.Cetus, "0x1", 100))

	require.True(t, written)
	got, ok := c.Get(types.Cetus, "0x1")
	require.True(t, ok)
	assert.Equal(t, uint64(100), got.LastUpdatedMs)
}

func TestCachePutRejectsStaleOrEqualTimestamp(t *testing.T) {
	c := NewCache()
	c.Put(snapshot(types.Cetus, "0x1", 100))

	staleWritten := c.Put(snapshot(types.Cetus, "0x1", 50))
	equalWritten := c.Put(snapshot(types.Cetus, "0x1", 100))

	assert.False(t, staleWritten)
	assert.False(t, equalWritten)

	got, _ := c.Get(types.Cetus, "0x1")
	assert.Equal(t, uint64(100), got.LastUpdatedMs)
}

func TestCachePutAcceptsStrictlyNewerTimestamp(t *testing.T) {
	c := NewCache()
	c.Put(snapshot(types.Cetus, "0x1", 100))

	written := c.Put(snapshot(types.Cetus, "0x1", 101))

	assert.True(t, written)
	got, _ := c.Get(types.Cetus, "0x1")
	assert.Equal(t, uint64(101), got.LastUpdatedMs)
}

func TestCacheDistinguishesPoolsByDexAndObjectID(t *testing.T) {
	c := NewCache()
	c.Put(snapshot(types.Cetus, "0x1", 100))
	c.Put(snapshot(types.Turbos, "0x1", 100))
	c.Put(snapshot(types.Cetus, "0x2", 100))

	assert.Equal(t, 3, c.Len())

	_, ok := c.Get(types.DeepBook, "0x1")
	assert.False(t, ok)
}

func TestCacheSnapshotReturnsIndependentCopy(t *testing.T) {
	c := NewCache()
	c.Put(snapshot(types.Cetus, "0x1", 100))
	c.Put(snapshot(types.Cetus, "0x2", 100))

	all := c.Snapshot()

	assert.Len(t, all, 2)
	// Mutating the slice returned by Snapshot must not affect the cache.
	all[0] = nil
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(types.Cetus, "0x1")
	assert.True(t, ok)
}
