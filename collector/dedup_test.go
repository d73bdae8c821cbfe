package collector

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventDedupFirstSightingIsNotSeen(t *testing.T) {
	d := newEventDedup()

	assert.False(t, d.seen("digest1:0"))
}

func TestEventDedupSecondSightingIsSeen(t *testing.T) {
	d := newEventDedup()

	d.seen("digest1:0")

	assert.True(t, d.seen("digest1:0"))
}

func TestEventDedupDistinguishesDigests(t *testing.T) {
	d := newEventDedup()

	d.seen("digest1:0")

	assert.False(t, d.seen("digest1:1"))
	assert.False(t, d.seen("digest2:0"))
}

func TestEventDedupTreatsEmptyDigestAsNeverSeen(t *testing.T) {
	d := newEventDedup()

	assert.False(t, d.seen(""))
	assert.False(t, d.seen(""))
}

func TestEventDedupEvictsOldestPastCapacity(t *testing.T) {
	d := newEventDedup()

	for i := 0; i < dedupCacheSize+10; i++ {
		d.seen(strconv.Itoa(i))
	}

	// The earliest digests should have been evicted; re-seeing one
	// should read as unseen again rather than erroring.
	assert.False(t, d.seen("0"))
}
