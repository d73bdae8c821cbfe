package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rvasquez-dev/suiarb/types"
)

func TestResolveTwoHopKnownPairs(t *testing.T) {
	strat, ok := ResolveTwoHop(types.Cetus, types.Turbos)
	assert.True(t, ok)
	assert.Equal(t, types.CetusToTurbos, strat)

	strat, ok = ResolveTwoHop(types.DeepBook, types.FlowxClmm)
	assert.True(t, ok)
	assert.Equal(t, types.DeepBookToFlowxClmm, strat)
}

func TestResolveTwoHopRejectsNonFlashableBorrowLeg(t *testing.T) {
	_, ok := ResolveTwoHop(types.Aftermath, types.Cetus)
	assert.False(t, ok)

	_, ok = ResolveTwoHop(types.FlowxAmm, types.Cetus)
	assert.False(t, ok)
}

func TestResolveTwoHopRejectsUnimplementedPair(t *testing.T) {
	_, ok := ResolveTwoHop(types.Turbos, types.Turbos)
	assert.False(t, ok)
}

func TestResolveTwoHopReversedOnlyCoversCetusVariants(t *testing.T) {
	strat, ok := ResolveTwoHopReversed(types.Cetus, types.Turbos)
	assert.True(t, ok)
	assert.Equal(t, types.CetusToTurbosRev, strat)

	strat, ok = ResolveTwoHopReversed(types.Cetus, types.Aftermath)
	assert.True(t, ok)
	assert.Equal(t, types.CetusToAftermathRev, strat)

	_, ok = ResolveTwoHopReversed(types.Turbos, types.Cetus)
	assert.False(t, ok)
}

func TestResolveTriHopKnownTriples(t *testing.T) {
	strat, ok := ResolveTriHop(types.Cetus, types.Cetus, types.Cetus)
	assert.True(t, ok)
	assert.Equal(t, types.TriCetusCetusCetus, strat)

	strat, ok = ResolveTriHop(types.DeepBook, types.Cetus, types.Turbos)
	assert.True(t, ok)
	assert.Equal(t, types.TriDeepBookCetusTurbos, strat)
}

func TestResolveTriHopRejectsUnimplementedTriple(t *testing.T) {
	_, ok := ResolveTriHop(types.Aftermath, types.Aftermath, types.Aftermath)
	assert.False(t, ok)
}
