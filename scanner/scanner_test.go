package scanner

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvasquez-dev/suiarb/types"
)

var q64 = new(big.Int).Lsh(big.NewInt(1), 64)

// sqrtPriceFor inverts PoolSnapshot.PriceAInB's CLMM branch (sp = sqrt_price
// / 2^64, price = sp*sp) so tests can construct a snapshot with a known
// price without duplicating the fixed-point math by hand.
func sqrtPriceFor(price float64) *big.Int {
	sp := new(big.Float).SetFloat64(math.Sqrt(price))
	sp.Mul(sp, new(big.Float).SetInt(q64))
	out, _ := sp.Int(nil)
	return out
}

const testLiquidity = 1_000_000_000_000 // well above minCLMMLiquidity

func clmmPool(dex types.Dex, objectID, coinA, coinB string, price float64, lastUpdatedMs uint64) *types.PoolSnapshot {
	return &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           dex,
		CoinTypeA:     coinA,
		CoinTypeB:     coinB,
		SqrtPrice:     sqrtPriceFor(price),
		Liquidity:     big.NewInt(testLiquidity),
		LastUpdatedMs: lastUpdatedMs,
	}
}

// evenDecimals reports both coin types at the same decimal count so
// NormalizeFactor is always 1 and price math in these tests stays exact.
var evenDecimals = types.DecimalsMap{}

func TestScanTwoHopFindsDivergentFlashablePair(t *testing.T) {
	s := New(1_000_000, evenDecimals, nil)
	nowMs := uint64(10_000)

	cetusPool := clmmPool(types.Cetus, "0xcetus", "0x2::sui::SUI", "0xusdc::USDC", 1.0, nowMs)
	turbosPool := clmmPool(types.Turbos, "0xturbos", "0x2::sui::SUI", "0xusdc::USDC", 1.05, nowMs)

	opps := s.ScanTwoHop([]*types.PoolSnapshot{cetusPool, turbosPool}, nowMs)

	require.Len(t, opps, 1)
	assert.Equal(t, types.CetusToTurbos, opps[0].Strategy)
	assert.Equal(t, types.Cetus, opps[0].Legs[0].Venue, "the cheaper pool is the flash-borrow source")
	assert.Equal(t, types.Turbos, opps[0].Legs[1].Venue)
	assert.Equal(t, twoHopAmountIn, opps[0].AmountIn)
	assert.Greater(t, opps[0].ExpectedProfit, uint64(0))
}

func TestScanTwoHopSkipsBelowSpreadThreshold(t *testing.T) {
	s := New(1, evenDecimals, nil)
	nowMs := uint64(10_000)

	// A spread of 0.05% is below twoHopSpreadThreshold (0.1%).
	poolA := clmmPool(types.Cetus, "0xa", "0x2::sui::SUI", "0xusdc::USDC", 1.0, nowMs)
	poolB := clmmPool(types.Turbos, "0xb", "0x2::sui::SUI", "0xusdc::USDC", 1.0005, nowMs)

	opps := s.ScanTwoHop([]*types.PoolSnapshot{poolA, poolB}, nowMs)
	assert.Empty(t, opps)
}

func TestScanTwoHopSkipsStalePools(t *testing.T) {
	s := New(1, evenDecimals, nil)
	nowMs := uint64(100_000)
	stale := nowMs - types.StaleAfterMs - 1

	poolA := clmmPool(types.Cetus, "0xa", "0x2::sui::SUI", "0xusdc::USDC", 1.0, stale)
	poolB := clmmPool(types.Turbos, "0xb", "0x2::sui::SUI", "0xusdc::USDC", 1.05, nowMs)

	opps := s.ScanTwoHop([]*types.PoolSnapshot{poolA, poolB}, nowMs)
	assert.Empty(t, opps, "a pair with one stale leg must never be scanned")
}

func TestScanTwoHopSkipsWhenBelowMinProfit(t *testing.T) {
	// A huge min-profit floor turns a real divergence into a near-miss.
	s := New(1_000_000_000_000, evenDecimals, nil)
	nowMs := uint64(10_000)

	poolA := clmmPool(types.Cetus, "0xa", "0x2::sui::SUI", "0xusdc::USDC", 1.0, nowMs)
	poolB := clmmPool(types.Turbos, "0xb", "0x2::sui::SUI", "0xusdc::USDC", 1.05, nowMs)

	opps := s.ScanTwoHop([]*types.PoolSnapshot{poolA, poolB}, nowMs)
	assert.Empty(t, opps)
}

func TestScanTwoHopIgnoresPoolsWithDifferentCoinPairs(t *testing.T) {
	s := New(1, evenDecimals, nil)
	nowMs := uint64(10_000)

	poolA := clmmPool(types.Cetus, "0xa", "0x2::sui::SUI", "0xusdc::USDC", 1.0, nowMs)
	poolB := clmmPool(types.Turbos, "0xb", "0x2::sui::SUI", "0xusdt::USDT", 1.05, nowMs)

	opps := s.ScanTwoHop([]*types.PoolSnapshot{poolA, poolB}, nowMs)
	assert.Empty(t, opps)
}

func TestScanTriHopFindsProfitableTriangle(t *testing.T) {
	s := New(1_000_000, evenDecimals, nil)
	nowMs := uint64(10_000)

	// X -> Y at 1.0, Y -> Z at 1.0, Z -> X at 1.05: crossing back to X
	// yields a 5% cycle, above triHopCrossRateThreshold (1.01).
	p1 := clmmPool(types.Cetus, "0xp1", "X", "Y", 1.0, nowMs)
	p2 := clmmPool(types.Cetus, "0xp2", "Y", "Z", 1.0, nowMs)
	p3 := clmmPool(types.Cetus, "0xp3", "Z", "X", 1.05, nowMs)

	opps := s.ScanTriHop([]*types.PoolSnapshot{p1, p2, p3}, nowMs)

	require.Len(t, opps, 1)
	assert.Equal(t, types.TriCetusCetusCetus, opps[0].Strategy)
	assert.Len(t, opps[0].Legs, 3)
	assert.Equal(t, triHopAmountIn, opps[0].AmountIn)
}

func TestScanTriHopSkipsBelowCrossRateThreshold(t *testing.T) {
	s := New(1, evenDecimals, nil)
	nowMs := uint64(10_000)

	// A 0.5% cycle is below triHopCrossRateThreshold (1%).
	p1 := clmmPool(types.Cetus, "0xp1", "X", "Y", 1.0, nowMs)
	p2 := clmmPool(types.Cetus, "0xp2", "Y", "Z", 1.0, nowMs)
	p3 := clmmPool(types.Cetus, "0xp3", "Z", "X", 1.005, nowMs)

	opps := s.ScanTriHop([]*types.PoolSnapshot{p1, p2, p3}, nowMs)
	assert.Empty(t, opps)
}

func TestScanTriHopSkipsStaleLeg(t *testing.T) {
	s := New(1, evenDecimals, nil)
	nowMs := uint64(100_000)
	stale := nowMs - types.StaleAfterMs - 1

	p1 := clmmPool(types.Cetus, "0xp1", "X", "Y", 1.0, stale)
	p2 := clmmPool(types.Cetus, "0xp2", "Y", "Z", 1.0, nowMs)
	p3 := clmmPool(types.Cetus, "0xp3", "Z", "X", 1.05, nowMs)

	opps := s.ScanTriHop([]*types.PoolSnapshot{p1, p2, p3}, nowMs)
	assert.Empty(t, opps)
}

func TestSamePairMatchesEitherOrdering(t *testing.T) {
	a := &types.PoolSnapshot{CoinTypeA: "X", CoinTypeB: "Y"}
	b := &types.PoolSnapshot{CoinTypeA: "Y", CoinTypeB: "X"}
	c := &types.PoolSnapshot{CoinTypeA: "X", CoinTypeB: "Z"}

	assert.True(t, samePair(a, b))
	assert.False(t, samePair(a, c))
}

func TestSharedTokenFindsCommonLegBetweenAdjacentPools(t *testing.T) {
	p1 := &types.PoolSnapshot{CoinTypeA: "X", CoinTypeB: "Y"}
	p2 := &types.PoolSnapshot{CoinTypeA: "Y", CoinTypeB: "Z"}

	shared, otherP1, otherP2, ok := sharedToken(p1, p2)
	require.True(t, ok)
	assert.Equal(t, "Y", shared)
	assert.Equal(t, "X", otherP1)
	assert.Equal(t, "Z", otherP2)
}

func TestSharedTokenRejectsDisjointPools(t *testing.T) {
	p1 := &types.PoolSnapshot{CoinTypeA: "X", CoinTypeB: "Y"}
	p2 := &types.PoolSnapshot{CoinTypeA: "A", CoinTypeB: "B"}

	_, _, _, ok := sharedToken(p1, p2)
	assert.False(t, ok)
}

func TestDedupKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, dedupKey([]string{"a", "b", "c"}), dedupKey([]string{"c", "a", "b"}))
	assert.NotEqual(t, dedupKey([]string{"a", "b"}), dedupKey([]string{"a", "c"}))
}

func TestMinUint64(t *testing.T) {
	assert.Equal(t, uint64(3), minUint64(3, 5))
	assert.Equal(t, uint64(3), minUint64(5, 3))
}

func TestTurbosFeeTypeReturnsFirstTurbosPoolWithFeeType(t *testing.T) {
	cetusPool := &types.PoolSnapshot{Dex: types.Cetus}
	turbosPool := &types.PoolSnapshot{Dex: types.Turbos, FeeType: "0x2::sui::SUI"}

	assert.Equal(t, "0x2::sui::SUI", turbosFeeType(cetusPool, turbosPool))
	assert.Equal(t, "", turbosFeeType(cetusPool))
}
