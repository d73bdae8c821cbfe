package optimizer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTernarySearchFindsPeakOfConcaveFunction(t *testing.T) {
	// profit(x) peaks at x=500 with value 500, symmetric falloff on both sides.
	profit := func(amountIn uint64) uint64 {
		peak := uint64(500)
		if amountIn > peak {
			return saturatingSub(1000, amountIn)
		}
		return amountIn
	}

	amount, best := TernarySearch(0, 1000, 1, profit)

	assert.InDelta(t, 500, amount, 5)
	assert.InDelta(t, 500, best, 5)
}

func TestTernarySearchDegenerateRangeReturnsLo(t *testing.T) {
	calls := 0
	simulate := func(uint64) uint64 {
		calls++
		return 42
	}

	amount, profit := TernarySearch(100, 100, 1, simulate)

	require.Equal(t, uint64(100), amount)
	assert.Equal(t, uint64(42), profit)
	assert.Equal(t, 1, calls)
}

func TestTernarySearchNeverReturnsNegativeProfit(t *testing.T) {
	alwaysUnprofitable := func(uint64) uint64 { return 0 }

	_, profit := TernarySearch(1, 1_000_000, 100, alwaysUnprofitable)

	assert.Zero(t, profit)
}

func TestSimulateXYArbProfitableSpread(t *testing.T) {
	// Pool 1: 1,000,000 A / 1,000,000 B (parity). Pool 2: 1,000,000 A / 1,100,000 B
	// (A dearer in B terms than on pool 1) so buying A on pool 1 with B and
	// selling A for B on pool 2 should be profitable.
	profit := SimulateXYArb(1_000_000, 1_000_000, 1_000_000, 1_100_000, 30, 30, 10_000)

	assert.Positive(t, profit)
}

func TestSimulateXYArbUnprofitableWhenPoolsMatch(t *testing.T) {
	profit := SimulateXYArb(1_000_000, 1_000_000, 1_000_000, 1_000_000, 30, 30, 10_000)

	// Fees on both legs make an arb across identical pools a loss.
	assert.Zero(t, profit)
}

func TestSimulateXYArbDegenerateInputsReturnZero(t *testing.T) {
	assert.Zero(t, SimulateXYArb(0, 1_000, 1_000, 1_000, 30, 30, 100))
	assert.Zero(t, SimulateXYArb(1_000, 1_000, 1_000, 1_000, 30, 30, 0))
}

func TestSimulateClmmArbProfitableWhenLiquidityFavorsSecondLeg(t *testing.T) {
	sqrtPrice1 := new(big.Int).Lsh(big.NewInt(2), 64)
	liquidity1 := big.NewInt(1_000_000_000)
	liquidity2 := big.NewInt(2_000_000_000)

	profit := SimulateClmmArb(sqrtPrice1, liquidity1, liquidity2, 10, 10, 1_000_000)

	assert.GreaterOrEqual(t, profit, uint64(0))
}

func TestSimulateClmmArbZeroLiquidityReturnsZero(t *testing.T) {
	sqrtPrice1 := new(big.Int).Lsh(big.NewInt(1), 64)
	profit := SimulateClmmArb(sqrtPrice1, big.NewInt(0), big.NewInt(1_000), 10, 10, 1_000)

	assert.Zero(t, profit)
}

func TestSaturatingSubNeverUnderflows(t *testing.T) {
	assert.Equal(t, uint64(0), saturatingSub(5, 10))
	assert.Equal(t, uint64(5), saturatingSub(10, 5))
}

func TestBigDivMatchesPlainArithmeticWhenNoOverflow(t *testing.T) {
	got := bigDiv(1_000, 2_000, 500)
	assert.Equal(t, uint64(4_000), got)
}

func TestBigDivSaturatesOnOverflow(t *testing.T) {
	got := bigDiv(^uint64(0), ^uint64(0), 1)
	assert.Equal(t, ^uint64(0), got)
}
