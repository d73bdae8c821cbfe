package onchain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertProfitRejectsLoss(t *testing.T) {
	err := AssertProfit(90, 100, 1)
	assert.ErrorIs(t, err, ErrNotProfitable)
}

func TestAssertProfitRejectsBelowMinProfit(t *testing.T) {
	err := AssertProfit(105, 100, 10)
	assert.ErrorIs(t, err, ErrNotProfitable)
}

func TestAssertProfitAcceptsExactlyMinProfit(t *testing.T) {
	err := AssertProfit(110, 100, 10)
	assert.NoError(t, err)
}

// TestAssertProfitMaxUint64DoesNotOverflow is spec.md §8 boundary
// scenario 2: assert_profit(max_u64, max_u64, 1) must fail cleanly
// rather than wrap amountIn+minProfit past math.MaxUint64.
func TestAssertProfitMaxUint64DoesNotOverflow(t *testing.T) {
	err := AssertProfit(math.MaxUint64, math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrNotProfitable)
}

func TestAssertProfitZeroMinProfitAcceptsBreakEven(t *testing.T) {
	err := AssertProfit(100, 100, 0)
	assert.NoError(t, err)
}

func TestProfitSaturatesAtZeroRatherThanUnderflow(t *testing.T) {
	assert.Equal(t, uint64(0), Profit(90, 100))
	assert.Equal(t, uint64(0), Profit(100, 100))
	assert.Equal(t, uint64(10), Profit(110, 100))
}

func TestAssertNonZeroRejectsZero(t *testing.T) {
	assert.ErrorIs(t, AssertNonZero(0), ErrZeroAmount)
	assert.NoError(t, AssertNonZero(1))
}

func TestAssertNotPausedGatesOnPauseSwitch(t *testing.T) {
	var p PauseSwitch
	cap := MintCapability("deployer")

	assert.NoError(t, AssertNotPaused(&p))

	p.Pause(cap)
	assert.ErrorIs(t, AssertNotPaused(&p), ErrPaused)

	p.Unpause(cap)
	assert.NoError(t, AssertNotPaused(&p))
}

func TestCapabilityTokenTransferToChangesHolder(t *testing.T) {
	cap := MintCapability("deployer")
	assert.Equal(t, "deployer", cap.Holder())

	moved := cap.TransferTo("operator")
	assert.Equal(t, "operator", moved.Holder())
	assert.Equal(t, "deployer", cap.Holder(), "TransferTo must not mutate the original token")
}

func TestEmitEventRecordsProfitOfSuccessfulTrade(t *testing.T) {
	event := EmitEvent("two_hop_cetus_turbos", 100, 150)
	assert.Equal(t, "two_hop_cetus_turbos", event.StrategyTag)
	assert.Equal(t, uint64(100), event.AmountIn)
	assert.Equal(t, uint64(50), event.Profit)
}

func TestMinProfitFloorAppliesNinetyPercentWithFloorOfOne(t *testing.T) {
	assert.Equal(t, uint64(90), MinProfitFloor(100))
	assert.Equal(t, uint64(1), MinProfitFloor(0))
	assert.Equal(t, uint64(1), MinProfitFloor(1))
}
