package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
	"github.com/rvasquez-dev/suiarb/venue"
)

// fakeAdapter is a hand-constructed venue.Adapter stand-in: Composer.Run
// only ever calls FlashSwapAToB on the source leg and SwapAToB on every
// following leg, so only those two paths need real behavior.
type fakeAdapter struct {
	dex types.Dex

	flashReceived uint64
	flashDebt     uint64
	flashShape    onchain.ReceiptShape
	flashErr      error
	flashReceipt  *onchain.FlashReceipt

	swapOut  uint64
	swapDust uint64
	swapErr  error

	repayErr error
}

func (f *fakeAdapter) Dex() types.Dex { return f.dex }

func (f *fakeAdapter) SwapAToB(context.Context, *types.PoolSnapshot, uint64) (venue.SwapResult, error) {
	if f.swapErr != nil {
		return venue.SwapResult{}, f.swapErr
	}
	return venue.SwapResult{AmountOut: f.swapOut, DustA: f.swapDust}, nil
}

func (f *fakeAdapter) SwapBToA(context.Context, *types.PoolSnapshot, uint64) (venue.SwapResult, error) {
	return venue.SwapResult{}, errors.New("fakeAdapter: SwapBToA not exercised by Composer.Run")
}

func (f *fakeAdapter) FlashSwapAToB(_ context.Context, _ *types.PoolSnapshot, amount uint64) (venue.FlashSwapResult, error) {
	if f.flashErr != nil {
		return venue.FlashSwapResult{}, f.flashErr
	}
	f.flashReceipt = onchain.NewFlashReceipt(f.flashShape, f.flashDebt, "fake")
	return venue.FlashSwapResult{Received: f.flashReceived, Receipt: f.flashReceipt}, nil
}

func (f *fakeAdapter) FlashSwapBToA(context.Context, *types.PoolSnapshot, uint64) (venue.FlashSwapResult, error) {
	return venue.FlashSwapResult{}, errors.New("fakeAdapter: FlashSwapBToA not exercised by Composer.Run")
}

func (f *fakeAdapter) RepayFlashSwap(_ context.Context, _ *types.PoolSnapshot, _ uint64, receipt *onchain.FlashReceipt) error {
	if f.repayErr != nil {
		return f.repayErr
	}
	return receipt.Consume()
}

func (f *fakeAdapter) SimulateAToB(*types.PoolSnapshot, uint64) uint64 { return 0 }
func (f *fakeAdapter) SimulateBToA(*types.PoolSnapshot, uint64) uint64 { return 0 }

func twoHopOpportunity(amountIn uint64) *types.Opportunity {
	return &types.Opportunity{
		ID:            "test-opp",
		Strategy:      types.CetusToTurbos,
		Legs:          []types.PoolLeg{{Venue: types.Cetus, PoolID: "0xcetuspool"}, {Venue: types.Turbos, PoolID: "0xturbospool"}},
		FlashLegIndex: 0,
		InputAsset:    "0x2::sui::SUI",
		AmountIn:      amountIn,
	}
}

func TestComposerRunFivePhaseOrderingSuccess(t *testing.T) {
	source := &fakeAdapter{dex: types.Cetus, flashReceived: 1000, flashDebt: 990}
	sell := &fakeAdapter{dex: types.Turbos, swapOut: 1100, swapDust: 0}
	registry := venue.Registry{types.Cetus: source, types.Turbos: sell}
	composer := NewComposer(registry, &onchain.PauseSwitch{}, onchain.MintCapability("deployer"))

	result, err := composer.Run(context.Background(), twoHopOpportunity(1000), 50)
	require.NoError(t, err)

	assert.Equal(t, uint64(1100), result.ReceivedOut)
	assert.Equal(t, uint64(990), result.Repayment)
	assert.Equal(t, uint64(110), result.Remainder)
	assert.Equal(t, 1, result.DustDestroyed)
	assert.Equal(t, uint64(0), result.DustTransferred)

	require.NotNil(t, source.flashReceipt)
	assert.True(t, source.flashReceipt.Consumed(), "RepayFlashSwap must consume the receipt on a profitable route")
}

func TestComposerRunTransfersNonZeroDustInsteadOfDestroyingIt(t *testing.T) {
	source := &fakeAdapter{dex: types.Cetus, flashReceived: 1000, flashDebt: 990}
	sell := &fakeAdapter{dex: types.Turbos, swapOut: 1090, swapDust: 7}
	registry := venue.Registry{types.Cetus: source, types.Turbos: sell}
	composer := NewComposer(registry, &onchain.PauseSwitch{}, onchain.MintCapability("deployer"))

	result, err := composer.Run(context.Background(), twoHopOpportunity(1000), 50)
	require.NoError(t, err)

	assert.Equal(t, 0, result.DustDestroyed)
	assert.Equal(t, uint64(7), result.DustTransferred)
}

func TestComposerRunRejectsZeroAmountBeforeTouchingAnyAdapter(t *testing.T) {
	source := &fakeAdapter{dex: types.Cetus}
	sell := &fakeAdapter{dex: types.Turbos}
	registry := venue.Registry{types.Cetus: source, types.Turbos: sell}
	composer := NewComposer(registry, &onchain.PauseSwitch{}, onchain.MintCapability("deployer"))

	_, err := composer.Run(context.Background(), twoHopOpportunity(0), 50)
	assert.ErrorIs(t, err, onchain.ErrZeroAmount)
	assert.Nil(t, source.flashReceipt, "the guard phase must run before any flash borrow")
}

func TestComposerRunRejectsWhenPaused(t *testing.T) {
	source := &fakeAdapter{dex: types.Cetus, flashReceived: 1000, flashDebt: 990}
	sell := &fakeAdapter{dex: types.Turbos, swapOut: 1100}
	registry := venue.Registry{types.Cetus: source, types.Turbos: sell}

	var pause onchain.PauseSwitch
	cap := onchain.MintCapability("deployer")
	pause.Pause(cap)
	composer := NewComposer(registry, &pause, cap)

	_, err := composer.Run(context.Background(), twoHopOpportunity(1000), 50)
	assert.ErrorIs(t, err, onchain.ErrPaused)
	assert.Nil(t, source.flashReceipt, "a paused composition must never reach the borrow phase")
}

// TestComposerRunLeavesReceiptUnconsumedOnUnprofitableRoute is spec.md
// §4.3's critical ordering rule: the profit assertion must run, and may
// reject, strictly before RepayFlashSwap ever touches the receipt.
func TestComposerRunLeavesReceiptUnconsumedOnUnprofitableRoute(t *testing.T) {
	source := &fakeAdapter{dex: types.Cetus, flashReceived: 1000, flashDebt: 990}
	sell := &fakeAdapter{dex: types.Turbos, swapOut: 990} // equals debt: no margin for a 50 min-profit
	registry := venue.Registry{types.Cetus: source, types.Turbos: sell}
	composer := NewComposer(registry, &onchain.PauseSwitch{}, onchain.MintCapability("deployer"))

	_, err := composer.Run(context.Background(), twoHopOpportunity(1000), 50)
	assert.ErrorIs(t, err, onchain.ErrNotProfitable)

	require.NotNil(t, source.flashReceipt)
	assert.False(t, source.flashReceipt.Consumed())
	assert.Error(t, source.flashReceipt.Finalize(), "an un-repaid receipt must fail Finalize, mirroring an on-chain revert")
}

func TestComposerRunRejectsFewerThanTwoLegs(t *testing.T) {
	source := &fakeAdapter{dex: types.Cetus}
	registry := venue.Registry{types.Cetus: source}
	composer := NewComposer(registry, &onchain.PauseSwitch{}, onchain.MintCapability("deployer"))

	opp := twoHopOpportunity(1000)
	opp.Legs = opp.Legs[:1]

	_, err := composer.Run(context.Background(), opp, 50)
	assert.Error(t, err)
}

func TestComposerRunFallsBackToAmountInWhenReceiptHasNoDebtReader(t *testing.T) {
	// Opaque receipts (Turbos/DeepBook) carry no debt reader; repayment
	// falls back to the amount originally requested (spec.md §4.3).
	source := &fakeAdapter{dex: types.Turbos, flashReceived: 1000, flashShape: onchain.Opaque}
	sell := &fakeAdapter{dex: types.Cetus, swapOut: 1100}
	registry := venue.Registry{types.Turbos: source, types.Cetus: sell}
	composer := NewComposer(registry, &onchain.PauseSwitch{}, onchain.MintCapability("deployer"))

	opp := &types.Opportunity{
		Strategy:      types.TurbosToCetus,
		Legs:          []types.PoolLeg{{Venue: types.Turbos, PoolID: "0xturbospool"}, {Venue: types.Cetus, PoolID: "0xcetuspool"}},
		FlashLegIndex: 0,
		AmountIn:      1000,
	}

	result, err := composer.Run(context.Background(), opp, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), result.Repayment, "opaque receipts repay the originally requested amount")
}
