package venue

import (
	"context"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// TurbosAdapter wraps Turbos's CLMM pools. Turbos exposes an opaque
// flash receipt with no debt reader — the caller repays exactly the
// amount it requested (spec.md §3, venue "C2"). Turbos pools also carry
// a fee-tier phantom type (PoolSnapshot.FeeType) that must be threaded
// into the Move call's type arguments.
type TurbosAdapter struct{}

func NewTurbosAdapter() *TurbosAdapter { return &TurbosAdapter{} }

func (a *TurbosAdapter) Dex() types.Dex { return types.Turbos }

func (a *TurbosAdapter) SwapAToB(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateClmmLeg(pool, input, feeBps(pool), MinSqrtPriceLimit)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *TurbosAdapter) SwapBToA(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateClmmLeg(pool, input, feeBps(pool), MaxSqrtPriceLimit)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *TurbosAdapter) FlashSwapAToB(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateAToB(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.Opaque, amount, "turbos"),
	}, nil
}

func (a *TurbosAdapter) FlashSwapBToA(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateBToA(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.Opaque, amount, "turbos"),
	}, nil
}

// RepayFlashSwap repays the amount the caller originally requested —
// there is no debt reader to consult (spec.md §4.3 "Repayment amount
// selection"). If Turbos later introduces a fee, this underpays and the
// venue's own assertion aborts the transaction: safe, if operationally
// blocking (spec.md §9).
func (a *TurbosAdapter) RepayFlashSwap(_ context.Context, _ *types.PoolSnapshot, _ uint64, receipt *onchain.FlashReceipt) error {
	return receipt.Consume()
}

func (a *TurbosAdapter) SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateClmmLeg(pool, input, feeBps(pool), MinSqrtPriceLimit)
	return out
}

func (a *TurbosAdapter) SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateClmmLeg(pool, input, feeBps(pool), MaxSqrtPriceLimit)
	return out
}
