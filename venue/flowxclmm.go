package venue

import (
	"context"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// FlowxClmmAdapter wraps FlowX's concentrated-liquidity pools — the
// "second flash-swap CLMM" spec.md §1 names alongside Cetus/Turbos. Its
// receipt is opaque, same repayment discipline as Turbos.
type FlowxClmmAdapter struct{}

func NewFlowxClmmAdapter() *FlowxClmmAdapter { return &FlowxClmmAdapter{} }

func (a *FlowxClmmAdapter) Dex() types.Dex { return types.FlowxClmm }

func (a *FlowxClmmAdapter) SwapAToB(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateClmmLeg(pool, input, feeBps(pool), MinSqrtPriceLimit)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *FlowxClmmAdapter) SwapBToA(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateClmmLeg(pool, input, feeBps(pool), MaxSqrtPriceLimit)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *FlowxClmmAdapter) FlashSwapAToB(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateAToB(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.Opaque, amount, "flowx_clmm"),
	}, nil
}

func (a *FlowxClmmAdapter) FlashSwapBToA(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateBToA(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.Opaque, amount, "flowx_clmm"),
	}, nil
}

func (a *FlowxClmmAdapter) RepayFlashSwap(_ context.Context, _ *types.PoolSnapshot, _ uint64, receipt *onchain.FlashReceipt) error {
	return receipt.Consume()
}

func (a *FlowxClmmAdapter) SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateClmmLeg(pool, input, feeBps(pool), MinSqrtPriceLimit)
	return out
}

func (a *FlowxClmmAdapter) SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateClmmLeg(pool, input, feeBps(pool), MaxSqrtPriceLimit)
	return out
}
