package venue

import (
	"context"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// FlowxAmmAdapter wraps FlowX's constant-product AMM (distinct from
// FlowxClmmAdapter). Like Aftermath it is sell-leg only — no on-chain
// composition currently borrows through it (spec.md §9 open question:
// "One venue family (a weighted-AMM) is referenced but has no
// implemented on-chain composition; the scanner is expected to return
// no opportunities for that venue." FlowxAmm is that family here; its
// strategy variants exist in the on-chain surface's naming scheme but
// resolve to no template — see strategy.ResolveTwoHop).
type FlowxAmmAdapter struct{}

func NewFlowxAmmAdapter() *FlowxAmmAdapter { return &FlowxAmmAdapter{} }

func (a *FlowxAmmAdapter) Dex() types.Dex { return types.FlowxAmm }

func (a *FlowxAmmAdapter) SwapAToB(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := flowxAmmLegWithDust(pool, input, true)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *FlowxAmmAdapter) SwapBToA(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := flowxAmmLegWithDust(pool, input, false)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *FlowxAmmAdapter) FlashSwapAToB(context.Context, *types.PoolSnapshot, uint64) (FlashSwapResult, error) {
	return FlashSwapResult{}, ErrFlashUnsupported
}

func (a *FlowxAmmAdapter) FlashSwapBToA(context.Context, *types.PoolSnapshot, uint64) (FlashSwapResult, error) {
	return FlashSwapResult{}, ErrFlashUnsupported
}

func (a *FlowxAmmAdapter) RepayFlashSwap(context.Context, *types.PoolSnapshot, uint64, *onchain.FlashReceipt) error {
	return ErrFlashUnsupported
}

// defaultAmmFeeBps mirrors Uniswap-V2-style 0.3% (997/1000) constant
// product fee, grounded on the teacher's dex/uniswap/v2.go
// getAmountOut, applied here to FlowX AMM's own constant-product pools.
const defaultAmmFeeBps = 30

func (a *FlowxAmmAdapter) SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := flowxAmmLegWithDust(pool, input, true)
	return out
}

func (a *FlowxAmmAdapter) SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := flowxAmmLegWithDust(pool, input, false)
	return out
}

func feeBpsOrDefault(pool *types.PoolSnapshot) uint64 {
	if pool.FeeRateBps != nil {
		return *pool.FeeRateBps
	}
	return defaultAmmFeeBps
}

// flowxAmmLegWithDust mirrors Aftermath's ammLegWithDust: below
// MinOutputFloor the swap is refused and the whole input comes back as
// dust instead of executing for a worthless return (spec.md §4.2(iii)).
func flowxAmmLegWithDust(pool *types.PoolSnapshot, input uint64, aToB bool) (amountOut, dustIn uint64) {
	if pool.ReserveA == nil || pool.ReserveB == nil {
		return 0, 0
	}
	fee := feeBpsOrDefault(pool)
	var out uint64
	if aToB {
		out = constantProductOut(*pool.ReserveA, *pool.ReserveB, input, fee)
	} else {
		out = constantProductOut(*pool.ReserveB, *pool.ReserveA, input, fee)
	}
	if out < MinOutputFloor {
		return 0, input
	}
	return out, 0
}
