package venue

import (
	"context"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// DeepBookAdapter wraps DeepBook, a central-limit order book rather than
// an AMM. Its flash primitive is named flash_borrow_base/
// flash_return_base rather than flash_swap (spec.md §4.2's operation
// table), and every trade consumes a small amount of protocol-fee
// collateral (the DEEP_FEE_COIN_ID configuration entry, spec.md §6).
// The receipt shape is modeled as AmountFeeHidden: opaque today, with a
// documented possibility of a future fee term (spec.md §3/§9).
type DeepBookAdapter struct {
	// FeeCoinID is the object ID of the DEEP protocol-fee coin the
	// composition must supply as collateral alongside the swap.
	FeeCoinID string
}

func NewDeepBookAdapter(feeCoinID string) *DeepBookAdapter {
	return &DeepBookAdapter{FeeCoinID: feeCoinID}
}

func (a *DeepBookAdapter) Dex() types.Dex { return types.DeepBook }

func (a *DeepBookAdapter) SwapAToB(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateDeepBookLeg(pool, input, true)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *DeepBookAdapter) SwapBToA(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateDeepBookLeg(pool, input, false)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

// FlashSwapAToB models flash_borrow_base: DeepBook's flash primitive
// operates against the order book's base asset, filled at the top of
// book (see SimulateAToB; no depth is walked).
func (a *DeepBookAdapter) FlashSwapAToB(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateAToB(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.AmountFeeHidden, amount, "deepbook"),
	}, nil
}

func (a *DeepBookAdapter) FlashSwapBToA(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateBToA(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.AmountFeeHidden, amount, "deepbook"),
	}, nil
}

func (a *DeepBookAdapter) RepayFlashSwap(_ context.Context, _ *types.PoolSnapshot, _ uint64, receipt *onchain.FlashReceipt) error {
	return receipt.Consume()
}

// SimulateAToB fills at the top of book (spec.md §4.6 "Order-book legs
// use the top-of-book price and published depth at that tick"). The
// snapshot carries no depth quantity, only the quote itself, so every
// fill is assumed to clear at BestAsk/BestBid in full; DustA is
// therefore always zero here, unlike the CLMM and constant-product
// adapters where a price bound or output floor can leave a remainder.
func (a *DeepBookAdapter) SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateDeepBookLeg(pool, input, true)
	return out
}

func (a *DeepBookAdapter) SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateDeepBookLeg(pool, input, false)
	return out
}

func simulateDeepBookLeg(pool *types.PoolSnapshot, input uint64, aToB bool) (amountOut, dustIn uint64) {
	price, ok := pool.PriceAInB()
	if !ok || price <= 0 {
		return 0, 0
	}
	var out float64
	if aToB {
		out = float64(input) * price
	} else {
		out = float64(input) / price
	}
	if out < 0 {
		return 0, 0
	}
	return uint64(out), 0
}
