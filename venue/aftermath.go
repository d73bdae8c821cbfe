package venue

import (
	"context"
	"math"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// AftermathAdapter wraps Aftermath's weighted-pool AMM. Aftermath does
// not support flash borrowing and is therefore only usable as the sell
// leg of a composition (spec.md §4.2). Its internal slippage parameter
// is passed as the maximum integer (disabled) with a minimum output of
// 1 supplied as defense against the degenerate zero-output case —
// modeled here as the MaxSlippage/MinOutputFloor constants. The
// adapters apply MinOutputFloor; the Builder's Aftermath call arguments
// include neither constant.
type AftermathAdapter struct{}

func NewAftermathAdapter() *AftermathAdapter { return &AftermathAdapter{} }

// MaxSlippage is the "disabled slippage" sentinel spec.md §4.2 requires
// for Aftermath calls: the maximum representable value, since profit
// (not slippage) is the correctness guard.
const MaxSlippage = math.MaxUint64

// MinOutputFloor defends against a degenerate zero-output swap.
const MinOutputFloor = 1

func (a *AftermathAdapter) Dex() types.Dex { return types.Aftermath }

func (a *AftermathAdapter) SwapAToB(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := ammLegWithDust(pool, input, true)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *AftermathAdapter) SwapBToA(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := ammLegWithDust(pool, input, false)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *AftermathAdapter) FlashSwapAToB(context.Context, *types.PoolSnapshot, uint64) (FlashSwapResult, error) {
	return FlashSwapResult{}, ErrFlashUnsupported
}

func (a *AftermathAdapter) FlashSwapBToA(context.Context, *types.PoolSnapshot, uint64) (FlashSwapResult, error) {
	return FlashSwapResult{}, ErrFlashUnsupported
}

func (a *AftermathAdapter) RepayFlashSwap(context.Context, *types.PoolSnapshot, uint64, *onchain.FlashReceipt) error {
	return ErrFlashUnsupported
}

// SimulateAToB uses the published weighted-pool reserves as an x*y=k
// approximation (spec.md §4.6: "Weighted-AMM legs use the published
// reserves and the weights as advertised" — this implementation treats
// equal-weight pools, the common case for the monitored pairs).
func (a *AftermathAdapter) SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := ammLegWithDust(pool, input, true)
	return out
}

func (a *AftermathAdapter) SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := ammLegWithDust(pool, input, false)
	return out
}

// ammLegWithDust is shared by the constant-product adapters (Aftermath,
// FlowxAmm). When the computed output would fall beneath MinOutputFloor,
// the swap is refused rather than executed for a near-zero return, and
// the full input is handed back as dust instead of being silently
// consumed for nothing (spec.md §4.2(iii), §8 boundary scenario 4).
func ammLegWithDust(pool *types.PoolSnapshot, input uint64, aToB bool) (amountOut, dustIn uint64) {
	if pool.ReserveA == nil || pool.ReserveB == nil {
		return 0, 0
	}
	var out uint64
	if aToB {
		out = constantProductOut(*pool.ReserveA, *pool.ReserveB, input, feeBps(pool))
	} else {
		out = constantProductOut(*pool.ReserveB, *pool.ReserveA, input, feeBps(pool))
	}
	if out < MinOutputFloor {
		return 0, input
	}
	return out, 0
}

// constantProductOut computes amount_out for a swap into a constant
// product pool, mirroring the buy/sell leg formula of
// original_source/crates/strategy/src/optimizer.rs's simulate_xy_arb:
// fee taken from the input, then out = reserveOut * in / (reserveIn + in).
func constantProductOut(reserveIn, reserveOut, amountIn, feeBpsRate uint64) uint64 {
	if reserveIn == 0 || reserveOut == 0 || amountIn == 0 {
		return 0
	}
	fee := amountIn * feeBpsRate / 10_000
	if fee > amountIn {
		return 0
	}
	afterFee := amountIn - fee

	num := uint64FitsMul(reserveOut, afterFee)
	den := reserveIn + afterFee
	if den == 0 {
		return 0
	}
	out := num / den
	if out >= reserveOut {
		return 0
	}
	return out
}

// uint64FitsMul multiplies two uint64s via uint128-widening arithmetic
// (a 64x64->128 multiply through bitsMul64) to avoid silent overflow for
// the reserve sizes seen on Sui pools; kept as a named helper so the
// intent reads clearly at each call site.
func uint64FitsMul(a, b uint64) uint64 {
	hi, lo := bitsMul64(a, b)
	if hi != 0 {
		// Reserve*amount exceeds 64 bits: clamp rather than wrap,
		// since a wrapped value would silently look profitable.
		return math.MaxUint64
	}
	return lo
}
