package venue

import (
	"context"
	"math/big"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// CetusAdapter wraps Cetus's CLMM pools. Cetus exposes a self-describing
// flash-receipt (debt readable via DebtOf) — the "venue C1" of
// spec.md §3.
type CetusAdapter struct{}

func NewCetusAdapter() *CetusAdapter { return &CetusAdapter{} }

func (a *CetusAdapter) Dex() types.Dex { return types.Cetus }

func (a *CetusAdapter) SwapAToB(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateClmmLeg(pool, input, feeBps(pool), MinSqrtPriceLimit)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *CetusAdapter) SwapBToA(_ context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error) {
	out, dust := simulateClmmLeg(pool, input, feeBps(pool), MaxSqrtPriceLimit)
	return SwapResult{AmountOut: out, DustA: dust}, nil
}

func (a *CetusAdapter) FlashSwapAToB(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateAToB(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.SelfDescribing, amount, "cetus"),
	}, nil
}

func (a *CetusAdapter) FlashSwapBToA(_ context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error) {
	received := a.SimulateBToA(pool, amount)
	return FlashSwapResult{
		Received: received,
		Receipt:  onchain.NewFlashReceipt(onchain.SelfDescribing, amount, "cetus"),
	}, nil
}

func (a *CetusAdapter) RepayFlashSwap(_ context.Context, _ *types.PoolSnapshot, _ uint64, receipt *onchain.FlashReceipt) error {
	return receipt.Consume()
}

// SimulateAToB approximates a single-tick CLMM swap: the pool's active
// liquidity is treated as constant across the trade (spec.md §4.6), so
// output follows delta_sqrt_price = amount_in / liquidity, translated
// back into the output asset via liquidity * delta_sqrt_price. This
// mirrors original_source's simulate_clmm_arb single-leg step.
func (a *CetusAdapter) SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateClmmLeg(pool, input, feeBps(pool), MinSqrtPriceLimit)
	return out
}

func (a *CetusAdapter) SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64 {
	out, _ := simulateClmmLeg(pool, input, feeBps(pool), MaxSqrtPriceLimit)
	return out
}

func feeBps(pool *types.PoolSnapshot) uint64 {
	if pool.FeeRateBps != nil {
		return *pool.FeeRateBps
	}
	return 30 // 0.3% default
}

// simulateClmmLeg is shared by every CLMM adapter (Cetus, Turbos,
// FlowxClmm): a single-tick constant-liquidity approximation. Crossing
// ticks is explicitly not modeled (spec.md §4.6, §9).
//
// sqrtPriceLimit is the MinSqrtPriceLimit/MaxSqrtPriceLimit bound the
// caller's swap direction passes (spec.md §4.2): if consuming the full
// after-fee input would push the pool's sqrt price past that bound, the
// trade is clamped to the bound instead, and the unconsumed remainder
// of the input asset is returned as dust rather than silently dropped
// (spec.md §4.2(iii), §8 boundary scenario 4).
func simulateClmmLeg(pool *types.PoolSnapshot, amountIn, feeBpsRate uint64, sqrtPriceLimit *big.Int) (amountOut, dustIn uint64) {
	if pool.Liquidity == nil || pool.SqrtPrice == nil {
		return 0, 0
	}
	liquidity := pool.Liquidity
	if liquidity.Sign() <= 0 {
		return 0, 0
	}

	fee := new(big.Int).Mul(big.NewInt(int64(amountIn)), big.NewInt(int64(feeBpsRate)))
	fee.Div(fee, big.NewInt(10_000))
	afterFee := new(big.Int).Sub(big.NewInt(int64(amountIn)), fee)
	if afterFee.Sign() <= 0 {
		return 0, 0
	}

	// delta_sqrt = (after_fee << 64) / liquidity
	deltaSqrt := new(big.Int).Lsh(afterFee, 64)
	deltaSqrt.Div(deltaSqrt, liquidity)

	// A limit above the current price is a B-to-A ceiling: the sqrt
	// price rises. Otherwise it is an A-to-B floor and the price falls.
	rising := sqrtPriceLimit != nil && sqrtPriceLimit.Cmp(pool.SqrtPrice) > 0

	newSqrt := new(big.Int).Sub(pool.SqrtPrice, deltaSqrt)
	if rising {
		newSqrt = new(big.Int).Add(pool.SqrtPrice, deltaSqrt)
	}
	consumedAfterFee := afterFee

	if sqrtPriceLimit != nil && (rising && newSqrt.Cmp(sqrtPriceLimit) > 0 || !rising && newSqrt.Cmp(sqrtPriceLimit) < 0) {
		newSqrt = new(big.Int).Set(sqrtPriceLimit)
		maxDeltaSqrt := new(big.Int).Sub(pool.SqrtPrice, newSqrt)
		maxDeltaSqrt.Abs(maxDeltaSqrt)
		consumedAfterFee = new(big.Int).Mul(maxDeltaSqrt, liquidity)
		consumedAfterFee.Rsh(consumedAfterFee, 64)
		if consumedAfterFee.Cmp(afterFee) > 0 {
			consumedAfterFee = afterFee
		}
	}
	if newSqrt.Sign() <= 0 {
		return 0, 0
	}

	// amount_out = liquidity * |sqrt_price - new_sqrt| >> 64
	drop := new(big.Int).Sub(pool.SqrtPrice, newSqrt)
	drop.Abs(drop)
	amountOutBig := new(big.Int).Mul(liquidity, drop)
	amountOutBig.Rsh(amountOutBig, 64)
	if !amountOutBig.IsUint64() {
		return 0, 0
	}

	dust := new(big.Int).Sub(afterFee, consumedAfterFee)
	var dustU64 uint64
	if dust.Sign() > 0 && dust.IsUint64() {
		dustU64 = dust.Uint64()
	}

	return amountOutBig.Uint64(), dustU64
}
