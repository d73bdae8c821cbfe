// Package optimizer refines a Scanner's coarse trade-size estimate via
// ternary search over the profit function, grounded on
// original_source/bot-rs/crates/strategy/src/optimizer.rs. The profit
// function for a single-pair AMM/CLMM arbitrage is concave (rises then
// falls as price impact overtakes the spread), so ternary search finds
// its maximum in O(log n) iterations without needing a derivative.
package optimizer

import "math/big"

// maxIterations bounds ternary search even if the precision gate never
// closes (defensive; the loop invariant hi-lo strictly shrinks each
// iteration so this should never bind in practice).
const maxIterations = 100

// TernarySearch finds the amount in [lo, hi] that maximizes simulate,
// stopping once the search window is narrower than precision. Returns
// the best amount seen and its profit. simulate must return 0 for any
// input that isn't profitable (so the reported profit never goes
// negative).
func TernarySearch(lo, hi, precision uint64, simulate func(amountIn uint64) uint64) (bestAmount, bestProfit uint64) {
	bestAmount = lo

	if hi <= lo {
		return lo, simulate(lo)
	}

	for iter := 0; hi-lo > precision && iter < maxIterations; iter++ {
		third := (hi - lo) / 3
		m1 := lo + third
		m2 := hi - third

		p1 := simulate(m1)
		p2 := simulate(m2)

		if p1 > bestProfit {
			bestProfit, bestAmount = p1, m1
		}
		if p2 > bestProfit {
			bestProfit, bestAmount = p2, m2
		}

		if p1 < p2 {
			lo = m1
		} else {
			hi = m2
		}
	}

	mid := lo + (hi-lo)/2
	if pMid := simulate(mid); pMid > bestProfit {
		bestProfit, bestAmount = pMid, mid
	}
	return bestAmount, bestProfit
}

// SimulateXYArb estimates profit for buying assetA on a constant-product
// pool 1 (paying assetB) then selling assetA on pool 2 (receiving
// assetB), using the xy=k invariant on both legs. Returns 0 for any
// non-profitable or degenerate input rather than erroring, so it
// composes directly as TernarySearch's simulate function.
func SimulateXYArb(reserveA1, reserveB1, reserveA2, reserveB2, feeBps1, feeBps2, amountBIn uint64) uint64 {
	fee1 := amountBIn * feeBps1 / 10_000
	bAfterFee1 := saturatingSub(amountBIn, fee1)
	if bAfterFee1 == 0 || reserveA1 == 0 || reserveB1 == 0 {
		return 0
	}

	aOut := bigDiv(reserveA1, bAfterFee1, reserveB1+bAfterFee1)
	if aOut == 0 || aOut >= reserveA1 {
		return 0
	}

	fee2 := aOut * feeBps2 / 10_000
	aAfterFee2 := saturatingSub(aOut, fee2)
	if aAfterFee2 == 0 || reserveA2 == 0 || reserveB2 == 0 {
		return 0
	}

	bOut := bigDiv(reserveB2, aAfterFee2, reserveA2+aAfterFee2)
	if bOut == 0 {
		return 0
	}
	return saturatingSub(bOut, amountBIn)
}

// SimulateClmmArb estimates profit for a single-tick sqrt-price CLMM
// arbitrage: buy on pool 1 (pushing its sqrt-price down), sell on pool 2
// (pushing its sqrt-price the other way), assuming both swaps stay
// within their current tick's liquidity. sqrtPrice2 is unused — as in
// the original, the model only needs pool 2's liquidity to convert the
// intermediate amount back, not its price, since the intermediate
// amount already encodes pool 1's price movement.
func SimulateClmmArb(sqrtPrice1, liquidity1, liquidity2 *big.Int, feeBps1, feeBps2, amountIn uint64) uint64 {
	if liquidity1.Sign() == 0 || liquidity2.Sign() == 0 {
		return 0
	}

	amountInBig := new(big.Int).SetUint64(amountIn)
	fee1 := new(big.Int).Mul(amountInBig, big.NewInt(int64(feeBps1)))
	fee1.Div(fee1, big.NewInt(10_000))
	afterFee1 := new(big.Int).Sub(amountInBig, fee1)
	if afterFee1.Sign() <= 0 {
		return 0
	}

	deltaSqrt1 := new(big.Int).Lsh(afterFee1, 64)
	deltaSqrt1.Div(deltaSqrt1, liquidity1)

	newSqrt1 := new(big.Int).Sub(sqrtPrice1, deltaSqrt1)
	if newSqrt1.Sign() <= 0 {
		return 0
	}

	amountMid := new(big.Int).Mul(liquidity1, new(big.Int).Sub(sqrtPrice1, newSqrt1))
	amountMid.Rsh(amountMid, 64)
	if amountMid.Sign() <= 0 {
		return 0
	}

	fee2 := new(big.Int).Mul(amountMid, big.NewInt(int64(feeBps2)))
	fee2.Div(fee2, big.NewInt(10_000))
	afterFee2 := new(big.Int).Sub(amountMid, fee2)

	deltaSqrt2 := new(big.Int).Lsh(afterFee2, 64)
	deltaSqrt2.Div(deltaSqrt2, liquidity2)

	amountOut := new(big.Int).Mul(liquidity2, deltaSqrt2)
	amountOut.Rsh(amountOut, 64)

	if amountOut.Cmp(amountInBig) <= 0 {
		return 0
	}
	profit := new(big.Int).Sub(amountOut, amountInBig)
	if !profit.IsUint64() {
		return ^uint64(0)
	}
	return profit.Uint64()
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// bigDiv computes floor(num * mul / den) using 128-bit-wide big.Int
// arithmetic, mirroring the original's u128 intermediate to avoid
// uint64 overflow on the multiplication.
func bigDiv(reserve, mul, den uint64) uint64 {
	n := new(big.Int).Mul(new(big.Int).SetUint64(reserve), new(big.Int).SetUint64(mul))
	n.Div(n, new(big.Int).SetUint64(den))
	if !n.IsUint64() {
		return ^uint64(0)
	}
	return n.Uint64()
}
