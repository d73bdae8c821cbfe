// Package venue provides a uniform adapter over the five liquidity
// venues spec.md §4.2 enumerates, normalizing three axes of difference:
// value model (raw balance vs. wrapping coin type), receipt shape
// (self-describing vs. opaque flash receipts), and dust/remainder
// handling.
package venue

import (
	"context"
	"math/big"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
)

// MinSqrtPriceLimit and MaxSqrtPriceLimit are the extreme Q64.64
// sqrt-price bounds a CLMM swap may traverse to (spec.md §4.2), the same
// MIN_SQRT_PRICE_X64/MAX_SQRT_PRICE_X64 values Cetus/Turbos/FlowX CLMM
// pools use on-chain. Both are u128 on-chain and MaxSqrtPriceLimit
// exceeds uint64's range, so both are modeled as *big.Int here, same as
// PoolSnapshot.SqrtPrice.
// Profit, not slippage, is the correctness guard, so every CLMM adapter
// call passes one of these rather than a computed slippage bound: an
// A-to-B swap (price falling) passes MinSqrtPriceLimit as its floor, a
// B-to-A swap (price rising) passes MaxSqrtPriceLimit as its ceiling.
// The executor's Builder passes the same limit into the on-chain call's
// argument list for every CLMM leg it assembles.
var (
	MinSqrtPriceLimit = big.NewInt(4_295_048_016)
	MaxSqrtPriceLimit = mustBigInt("79226673515401279992447579055")
)

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("venue: invalid sqrt price limit constant " + s)
	}
	return n
}

// SwapResult is the outcome of a non-flash swap leg.
type SwapResult struct {
	AmountOut uint64
	DustA     uint64 // non-zero remainder of the input asset, if any
}

// FlashSwapResult is the outcome of a flash-borrow leg.
type FlashSwapResult struct {
	Received uint64
	Receipt  *onchain.FlashReceipt
}

// Adapter is the uniform interface every venue implementation
// satisfies (spec.md §4.2's operation table).
type Adapter interface {
	Dex() types.Dex

	// SwapAToB and SwapBToA consume `input` of one asset and return
	// the other. Used for the intermediate/sell legs of a
	// composition.
	SwapAToB(ctx context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error)
	SwapBToA(ctx context.Context, pool *types.PoolSnapshot, input uint64) (SwapResult, error)

	// FlashSwapAToB and FlashSwapBToA return (received, receipt) with
	// a debt of the input asset; only venues where
	// PoolSnapshot.SupportsFlashSwap() is true implement these
	// meaningfully — others return ErrFlashUnsupported.
	FlashSwapAToB(ctx context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error)
	FlashSwapBToA(ctx context.Context, pool *types.PoolSnapshot, amount uint64) (FlashSwapResult, error)

	// RepayFlashSwap consumes the receipt and settles the debt.
	RepayFlashSwap(ctx context.Context, pool *types.PoolSnapshot, repayment uint64, receipt *onchain.FlashReceipt) error

	// SimulateAToB and SimulateBToA are pure, side-effect-free
	// estimates used by the Optimizer's ternary search — no RPC round
	// trip, computed entirely from the cached PoolSnapshot.
	SimulateAToB(pool *types.PoolSnapshot, input uint64) uint64
	SimulateBToA(pool *types.PoolSnapshot, input uint64) uint64
}

// ErrFlashUnsupported is returned by FlashSwap* on venues that are
// sell-leg only (Aftermath, FlowxAmm — spec.md §4.2, §9).
var ErrFlashUnsupported = errFlashUnsupported{}

type errFlashUnsupported struct{}

func (errFlashUnsupported) Error() string {
	return "venue: flash swap not supported by this adapter"
}

// Registry maps a Dex to its Adapter, used by the strategy composer and
// the transaction builder to dispatch by venue without a type switch at
// every call site.
type Registry map[types.Dex]Adapter

// NewRegistry wires the six concrete adapters together (FlowX has
// separate CLMM and AMM adapters).
func NewRegistry(cetus, turbos, deepbook, aftermath, flowxClmm, flowxAmm Adapter) Registry {
	return Registry{
		types.Cetus:     cetus,
		types.Turbos:    turbos,
		types.DeepBook:  deepbook,
		types.Aftermath: aftermath,
		types.FlowxClmm: flowxClmm,
		types.FlowxAmm:  flowxAmm,
	}
}

func (r Registry) Get(d types.Dex) (Adapter, bool) {
	a, ok := r[d]
	return a, ok
}
