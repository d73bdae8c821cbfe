// Package types holds the data model shared across the collector, scanner,
// optimizer and executor: pool snapshots, decimal normalization, and
// arbitrage opportunities.
package types

import "math/big"

// Dex identifies which venue a pool belongs to.
type Dex int

const (
	Cetus Dex = iota
	Turbos
	DeepBook
	Aftermath
	FlowxClmm
	FlowxAmm
)

func (d Dex) String() string {
	switch d {
	case Cetus:
		return "Cetus"
	case Turbos:
		return "Turbos"
	case DeepBook:
		return "DeepBook"
	case Aftermath:
		return "Aftermath"
	case FlowxClmm:
		return "FlowX CLMM"
	case FlowxAmm:
		return "FlowX AMM"
	default:
		return "unknown"
	}
}

// minCLMMLiquidity is the liquidity floor below which a CLMM pool's
// sqrt-price is treated as meaningless and excluded from scanning
// (spec.md §4.5, grounded on original_source pool.rs MIN_CLMM_LIQUIDITY).
var minCLMMLiquidity = big.NewInt(10_000_000)

// q64 is 2^64, the fixed-point scale for CLMM sqrt-prices.
var q64 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 64))

// PoolSnapshot is a normalized, timestamped view of one pool's state,
// extracted from on-chain data by a venue parser. Identity is
// (Dex, ObjectID, CoinTypeA, CoinTypeB).
type PoolSnapshot struct {
	ObjectID  string
	Dex       Dex
	CoinTypeA string
	CoinTypeB string

	// CLMM fields (Cetus, Turbos, FlowxClmm). SqrtPrice is Q64.64;
	// Liquidity and SqrtPrice are u128 on-chain and modeled as
	// *big.Int here since Go has no native 128-bit integer.
	SqrtPrice  *big.Int
	TickIndex  *int32
	Liquidity  *big.Int
	FeeRateBps *uint64

	// AMM fields (Aftermath, FlowxAmm).
	ReserveA *uint64
	ReserveB *uint64

	// CLOB fields (DeepBook).
	BestBid *float64
	BestAsk *float64

	// LastUpdatedMs is epoch milliseconds of capture. Snapshots are
	// written only with a strictly newer timestamp than the one
	// already cached (see collector/cache.go).
	LastUpdatedMs uint64

	// FeeType is an extra type parameter some venues require in the
	// Move call (Turbos' fee-tier phantom type). Empty when unused.
	FeeType string
}

// PriceAInB returns the effective price of CoinTypeA in units of
// CoinTypeB, or false when the pool has no usable price (illiquid CLMM,
// missing reserves, or no order-book quote).
func (p *PoolSnapshot) PriceAInB() (float64, bool) {
	switch p.Dex {
	case Cetus, Turbos, FlowxClmm:
		if p.Liquidity == nil || p.Liquidity.Cmp(minCLMMLiquidity) < 0 {
			return 0, false
		}
		if p.SqrtPrice == nil {
			return 0, false
		}
		spF := new(big.Float).SetInt(p.SqrtPrice)
		spF.Quo(spF, q64)
		sp, _ := spF.Float64()
		return sp * sp, true
	case Aftermath, FlowxAmm:
		if p.ReserveA == nil || p.ReserveB == nil || *p.ReserveA == 0 {
			return 0, false
		}
		return float64(*p.ReserveB) / float64(*p.ReserveA), true
	case DeepBook:
		// DeepBook is a CLOB: vault balances are the sum of all
		// resting orders and bear no relation to market price.
		// Only bid/ask quotes are a valid price signal.
		switch {
		case p.BestBid != nil && p.BestAsk != nil:
			return (*p.BestBid + *p.BestAsk) / 2, true
		case p.BestBid != nil:
			return *p.BestBid, true
		case p.BestAsk != nil:
			return *p.BestAsk, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

// SupportsFlashSwap reports whether this venue can serve as the
// flash-borrow source leg of a composition. Aftermath and FlowxAmm are
// sell-leg-only (spec.md §4.2, §9).
func (p *PoolSnapshot) SupportsFlashSwap() bool {
	switch p.Dex {
	case Cetus, Turbos, DeepBook, FlowxClmm:
		return true
	default:
		return false
	}
}

// StalenessMs returns how old this snapshot is relative to nowMs,
// saturating at zero rather than wrapping if nowMs precedes the
// snapshot (clock skew across collectors).
func (p *PoolSnapshot) StalenessMs(nowMs uint64) uint64 {
	if nowMs <= p.LastUpdatedMs {
		return 0
	}
	return nowMs - p.LastUpdatedMs
}

// StaleAfterMs is the freshness gate from spec.md §3 / §4.5: snapshots
// older than this are excluded from scanning.
const StaleAfterMs = 10_000
