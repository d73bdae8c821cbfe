// Package onchain models the capability, pause, profit and event
// primitives that spec.md §4.1 assigns to the on-chain atomic
// composition engine (spec.md's THE CORE #1). The real entry routines
// live in a Move package (out of scope, consumed as a typed interface —
// spec.md §1); this package is the deterministic Go-side reference model
// used to (a) locally simulate a composition before spending a dry-run
// round trip, and (b) exercise the profit invariant and receipt
// discipline as testable properties (spec.md §8) without a live chain.
package onchain

import (
	"errors"
	"math"
)

// Sentinel errors mirror the on-chain error taxonomy of spec.md §6/§7.
// A Move abort has no message text to preserve, only a numeric code; the
// error identity here is what off-chain callers branch on.
var (
	ErrZeroAmount    = errors.New("onchain: E_ZERO_AMOUNT")
	ErrPaused        = errors.New("onchain: E_PAUSED")
	ErrNotProfitable = errors.New("onchain: E_NOT_PROFITABLE")
)

// CapabilityToken models a non-storable, non-copyable authority object.
// In Go there is no linear-type enforcement; the invariant is instead
// enforced structurally: a CapabilityToken is never placed in a struct
// field reachable from more than one owner, and every constructor in
// this package requires one to be presented by value, matching the
// "presentation of this token is required for every strategy entry"
// rule (spec.md §4.1).
type CapabilityToken struct {
	// holder identifies the principal that currently owns the token,
	// diagnostic only — Go can't enforce single ownership like Sui's
	// type system, so this is a witness for tests, not a lock.
	holder string
}

// MintCapability mints the single CapabilityToken for a deployment.
// Grounded on spec.md §4.1: "Emitted once at deployment and transferred
// to the deployer."
func MintCapability(deployer string) CapabilityToken {
	return CapabilityToken{holder: deployer}
}

// TransferTo is the module-scoped helper through which a capability may
// move between principals — the only sanctioned transfer path
// (spec.md §4.1).
func (c CapabilityToken) TransferTo(newHolder string) CapabilityToken {
	return CapabilityToken{holder: newHolder}
}

// Holder returns the current principal, for diagnostics/tests only.
func (c CapabilityToken) Holder() string { return c.holder }

// PauseSwitch is the shared mutable boolean gate of spec.md §4.1. Toggling
// it requires presenting the CapabilityToken.
type PauseSwitch struct {
	paused bool
}

// Pause and Unpause are capability-gated transitions.
func (p *PauseSwitch) Pause(_ CapabilityToken)   { p.paused = true }
func (p *PauseSwitch) Unpause(_ CapabilityToken) { p.paused = false }

// IsPaused reports the current state.
func (p *PauseSwitch) IsPaused() bool { return p.paused }

// AssertNotPaused is the fast-fail guard every strategy entry begins
// with (spec.md §4.1, §4.3 step 1).
func AssertNotPaused(p *PauseSwitch) error {
	if p.IsPaused() {
		return ErrPaused
	}
	return nil
}

// AssertNonZero is the other half of step 1's Guard phase.
func AssertNonZero(amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	return nil
}

// AssertProfit is THE profit invariant (spec.md §4.1):
//
//	require amount_out >= amount_in AND amount_out - amount_in >= min_profit
//
// The comparison is structured to avoid ever computing amount_in +
// min_profit, which can overflow uint64 when amount_in is near
// math.MaxUint64 — the subtraction form cannot (spec.md §8 boundary
// scenario 2: assert_profit(max_u64, max_u64, 1) must fail cleanly, not
// wrap).
func AssertProfit(amountOut, amountIn, minProfit uint64) error {
	if amountOut < amountIn {
		return ErrNotProfitable
	}
	if amountOut-amountIn < minProfit {
		return ErrNotProfitable
	}
	return nil
}

// Profit returns max(0, amountOut - amountIn), the same defensive-max
// guard spec.md §4.1 requires on event emission — it does not replace
// AssertProfit, only prevents underflow if a caller emits out of order.
func Profit(amountOut, amountIn uint64) uint64 {
	if amountOut <= amountIn {
		return 0
	}
	return amountOut - amountIn
}

// StrategyEvent is the structured record emitted after profit is
// asserted (spec.md §4.1, §6): {strategy_tag, amount_in, profit}.
type StrategyEvent struct {
	StrategyTag string
	AmountIn    uint64
	Profit      uint64
}

// EmitEvent constructs the event record. It never fails: by the time it
// is called, AssertProfit has already succeeded on the same operands.
func EmitEvent(tag string, amountIn, amountOut uint64) StrategyEvent {
	return StrategyEvent{
		StrategyTag: tag,
		AmountIn:    amountIn,
		Profit:      Profit(amountOut, amountIn),
	}
}

// MinProfitFloor implements spec.md §4.7's min_profit selection:
// max(1, 0.9 * expectedProfit). The floor of 1 keeps the assertion from
// degenerating into a no-op; the 0.9 factor absorbs slippage between
// build and submission.
func MinProfitFloor(expectedProfit uint64) uint64 {
	candidate := uint64(math.Round(float64(expectedProfit) * 0.9))
	if candidate < 1 {
		return 1
	}
	return candidate
}
