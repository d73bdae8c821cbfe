// Package strategy implements the deterministic five-phase composition
// shape spec.md §4.3 describes for all 27 on-chain strategy variants,
// as a local Go reference model (the real entries are Move functions,
// out of scope per spec.md §1). Composer is exercised by tests asserting
// the profit-invariant, pause-gating, and receipt-discipline testable
// properties (spec.md §8); the dry-run validator and the rest of the
// pipeline do not call it.
package strategy

import (
	"context"
	"fmt"

	"github.com/rvasquez-dev/suiarb/onchain"
	"github.com/rvasquez-dev/suiarb/types"
	"github.com/rvasquez-dev/suiarb/venue"
)

// Composer runs a strategy's five-phase choreography against a venue
// registry and the shared capability/pause state.
type Composer struct {
	registry venue.Registry
	pause    *onchain.PauseSwitch
	cap      onchain.CapabilityToken
}

func NewComposer(registry venue.Registry, pause *onchain.PauseSwitch, cap onchain.CapabilityToken) *Composer {
	return &Composer{registry: registry, pause: pause, cap: cap}
}

// Result mirrors the on-chain event plus enough detail for the dry-run
// validator to compare against a live simulation.
type Result struct {
	Event           onchain.StrategyEvent
	ReceivedOut     uint64
	Repayment       uint64
	Remainder       uint64
	DustDestroyed   int
	DustTransferred uint64
}

// Run executes phases 1-6 of spec.md §4.3 for a two-hop or tri-hop
// opportunity: Guard, Borrow, Route, Assert profit, Repay, Emit.
//
// Critical ordering rule (spec.md §4.3): the profit assertion runs after
// the final swap and strictly before RepayFlashSwap consumes the
// receipt. An unprofitable route therefore returns before the receipt
// is ever consumed; Finalize (called by the caller in tests) then
// reports the discipline violation the same way an un-repaid hot-potato
// would abort the whole transaction on-chain.
func (c *Composer) Run(ctx context.Context, o *types.Opportunity, minProfit uint64) (*Result, error) {
	// Phase 1: Guard.
	if err := onchain.AssertNonZero(o.AmountIn); err != nil {
		return nil, err
	}
	if err := onchain.AssertNotPaused(c.pause); err != nil {
		return nil, err
	}
	if len(o.Legs) < 2 {
		return nil, fmt.Errorf("strategy: opportunity has fewer than 2 legs")
	}

	sourceLeg := o.Legs[o.FlashLegIndex]
	sourceAdapter, ok := c.registry.Get(sourceLeg.Venue)
	if !ok {
		return nil, fmt.Errorf("strategy: no adapter registered for venue %s", sourceLeg.Venue)
	}

	// Phase 2: Borrow.
	borrowPool := &types.PoolSnapshot{Dex: sourceLeg.Venue, ObjectID: sourceLeg.PoolID}
	flashResult, err := sourceAdapter.FlashSwapAToB(ctx, borrowPool, o.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("strategy: flash borrow from %s: %w", sourceLeg.Venue, err)
	}
	receipt := flashResult.Receipt

	// Phase 3: Route through the remaining legs.
	current := flashResult.Received
	var dustDestroyed int
	var dustTransferred uint64
	for _, leg := range o.Legs[1:] {
		adapter, ok := c.registry.Get(leg.Venue)
		if !ok {
			return nil, fmt.Errorf("strategy: no adapter registered for venue %s", leg.Venue)
		}
		pool := &types.PoolSnapshot{Dex: leg.Venue, ObjectID: leg.PoolID}
		swap, err := adapter.SwapAToB(ctx, pool, current)
		if err != nil {
			return nil, fmt.Errorf("strategy: swap leg on %s: %w", leg.Venue, err)
		}
		current = swap.AmountOut

		// A leg that clamped against a price bound or output floor hands
		// back the unconsumed remainder of its input asset rather than
		// dropping it (spec.md §4.2(iii)): zero dust is destroyed
		// outright, non-zero dust is transferred back to the sender
		// (spec.md §8 boundary scenario 4).
		if swap.DustA == 0 {
			dustDestroyed++
		} else {
			dustTransferred += swap.DustA
		}
	}

	// Phase 4: Assert profit — must run before Repay consumes the
	// receipt (spec.md §4.3 "Critical ordering rule").
	repayment, hasExact := receipt.DebtOf()
	if !hasExact {
		repayment = o.AmountIn
	}
	if err := onchain.AssertProfit(current, repayment, minProfit); err != nil {
		// The receipt is deliberately left unconsumed here: on-chain
		// this is exactly what forces the whole transaction to
		// revert (spec.md §4.3 "consequences" a/b/c).
		return nil, err
	}

	// Phase 5: Repay.
	if err := sourceAdapter.RepayFlashSwap(ctx, borrowPool, repayment, receipt); err != nil {
		return nil, fmt.Errorf("strategy: repay flash swap: %w", err)
	}
	remainder := current - repayment

	// Phase 6: Emit + transfer.
	event := onchain.EmitEvent(strategyTag(o.Strategy), o.AmountIn, current)

	return &Result{
		Event:           event,
		ReceivedOut:     current,
		Repayment:       repayment,
		Remainder:       remainder,
		DustDestroyed:   dustDestroyed,
		DustTransferred: dustTransferred,
	}, nil
}

func strategyTag(s types.StrategyType) string {
	return s.MoveFunctionName()
}
