package strategy

import "github.com/rvasquez-dev/suiarb/types"

// ResolveTwoHop maps a (borrow venue, sell venue) pair to the on-chain
// strategy variant that implements it, grounded on
// original_source/bot-rs/crates/strategy/src/scanner.rs's
// resolve_strategy. Returns false when no on-chain composition exists
// for that pair — this is the literal implementation of spec.md §9's
// open question: "One venue family (a weighted-AMM) is referenced but
// has no implemented on-chain composition; the scanner is expected to
// return no opportunities for that venue." FlowxAmm never appears as a
// borrow leg (it can't flash) and Aftermath/FlowxAmm both fall through
// to false here when named as a would-be borrow source.
func ResolveTwoHop(borrow, sell types.Dex) (types.StrategyType, bool) {
	switch {
	case borrow == types.Cetus && sell == types.Turbos:
		return types.CetusToTurbos, true
	case borrow == types.Turbos && sell == types.Cetus:
		return types.TurbosToCetus, true
	case borrow == types.Cetus && sell == types.DeepBook:
		return types.CetusToDeepBook, true
	case borrow == types.DeepBook && sell == types.Cetus:
		return types.DeepBookToCetus, true
	case borrow == types.Turbos && sell == types.DeepBook:
		return types.TurbosToDeepBook, true
	case borrow == types.DeepBook && sell == types.Turbos:
		return types.DeepBookToTurbos, true
	case borrow == types.Cetus && sell == types.Aftermath:
		return types.CetusToAftermath, true
	case borrow == types.Turbos && sell == types.Aftermath:
		return types.TurbosToAftermath, true
	case borrow == types.DeepBook && sell == types.Aftermath:
		return types.DeepBookToAftermath, true
	case borrow == types.Cetus && sell == types.FlowxClmm:
		return types.CetusToFlowxClmm, true
	case borrow == types.FlowxClmm && sell == types.Cetus:
		return types.FlowxClmmToCetus, true
	case borrow == types.Turbos && sell == types.FlowxClmm:
		return types.TurbosToFlowxClmm, true
	case borrow == types.FlowxClmm && sell == types.Turbos:
		return types.FlowxClmmToTurbos, true
	case borrow == types.DeepBook && sell == types.FlowxClmm:
		return types.DeepBookToFlowxClmm, true
	case borrow == types.FlowxClmm && sell == types.DeepBook:
		return types.FlowxClmmToDeepBook, true
	default:
		// Includes every combination naming FlowxAmm or Aftermath as
		// the borrow leg (neither supports flash swap), and any
		// combination naming FlowxAmm as the sell leg that has no
		// dedicated Aftermath-style variant beyond the three above.
		return 0, false
	}
}

// ResolveTwoHopReversed handles the pair-ordering-inverted variants
// (spec.md §4.3: "there are variants where the pair ordering on the
// source venue is inverted"): today only Cetus's two reversed variants
// exist on-chain.
func ResolveTwoHopReversed(borrow, sell types.Dex) (types.StrategyType, bool) {
	switch {
	case borrow == types.Cetus && sell == types.Turbos:
		return types.CetusToTurbosRev, true
	case borrow == types.Cetus && sell == types.Aftermath:
		return types.CetusToAftermathRev, true
	default:
		return 0, false
	}
}

// ResolveTriHop maps a three-venue cycle (A->B->C->A) to its on-chain
// tri-hop variant, grounded on scanner.rs's resolve_tri_strategy /
// resolve_tri_strategy_v2. Only the specific triples the on-chain
// package implements resolve; all others return false and the tri-hop
// scanner drops the cycle without emitting an opportunity.
func ResolveTriHop(a, b, c types.Dex) (types.StrategyType, bool) {
	switch {
	case a == types.Cetus && b == types.Cetus && c == types.Cetus:
		return types.TriCetusCetusCetus, true
	case a == types.Cetus && b == types.Cetus && c == types.Turbos:
		return types.TriCetusCetusTurbos, true
	case a == types.Cetus && b == types.Turbos && c == types.DeepBook:
		return types.TriCetusTurbosDeepBook, true
	case a == types.Cetus && b == types.DeepBook && c == types.Turbos:
		return types.TriCetusDeepBookTurbos, true
	case a == types.DeepBook && b == types.Cetus && c == types.Turbos:
		return types.TriDeepBookCetusTurbos, true
	case a == types.Cetus && b == types.Cetus && c == types.Aftermath:
		return types.TriCetusCetusAftermath, true
	case a == types.Cetus && b == types.Turbos && c == types.Aftermath:
		return types.TriCetusTurbosAftermath, true
	case a == types.Cetus && b == types.Cetus && c == types.FlowxClmm:
		return types.TriCetusCetusFlowxClmm, true
	case a == types.Cetus && b == types.FlowxClmm && c == types.Turbos:
		return types.TriCetusFlowxClmmTurbos, true
	case a == types.FlowxClmm && b == types.Cetus && c == types.Turbos:
		return types.TriFlowxClmmCetusTurbos, true
	default:
		return 0, false
	}
}
