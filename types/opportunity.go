package types

// StrategyType identifies one of the 27 on-chain composition variants
// (spec.md §4.3, §6): 17 two-hop and 10 tri-hop. Grounded on
// original_source/crates/types/src/opportunity.rs's StrategyType enum,
// trimmed to the 17-variant two-hop set spec.md's component-share table
// names explicitly (spec.md's on-chain surface is 27 entries total).
type StrategyType int

const (
	CetusToTurbos StrategyType = iota
	CetusToTurbosRev
	TurbosToCetus
	CetusToDeepBook
	DeepBookToCetus
	TurbosToDeepBook
	DeepBookToTurbos
	CetusToAftermath
	CetusToAftermathRev
	TurbosToAftermath
	DeepBookToAftermath
	CetusToFlowxClmm
	FlowxClmmToCetus
	TurbosToFlowxClmm
	FlowxClmmToTurbos
	DeepBookToFlowxClmm
	FlowxClmmToDeepBook

	TriCetusCetusCetus
	TriCetusCetusTurbos
	TriCetusTurbosDeepBook
	TriCetusDeepBookTurbos
	TriDeepBookCetusTurbos
	TriCetusCetusAftermath
	TriCetusTurbosAftermath
	TriCetusCetusFlowxClmm
	TriCetusFlowxClmmTurbos
	TriFlowxClmmCetusTurbos
)

// strategyMeta bundles the three lookup tables that were, in the
// original, three separate match expressions on StrategyType
// (move_function_name, move_module, flash_source).
type strategyMeta struct {
	fn        string
	module    string
	flashFrom Dex
	hops      int
}

var strategyTable = map[StrategyType]strategyMeta{
	CetusToTurbos:        {"arb_cetus_to_turbos", "two_hop", Cetus, 2},
	CetusToTurbosRev:     {"arb_cetus_to_turbos_reverse", "two_hop", Cetus, 2},
	TurbosToCetus:        {"arb_turbos_to_cetus", "two_hop", Turbos, 2},
	CetusToDeepBook:      {"arb_cetus_to_deepbook", "two_hop", Cetus, 2},
	DeepBookToCetus:      {"arb_deepbook_to_cetus", "two_hop", DeepBook, 2},
	TurbosToDeepBook:     {"arb_turbos_to_deepbook", "two_hop", Turbos, 2},
	DeepBookToTurbos:     {"arb_deepbook_to_turbos", "two_hop", DeepBook, 2},
	CetusToAftermath:     {"arb_cetus_to_aftermath", "two_hop", Cetus, 2},
	CetusToAftermathRev:  {"arb_cetus_to_aftermath_rev", "two_hop", Cetus, 2},
	TurbosToAftermath:    {"arb_turbos_to_aftermath", "two_hop", Turbos, 2},
	DeepBookToAftermath:  {"arb_deepbook_to_aftermath", "two_hop", DeepBook, 2},
	CetusToFlowxClmm:     {"arb_cetus_to_flowx_clmm", "two_hop", Cetus, 2},
	FlowxClmmToCetus:     {"arb_flowx_clmm_to_cetus", "two_hop", FlowxClmm, 2},
	TurbosToFlowxClmm:    {"arb_turbos_to_flowx_clmm", "two_hop", Turbos, 2},
	FlowxClmmToTurbos:    {"arb_flowx_clmm_to_turbos", "two_hop", FlowxClmm, 2},
	DeepBookToFlowxClmm:  {"arb_deepbook_to_flowx_clmm", "two_hop", DeepBook, 2},
	FlowxClmmToDeepBook:  {"arb_flowx_clmm_to_deepbook", "two_hop", FlowxClmm, 2},

	TriCetusCetusCetus:      {"tri_cetus_cetus_cetus", "tri_hop", Cetus, 3},
	TriCetusCetusTurbos:     {"tri_cetus_cetus_turbos", "tri_hop", Cetus, 3},
	TriCetusTurbosDeepBook:  {"tri_cetus_turbos_deepbook", "tri_hop", Cetus, 3},
	TriCetusDeepBookTurbos:  {"tri_cetus_deepbook_turbos", "tri_hop", Cetus, 3},
	TriDeepBookCetusTurbos:  {"tri_deepbook_cetus_turbos", "tri_hop", DeepBook, 3},
	TriCetusCetusAftermath:  {"tri_cetus_cetus_aftermath", "tri_hop", Cetus, 3},
	TriCetusTurbosAftermath: {"tri_cetus_turbos_aftermath", "tri_hop", Cetus, 3},
	TriCetusCetusFlowxClmm:  {"tri_cetus_cetus_flowx_clmm", "tri_hop", Cetus, 3},
	TriCetusFlowxClmmTurbos: {"tri_cetus_flowx_clmm_turbos", "tri_hop", Cetus, 3},
	TriFlowxClmmCetusTurbos: {"tri_flowx_clmm_cetus_turbos", "tri_hop", FlowxClmm, 3},
}

// MoveFunctionName returns the on-chain entry function this strategy calls.
func (s StrategyType) MoveFunctionName() string { return strategyTable[s].fn }

// MoveModule returns "two_hop" or "tri_hop".
func (s StrategyType) MoveModule() string { return strategyTable[s].module }

// FlashSource returns which venue supplies the flash-borrow leg.
func (s StrategyType) FlashSource() Dex { return strategyTable[s].flashFrom }

// Hops returns 2 or 3.
func (s StrategyType) Hops() int { return strategyTable[s].hops }

// IsTriHop reports whether this is a three-leg cyclic composition.
func (s StrategyType) IsTriHop() bool { return strategyTable[s].hops == 3 }

// PoolLeg identifies one pool visited within an opportunity's route.
type PoolLeg struct {
	Venue  Dex
	PoolID string
}

// Opportunity is a candidate arbitrage trade emitted by the Scanner,
// refined by the Optimizer, and consumed by the Builder (spec.md §3).
type Opportunity struct {
	ID       string
	Strategy StrategyType

	// Legs is the ordered list of pools visited; Legs[0] is always the
	// flash-borrow source.
	Legs []PoolLeg

	// FlashLegIndex names which entry of Legs supplies the flash
	// primitive (always 0 in this implementation, but kept explicit
	// so callers never assume the invariant silently).
	FlashLegIndex int

	InputAsset string
	AmountIn   uint64

	// EstimatedOut is the Scanner's coarse estimate of the output amount
	// (AmountIn plus estimated profit) at the probe size. The Optimizer
	// refines AmountIn and ExpectedProfit and leaves EstimatedOut as the
	// Scanner set it.
	EstimatedOut uint64

	// ExpectedProfit and EstimatedGas are first set by the Scanner; the
	// Optimizer replaces ExpectedProfit with its refined figure and
	// defaults a zero EstimatedGas to 5_000_000 MIST. NetProfit is
	// ExpectedProfit - EstimatedGas as a signed value so a
	// loss-making opportunity is representable, not just clamped.
	ExpectedProfit uint64
	EstimatedGas   uint64
	NetProfit      int64

	TypeArgs []string

	// DetectedAtMs is the minimum snapshot timestamp across all legs
	// (spec.md §4.5); the orchestrator drops opportunities whose age
	// exceeds MaxOpportunityAgeMs.
	DetectedAtMs uint64
}

// MaxOpportunityAgeMs is the discard threshold from spec.md §3.
const MaxOpportunityAgeMs = 3_000

// IsProfitable reports whether NetProfit is strictly positive.
func (o *Opportunity) IsProfitable() bool { return o.NetProfit > 0 }

// AgeMs returns how old this opportunity is relative to nowMs.
func (o *Opportunity) AgeMs(nowMs uint64) uint64 {
	if nowMs <= o.DetectedAtMs {
		return 0
	}
	return nowMs - o.DetectedAtMs
}
