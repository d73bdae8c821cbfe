package executor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/config"
	"github.com/rvasquez-dev/suiarb/rpc"
	"github.com/rvasquez-dev/suiarb/types"
	"github.com/rvasquez-dev/suiarb/venue"
)

// clockObjectID is Sui's well-known shared Clock object, passed to every
// arb entry function so it can read the current epoch timestamp.
const clockObjectID = "0x6"

// Builder assembles a Programmable Transaction Block for a resolved
// Opportunity via unsafe_moveCall, grounded on
// original_source/bot-rs/crates/executor/src/ptb_builder.rs: each
// StrategyType maps to a specific on-chain entry function whose argument
// list is built from a common admin_cap/pause_flag prefix, venue-specific
// shared objects in a fixed order, and an amount/min_profit/clock tail.
type Builder struct {
	client *rpc.Client
	cfg    *config.Config
	sender string
	logger *zap.Logger
}

func NewBuilder(client *rpc.Client, cfg *config.Config, sender string, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{client: client, cfg: cfg, sender: sender, logger: logger}
}

// Build returns base64 transaction bytes ready for Signer.SignTransaction.
func (b *Builder) Build(ctx context.Context, opp *types.Opportunity) (string, error) {
	args, err := b.buildArgs(opp)
	if err != nil {
		return "", err
	}

	b.logger.Debug("building PTB",
		zap.String("module", opp.Strategy.MoveModule()),
		zap.String("function", opp.Strategy.MoveFunctionName()),
		zap.Uint64("amount", opp.AmountIn))

	var out struct {
		TxBytes string `json:"txBytes"`
	}
	params := []any{
		b.sender,
		b.cfg.PackageID,
		opp.Strategy.MoveModule(),
		opp.Strategy.MoveFunctionName(),
		opp.TypeArgs,
		args,
		nil,
		fmt.Sprintf("%d", b.cfg.MaxGasBudget),
	}
	if err := b.client.Call(ctx, "unsafe_moveCall", params, &out); err != nil {
		return "", fmt.Errorf("build PTB via unsafe_moveCall: %w", err)
	}
	return out.TxBytes, nil
}

// baseArgs is the admin_cap/pause_flag prefix every strategy's argument
// list begins with.
func (b *Builder) baseArgs() []any {
	return []any{b.cfg.AdminCapID, b.cfg.PauseFlagID}
}

// aftermathArgs is the 6-shared-object block any leg touching an
// Aftermath pool appends.
func (b *Builder) aftermathArgs(poolID string) []any {
	return []any{poolID, b.cfg.AftermathRegistry, b.cfg.AftermathFeeVault, b.cfg.AftermathTreasury,
		b.cfg.AftermathInsurance, b.cfg.AftermathReferral}
}

// tailArgs is amount_in, a 90%-of-expected-profit min-profit guard
// (floored at 1 MIST so the on-chain assert_profit check is never a
// no-op), and the shared Clock object.
func (b *Builder) tailArgs(opp *types.Opportunity) []any {
	minProfit := opp.ExpectedProfit * 9 / 10
	if minProfit < 1 {
		minProfit = 1
	}
	return []any{fmt.Sprintf("%d", opp.AmountIn), fmt.Sprintf("%d", minProfit), clockObjectID}
}

// sqrtLimitArg is the MinSqrtPriceLimit bound (venue.MinSqrtPriceLimit)
// every CLMM pool leg's argument tuple carries, encoded as a decimal
// string the same way pool object IDs are. The Composer only ever
// drives a leg as an A-to-B swap (strategy.Composer.Run's routing loop
// calls SwapAToB exclusively), so every CLMM leg here uses the floor
// bound rather than the ceiling.
func sqrtLimitArg() string { return venue.MinSqrtPriceLimit.String() }

// cetusPoolArgs is the (pool, sqrt_price_limit) pair a Cetus CLMM leg
// contributes to the argument list.
func (b *Builder) cetusPoolArgs(poolID string) []any {
	return []any{poolID, sqrtLimitArg()}
}

// turbosPoolArgs is the (pool, versioned, sqrt_price_limit) triple a
// Turbos CLMM leg contributes.
func (b *Builder) turbosPoolArgs(poolID string) []any {
	return []any{poolID, b.cfg.TurbosVersioned, sqrtLimitArg()}
}

// flowxClmmPoolArgs is the (pool, versioned, sqrt_price_limit) triple a
// FlowX CLMM leg contributes.
func (b *Builder) flowxClmmPoolArgs(poolID string) []any {
	return []any{poolID, b.cfg.FlowxVersioned, sqrtLimitArg()}
}

func (b *Builder) buildArgs(opp *types.Opportunity) ([]any, error) {
	expectedPools := 2
	if opp.Strategy.IsTriHop() {
		expectedPools = 3
	}
	if len(opp.Legs) < expectedPools {
		return nil, fmt.Errorf("strategy %v requires %d pool legs, got %d", opp.Strategy, expectedPools, len(opp.Legs))
	}
	pool := func(i int) string { return opp.Legs[i].PoolID }

	var a []any
	switch opp.Strategy {
	case types.CetusToTurbos, types.CetusToTurbosRev:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.turbosPoolArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TurbosToCetus:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.turbosPoolArgs(pool(0))...)
		a = append(a, b.tailArgs(opp)...)

	case types.CetusToDeepBook:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, pool(1), b.cfg.DeepFeeCoinID)
		a = append(a, b.tailArgs(opp)...)

	case types.DeepBookToCetus:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, pool(0), b.cfg.DeepFeeCoinID)
		a = append(a, b.tailArgs(opp)...)

	case types.TurbosToDeepBook:
		a = b.baseArgs()
		a = append(a, b.turbosPoolArgs(pool(0))...)
		a = append(a, pool(1), b.cfg.DeepFeeCoinID)
		a = append(a, b.tailArgs(opp)...)

	case types.DeepBookToTurbos:
		a = b.baseArgs()
		a = append(a, b.turbosPoolArgs(pool(1))...)
		a = append(a, pool(0), b.cfg.DeepFeeCoinID)
		a = append(a, b.tailArgs(opp)...)

	case types.CetusToAftermath, types.CetusToAftermathRev:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.aftermathArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TurbosToAftermath:
		a = b.baseArgs()
		a = append(a, b.turbosPoolArgs(pool(0))...)
		a = append(a, b.aftermathArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.DeepBookToAftermath:
		a = b.baseArgs()
		a = append(a, pool(0), b.cfg.DeepFeeCoinID)
		a = append(a, b.aftermathArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.CetusToFlowxClmm:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.flowxClmmPoolArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.FlowxClmmToCetus:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.flowxClmmPoolArgs(pool(0))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TurbosToFlowxClmm:
		a = b.baseArgs()
		a = append(a, b.turbosPoolArgs(pool(0))...)
		a = append(a, b.flowxClmmPoolArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.FlowxClmmToTurbos:
		a = b.baseArgs()
		a = append(a, b.turbosPoolArgs(pool(1))...)
		a = append(a, b.flowxClmmPoolArgs(pool(0))...)
		a = append(a, b.tailArgs(opp)...)

	case types.DeepBookToFlowxClmm:
		a = b.baseArgs()
		a = append(a, pool(0), b.cfg.DeepFeeCoinID)
		a = append(a, b.flowxClmmPoolArgs(pool(1))...)
		a = append(a, b.tailArgs(opp)...)

	case types.FlowxClmmToDeepBook:
		a = b.baseArgs()
		a = append(a, pool(1), b.cfg.DeepFeeCoinID)
		a = append(a, b.flowxClmmPoolArgs(pool(0))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusCetusCetus:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.cetusPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusCetusTurbos:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.turbosPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusTurbosDeepBook:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.turbosPoolArgs(pool(1))...)
		a = append(a, pool(2), b.cfg.DeepFeeCoinID)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusDeepBookTurbos:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, pool(1), b.cfg.DeepFeeCoinID)
		a = append(a, b.turbosPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriDeepBookCetusTurbos:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, pool(0), b.cfg.DeepFeeCoinID)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.turbosPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusCetusAftermath:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.aftermathArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusTurbosAftermath:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.turbosPoolArgs(pool(1))...)
		a = append(a, b.aftermathArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusCetusFlowxClmm:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.flowxClmmPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriCetusFlowxClmmTurbos:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.cetusPoolArgs(pool(0))...)
		a = append(a, b.flowxClmmPoolArgs(pool(1))...)
		a = append(a, b.turbosPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	case types.TriFlowxClmmCetusTurbos:
		a = b.baseArgs()
		a = append(a, b.cfg.CetusGlobalConfig)
		a = append(a, b.flowxClmmPoolArgs(pool(0))...)
		a = append(a, b.cetusPoolArgs(pool(1))...)
		a = append(a, b.turbosPoolArgs(pool(2))...)
		a = append(a, b.tailArgs(opp)...)

	default:
		return nil, fmt.Errorf("no PTB argument mapping for strategy %v", opp.Strategy)
	}

	return a, nil
}
