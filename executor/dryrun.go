package executor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rvasquez-dev/suiarb/rpc"
)

// DryRunOutcome is the effects-derived verdict of simulating a
// transaction before it is signed and broadcast.
type DryRunOutcome struct {
	Success     bool
	ErrorMsg    string
	GasCostMist uint64
}

// DryRun simulates txBytes via sui_dryRunTransactionBlock and reports
// whether it would succeed and what it would cost in gas, letting the
// orchestrator reject an opportunity before spending a real transaction
// on it (spec.md's DRY_RUN_BEFORE_SUBMIT gate).
func DryRun(ctx context.Context, client *rpc.Client, txBytesB64 string) (DryRunOutcome, error) {
	result, err := client.DryRunTransactionBlock(ctx, txBytesB64)
	if err != nil {
		return DryRunOutcome{}, fmt.Errorf("dry run: %w", err)
	}

	gasUsed := gasCost(result.Effects.GasUsed.ComputationCost, result.Effects.GasUsed.StorageCost, result.Effects.GasUsed.StorageRebate)
	success := result.Effects.Status.Status == "success"

	return DryRunOutcome{
		Success:     success,
		ErrorMsg:    result.Effects.Status.Error,
		GasCostMist: gasUsed,
	}, nil
}

// gasCost sums computation and storage cost then subtracts the storage
// rebate, floored at zero, mirroring
// original_source/bot-rs/crates/executor/src/submitter.rs's gas
// accounting.
func gasCost(computationStr, storageStr, rebateStr string) uint64 {
	comp := parseU64(computationStr)
	storage := parseU64(storageStr)
	rebate := parseU64(rebateStr)
	total := comp + storage
	if rebate > total {
		return 0
	}
	return total - rebate
}

func parseU64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
