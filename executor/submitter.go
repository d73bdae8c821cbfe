package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/rpc"
)

// maxSubmitRetries and retryBackoffUnit mirror
// original_source/bot-rs/crates/executor/src/submitter.rs: up to 2
// retries, with a linearly growing 200ms*attempt backoff between them.
const (
	maxSubmitRetries = 2
	retryBackoffUnit = 200 * time.Millisecond
)

// SubmitResult reports the on-chain outcome of a submitted transaction.
type SubmitResult struct {
	Digest       string
	Success      bool
	GasCostMist  uint64
	ProfitMist   uint64
	HasProfit    bool
	ErrorMessage string
}

// Submitter broadcasts signed transactions and retries transient
// failures.
type Submitter struct {
	client *rpc.Client
	logger *zap.Logger
}

func NewSubmitter(client *rpc.Client, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{client: client, logger: logger}
}

// Submit broadcasts txBytes with signature via sui_executeTransactionBlock,
// retrying up to maxSubmitRetries times on RPC-level failure. An
// on-chain execution failure (a successfully-submitted transaction whose
// Move call aborted) is returned as a non-error SubmitResult with
// Success=false, not retried, since resubmitting an aborted call would
// only waste gas again.
func (s *Submitter) Submit(ctx context.Context, txBytesB64, signature string) (SubmitResult, error) {
	var lastErr error

	for attempt := 0; attempt <= maxSubmitRetries; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying transaction submission", zap.Int("attempt", attempt))
			select {
			case <-ctx.Done():
				return SubmitResult{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoffUnit):
			}
		}

		result, err := s.submitOnce(ctx, txBytesB64, signature)
		if err == nil {
			return result, nil
		}
		lastErr = err
		s.logger.Error("submission failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	return SubmitResult{}, fmt.Errorf("transaction submission failed after %d retries: %w", maxSubmitRetries, lastErr)
}

func (s *Submitter) submitOnce(ctx context.Context, txBytesB64, signature string) (SubmitResult, error) {
	res, err := s.client.ExecuteTransactionBlock(ctx, txBytesB64, []string{signature})
	if err != nil {
		if isAlreadyExecutedError(err) {
			s.logger.Info("transaction already executed, treating as success", zap.Error(err))
			return SubmitResult{Success: true, ErrorMessage: err.Error()}, nil
		}
		return SubmitResult{}, err
	}

	gasUsed := gasCost(res.Effects.GasUsed.ComputationCost, res.Effects.GasUsed.StorageCost, res.Effects.GasUsed.StorageRebate)
	success := res.Effects.Status.Status == "success"
	profit, hasProfit := extractArbProfit(res.Events)

	if success {
		s.logger.Info("transaction executed successfully",
			zap.String("digest", res.Digest), zap.Uint64("gas_mist", gasUsed),
			zap.Uint64("profit_mist", profit), zap.Bool("has_profit_event", hasProfit))
	} else {
		s.logger.Warn("transaction failed on-chain",
			zap.String("digest", res.Digest), zap.String("error", res.Effects.Status.Error))
	}

	return SubmitResult{
		Digest:       res.Digest,
		Success:      success,
		GasCostMist:  gasUsed,
		ProfitMist:   profit,
		HasProfit:    hasProfit,
		ErrorMessage: res.Effects.Status.Error,
	}, nil
}

// isAlreadyExecutedError reports whether err is the RPC's way of saying
// this transaction digest was already certified and executed — a retry
// racing a successful prior attempt, not a real failure. Sui full nodes
// surface this as a JSON-RPC error string rather than a distinct code,
// so it's matched on substring the same way submitOnce already reads
// res.Effects.Status.Error by string.
func isAlreadyExecutedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already executed") || strings.Contains(msg, "already finalized")
}

// arbExecutedEvent is the subset of a parsed Move event this bot cares
// about: the on-chain ArbExecuted event's profit field, emitted by the
// two_hop/tri_hop entry functions on success.
type arbExecutedEvent struct {
	Type       string `json:"type"`
	ParsedJSON struct {
		Profit string `json:"profit"`
	} `json:"parsedJson"`
}

// extractArbProfit scans a transaction's emitted events for an
// ArbExecuted event and returns its reported profit, if any.
func extractArbProfit(events []json.RawMessage) (uint64, bool) {
	for _, raw := range events {
		var ev arbExecutedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		if !strings.Contains(ev.Type, "ArbExecuted") {
			continue
		}
		profit, err := strconv.ParseUint(ev.ParsedJSON.Profit, 10, 64)
		if err != nil {
			continue
		}
		return profit, true
	}
	return 0, false
}
