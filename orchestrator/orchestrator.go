// Package orchestrator wires the collector, scanner, optimizer, builder
// and submitter into the bot's main control loop, grounded on the
// teacher's cmd/bot/bot.go Bot struct (New/Start/Stop over a
// sync.WaitGroup) generalized from a single mempool-driven opportunity
// channel to a ticking scan-optimize-build-dryrun-submit cycle.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/breaker"
	"github.com/rvasquez-dev/suiarb/collector"
	"github.com/rvasquez-dev/suiarb/config"
	"github.com/rvasquez-dev/suiarb/executor"
	"github.com/rvasquez-dev/suiarb/gasmonitor"
	"github.com/rvasquez-dev/suiarb/optimizer"
	"github.com/rvasquez-dev/suiarb/rpc"
	"github.com/rvasquez-dev/suiarb/scanner"
	"github.com/rvasquez-dev/suiarb/types"
)

// Orchestrator owns every subsystem and drives the tick loop: scan for
// opportunities, refine the best one's size, build and (optionally)
// dry-run its transaction, then submit it — gated at each step by the
// circuit breaker and gas monitor.
type Orchestrator struct {
	cfg    *config.Config
	client *rpc.Client
	logger *zap.Logger

	cache      *collector.Cache
	scanner    *scanner.Scanner
	builder    *executor.Builder
	submitter  *executor.Submitter
	signer     *executor.Signer
	coinMerger *executor.CoinMerger
	gas        *gasmonitor.Monitor
	breaker    *breaker.Breaker

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New assembles every subsystem from cfg. signer must already hold the
// wallet keypair derived from cfg.PrivateKeyHex.
func New(cfg *config.Config, client *rpc.Client, signer *executor.Signer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	sender := signer.Address()

	return &Orchestrator{
		cfg:        cfg,
		client:     client,
		logger:     logger,
		cache:      collector.NewCache(),
		scanner:    scanner.New(cfg.MinProfitMist, types.KnownDecimals, logger),
		builder:    executor.NewBuilder(client, cfg, sender, logger),
		submitter:  executor.NewSubmitter(client, logger),
		signer:     signer,
		coinMerger: executor.NewCoinMerger(client, sender, logger),
		gas:        gasmonitor.New(client, sender, cfg.MinGasBalanceMist, logger),
		breaker: breaker.New(breaker.Config{
			Name:                   "suiarb-submit",
			MaxConsecutiveFailures: cfg.CircuitBreaker.MaxConsecutiveFailures,
			MaxCumulativeLossMist:  cfg.CircuitBreaker.MaxCumulativeLossMist,
			Cooldown:               time.Duration(cfg.CircuitBreaker.CooldownMs) * time.Millisecond,
			Logger:                 logger,
		}),
	}
}

// Start launches the collector (polling and/or websocket, per
// cfg.UseWebsocket) as supervised goroutines, and the tick loop as a
// plain goroutine.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	poller := collector.NewPoller(o.client, o.cache, o.cfg, o.logger)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		collector.Supervise(ctx, "poller", o.logger, poller.Run)
	}()

	if o.cfg.UseWebsocket && o.cfg.WSURL != "" {
		ws := collector.NewWsStream(o.cfg.WSURL, o.client, o.cache, dexPackagesFromConfig(o.cfg), o.cfg.MonitoredPools, o.logger)
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			collector.Supervise(ctx, "ws-stream", o.logger, ws.Run)
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.tickLoop(ctx)
	}()

	o.logger.Info("orchestrator started",
		zap.Bool("websocket", o.cfg.UseWebsocket), zap.Duration("poll_interval", o.cfg.PollInterval()))
}

// Stop cancels every goroutine and waits for them to exit.
func (o *Orchestrator) Stop() {
	o.logger.Info("stopping orchestrator")
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// dexPackagesFromConfig builds the WebSocket subscription list from
// whichever per-venue package IDs are configured, grounded on
// original_source/bot-rs/src/main.rs's build_dex_packages: each set
// <VENUE>_PACKAGE_ID subscribes to that venue's swap events, and the
// bot's own deployed package is always included so ArbExecuted events
// surface over the same stream.
func dexPackagesFromConfig(cfg *config.Config) []collector.DexPackage {
	var packages []collector.DexPackage
	add := func(id string, dex types.Dex) {
		if id != "" {
			packages = append(packages, collector.DexPackage{PackageID: id, DexName: dex})
		}
	}
	add(cfg.CetusPackageID, types.Cetus)
	add(cfg.TurbosPackageID, types.Turbos)
	add(cfg.DeepBookPackageID, types.DeepBook)
	add(cfg.AftermathPackageID, types.Aftermath)
	add(cfg.FlowxPackageID, types.FlowxClmm)
	// The bot's own package doesn't map to a Dex value (DexName is only
	// used for the subscription log line); its ArbExecuted events won't
	// match any monitored-pool field name and are otherwise ignored by
	// handleEvent.
	packages = append(packages, collector.DexPackage{PackageID: cfg.PackageID, DexName: types.Cetus})
	return packages
}

func (o *Orchestrator) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

// tick runs one full scan-optimize-build-dryrun-submit cycle, acting
// only on the single best opportunity found (spec.md §3: one submission
// in flight at a time, the next tick re-scans from scratch).
func (o *Orchestrator) tick(ctx context.Context) {
	if err := o.breaker.Allow(); err != nil {
		o.logger.Debug("circuit breaker open, skipping tick", zap.Error(err))
		return
	}

	nowMs := uint64(time.Now().UnixMilli())
	if _, err := o.gas.Check(ctx); err != nil {
		o.logger.Warn("gas check failed, skipping tick", zap.Error(err))
		return
	}

	if txBytes, err := o.coinMerger.MaybeMerge(ctx); err != nil {
		o.logger.Warn("coin merge check failed", zap.Error(err))
	} else if txBytes != "" {
		o.submitStandalone(ctx, txBytes, "coin-merge")
	}

	pools := o.cache.Snapshot()
	opps := o.scanner.ScanTwoHop(pools, nowMs)
	opps = append(opps, o.scanner.ScanTriHop(pools, nowMs)...)
	if len(opps) == 0 {
		return
	}

	best := opps[0]
	for _, opp := range opps[1:] {
		if opp.ExpectedProfit > best.ExpectedProfit {
			best = opp
		}
	}

	if best.AgeMs(nowMs) > types.MaxOpportunityAgeMs {
		o.logger.Debug("best opportunity too stale, skipping", zap.String("id", best.ID))
		return
	}

	o.executeOpportunity(ctx, best)
}

// DryRunBest seeds the cache with one fresh poll, scans for the best
// two-hop or tri-hop opportunity, refines its size, builds its
// transaction and simulates it via sui_dryRunTransactionBlock without
// ever signing or submitting — the `arbengine dryrun` subcommand's
// entire implementation. Returns (nil, ..., nil) if no opportunity
// clears the minimum-profit threshold.
func (o *Orchestrator) DryRunBest(ctx context.Context) (*types.Opportunity, executor.DryRunOutcome, error) {
	poller := collector.NewPoller(o.client, o.cache, o.cfg, o.logger)
	if _, err := poller.PollOnce(ctx); err != nil {
		return nil, executor.DryRunOutcome{}, fmt.Errorf("seed poll: %w", err)
	}

	nowMs := uint64(time.Now().UnixMilli())
	pools := o.cache.Snapshot()
	opps := o.scanner.ScanTwoHop(pools, nowMs)
	opps = append(opps, o.scanner.ScanTriHop(pools, nowMs)...)
	if len(opps) == 0 {
		return nil, executor.DryRunOutcome{}, nil
	}

	best := opps[0]
	for _, opp := range opps[1:] {
		if opp.ExpectedProfit > best.ExpectedProfit {
			best = opp
		}
	}

	refined := o.refine(best)

	txBytes, err := o.builder.Build(ctx, refined)
	if err != nil {
		return refined, executor.DryRunOutcome{}, fmt.Errorf("build: %w", err)
	}

	outcome, err := executor.DryRun(ctx, o.client, txBytes)
	if err != nil {
		return refined, executor.DryRunOutcome{}, fmt.Errorf("dry run: %w", err)
	}
	return refined, outcome, nil
}

// executeOpportunity refines the opportunity's trade size, builds its
// transaction, optionally dry-runs it, then submits it through the
// circuit breaker: an RPC submission error counts as a failure with no
// loss recorded, an on-chain failure records its estimated gas as a
// loss, and a success records its realized profit net of gas.
func (o *Orchestrator) executeOpportunity(ctx context.Context, opp *types.Opportunity) {
	refined := o.refine(opp)

	if !refined.IsProfitable() {
		o.logger.Info("refined opportunity not profitable, skipping",
			zap.String("id", refined.ID), zap.Int64("net_profit_mist", refined.NetProfit))
		return
	}

	txBytes, err := o.builder.Build(ctx, refined)
	if err != nil {
		o.logger.Error("build failed", zap.String("id", refined.ID), zap.Error(err))
		return
	}

	if o.cfg.DryRunBeforeSubmit {
		outcome, err := executor.DryRun(ctx, o.client, txBytes)
		if err != nil {
			o.logger.Warn("dry run RPC failed, skipping", zap.String("id", refined.ID), zap.Error(err))
			return
		}
		if !outcome.Success {
			o.logger.Info("dry run predicts failure, skipping",
				zap.String("id", refined.ID), zap.String("error", outcome.ErrorMsg))
			return
		}
	}

	signature, err := o.signer.SignTransaction(txBytes)
	if err != nil {
		o.logger.Error("signing failed", zap.String("id", refined.ID), zap.Error(err))
		return
	}

	_ = o.breaker.Execute(func() (int64, error) {
		result, err := o.submitter.Submit(ctx, txBytes, signature)
		if err != nil {
			return 0, err
		}
		o.gas.DeductGas(result.GasCostMist)

		if !result.Success {
			loss := -int64(refined.EstimatedGas)
			o.logger.Warn("opportunity submission failed on-chain",
				zap.String("id", refined.ID), zap.String("digest", result.Digest), zap.String("error", result.ErrorMessage))
			return loss, nil
		}

		realized := int64(result.GasCostMist)
		if result.HasProfit {
			realized -= int64(result.ProfitMist)
		}
		o.logger.Info("opportunity submitted",
			zap.String("id", refined.ID), zap.String("digest", result.Digest),
			zap.Uint64("gas_mist", result.GasCostMist), zap.Uint64("profit_mist", result.ProfitMist))
		return -realized, nil
	})
}

// submitStandalone signs and submits a transaction that isn't tied to an
// Opportunity (the coin merger's consolidation transaction), logging
// failures without touching the circuit breaker's loss accounting.
func (o *Orchestrator) submitStandalone(ctx context.Context, txBytes, label string) {
	signature, err := o.signer.SignTransaction(txBytes)
	if err != nil {
		o.logger.Error("signing failed", zap.String("tx", label), zap.Error(err))
		return
	}
	result, err := o.submitter.Submit(ctx, txBytes, signature)
	if err != nil {
		o.logger.Error("submission failed", zap.String("tx", label), zap.Error(err))
		return
	}
	o.gas.DeductGas(result.GasCostMist)
	o.logger.Info("standalone transaction submitted",
		zap.String("tx", label), zap.String("digest", result.Digest), zap.Bool("success", result.Success))
}

// refine runs the optimizer's ternary search over the opportunity's
// trade size, replacing the scanner's coarse fixed-size estimate with a
// refined AmountIn and ExpectedProfit. Grounded on
// original_source/bot-rs/crates/strategy/src/optimizer.rs's
// ternary_search combined with simulate_xy_arb/simulate_clmm_arb: the
// simulate closure re-derives profit from the two legs' live reserves or
// sqrt-prices, pulled from the cache by pool ID, rather than from the
// scanner's single-point estimate.
func (o *Orchestrator) refine(opp *types.Opportunity) *types.Opportunity {
	refined := *opp

	lo := opp.AmountIn / 10
	if lo == 0 {
		lo = 1
	}
	hi := opp.AmountIn * 10
	precision := opp.AmountIn / 1000
	if precision == 0 {
		precision = 1
	}

	simulate := o.simulatorFor(opp)

	amount, profit := optimizer.TernarySearch(lo, hi, precision, simulate)
	refined.AmountIn = amount
	refined.ExpectedProfit = profit
	refined.EstimatedGas = opp.EstimatedGas
	if refined.EstimatedGas == 0 {
		refined.EstimatedGas = 5_000_000
	}
	if profit > refined.EstimatedGas {
		refined.NetProfit = int64(profit - refined.EstimatedGas)
	} else {
		refined.NetProfit = -int64(refined.EstimatedGas - profit)
	}
	return &refined
}

// defaultFeeBps is charged when a pool snapshot carries no on-chain fee
// rate (DeepBook's maker/taker fee lives in its own dynamic fields, not
// modeled in PoolSnapshot).
const defaultFeeBps = 30

// simulatorFor picks the profit simulator for opp's two legs: a real
// reserve- or sqrt-price-based simulation when both legs carry the data
// it needs, or a fallback that scales the scanner's coarse estimate when
// they don't (a DeepBook leg, a tri-hop route, or a missing snapshot).
// Tri-hop opportunities always use the fallback: chaining three
// simulate_xy_arb/simulate_clmm_arb legs through a single ternary search
// variable isn't how the original models it either — lib.rs's optimizer
// only exports a two-leg simulator, so tri-hop sizing stays a linear
// scale of the scanner's probe-size estimate there too.
func (o *Orchestrator) simulatorFor(opp *types.Opportunity) func(amountIn uint64) uint64 {
	fallback := func(amountIn uint64) uint64 {
		if opp.EstimatedOut == 0 || opp.AmountIn == 0 {
			return 0
		}
		scale := float64(amountIn) / float64(opp.AmountIn)
		estimated := float64(opp.EstimatedOut) * scale
		if estimated <= float64(amountIn) {
			return 0
		}
		return uint64(estimated) - amountIn
	}

	if opp.Strategy.IsTriHop() || len(opp.Legs) != 2 {
		return fallback
	}

	leg1, ok1 := o.cache.Get(opp.Legs[0].Venue, opp.Legs[0].PoolID)
	leg2, ok2 := o.cache.Get(opp.Legs[1].Venue, opp.Legs[1].PoolID)
	if !ok1 || !ok2 {
		return fallback
	}

	if isAMM(leg1) && isAMM(leg2) {
		feeBps1, feeBps2 := feeBpsOf(leg1), feeBpsOf(leg2)
		return func(amountIn uint64) uint64 {
			return optimizer.SimulateXYArb(*leg1.ReserveA, *leg1.ReserveB, *leg2.ReserveA, *leg2.ReserveB, feeBps1, feeBps2, amountIn)
		}
	}

	if isCLMM(leg1) && isCLMM(leg2) {
		feeBps1, feeBps2 := feeBpsOf(leg1), feeBpsOf(leg2)
		return func(amountIn uint64) uint64 {
			return optimizer.SimulateClmmArb(leg1.SqrtPrice, leg1.Liquidity, leg2.Liquidity, feeBps1, feeBps2, amountIn)
		}
	}

	return fallback
}

func isAMM(p *types.PoolSnapshot) bool {
	return p.ReserveA != nil && p.ReserveB != nil && *p.ReserveA > 0 && *p.ReserveB > 0
}

func isCLMM(p *types.PoolSnapshot) bool {
	return p.SqrtPrice != nil && p.Liquidity != nil && p.Liquidity.Sign() > 0
}

func feeBpsOf(p *types.PoolSnapshot) uint64 {
	if p.FeeRateBps != nil {
		return *p.FeeRateBps
	}
	return defaultFeeBps
}
