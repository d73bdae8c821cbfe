// Package scanner performs pairwise and triangular cross-venue price
// comparison over a snapshot of pool states, grounded on
// original_source/bot-rs/crates/strategy/src/scanner.rs and the
// teacher's strategies/arbitrage/detector.go nested-loop shape.
package scanner

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/strategy"
	"github.com/rvasquez-dev/suiarb/types"
)

// maxRealisticSpread rejects spreads above this fraction as a decimal
// normalization bug rather than a real arbitrage (original_source's
// MAX_REALISTIC_SPREAD).
const maxRealisticSpread = 0.50

// twoHopSpreadThreshold is the minimum relative price divergence before
// a two-hop pair is considered (0.1%, original_source).
const twoHopSpreadThreshold = 0.001

// twoHopSlippageFactor conservatively discounts the scanner's coarse
// profit estimate for a single swap-pair's price impact.
const twoHopSlippageFactor = 0.5

// twoHopAmountIn is the scanner's fixed starting size for a coarse
// estimate; the optimizer refines this via ternary search.
const twoHopAmountIn uint64 = 1_000_000_000 // 1 SUI

// twoHopGasEstimate is a flat placeholder gas cost until the builder
// produces a real estimate.
const twoHopGasEstimate uint64 = 5_000_000

// triHopCrossRateThreshold requires a >1% edge across three sequential
// swaps before considering a triangle (original_source).
const triHopCrossRateThreshold = 1.01

// triHopSlippageFactor is more conservative than the two-hop factor
// because three sequential swaps compound price impact.
const triHopSlippageFactor = 0.15

const triHopAmountIn uint64 = 5_000_000_000 // 5 SUI
const triHopGasEstimate uint64 = 4_000_000

// Scanner performs O(n^2) two-hop and O(n^3) tri-hop pairwise/triangular
// comparison over a pool snapshot. Safe for concurrent use; mutable
// state is limited to the scan counter used for periodic summary logs.
type Scanner struct {
	MinProfitMist uint64
	MaxStaleMs    uint64
	Decimals      types.DecimalsMap

	mu        sync.Mutex
	scanCount uint64
	logger    *zap.Logger
}

func New(minProfitMist uint64, decimals types.DecimalsMap, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		MinProfitMist: minProfitMist,
		MaxStaleMs:    types.StaleAfterMs,
		Decimals:      decimals,
		logger:        logger,
	}
}

// ScanTwoHop compares every pair of pools sharing a token pair and
// returns candidate opportunities sorted by descending expected profit.
func (s *Scanner) ScanTwoHop(pools []*types.PoolSnapshot, nowMs uint64) []*types.Opportunity {
	var opportunities []*types.Opportunity
	var pairsChecked, divergences, nearMisses int
	var bestSpread float64
	var bestPairDesc string

	for i := 0; i < len(pools); i++ {
		for j := i + 1; j < len(pools); j++ {
			poolA, poolB := pools[i], pools[j]

			if poolA.StalenessMs(nowMs) > s.MaxStaleMs || poolB.StalenessMs(nowMs) > s.MaxStaleMs {
				continue
			}
			if !samePair(poolA, poolB) {
				continue
			}
			pairsChecked++

			priceA, okA := poolA.PriceAInB()
			priceB, okB := poolB.PriceAInB()
			if !okA || !okB {
				continue
			}

			adjA := priceA * s.Decimals.NormalizeFactor(poolA.CoinTypeA, poolA.CoinTypeB)
			adjB := priceB * s.Decimals.NormalizeFactor(poolB.CoinTypeA, poolB.CoinTypeB)

			normA, normB := adjA, adjB
			if poolA.CoinTypeA != poolB.CoinTypeA {
				// Pools have reversed ordering.
				normB = 1.0 / adjB
			}

			lo, hi := normA, normB
			if lo > hi {
				lo, hi = hi, lo
			}
			if lo == 0 {
				continue
			}
			spread := (hi - lo) / lo
			if spread > bestSpread {
				bestSpread = spread
				bestPairDesc = poolA.Dex.String() + "/" + poolB.Dex.String()
			}
			if spread <= twoHopSpreadThreshold {
				continue
			}
			divergences++
			if spread > maxRealisticSpread {
				s.logger.Debug("bogus spread rejected", zap.String("dex_a", poolA.Dex.String()),
					zap.String("dex_b", poolB.Dex.String()), zap.Float64("spread", spread))
				continue
			}

			flashPool, sellPool := poolB, poolA
			if normA < normB {
				flashPool, sellPool = poolA, poolB
			}

			strat, ok := strategy.ResolveTwoHop(flashPool.Dex, sellPool.Dex)
			if !ok {
				continue
			}

			estProfit := uint64(float64(twoHopAmountIn) * spread * twoHopSlippageFactor)
			if estProfit <= s.MinProfitMist {
				nearMisses++
				continue
			}

			typeArgs := []string{flashPool.CoinTypeA, flashPool.CoinTypeB}
			if ft := turbosFeeType(flashPool, sellPool); ft != "" {
				typeArgs = append(typeArgs, ft)
			}

			opportunities = append(opportunities, &types.Opportunity{
				ID:       uuid.NewString(),
				Strategy: strat,
				Legs: []types.PoolLeg{
					{Venue: flashPool.Dex, PoolID: flashPool.ObjectID},
					{Venue: sellPool.Dex, PoolID: sellPool.ObjectID},
				},
				InputAsset:     flashPool.CoinTypeA,
				AmountIn:       twoHopAmountIn,
				EstimatedOut:   twoHopAmountIn + estProfit,
				ExpectedProfit: estProfit,
				EstimatedGas:   twoHopGasEstimate,
				NetProfit:      int64(estProfit) - int64(twoHopGasEstimate),
				TypeArgs:       typeArgs,
				DetectedAtMs:   minUint64(poolA.LastUpdatedMs, poolB.LastUpdatedMs),
			})
		}
	}

	s.mu.Lock()
	cycle := s.scanCount
	s.scanCount++
	s.mu.Unlock()
	if cycle%20 == 0 {
		s.logger.Info("two-hop scan summary",
			zap.Int("pairs_checked", pairsChecked),
			zap.Int("divergences", divergences),
			zap.Int("near_misses", nearMisses),
			zap.Int("opportunities", len(opportunities)),
			zap.Float64("best_spread", bestSpread),
			zap.String("best_pair", bestPairDesc))
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].ExpectedProfit > opportunities[j].ExpectedProfit
	})
	return opportunities
}

// ScanTriHop searches for triangular A->B->C->A cycles among fresh pools
// (O(n^3); fine for the small monitored-pool counts this system targets).
func (s *Scanner) ScanTriHop(pools []*types.PoolSnapshot, nowMs uint64) []*types.Opportunity {
	fresh := make([]*types.PoolSnapshot, 0, len(pools))
	for _, p := range pools {
		if p.StalenessMs(nowMs) <= s.MaxStaleMs {
			fresh = append(fresh, p)
		}
	}

	var opportunities []*types.Opportunity
	seen := make(map[string]bool)

	for _, p1 := range fresh {
		for _, p2 := range fresh {
			if p1 == p2 {
				continue
			}
			tokenB, tokenA, tokenC, ok := sharedToken(p1, p2)
			if !ok {
				continue
			}
			for _, p3 := range fresh {
				if p3 == p1 || p3 == p2 {
					continue
				}
				if !poolHasPair(p3, tokenC, tokenA) {
					continue
				}

				priceAB := priceForDirection(p1, tokenA, tokenB, s.Decimals)
				priceBC := priceForDirection(p2, tokenB, tokenC, s.Decimals)
				priceCA := priceForDirection(p3, tokenC, tokenA, s.Decimals)
				if priceAB == 0 || priceBC == 0 || priceCA == 0 {
					continue
				}

				crossRate := priceAB * priceBC * priceCA
				if crossRate <= triHopCrossRateThreshold || crossRate >= 1.0+maxRealisticSpread {
					continue
				}

				strat, ok := strategy.ResolveTriHop(p1.Dex, p2.Dex, p3.Dex)
				if !ok {
					continue
				}

				ids := []string{p1.ObjectID, p2.ObjectID, p3.ObjectID}
				dedupKey := dedupKey(ids)
				if seen[dedupKey] {
					continue
				}
				seen[dedupKey] = true

				spread := crossRate - 1.0
				estProfit := uint64(float64(triHopAmountIn) * spread * triHopSlippageFactor)
				if estProfit <= s.MinProfitMist {
					continue
				}

				typeArgs := []string{tokenA, tokenB, tokenC}
				if ft := turbosFeeType(p1, p2, p3); ft != "" {
					typeArgs = append(typeArgs, ft)
				}

				opportunities = append(opportunities, &types.Opportunity{
					ID:       uuid.NewString(),
					Strategy: strat,
					Legs: []types.PoolLeg{
						{Venue: p1.Dex, PoolID: p1.ObjectID},
						{Venue: p2.Dex, PoolID: p2.ObjectID},
						{Venue: p3.Dex, PoolID: p3.ObjectID},
					},
					InputAsset:     tokenA,
					AmountIn:       triHopAmountIn,
					EstimatedOut:   triHopAmountIn + estProfit,
					ExpectedProfit: estProfit,
					EstimatedGas:   triHopGasEstimate,
					NetProfit:      int64(estProfit) - int64(triHopGasEstimate),
					TypeArgs:       typeArgs,
					DetectedAtMs:   minUint64(p1.LastUpdatedMs, minUint64(p2.LastUpdatedMs, p3.LastUpdatedMs)),
				})
			}
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].ExpectedProfit > opportunities[j].ExpectedProfit
	})
	return opportunities
}

func samePair(a, b *types.PoolSnapshot) bool {
	return (a.CoinTypeA == b.CoinTypeA && a.CoinTypeB == b.CoinTypeB) ||
		(a.CoinTypeA == b.CoinTypeB && a.CoinTypeB == b.CoinTypeA)
}

func sharedToken(p1, p2 *types.PoolSnapshot) (shared, otherP1, otherP2 string, ok bool) {
	switch {
	case p1.CoinTypeA == p2.CoinTypeA:
		return p1.CoinTypeA, p1.CoinTypeB, p2.CoinTypeB, true
	case p1.CoinTypeA == p2.CoinTypeB:
		return p1.CoinTypeA, p1.CoinTypeB, p2.CoinTypeA, true
	case p1.CoinTypeB == p2.CoinTypeA:
		return p1.CoinTypeB, p1.CoinTypeA, p2.CoinTypeB, true
	case p1.CoinTypeB == p2.CoinTypeB:
		return p1.CoinTypeB, p1.CoinTypeA, p2.CoinTypeA, true
	default:
		return "", "", "", false
	}
}

func poolHasPair(pool *types.PoolSnapshot, x, y string) bool {
	return (pool.CoinTypeA == x && pool.CoinTypeB == y) || (pool.CoinTypeA == y && pool.CoinTypeB == x)
}

// priceForDirection returns the decimal-normalized price for swapping
// from->to on pool, or 0 if the pool has no usable price or doesn't
// trade that pair.
func priceForDirection(pool *types.PoolSnapshot, from, to string, decimals types.DecimalsMap) float64 {
	base, ok := pool.PriceAInB()
	if !ok {
		return 0
	}
	normalized := base * decimals.NormalizeFactor(pool.CoinTypeA, pool.CoinTypeB)

	switch {
	case pool.CoinTypeA == from && pool.CoinTypeB == to:
		return normalized
	case pool.CoinTypeB == from && pool.CoinTypeA == to:
		if normalized <= 0 {
			return 0
		}
		return 1.0 / normalized
	default:
		return 0
	}
}

func turbosFeeType(pools ...*types.PoolSnapshot) string {
	for _, p := range pools {
		if p.Dex == types.Turbos && p.FeeType != "" {
			return p.FeeType
		}
	}
	return ""
}

func dedupKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
