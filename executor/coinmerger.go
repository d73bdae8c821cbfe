package executor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/rpc"
)

// suiCoinType is the fully-qualified Coin<SUI> type, reused from the
// gasmonitor package's balance lookups.
const suiCoinType = "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"

// CoinMerger periodically consolidates the wallet's fragmented Coin<SUI>
// objects, grounded on
// original_source/bot-rs/crates/executor/src/coin_merger.rs: repeated
// gas rebates and profit transfers leave many small coin objects behind,
// and Sui caps how many objects a single transaction may touch, so the
// wallet's coin count must be bounded periodically via unsafe_payAllSui.
type CoinMerger struct {
	client         *rpc.Client
	ownerAddress   string
	mergeThreshold int
	checkInterval  int
	mergeGasBudget uint64
	logger         *zap.Logger

	cycleCount uint64
}

// NewCoinMerger returns a merger with the teacher's defaults: merge past
// 20 coins, checked every 100 cycles (~50s at a 500ms tick), budgeting
// 0.01 SUI for the merge transaction itself.
func NewCoinMerger(client *rpc.Client, ownerAddress string, logger *zap.Logger) *CoinMerger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoinMerger{
		client:         client,
		ownerAddress:   ownerAddress,
		mergeThreshold: 20,
		checkInterval:  100,
		mergeGasBudget: 10_000_000,
		logger:         logger,
	}
}

// MaybeMerge should be called once per orchestrator tick. It returns
// base64 transaction bytes to sign and submit when the coin count
// exceeds the threshold on a check cycle, or ("", nil) otherwise. The
// caller owns signing and submission.
func (m *CoinMerger) MaybeMerge(ctx context.Context) (string, error) {
	m.cycleCount++
	if m.cycleCount%uint64(m.checkInterval) != 0 {
		return "", nil
	}

	coins, err := m.client.GetAllCoins(ctx, m.ownerAddress, suiCoinType)
	if err != nil {
		return "", err
	}

	if len(coins) <= m.mergeThreshold {
		m.logger.Debug("coin count OK, no merge needed",
			zap.Int("coin_count", len(coins)), zap.Int("threshold", m.mergeThreshold))
		return "", nil
	}

	m.logger.Info("too many Coin<SUI> objects, merging",
		zap.Int("coin_count", len(coins)), zap.Int("threshold", m.mergeThreshold))

	coinIDs := make([]string, 0, len(coins))
	for _, c := range coins {
		coinIDs = append(coinIDs, c.CoinObjectID)
	}
	if len(coinIDs) == 0 {
		return "", nil
	}

	return m.buildMergeTx(ctx, coinIDs)
}

// buildMergeTx requests a tx-bytes blob from unsafe_payAllSui that pays
// every listed coin back to the owner, consolidating them into one.
func (m *CoinMerger) buildMergeTx(ctx context.Context, coinIDs []string) (string, error) {
	var out struct {
		TxBytes string `json:"txBytes"`
	}
	params := []any{m.ownerAddress, coinIDs, m.ownerAddress, fmt.Sprintf("%d", m.mergeGasBudget)}
	if err := m.client.Call(ctx, "unsafe_payAllSui", params, &out); err != nil {
		return "", err
	}
	return out.TxBytes, nil
}
