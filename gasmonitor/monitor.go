// Package gasmonitor tracks the executor wallet's SUI gas balance,
// grounded on
// original_source/bot-rs/crates/executor/src/gas_monitor.rs: a cached
// balance refreshed on a bounded interval, checked before every trade
// attempt, fail-open on RPC error (a transient RPC hiccup must not halt
// trading, only a confirmed low balance should).
package gasmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/rpc"
)

const suiCoinType = "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"

// fetchInterval bounds how often Check re-queries the RPC node; within
// the window it serves the cached balance.
const fetchInterval = 10 * time.Second

// Monitor tracks a wallet's gas balance and gates trading when it falls
// below minBalanceMist.
type Monitor struct {
	client        *rpc.Client
	owner         string
	minBalance    uint64
	logger        *zap.Logger

	mu            sync.Mutex
	cachedBalance uint64
	haveCached    bool
	lastFetch     time.Time
}

func New(client *rpc.Client, owner string, minBalanceMist uint64, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{client: client, owner: owner, minBalance: minBalanceMist, logger: logger}
}

// ErrInsufficientGas is returned by Check when the confirmed balance is
// below the configured minimum.
var ErrInsufficientGas = fmt.Errorf("insufficient gas balance")

// Check returns the current balance if it meets the minimum, or
// ErrInsufficientGas if a confirmed-fresh balance is below it. An RPC
// fetch failure fails open: the last known balance (or 0, if none is
// cached yet) is returned with a nil error instead of blocking trading
// on a possibly-transient node error.
func (m *Monitor) Check(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	fresh := m.haveCached && time.Since(m.lastFetch) < fetchInterval
	cached := m.cachedBalance
	m.mu.Unlock()

	if fresh {
		if cached < m.minBalance {
			return cached, ErrInsufficientGas
		}
		return cached, nil
	}

	balance, err := m.client.GetBalance(ctx, m.owner, suiCoinType)
	if err != nil {
		m.logger.Error("gas balance fetch failed, allowing trade", zap.Error(err))
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.haveCached {
			return m.cachedBalance, nil
		}
		return 0, nil
	}

	m.mu.Lock()
	m.cachedBalance = balance
	m.haveCached = true
	m.lastFetch = time.Now()
	m.mu.Unlock()

	if balance < m.minBalance {
		m.logger.Warn("low gas balance, trading paused",
			zap.Uint64("balance_mist", balance), zap.Uint64("min_required_mist", m.minBalance))
		return balance, ErrInsufficientGas
	}
	return balance, nil
}

// DeductGas optimistically lowers the cached balance by gasMist after a
// submitted transaction, avoiding an extra RPC round trip on the very
// next Check call.
func (m *Monitor) DeductGas(gasMist uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.haveCached || gasMist >= m.cachedBalance {
		m.cachedBalance = 0
		return
	}
	m.cachedBalance -= gasMist
}
