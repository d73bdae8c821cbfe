package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Supervised restart bounds, grounded on the teacher's deleted
// mempool/monitor.go supervisor loop idea (a task goroutine that
// restarts with a capped backoff rather than either crashing the
// process or spinning hot on a persistent error) — adapted here for the
// collector's poller and event-stream tasks rather than copied, since
// the teacher's eBPF/DPDK machinery around it has no Sui equivalent.
const (
	minRestartBackoff = 500 * time.Millisecond
	maxRestartBackoff = 30 * time.Second
)

// Task is a long-running collector job that returns when ctx is
// cancelled or it hits an unrecoverable error.
type Task func(ctx context.Context) error

// Supervise runs task, restarting it with exponentially growing backoff
// (capped at maxRestartBackoff, reset to minRestartBackoff after any run
// that lasts longer than maxRestartBackoff) until ctx is cancelled.
// name is used only for logging.
func Supervise(ctx context.Context, name string, logger *zap.Logger, task Task) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backoff := minRestartBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		err := task(ctx)

		if ctx.Err() != nil {
			return
		}
		if err == nil {
			logger.Info("supervised task exited cleanly", zap.String("task", name))
			return
		}

		logger.Error("supervised task failed, restarting",
			zap.String("task", name), zap.Error(err), zap.Duration("backoff", backoff))

		if time.Since(start) > maxRestartBackoff {
			backoff = minRestartBackoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxRestartBackoff {
			backoff = maxRestartBackoff
		}
	}
}

// HeartbeatStale reports whether a heartbeat timestamp (epoch ms, as
// written by Poller.Heartbeat) is older than maxAge relative to now.
// The orchestrator does not call it: its tick loop keeps scanning while
// a collector is stalled, and only the scanner's per-snapshot freshness
// check keeps stale pools out of the results.
func HeartbeatStale(heartbeatMs uint64, maxAge time.Duration, nowMs uint64) bool {
	if heartbeatMs == 0 {
		return true
	}
	if nowMs <= heartbeatMs {
		return false
	}
	return time.Duration(nowMs-heartbeatMs)*time.Millisecond > maxAge
}
