package collector

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rvasquez-dev/suiarb/collector/parsers"
	"github.com/rvasquez-dev/suiarb/config"
	"github.com/rvasquez-dev/suiarb/rpc"
	"github.com/rvasquez-dev/suiarb/types"
)

// Poller fetches every monitored pool's on-chain state on a fixed
// interval via a single batched sui_multiGetObjects call per tick,
// grounded on
// original_source/bot-rs/crates/collector/src/rpc_poller.rs: batching
// avoids the rate-limit pressure of one RPC round trip per pool.
type Poller struct {
	client       *rpc.Client
	cache        *Cache
	pools        []config.PoolConfig
	pollInterval time.Duration
	logger       *zap.Logger

	// Heartbeat is bumped to the current epoch-ms on every tick that
	// updated at least one pool, for HeartbeatStale to test; neither
	// Supervise nor the orchestrator reads it.
	Heartbeat atomic.Uint64
}

func NewPoller(client *rpc.Client, cache *Cache, cfg *config.Config, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		client:       client,
		cache:        cache,
		pools:        cfg.MonitoredPools,
		pollInterval: cfg.PollInterval(),
		logger:       logger,
	}
}

// Run polls on pollInterval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("starting RPC poller",
		zap.Int("pools", len(p.pools)), zap.Duration("interval", p.pollInterval))

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Seed once immediately so the scanner has data before the first tick.
	if n, err := p.pollOnce(ctx); err != nil {
		p.logger.Warn("initial seed poll failed", zap.Error(err))
	} else {
		p.logger.Info("pool cache seeded", zap.Int("updated", n))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := p.pollOnce(ctx)
			if err != nil {
				p.logger.Warn("batch fetch failed, will retry next cycle", zap.Error(err))
				continue
			}
			if n > 0 {
				p.Heartbeat.Store(uint64(time.Now().UnixMilli()))
			}
			p.logger.Debug("poll cycle complete", zap.Int("updated", n), zap.Int("total", len(p.pools)))
		}
	}
}

// PollOnce runs a single fetch-and-parse cycle, exported for the
// `arbengine dryrun` subcommand which needs one fresh snapshot without
// starting the ticker loop.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	return p.pollOnce(ctx)
}

func (p *Poller) pollOnce(ctx context.Context) (int, error) {
	ids := make([]string, len(p.pools))
	for i, pool := range p.pools {
		ids[i] = pool.PoolID
	}

	objects, err := p.client.MultiGetObjects(ctx, ids)
	if err != nil {
		return 0, err
	}

	nowMs := uint64(time.Now().UnixMilli())
	updated := 0

	for i, obj := range objects {
		pool := p.pools[i]
		if !obj.Exists {
			p.logger.Warn("pool object does not exist on-chain",
				zap.String("pool", pool.PoolID), zap.String("dex", pool.Dex.String()))
			continue
		}

		content := obj.Content
		if pool.Dex == types.DeepBook && isDeepBookVersioned(content) {
			unwrapped, err := p.unwrapDeepBookVersioned(ctx, content)
			if err != nil {
				p.logger.Warn("DeepBook V3 unwrap failed", zap.String("pool", pool.PoolID), zap.Error(err))
				continue
			}
			content = unwrapped
		}

		snapshot, ok := p.parse(pool, content, obj.Type, nowMs)
		if !ok {
			p.logger.Warn("parse failed", zap.String("pool", pool.PoolID), zap.String("dex", pool.Dex.String()))
			continue
		}

		p.cache.Put(snapshot)
		updated++
	}

	return updated, nil
}

func (p *Poller) parse(pool config.PoolConfig, content json.RawMessage, typeStr string, nowMs uint64) (*types.PoolSnapshot, bool) {
	switch pool.Dex {
	case types.Cetus:
		return parsers.ParseCetus(pool.CoinTypeA, pool.CoinTypeB, content, nowMs)
	case types.Turbos:
		feeType := extractThirdTypeParam(typeStr)
		return parsers.ParseTurbos(pool.CoinTypeA, pool.CoinTypeB, feeType, content, nowMs)
	case types.DeepBook:
		return parsers.ParseDeepBook(pool.CoinTypeA, pool.CoinTypeB, content, nowMs)
	case types.Aftermath:
		return parsers.ParseAftermath(pool.CoinTypeA, pool.CoinTypeB, content, nowMs)
	case types.FlowxClmm:
		return parsers.ParseFlowxClmm(pool.CoinTypeA, pool.CoinTypeB, content, nowMs)
	case types.FlowxAmm:
		return parsers.ParseFlowxAmm(pool.CoinTypeA, pool.CoinTypeB, content, nowMs)
	default:
		return nil, false
	}
}

// deepBookVersionedEnvelope matches enough of a DeepBook pool's
// "content.fields" shape to tell whether it is still wrapped in
// 0x2::versioned::Versioned (has "inner", no "base_vault" — once
// unwrapped the real PoolInner has base_vault directly).
type deepBookVersionedEnvelope struct {
	Fields struct {
		Inner     *json.RawMessage `json:"inner"`
		BaseVault *json.RawMessage `json:"base_vault"`
	} `json:"fields"`
}

func isDeepBookVersioned(content json.RawMessage) bool {
	var env deepBookVersionedEnvelope
	if err := json.Unmarshal(content, &env); err != nil {
		return false
	}
	return env.Fields.Inner != nil && env.Fields.BaseVault == nil
}

// unwrapDeepBookVersioned follows content.fields.inner.fields.id.id to
// the intermediate Versioned object's ID, fetches its PoolInner dynamic
// field (key {type:"u64", value:"1"}), and returns fields.value — the
// actual PoolInner moveObject — as the new content for parsing.
func (p *Poller) unwrapDeepBookVersioned(ctx context.Context, content json.RawMessage) (json.RawMessage, error) {
	var outer struct {
		Fields struct {
			Inner struct {
				Fields struct {
					ID struct {
						ID string `json:"id"`
					} `json:"id"`
				} `json:"fields"`
			} `json:"inner"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(content, &outer); err != nil {
		return nil, err
	}
	innerID := outer.Fields.Inner.Fields.ID.ID

	dynField, err := p.client.GetDynamicFieldObject(ctx, innerID, "u64", "1")
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Fields struct {
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(dynField, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Fields.Value, nil
}

// extractThirdTypeParam pulls Turbos' fee-tier phantom type out of an
// on-chain type string shaped like
// "0x91bfbc...::pool::Pool<CoinA, CoinB, 0x91bfbc...::fee3000bps::FEE3000BPS>",
// splitting on ", " (works for non-nested generics; Turbos' fee types
// never nest further). Returns "" if the type string doesn't have a
// third parameter.
func extractThirdTypeParam(typeStr string) string {
	open := strings.Index(typeStr, "<")
	end := strings.LastIndex(typeStr, ">")
	if open < 0 || end < 0 || end <= open {
		return ""
	}
	parts := strings.Split(typeStr[open+1:end], ", ")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
