package parsers

import (
	"encoding/json"

	"github.com/rvasquez-dev/suiarb/types"
)

// ParseTurbos extracts a Turbos Pool<A, B, Fee> object, grounded on
// original_source/bot-rs/crates/collector/src/parsers/turbos.rs. Turbos
// names its fee field "fee" (not "fee_rate"), in 1e6 units; dividing by
// 100 normalizes it to basis points like every other venue. feeType is
// the Fee phantom type extracted from the object's on-chain type string
// by the poller, passed through so callers can set
// PoolSnapshot.FeeType.
func ParseTurbos(coinTypeA, coinTypeB, feeType string, raw json.RawMessage, nowMs uint64) (*types.PoolSnapshot, bool) {
	fields, ok := Fields(raw)
	if !ok {
		return nil, false
	}

	sqrtPrice, _ := FieldU128(fields, "sqrt_price")
	liquidity, _ := FieldU128(fields, "liquidity")
	tick, _ := FieldI32Bits(fields, "tick_current_index")

	var feeBps *uint64
	if fee, ok := FieldU64(fields, "fee"); ok {
		v := fee / 100
		feeBps = &v
	}
	objectID, _ := FieldString(fields, "id")

	return &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           types.Turbos,
		CoinTypeA:     coinTypeA,
		CoinTypeB:     coinTypeB,
		SqrtPrice:     sqrtPrice,
		Liquidity:     liquidity,
		TickIndex:     &tick,
		FeeRateBps:    feeBps,
		FeeType:       feeType,
		LastUpdatedMs: nowMs,
	}, true
}
