package parsers

import (
	"encoding/json"

	"github.com/rvasquez-dev/suiarb/types"
)

// ParseFlowxClmm extracts a FlowX CLMM v3 Pool<A, B> object, grounded on
// original_source/bot-rs/crates/collector/src/parsers/flowx.rs. Same
// struct shape as Cetus except the fee field is named "swap_fee_rate"
// rather than "fee_rate"; both use the same hundredths-of-a-bip scale
// and are divided by 100 here.
func ParseFlowxClmm(coinTypeA, coinTypeB string, raw json.RawMessage, nowMs uint64) (*types.PoolSnapshot, bool) {
	fields, ok := Fields(raw)
	if !ok {
		return nil, false
	}

	sqrtPrice, _ := FieldU128(fields, "sqrt_price")
	liquidity, _ := FieldU128(fields, "liquidity")
	tick, hasTick := FieldI32Bits(fields, "tick_index")

	var feeBps *uint64
	if fee, ok := FieldU64(fields, "swap_fee_rate"); ok {
		v := fee / 100
		feeBps = &v
	}
	objectID, _ := FieldString(fields, "id")

	snapshot := &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           types.FlowxClmm,
		CoinTypeA:     coinTypeA,
		CoinTypeB:     coinTypeB,
		SqrtPrice:     sqrtPrice,
		Liquidity:     liquidity,
		FeeRateBps:    feeBps,
		LastUpdatedMs: nowMs,
	}
	if hasTick {
		snapshot.TickIndex = &tick
	}
	return snapshot, true
}
