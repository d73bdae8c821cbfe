package parsers

import (
	"encoding/json"

	"github.com/rvasquez-dev/suiarb/types"
)

// ParseCetus extracts sqrt_price/liquidity/fee_rate from a Cetus CLMM
// pool object, grounded on
// original_source/bot-rs/crates/collector/src/parsers/cetus.rs. Cetus
// expresses fee_rate in hundredths-of-a-bip (1_000_000 = 100%), divided
// by 100 here to normalize to the basis-points convention every other
// adapter uses.
func ParseCetus(coinTypeA, coinTypeB string, raw json.RawMessage, nowMs uint64) (*types.PoolSnapshot, bool) {
	fields, ok := Fields(raw)
	if !ok {
		return nil, false
	}

	sqrtPrice, ok := FieldU128(fields, "current_sqrt_price")
	if !ok {
		return nil, false
	}
	liquidity, _ := FieldU128(fields, "liquidity")
	tick, _ := FieldI32Bits(fields, "current_tick_index")
	feeRateRaw, ok := FieldU64(fields, "fee_rate")
	var feeBps *uint64
	if ok {
		v := feeRateRaw / 100
		feeBps = &v
	}
	objectID, _ := FieldString(fields, "id")

	return &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           types.Cetus,
		CoinTypeA:     coinTypeA,
		CoinTypeB:     coinTypeB,
		SqrtPrice:     sqrtPrice,
		Liquidity:     liquidity,
		TickIndex:     &tick,
		FeeRateBps:    feeBps,
		LastUpdatedMs: nowMs,
	}, true
}
