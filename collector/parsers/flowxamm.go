package parsers

import (
	"encoding/json"

	"github.com/rvasquez-dev/suiarb/types"
)

// dynamicFieldWrapper matches Sui's dynamic_field::Field<Name, Value>
// envelope, which FlowX AMM pools are returned wrapped in when fetched
// through sui_getObject as entries of the shared Container object.
type dynamicFieldWrapper struct {
	Value json.RawMessage `json:"value"`
}

// ParseFlowxAmm extracts a FlowX AMM v2 PairMetadata<X, Y> object,
// grounded on
// original_source/bot-rs/crates/collector/src/parsers/flowx_amm.rs.
// Unlike every other parser here, FlowX AMM pools may arrive wrapped in
// a dynamic_field::Field envelope ({"fields":{"value":{"fields":{...}}}})
// rather than as a bare Move object; this unwraps one layer before
// falling back to treating raw as an unwrapped object. Its fee_rate is
// already basis points, unlike every CLMM venue's hundredths-of-a-bip.
func ParseFlowxAmm(coinTypeA, coinTypeB string, raw json.RawMessage, nowMs uint64) (*types.PoolSnapshot, bool) {
	inner := raw
	var wrapper moveObject
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Fields) > 0 {
		var dyn dynamicFieldWrapper
		if err := json.Unmarshal(wrapper.Fields, &dyn); err == nil && len(dyn.Value) > 0 {
			inner = dyn.Value
		}
	}

	fields, ok := Fields(inner)
	if !ok {
		return nil, false
	}

	reserveA, hasA := FieldU64(fields, "reserve_x")
	reserveB, hasB := FieldU64(fields, "reserve_y")
	feeBps, hasFee := FieldU64(fields, "fee_rate")
	objectID, _ := FieldString(fields, "id")

	snapshot := &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           types.FlowxAmm,
		CoinTypeA:     coinTypeA,
		CoinTypeB:     coinTypeB,
		LastUpdatedMs: nowMs,
	}
	if hasA {
		snapshot.ReserveA = &reserveA
	}
	if hasB {
		snapshot.ReserveB = &reserveB
	}
	if hasFee {
		snapshot.FeeRateBps = &feeBps
	}
	return snapshot, true
}
