package parsers

import (
	"encoding/json"
	"strconv"

	"github.com/rvasquez-dev/suiarb/types"
)

// aftermathVirtualDepth is the synthetic base reserve used to preserve
// price ratio when deriving virtual reserves (see ParseAftermath).
const aftermathVirtualDepth uint64 = 1_000_000_000

// ParseAftermath extracts an Aftermath weighted Pool<LP> object,
// grounded on
// original_source/bot-rs/crates/collector/src/parsers/aftermath.rs.
// Aftermath's normalized_balances are 18-decimal fixed-point strings
// that overflow u64, so this derives synthetic "virtual reserves" of
// fixed depth that preserve only the A/B price ratio — never treat
// ReserveA/ReserveB from this parser as real token amounts. fee_rate_bps
// is derived from fees_swap_in, itself 18-decimal fixed-point.
func ParseAftermath(coinTypeA, coinTypeB string, raw json.RawMessage, nowMs uint64) (*types.PoolSnapshot, bool) {
	fields, ok := Fields(raw)
	if !ok {
		return nil, false
	}

	normA, okA := extractNormalizedBalance(fields, 0)
	normB, okB := extractNormalizedBalance(fields, 1)
	objectID, _ := FieldString(fields, "id")

	snapshot := &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           types.Aftermath,
		CoinTypeA:     coinTypeA,
		CoinTypeB:     coinTypeB,
		LastUpdatedMs: nowMs,
	}

	if okA && okB && normA > 0 {
		price := normB / normA
		depth := aftermathVirtualDepth
		rb := uint64(float64(depth) * price)
		if rb < 1 {
			rb = 1
		}
		snapshot.ReserveA = &depth
		snapshot.ReserveB = &rb
	}

	if feeBps, ok := extractAftermathFeeBps(fields); ok {
		snapshot.FeeRateBps = &feeBps
	}

	return snapshot, true
}

func extractNormalizedBalance(fields map[string]json.RawMessage, index int) (float64, bool) {
	raw, ok := fields["normalized_balances"]
	if !ok {
		return 0, false
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil || index >= len(arr) {
		return 0, false
	}
	v, err := strconv.ParseFloat(arr[index], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func extractAftermathFeeBps(fields map[string]json.RawMessage) (uint64, bool) {
	raw, ok := fields["fees_swap_in"]
	if !ok {
		return 0, false
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
		return 0, false
	}
	fee18d, err := strconv.ParseFloat(arr[0], 64)
	if err != nil {
		return 0, false
	}
	return uint64(fee18d / 1e18 * 10_000.0), true
}
