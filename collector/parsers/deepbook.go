package parsers

import (
	"encoding/json"

	"github.com/rvasquez-dev/suiarb/types"
)

// ParseDeepBook extracts a DeepBook Pool<Base, Quote> object, grounded on
// original_source/bot-rs/crates/collector/src/parsers/deepbook.rs. It
// reads the base/quote vault balances into ReserveA/ReserveB as a rough
// liquidity-depth proxy only — DeepBook is an order book, not an AMM, so
// vault balances are the sum of all resting orders and carry no price
// information. BestBid/BestAsk are intentionally left nil: this parser
// has no top-of-book data source, and PoolSnapshot.PriceAInB
// deliberately refuses to fall back to vault reserves for DeepBook
// (types/pool.go), matching the original's scanner tests
// (test_scan_sorted_by_profit's comment: "DeepBook no longer falls back
// to vault reserves for price"). A DeepBook snapshot from this parser
// alone therefore never yields a priced opportunity; no top-of-book RPC
// source is wired in this package.
func ParseDeepBook(coinTypeA, coinTypeB string, raw json.RawMessage, nowMs uint64) (*types.PoolSnapshot, bool) {
	fields, ok := Fields(raw)
	if !ok {
		return nil, false
	}

	baseVault, _ := FieldU64(fields, "base_balance")
	quoteVault, _ := FieldU64(fields, "quote_balance")
	objectID, _ := FieldString(fields, "id")

	var reserveA, reserveB *uint64
	if baseVault > 0 {
		reserveA = &baseVault
	}
	if quoteVault > 0 {
		reserveB = &quoteVault
	}

	return &types.PoolSnapshot{
		ObjectID:      objectID,
		Dex:           types.DeepBook,
		CoinTypeA:     coinTypeA,
		CoinTypeB:     coinTypeB,
		ReserveA:      reserveA,
		ReserveB:      reserveB,
		LastUpdatedMs: nowMs,
	}, true
}
