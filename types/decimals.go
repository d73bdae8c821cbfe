package types

// DecimalsMap maps a fully-qualified Sui coin type to its integer decimal
// count, used to normalize raw pool prices into a common unit before
// cross-venue comparison (spec.md §3).
type DecimalsMap map[string]uint8

// KnownDecimals seeds the map with the coin types the monitored-pool
// configuration is expected to reference; unlisted types fall back to
// DefaultDecimals (grounded on original_source/crates/types/src/decimals.rs).
var KnownDecimals = DecimalsMap{
	"0x2::sui::SUI": 9,
	"0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN": 6, // USDC (wormhole)
	"0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e::usdc::USDC":  6,
	"0x549e8b69270defbfafd4f94e17ec44cdbdd99820b33bda2278dea3b9a1153b6b::usdt::USDT": 6,
}

// DefaultDecimals is used for any coin type absent from KnownDecimals.
const DefaultDecimals uint8 = 9

// DecimalsOf returns the decimal count for coinType, defaulting to
// DefaultDecimals when unknown rather than failing the caller — an
// unrecognized decimal count degrades price accuracy but must not halt
// scanning.
func (m DecimalsMap) DecimalsOf(coinType string) uint8 {
	if d, ok := m[coinType]; ok {
		return d
	}
	return DefaultDecimals
}

// NormalizeFactor returns the multiplicative adjustment applied to a raw
// price of `from` denominated `to` so that both sides are expressed in
// the same fractional-unit scale.
func (m DecimalsMap) NormalizeFactor(coinTypeA, coinTypeB string) float64 {
	decA := m.DecimalsOf(coinTypeA)
	decB := m.DecimalsOf(coinTypeB)
	if decA == decB {
		return 1.0
	}
	diff := int(decA) - int(decB)
	factor := 1.0
	for i := 0; i < diff; i++ {
		factor *= 10
	}
	for i := 0; i > diff; i-- {
		factor /= 10
	}
	return factor
}
