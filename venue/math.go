package venue

import "math/bits"

// bitsMul64 widens a 64x64 multiplication into its 128-bit result via
// the standard library's bits.Mul64, matching the u128 intermediate
// arithmetic original_source performs in Rust for reserve*amount
// products that can exceed 64 bits.
func bitsMul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}
