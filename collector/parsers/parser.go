// Package parsers extracts normalized PoolSnapshot fields from the raw
// JSON a Sui full node returns for a Move object's "content" field. Each
// venue's Move struct layout differs; the parser contract (spec.md
// §4.4) requires every parser to tolerate missing, null, and
// out-of-range fields and return ok=false rather than panicking or
// erroring the whole collector tick.
package parsers

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// moveObject is the envelope of a Sui moveObject content blob, whose
// "fields" object holds the struct's fields:
// {"dataType":"moveObject","type":"...","fields":{...}}.
type moveObject struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields"`
}

// Fields decodes the outer moveObject envelope and returns just the
// fields map, tolerating any shape mismatch.
func Fields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var obj moveObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj.Fields, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// FieldU64 tolerantly extracts a u64 field. Sui's JSON-RPC renders u64
// as a decimal string to avoid float precision loss; this also accepts
// a bare JSON number for defensiveness against non-conforming nodes.
// Grounded on original_source/bot-rs/crates/collector/src/parsers/mod.rs's
// field_u64.
func FieldU64(fields map[string]json.RawMessage, name string) (uint64, bool) {
	raw, ok := fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	return 0, false
}

// FieldU128 is FieldU64's counterpart for u128-valued fields (sqrt_price,
// liquidity), represented as *big.Int since Go has no native 128-bit
// integer.
func FieldU128(fields map[string]json.RawMessage, name string) (*big.Int, bool) {
	raw, ok := fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, false
		}
		return v, true
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err == nil {
		return new(big.Int).SetUint64(n), true
	}
	return nil, false
}

// FieldI32Bits extracts a signed tick index. Cetus/Turbos/FlowX represent
// negative ticks with a {bits: u32} struct using two's-complement
// encoding rather than a bare signed JSON number.
func FieldI32Bits(fields map[string]json.RawMessage, name string) (int32, bool) {
	raw, ok := fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var wrapper struct {
		Fields struct {
			Bits json.RawMessage `json:"bits"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return 0, false
	}
	bits, ok := FieldU64(map[string]json.RawMessage{"bits": wrapper.Fields.Bits}, "bits")
	if !ok {
		return 0, false
	}
	return int32(uint32(bits)), true
}

// FieldString tolerantly extracts a string field.
func FieldString(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
