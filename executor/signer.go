// Package executor assembles, signs, dry-runs, and submits Sui
// transaction blocks for a resolved arbitrage opportunity.
//
// Signer is grounded on
// original_source/bot-rs/crates/executor/src/signer.rs: Sui addresses
// and transaction signatures both derive from blake2b-256, not the
// sha256/keccak256 a reader coming from other chains might expect.
package executor

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// intentPrefix is the 3-byte BCS Intent (scope=TransactionData, version=0,
// app_id=0) Sui prepends before hashing a transaction for signing.
var intentPrefix = [3]byte{0, 0, 0}

// signatureFlagEd25519 tags a serialized signature as ed25519, per Sui's
// SignatureScheme flag byte.
const signatureFlagEd25519 = 0x00

// Signer holds an ed25519 keypair used to derive a Sui address and sign
// transaction blocks.
type Signer struct {
	priv ed25519.PrivateKey
	pub  [32]byte
}

// NewSignerFromHex builds a Signer from a 32-byte hex-encoded ed25519
// seed, with or without a "0x" prefix.
func NewSignerFromHex(hexKey string) (*Signer, error) {
	trimmed := strings.TrimPrefix(hexKey, "0x")
	seed, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode private key hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	s := &Signer{priv: priv}
	copy(s.pub[:], pub)
	return s, nil
}

// Address derives the Sui address for this signer's public key:
// blake2b_256(flag || pubkey), hex-encoded with a "0x" prefix.
func (s *Signer) Address() string {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("blake2b.New256: %v", err))
	}
	h.Write([]byte{signatureFlagEd25519})
	h.Write(s.pub[:])
	digest := h.Sum(nil)
	return "0x" + hex.EncodeToString(digest)
}

// PublicKeyBytes returns the raw 32-byte ed25519 public key.
func (s *Signer) PublicKeyBytes() [32]byte {
	return s.pub
}

// SignTransaction signs a base64-encoded BCS transaction data blob and
// returns the serialized Sui signature (flag || signature || pubkey),
// base64-encoded, ready to submit alongside the transaction bytes.
func (s *Signer) SignTransaction(txBytesB64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txBytesB64)
	if err != nil {
		return "", fmt.Errorf("decode transaction bytes: %w", err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("blake2b.New256: %w", err)
	}
	h.Write(intentPrefix[:])
	h.Write(txBytes)
	digest := h.Sum(nil)

	sig := ed25519.Sign(s.priv, digest)

	serialized := make([]byte, 0, 1+len(sig)+len(s.pub))
	serialized = append(serialized, signatureFlagEd25519)
	serialized = append(serialized, sig...)
	serialized = append(serialized, s.pub[:]...)

	return base64.StdEncoding.EncodeToString(serialized), nil
}
