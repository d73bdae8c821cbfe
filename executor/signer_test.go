package executor

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestNewSignerFromHexAcceptsWithAndWithoutPrefix(t *testing.T) {
	seed := strings.Repeat("ab", 32)

	withPrefix, err := NewSignerFromHex("0x" + seed)
	require.NoError(t, err)
	withoutPrefix, err := NewSignerFromHex(seed)
	require.NoError(t, err)

	assert.Equal(t, withPrefix.Address(), withoutPrefix.Address())
}

func TestNewSignerFromHexRejectsWrongLength(t *testing.T) {
	_, err := NewSignerFromHex("0xabcd")
	assert.Error(t, err)
}

func TestNewSignerFromHexRejectsInvalidHex(t *testing.T) {
	_, err := NewSignerFromHex("0xzz")
	assert.Error(t, err)
}

func TestAddressIsDeterministicForSameSeed(t *testing.T) {
	seed := strings.Repeat("cd", 32)

	s1, err := NewSignerFromHex(seed)
	require.NoError(t, err)
	s2, err := NewSignerFromHex(seed)
	require.NoError(t, err)

	assert.Equal(t, s1.Address(), s2.Address())
	assert.True(t, strings.HasPrefix(s1.Address(), "0x"))
	assert.Len(t, s1.Address(), 66) // "0x" + 64 hex chars = 32 bytes
}

func TestAddressMatchesBlake2bOfFlagAndPubkey(t *testing.T) {
	seed := strings.Repeat("ef", 32)
	signer, err := NewSignerFromHex(seed)
	require.NoError(t, err)

	pub := signer.PublicKeyBytes()
	h, err := blake2b.New256(nil)
	require.NoError(t, err)
	h.Write([]byte{0x00})
	h.Write(pub[:])
	want := "0x" + hex.EncodeToString(h.Sum(nil))

	assert.Equal(t, want, signer.Address())
}

func TestSignTransactionProducesVerifiableSignature(t *testing.T) {
	seed := strings.Repeat("12", 32)
	signer, err := NewSignerFromHex(seed)
	require.NoError(t, err)

	txBytes := []byte("fake transaction bytes")
	txB64 := base64.StdEncoding.EncodeToString(txBytes)

	sigB64, err := signer.SignTransaction(txB64)
	require.NoError(t, err)

	serialized, err := base64.StdEncoding.DecodeString(sigB64)
	require.NoError(t, err)
	require.Len(t, serialized, 1+ed25519.SignatureSize+32)
	assert.Equal(t, byte(0x00), serialized[0])

	sig := serialized[1 : 1+ed25519.SignatureSize]
	pub := serialized[1+ed25519.SignatureSize:]
	pubKey := signer.PublicKeyBytes()
	assert.Equal(t, pubKey[:], pub)

	h, err := blake2b.New256(nil)
	require.NoError(t, err)
	h.Write([]byte{0, 0, 0})
	h.Write(txBytes)
	digest := h.Sum(nil)

	assert.True(t, ed25519.Verify(pubKey[:], digest, sig))
}

func TestSignTransactionRejectsInvalidBase64(t *testing.T) {
	seed := strings.Repeat("34", 32)
	signer, err := NewSignerFromHex(seed)
	require.NoError(t, err)

	_, err = signer.SignTransaction("not-valid-base64!!!")
	assert.Error(t, err)
}
