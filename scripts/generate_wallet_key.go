// Command generate_wallet_key prints a fresh Sui wallet keypair: a
// 32-byte Ed25519 seed (to put in SUI_PRIVATE_KEY) and its derived
// address. Adapted from the teacher's Flashbots ECDSA key generator —
// same purpose (mint an operator's signing key before first run), Sui's
// Ed25519/blake2b address scheme in place of secp256k1.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/rvasquez-dev/suiarb/executor"
)

func main() {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}
	seedHex := hex.EncodeToString(seed)

	signer, err := executor.NewSignerFromHex(seedHex)
	if err != nil {
		log.Fatalf("failed to derive signer: %v", err)
	}

	fmt.Printf("SUI_PRIVATE_KEY: 0x%s\n", seedHex)
	fmt.Printf("Wallet address:  %s\n", signer.Address())
}
