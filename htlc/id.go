package htlc

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// swapIDBytes is the number of keccak output bytes kept for a swap id.
// 16 bytes keeps ids short while staying collision-safe with the nonce mixed
// in.
const swapIDBytes = 16

// DeriveSwapID derives an opaque swap id from the immutable creation inputs
// and a store-allocated nonce. The nonce guarantees uniqueness even when the
// same parties reuse identical parameters.
func DeriveSwapID(sender, receiver, commitment string, nonce uint64) string {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	h := crypto.Keccak256(
		[]byte(sender), []byte("|"),
		[]byte(receiver), []byte("|"),
		[]byte(commitment), []byte("|"),
		n[:],
	)
	return hex.EncodeToString(h[:swapIDBytes])
}
