// Package htlc holds the pure, stateless pieces of the swap protocol: the
// hash-commitment validator, the timeout evaluator, and swap id derivation.
// Nothing in this package touches storage.
package htlc

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// CommitmentHexLen is the length of a canonical hash commitment:
	// hex-encoded keccak256 output. Keccak256 matches the Ethereum hub side
	// of the swap, so a single secret opens both legs.
	CommitmentHexLen = 64

	// MaxSecretLen bounds the secret size accepted before hashing.
	MaxSecretLen = 64
)

// NormalizeCommitment canonicalizes a hash commitment: strips an optional 0x
// prefix, lowercases, and checks it is exactly 64 hex characters. Returns
// false when the commitment is malformed.
func NormalizeCommitment(commitment string) (string, bool) {
	c := strings.ToLower(strings.TrimPrefix(commitment, "0x"))
	if len(c) != CommitmentHexLen {
		return "", false
	}
	if _, err := hex.DecodeString(c); err != nil {
		return "", false
	}
	return c, true
}

// Commit returns the canonical commitment for a secret.
func Commit(secret []byte) string {
	return hex.EncodeToString(crypto.Keccak256(secret))
}

// ValidSecret reports whether a secret is acceptable to hash at all.
// Empty and oversized secrets are rejected before any hashing happens.
func ValidSecret(secret []byte) bool {
	return len(secret) > 0 && len(secret) <= MaxSecretLen
}

// VerifySecret reports whether keccak256(secret) equals the commitment.
// The comparison is constant-time over the hash output so a mismatch does
// not leak which byte differs. Malformed inputs fail fast without hashing.
func VerifySecret(secret []byte, commitment string) bool {
	if !ValidSecret(secret) {
		return false
	}
	canonical, ok := NormalizeCommitment(commitment)
	if !ok {
		return false
	}
	want, err := hex.DecodeString(canonical)
	if err != nil {
		return false
	}
	got := crypto.Keccak256(secret)
	return subtle.ConstantTimeCompare(got, want) == 1
}
