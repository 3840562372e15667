// Package crypto provides the hashing and signature primitives used by the
// DOG driver and the local ledger.
package crypto

import (
	sha256 "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"

	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Hash computes a BLAKE3-256 hash of the input data. It identifies local
// records (bundles, store keys) and never appears in a puzzle commitment.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// Sha256 hashes the concatenation of parts with SHA-256. Tree hashes, coin
// ids and announcement ids all use this function.
func Sha256(parts ...[]byte) types.Hash {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashConcat hashes the concatenation of two hashes with BLAKE3.
func HashConcat(a, b types.Hash) types.Hash {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return Hash(buf[:])
}
