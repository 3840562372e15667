package types

import (
	"encoding/binary"
	"fmt"

	sha256 "github.com/minio/sha256-simd"
)

// Coin is an unspent value record. Its identity is the hash of its three
// fields; two coins with identical fields collide.
type Coin struct {
	ParentID   Hash   `json:"parent_coin_info" cramberry:"1"`
	PuzzleHash Hash   `json:"puzzle_hash" cramberry:"2"`
	Amount     uint64 `json:"amount" cramberry:"3"`
}

// NewCoin creates a coin from its parent id, puzzle hash and amount.
func NewCoin(parentID, puzzleHash Hash, amount uint64) Coin {
	return Coin{ParentID: parentID, PuzzleHash: puzzleHash, Amount: amount}
}

// ID computes the coin id: sha256(parent_id || puzzle_hash || amount), where
// amount is encoded as a minimal big-endian signed integer atom.
func (c Coin) ID() Hash {
	var buf [HashSize*2 + 9]byte
	copy(buf[:HashSize], c.ParentID[:])
	copy(buf[HashSize:], c.PuzzleHash[:])
	n := copy(buf[HashSize*2:], encodeAmount(c.Amount))
	return sha256.Sum256(buf[:HashSize*2+n])
}

// String returns "coin_id (amount)".
func (c Coin) String() string {
	return fmt.Sprintf("%s (%d)", c.ID(), c.Amount)
}

// encodeAmount returns the minimal two's complement encoding of an unsigned
// amount. Zero encodes as the empty atom.
func encodeAmount(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var b [9]byte
	binary.BigEndian.PutUint64(b[1:], v)
	i := 1
	for i < 8 && b[i] == 0 {
		i++
	}
	// Keep a zero pad byte when the top bit would read as a sign.
	if b[i]&0x80 != 0 {
		i--
	}
	return b[i:]
}

// CoinProof identifies a coin by its parent, inner puzzle hash and amount.
// The outer puzzle hash is recomputed from the inner hash by the verifier.
type CoinProof struct {
	ParentCoinInfo  Hash   `json:"parent_coin_info"`
	InnerPuzzleHash Hash   `json:"inner_puzzle_hash"`
	Amount          uint64 `json:"amount"`
}

// LineageProof proves that a coin's parent was a DOG coin of the same asset.
type LineageProof struct {
	ParentParentCoinInfo  Hash   `json:"parent_parent_coin_info"`
	ParentInnerPuzzleHash Hash   `json:"parent_inner_puzzle_hash"`
	ParentAmount          uint64 `json:"parent_amount"`
}
