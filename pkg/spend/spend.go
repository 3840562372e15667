// Package spend assembles coin spends into bundles.
package spend

import (
	"errors"
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Spend errors.
var (
	ErrDuplicateSpend  = errors.New("coin already spent in this context")
	ErrModHashMismatch = errors.New("mod does not hash to its declared hash")
	ErrDecodeBundle    = errors.New("decode bundle")
)

// Spend pairs a puzzle with the solution that satisfies it.
type Spend struct {
	Puzzle   *clvm.Node
	Solution *clvm.Node
}

// New creates a spend. A nil solution is treated as nil.
func New(puzzle, solution *clvm.Node) Spend {
	if solution == nil {
		solution = clvm.Nil
	}
	return Spend{Puzzle: puzzle, Solution: solution}
}

// CoinSpend is a coin together with its serialized puzzle reveal and
// solution.
type CoinSpend struct {
	Coin         types.Coin `json:"coin" cramberry:"1"`
	PuzzleReveal []byte     `json:"puzzle_reveal" cramberry:"2"`
	Solution     []byte     `json:"solution" cramberry:"3"`
}

// NewCoinSpend serializes s for coin.
func NewCoinSpend(coin types.Coin, s Spend) CoinSpend {
	return CoinSpend{
		Coin:         coin,
		PuzzleReveal: clvm.Serialize(s.Puzzle),
		Solution:     clvm.Serialize(s.Solution),
	}
}

// Puzzle decodes the puzzle reveal.
func (cs CoinSpend) Puzzle() (*clvm.Node, error) {
	n, err := clvm.Deserialize(cs.PuzzleReveal)
	if err != nil {
		return nil, fmt.Errorf("puzzle reveal for %s: %w", cs.Coin.ID(), err)
	}
	return n, nil
}

// SolutionNode decodes the solution.
func (cs CoinSpend) SolutionNode() (*clvm.Node, error) {
	n, err := clvm.Deserialize(cs.Solution)
	if err != nil {
		return nil, fmt.Errorf("solution for %s: %w", cs.Coin.ID(), err)
	}
	return n, nil
}

// Bundle is an atomic set of coin spends plus the signatures their
// conditions require.
type Bundle struct {
	CoinSpends []CoinSpend `json:"coin_spends" cramberry:"1"`
	Signatures [][]byte    `json:"signatures" cramberry:"2"`
}

// Encode serializes the bundle with cramberry.
func (b *Bundle) Encode() ([]byte, error) {
	data, err := cramberry.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("cramberry marshal: %w", err)
	}
	return data, nil
}

// DecodeBundle parses a bundle produced by Encode.
func DecodeBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := cramberry.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeBundle, err)
	}
	return &b, nil
}

// ID returns the BLAKE3 hash of the coin spends. Signatures are excluded so
// the id is stable while a bundle is being signed.
func (b *Bundle) ID() types.Hash {
	unsigned := Bundle{CoinSpends: b.CoinSpends}
	data, err := unsigned.Encode()
	if err != nil {
		return types.Hash{}
	}
	return crypto.Hash(data)
}

// Removals returns the ids of the coins spent by the bundle.
func (b *Bundle) Removals() []types.Hash {
	ids := make([]types.Hash, len(b.CoinSpends))
	for i, cs := range b.CoinSpends {
		ids[i] = cs.Coin.ID()
	}
	return ids
}
