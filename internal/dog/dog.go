// Package dog drives DOG tokens: issuance, child derivation, ring spends
// and reconstruction of token state from revealed spends.
package dog

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Driver errors.
var (
	// ErrArithmeticOverflow is returned when a ring subtotal does not fit
	// the signed 64-bit wire field, or an amount does not fit a coin.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrEmptyRing is returned by SpendAll for an empty request.
	ErrEmptyRing = errors.New("empty ring")
)

// Dog is a spendable DOG coin. LineageProof is nil only for an eve coin.
// Amount is the amount curried into the coin's puzzle, which equals the
// coin amount for every coin but the eve, whose declared amount is the
// issuance.
type Dog struct {
	Coin         types.Coin
	LineageProof *types.LineageProof
	Amount       uint256.Int
	AssetID      types.AssetID
	P2PuzzleHash types.Hash
}

// New creates a Dog.
func New(coin types.Coin, lineage *types.LineageProof, amount *uint256.Int, assetID types.AssetID, p2PuzzleHash types.Hash) Dog {
	return Dog{
		Coin:         coin,
		LineageProof: lineage,
		Amount:       *amount,
		AssetID:      assetID,
		P2PuzzleHash: p2PuzzleHash,
	}
}

// IsEve reports whether d is a genesis coin.
func (d Dog) IsEve() bool {
	return d.LineageProof == nil
}

// ChildLineageProof returns the lineage proof every child of d carries. It
// fails when d's declared amount does not fit the proof's amount field.
func (d Dog) ChildLineageProof() (types.LineageProof, error) {
	return lineageOf(d.Coin.ParentID, d.P2PuzzleHash, &d.Amount)
}

func lineageOf(parentParentID, parentInnerPuzzleHash types.Hash, declared *uint256.Int) (types.LineageProof, error) {
	if !declared.IsUint64() {
		return types.LineageProof{}, fmt.Errorf("%w: parent amount %s", ErrArithmeticOverflow, declared.ToBig())
	}
	return types.LineageProof{
		ParentParentCoinInfo:  parentParentID,
		ParentInnerPuzzleHash: parentInnerPuzzleHash,
		ParentAmount:          declared.Uint64(),
	}, nil
}

// WrappedChild returns the DOG coin created when d's inner puzzle creates a
// coin of amount locked by p2PuzzleHash. Nothing is executed: the child's
// puzzle hash follows from the curry hash rule.
func (d Dog) WrappedChild(p2PuzzleHash types.Hash, amount uint64) (Dog, error) {
	lp, err := d.ChildLineageProof()
	if err != nil {
		return Dog{}, err
	}
	declared := uint256.NewInt(amount)
	return Dog{
		Coin:         types.NewCoin(d.Coin.ID(), puzzle.DogTreeHash(declared, d.AssetID, p2PuzzleHash), amount),
		LineageProof: &lp,
		Amount:       *declared,
		AssetID:      d.AssetID,
		P2PuzzleHash: p2PuzzleHash,
	}, nil
}

// Layer returns the DOG layer over inner with d's declared amount and asset.
func (d Dog) Layer(inner puzzle.RawLayer) puzzle.RawDogLayer {
	return puzzle.RawDogLayer{Amount: d.Amount, AssetID: d.AssetID, Inner: inner}
}
