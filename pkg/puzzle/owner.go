package puzzle

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// OwnerLayer gates a coin on a Schnorr public key. Its solution is a list
// of conditions; the puzzle emits them together with an AGG_SIG_ME over
// their tree hash.
type OwnerLayer struct {
	PublicKey []byte
}

// OwnerSolution is the decoded owner layer solution.
type OwnerSolution struct {
	Conditions *clvm.Node
}

// NewOwnerLayer creates an owner layer for a compressed public key.
func NewOwnerLayer(publicKey []byte) OwnerLayer {
	return OwnerLayer{PublicKey: publicKey}
}

// ParseOwnerLayer recognizes a curried owner puzzle.
func ParseOwnerLayer(prog *clvm.Node) (OwnerLayer, bool, error) {
	mod, args, ok := clvm.Uncurry(prog)
	if !ok || clvm.TreeHash(mod) != OwnerPuzzleHash {
		return OwnerLayer{}, false, nil
	}
	if len(args) != 1 || args[0].IsPair() {
		return OwnerLayer{}, false, fmt.Errorf("%w: owner layer expects one public key", ErrInvalidArgs)
	}
	pk := args[0].Atom()
	if err := crypto.ValidatePublicKey(pk); err != nil {
		return OwnerLayer{}, false, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return OwnerLayer{PublicKey: pk}, true, nil
}

// ParseOwnerSolution decodes (conditions).
func ParseOwnerSolution(sol *clvm.Node) (OwnerSolution, error) {
	if sol.IsAtom() {
		return OwnerSolution{}, fmt.Errorf("%w: owner solution must be a list", ErrInvalidSolution)
	}
	return OwnerSolution{Conditions: sol.First()}, nil
}

func (l OwnerLayer) ConstructPuzzle(ctx *spend.Context) (*clvm.Node, error) {
	mod, err := ctx.Mod(OwnerPuzzleHash, OwnerPuzzle)
	if err != nil {
		return nil, err
	}
	return clvm.Curry(mod, clvm.Atom(l.PublicKey)), nil
}

func (l OwnerLayer) ConstructSolution(_ *spend.Context, sol OwnerSolution) (*clvm.Node, error) {
	conds := sol.Conditions
	if conds == nil {
		conds = clvm.Nil
	}
	return clvm.List(conds), nil
}

func (l OwnerLayer) TreeHash() types.Hash {
	return clvm.CurryTreeHash(OwnerPuzzleHash, clvm.HashAtom(l.PublicKey))
}

// SpendWithConditions builds the inner spend that emits conds.
func (l OwnerLayer) SpendWithConditions(ctx *spend.Context, conds *condition.List) (spend.Spend, error) {
	puzzle, err := l.ConstructPuzzle(ctx)
	if err != nil {
		return spend.Spend{}, err
	}
	solution, err := l.ConstructSolution(ctx, OwnerSolution{Conditions: conds.Node()})
	if err != nil {
		return spend.Spend{}, err
	}
	return spend.New(puzzle, solution), nil
}

// Spend registers a plain spend of an owner-locked coin.
func (l OwnerLayer) Spend(ctx *spend.Context, coin types.Coin, conds *condition.List) error {
	s, err := l.SpendWithConditions(ctx, conds)
	if err != nil {
		return err
	}
	return ctx.Spend(coin, s)
}
