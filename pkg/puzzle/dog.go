package puzzle

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// DogLayer is the supply-restriction layer. It curries, in order, its own
// mod hash, the declared amount, the asset id and the inner puzzle. Unless
// the asset's TAIL runs, a ring of DOG coins cannot change total supply.
type DogLayer[I Layer[S], S any] struct {
	Amount  uint256.Int
	AssetID types.AssetID
	Inner   I
}

// RawDogLayer is a DOG layer over an opaque inner program.
type RawDogLayer = DogLayer[RawLayer, *clvm.Node]

// DogSolution is the DOG layer's solution: the inner solution plus the
// ring linkage fields.
type DogSolution[S any] struct {
	InnerSolution S
	LineageProof  *types.LineageProof
	PrevCoinID    types.Hash
	ThisCoinInfo  types.Coin
	NextCoinProof types.CoinProof
	PrevSubtotal  int64
	ExtraDelta    int64
}

// DogTreeHash returns the outer puzzle hash of a DOG coin from the hash of
// its inner puzzle, without building the puzzle.
func DogTreeHash(amount *uint256.Int, assetID types.AssetID, innerPuzzleHash types.Hash) types.Hash {
	return clvm.CurryTreeHash(DogPuzzleHash,
		clvm.HashAtom(DogPuzzleHash[:]),
		clvm.TreeHash(clvm.Uint256(amount)),
		clvm.HashAtom(assetID[:]),
		innerPuzzleHash,
	)
}

// ParseDogLayer recognizes a curried DOG puzzle and parses its inner puzzle
// with parseInner. ok is false when either layer is not recognized.
func ParseDogLayer[I Layer[S], S any](prog *clvm.Node, parseInner PuzzleParser[I]) (DogLayer[I, S], bool, error) {
	var zero DogLayer[I, S]
	mod, args, ok := clvm.Uncurry(prog)
	if !ok || clvm.TreeHash(mod) != DogPuzzleHash {
		return zero, false, nil
	}
	if len(args) != 4 {
		return zero, false, fmt.Errorf("%w: dog layer expects 4 arguments, got %d", ErrInvalidArgs, len(args))
	}

	modHash, err := args[0].AsHash()
	if err != nil {
		return zero, false, fmt.Errorf("%w: mod hash: %v", ErrInvalidArgs, err)
	}
	if modHash != DogPuzzleHash {
		return zero, false, fmt.Errorf("%w: curried %s", ErrInvalidModHash, modHash)
	}
	amount, err := args[1].AsUint256()
	if err != nil {
		return zero, false, fmt.Errorf("%w: amount: %v", ErrInvalidArgs, err)
	}
	if err := types.CheckAmount(&amount); err != nil {
		return zero, false, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	assetID, err := args[2].AsHash()
	if err != nil {
		return zero, false, fmt.Errorf("%w: asset id: %v", ErrInvalidArgs, err)
	}

	inner, ok, err := parseInner(args[3])
	if err != nil || !ok {
		return zero, false, err
	}
	return DogLayer[I, S]{Amount: amount, AssetID: types.AssetID(assetID), Inner: inner}, true, nil
}

// ParseRawDogLayer parses a DOG puzzle keeping the inner program opaque.
func ParseRawDogLayer(prog *clvm.Node) (RawDogLayer, bool, error) {
	return ParseDogLayer[RawLayer, *clvm.Node](prog, ParseRawLayer)
}

// ParseDogSolution decodes a DOG solution and its inner solution.
func ParseDogSolution[S any](sol *clvm.Node, parseInner SolutionParser[S]) (DogSolution[S], error) {
	var out DogSolution[S]
	items, err := sol.Items()
	if err != nil || len(items) != 7 {
		return out, fmt.Errorf("%w: dog solution must be a 7 element list", ErrInvalidSolution)
	}

	inner, err := parseInner(items[0])
	if err != nil {
		return out, err
	}
	out.InnerSolution = inner

	if !items[1].IsNil() {
		lp, err := decodeLineageProof(items[1])
		if err != nil {
			return out, err
		}
		out.LineageProof = &lp
	}
	if out.PrevCoinID, err = items[2].AsHash(); err != nil {
		return out, fmt.Errorf("%w: prev coin id: %v", ErrInvalidSolution, err)
	}
	if out.ThisCoinInfo, err = decodeCoin(items[3]); err != nil {
		return out, err
	}
	if out.NextCoinProof, err = decodeCoinProof(items[4]); err != nil {
		return out, err
	}
	if out.PrevSubtotal, err = items[5].AsInt64(); err != nil {
		return out, fmt.Errorf("%w: prev subtotal: %v", ErrInvalidSolution, err)
	}
	if out.ExtraDelta, err = items[6].AsInt64(); err != nil {
		return out, fmt.Errorf("%w: extra delta: %v", ErrInvalidSolution, err)
	}
	return out, nil
}

// ParseRawDogSolution decodes a DOG solution keeping the inner solution
// opaque.
func ParseRawDogSolution(sol *clvm.Node) (DogSolution[*clvm.Node], error) {
	return ParseDogSolution(sol, ParseRawSolution)
}

func (l DogLayer[I, S]) ConstructPuzzle(ctx *spend.Context) (*clvm.Node, error) {
	mod, err := ctx.Mod(DogPuzzleHash, DogPuzzle)
	if err != nil {
		return nil, err
	}
	inner, err := l.Inner.ConstructPuzzle(ctx)
	if err != nil {
		return nil, err
	}
	return clvm.Curry(mod,
		clvm.Bytes32(DogPuzzleHash),
		clvm.Uint256(&l.Amount),
		clvm.Bytes32(types.Hash(l.AssetID)),
		inner,
	), nil
}

func (l DogLayer[I, S]) ConstructSolution(ctx *spend.Context, sol DogSolution[S]) (*clvm.Node, error) {
	inner, err := l.Inner.ConstructSolution(ctx, sol.InnerSolution)
	if err != nil {
		return nil, err
	}
	lineage := clvm.Nil
	if sol.LineageProof != nil {
		lineage = lineageProofNode(*sol.LineageProof)
	}
	return clvm.List(
		inner,
		lineage,
		clvm.Bytes32(sol.PrevCoinID),
		coinNode(sol.ThisCoinInfo),
		coinProofNode(sol.NextCoinProof),
		clvm.Int(sol.PrevSubtotal),
		clvm.Int(sol.ExtraDelta),
	), nil
}

func (l DogLayer[I, S]) TreeHash() types.Hash {
	return DogTreeHash(&l.Amount, l.AssetID, l.Inner.TreeHash())
}

func lineageProofNode(lp types.LineageProof) *clvm.Node {
	return clvm.List(
		clvm.Bytes32(lp.ParentParentCoinInfo),
		clvm.Bytes32(lp.ParentInnerPuzzleHash),
		clvm.Uint64(lp.ParentAmount),
	)
}

func coinNode(c types.Coin) *clvm.Node {
	return clvm.List(clvm.Bytes32(c.ParentID), clvm.Bytes32(c.PuzzleHash), clvm.Uint64(c.Amount))
}

func coinProofNode(p types.CoinProof) *clvm.Node {
	return clvm.List(clvm.Bytes32(p.ParentCoinInfo), clvm.Bytes32(p.InnerPuzzleHash), clvm.Uint64(p.Amount))
}

// decodeTriple reads a (hash hash uint64) list, the shape shared by coins,
// coin proofs and lineage proofs.
func decodeTriple(n *clvm.Node, what string) (types.Hash, types.Hash, uint64, error) {
	items, err := n.Items()
	if err != nil || len(items) != 3 {
		return types.Hash{}, types.Hash{}, 0, fmt.Errorf("%w: %s must be a 3 element list", ErrInvalidSolution, what)
	}
	a, err := items[0].AsHash()
	if err != nil {
		return types.Hash{}, types.Hash{}, 0, fmt.Errorf("%w: %s: %v", ErrInvalidSolution, what, err)
	}
	b, err := items[1].AsHash()
	if err != nil {
		return types.Hash{}, types.Hash{}, 0, fmt.Errorf("%w: %s: %v", ErrInvalidSolution, what, err)
	}
	amount, err := items[2].AsUint64()
	if err != nil {
		return types.Hash{}, types.Hash{}, 0, fmt.Errorf("%w: %s amount: %v", ErrInvalidSolution, what, err)
	}
	return a, b, amount, nil
}

func decodeLineageProof(n *clvm.Node) (types.LineageProof, error) {
	a, b, amount, err := decodeTriple(n, "lineage proof")
	return types.LineageProof{ParentParentCoinInfo: a, ParentInnerPuzzleHash: b, ParentAmount: amount}, err
}

func decodeCoin(n *clvm.Node) (types.Coin, error) {
	a, b, amount, err := decodeTriple(n, "coin")
	return types.Coin{ParentID: a, PuzzleHash: b, Amount: amount}, err
}

func decodeCoinProof(n *clvm.Node) (types.CoinProof, error) {
	a, b, amount, err := decodeTriple(n, "coin proof")
	return types.CoinProof{ParentCoinInfo: a, InnerPuzzleHash: b, Amount: amount}, err
}
