package puzzle

import (
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// NewGenesisByCoinIDTail curries the single-issuance TAIL with the coin id
// that must parent the eve coin.
func NewGenesisByCoinIDTail(ctx *spend.Context, genesisID types.Hash) (*clvm.Node, error) {
	mod, err := ctx.Mod(GenesisByCoinIDTailHash, GenesisByCoinIDTail)
	if err != nil {
		return nil, err
	}
	return clvm.Curry(mod, clvm.Bytes32(genesisID)), nil
}

// GenesisByCoinIDAssetID returns the asset id issued from genesisID.
func GenesisByCoinIDAssetID(genesisID types.Hash) types.AssetID {
	return types.AssetID(clvm.CurryTreeHash(GenesisByCoinIDTailHash, clvm.HashAtom(genesisID[:])))
}

// NewEverythingWithSignatureTail curries the multi-issuance TAIL with the
// key that must sign every supply change.
func NewEverythingWithSignatureTail(ctx *spend.Context, publicKey []byte) (*clvm.Node, error) {
	mod, err := ctx.Mod(EverythingWithSignatureTailHash, EverythingWithSignatureTail)
	if err != nil {
		return nil, err
	}
	return clvm.Curry(mod, clvm.Atom(publicKey)), nil
}

// EverythingWithSignatureAssetID returns the asset id governed by publicKey.
func EverythingWithSignatureAssetID(publicKey []byte) types.AssetID {
	return types.AssetID(clvm.CurryTreeHash(EverythingWithSignatureTailHash, clvm.HashAtom(publicKey)))
}

// TailSolution builds the environment a TAIL runs with:
// (parent_id has_lineage extra_delta . tail_solution).
func TailSolution(parentID types.Hash, hasLineage bool, extraDelta int64, tailSolution *clvm.Node) *clvm.Node {
	lineage := clvm.Nil
	if hasLineage {
		lineage = clvm.Int(1)
	}
	if tailSolution == nil {
		tailSolution = clvm.Nil
	}
	return clvm.Cons(clvm.Bytes32(parentID),
		clvm.Cons(lineage,
			clvm.Cons(clvm.Int(extraDelta), tailSolution)))
}
