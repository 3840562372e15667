package puzzle

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// The launcher profile is an alternative coin topology: every generation is
// a launcher coin curried with the asset plus an ephemeral DOG coin. The
// types below describe its curried arguments and solutions; the driver
// itself uses the single-coin profile.

// DogLauncherSelfArgs curries the launcher with its asset id.
type DogLauncherSelfArgs struct {
	AssetID types.AssetID
}

// TreeHash returns the hash of the launcher curried with the asset id.
func (a DogLauncherSelfArgs) TreeHash() types.Hash {
	return clvm.CurryTreeHash(DogLauncherHash, clvm.HashAtom(a.AssetID[:]))
}

// DogArgsV2 are the DOG curried arguments in the launcher profile. The
// amount moves into the launcher and the asset is referenced through the
// launcher's self hash.
type DogArgsV2 struct {
	ModHash          types.Hash
	LauncherSelfHash types.Hash
	InnerPuzzle      *clvm.Node
}

// NewDogArgsV2 fills in the well-known hashes for assetID.
func NewDogArgsV2(assetID types.AssetID, inner *clvm.Node) DogArgsV2 {
	return DogArgsV2{
		ModHash:          DogPuzzleHash,
		LauncherSelfHash: DogLauncherSelfArgs{AssetID: assetID}.TreeHash(),
		InnerPuzzle:      inner,
	}
}

// DogV2TreeHash returns the launcher-profile outer hash from the inner hash.
func DogV2TreeHash(assetID types.AssetID, innerPuzzleHash types.Hash) types.Hash {
	self := DogLauncherSelfArgs{AssetID: assetID}.TreeHash()
	return clvm.CurryTreeHash(DogPuzzleHash,
		clvm.HashAtom(DogPuzzleHash[:]),
		clvm.HashAtom(self[:]),
		innerPuzzleHash,
	)
}

// DogLauncherArgs are the outer launcher's curried arguments.
type DogLauncherArgs struct {
	LauncherSelfHash types.Hash
	DogModHash       types.Hash
	Amount           uint64
	InnerPuzzleHash  types.Hash
}

// NewDogLauncherArgs fills in the well-known hashes for assetID.
func NewDogLauncherArgs(assetID types.AssetID, amount uint64, innerPuzzleHash types.Hash) DogLauncherArgs {
	return DogLauncherArgs{
		LauncherSelfHash: DogLauncherSelfArgs{AssetID: assetID}.TreeHash(),
		DogModHash:       DogPuzzleHash,
		Amount:           amount,
		InnerPuzzleHash:  innerPuzzleHash,
	}
}

// TreeHash returns the hash of the asset's launcher curried with these
// arguments.
func (a DogLauncherArgs) TreeHash() types.Hash {
	return clvm.CurryTreeHash(a.LauncherSelfHash,
		clvm.HashAtom(a.LauncherSelfHash[:]),
		clvm.HashAtom(a.DogModHash[:]),
		clvm.TreeHash(clvm.Uint64(a.Amount)),
		clvm.HashAtom(a.InnerPuzzleHash[:]),
	)
}

// LauncherProof links a launcher to its parent generation. On the wire it
// is (parent_inner_puzzle_hash . parent_amount).
type LauncherProof struct {
	ParentInnerPuzzleHash types.Hash
	ParentAmount          uint64
}

// Node encodes the proof.
func (p LauncherProof) Node() *clvm.Node {
	return clvm.Cons(clvm.Bytes32(p.ParentInnerPuzzleHash), clvm.Uint64(p.ParentAmount))
}

// ParseLauncherProof decodes a launcher proof.
func ParseLauncherProof(n *clvm.Node) (LauncherProof, error) {
	if n.IsAtom() {
		return LauncherProof{}, fmt.Errorf("%w: launcher proof must be a pair", ErrInvalidSolution)
	}
	ph, err := n.First().AsHash()
	if err != nil {
		return LauncherProof{}, fmt.Errorf("%w: launcher proof: %v", ErrInvalidSolution, err)
	}
	amount, err := n.Rest().AsUint64()
	if err != nil {
		return LauncherProof{}, fmt.Errorf("%w: launcher proof amount: %v", ErrInvalidSolution, err)
	}
	return LauncherProof{ParentInnerPuzzleHash: ph, ParentAmount: amount}, nil
}

// TailPack reveals a TAIL during a launcher spend. On the wire it is
// (delta tail_reveal . tail_solution).
type TailPack struct {
	Delta        int64
	TailReveal   *clvm.Node
	TailSolution *clvm.Node
}

// Node encodes the pack.
func (p TailPack) Node() *clvm.Node {
	return clvm.Cons(clvm.Int(p.Delta), clvm.Cons(p.TailReveal, p.TailSolution))
}

// DogLauncherSolution is the launcher's solution: an optional tail pack, an
// optional lineage proof and the launcher's own coin id.
type DogLauncherSolution struct {
	TailPack     *TailPack
	LineageProof *types.LineageProof
	MyID         types.Hash
}

// Node encodes the solution. Absent options encode as nil.
func (s DogLauncherSolution) Node() *clvm.Node {
	pack, lineage := clvm.Nil, clvm.Nil
	if s.TailPack != nil {
		pack = s.TailPack.Node()
	}
	if s.LineageProof != nil {
		lineage = lineageProofNode(*s.LineageProof)
	}
	return clvm.List(pack, lineage, clvm.Bytes32(s.MyID))
}

// ParseDogLauncherSolution decodes a launcher solution.
func ParseDogLauncherSolution(n *clvm.Node) (DogLauncherSolution, error) {
	var out DogLauncherSolution
	items, err := n.Items()
	if err != nil || len(items) != 3 {
		return out, fmt.Errorf("%w: launcher solution must be a 3 element list", ErrInvalidSolution)
	}
	if !items[0].IsNil() {
		p := items[0]
		if p.IsAtom() || p.Rest().IsAtom() {
			return out, fmt.Errorf("%w: malformed tail pack", ErrInvalidSolution)
		}
		delta, err := p.First().AsInt64()
		if err != nil {
			return out, fmt.Errorf("%w: tail pack delta: %v", ErrInvalidSolution, err)
		}
		out.TailPack = &TailPack{Delta: delta, TailReveal: p.Rest().First(), TailSolution: p.Rest().Rest()}
	}
	if !items[1].IsNil() {
		lp, err := decodeLineageProof(items[1])
		if err != nil {
			return out, err
		}
		out.LineageProof = &lp
	}
	if out.MyID, err = items[2].AsHash(); err != nil {
		return out, fmt.Errorf("%w: my id: %v", ErrInvalidSolution, err)
	}
	return out, nil
}
