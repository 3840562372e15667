package dog

import (
	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// ParseChildren reconstructs the DOG coins created by a spent parent from
// its revealed puzzle and solution. ok is false when the parent is not a
// DOG coin.
func ParseChildren(runner *clvm.Runner, parentCoin types.Coin, parentPuzzle, parentSolution *clvm.Node) ([]Dog, bool, error) {
	layer, ok, err := puzzle.ParseRawDogLayer(parentPuzzle)
	if err != nil || !ok {
		return nil, false, err
	}
	sol, err := puzzle.ParseRawDogSolution(parentSolution)
	if err != nil {
		return nil, false, err
	}
	out, _, err := runner.Run(layer.Inner.Program, sol.InnerSolution)
	if err != nil {
		return nil, false, err
	}
	conds, err := condition.Decode(out)
	if err != nil {
		return nil, false, err
	}

	parentID := parentCoin.ID()
	lineage, err := lineageOf(parentCoin.ParentID, layer.Inner.TreeHash(), &layer.Amount)
	if err != nil {
		return nil, false, err
	}
	creates := condition.CreateCoins(conds)
	children := make([]Dog, 0, len(creates))
	for _, cc := range creates {
		lp := lineage
		declared := uint256.NewInt(cc.Amount)
		children = append(children, Dog{
			Coin:         types.NewCoin(parentID, puzzle.DogTreeHash(declared, layer.AssetID, cc.PuzzleHash), cc.Amount),
			LineageProof: &lp,
			Amount:       *declared,
			AssetID:      layer.AssetID,
			P2PuzzleHash: cc.PuzzleHash,
		})
	}
	return children, true, nil
}

// ParseCoinSpendChildren is ParseChildren over a serialized coin spend.
func ParseCoinSpendChildren(runner *clvm.Runner, cs spend.CoinSpend) ([]Dog, bool, error) {
	puz, err := cs.Puzzle()
	if err != nil {
		return nil, false, err
	}
	sol, err := cs.SolutionNode()
	if err != nil {
		return nil, false, err
	}
	return ParseChildren(runner, cs.Coin, puz, sol)
}

// ParseMemos returns the memos of the CREATE_COIN in cs that created
// coinID. ok is false when cs did not create coinID. DOG spends are read
// through their inner puzzle, with created coins wrapped in the layer.
func ParseMemos(runner *clvm.Runner, cs spend.CoinSpend, coinID types.Hash) ([][]byte, bool, error) {
	puz, err := cs.Puzzle()
	if err != nil {
		return nil, false, err
	}
	sol, err := cs.SolutionNode()
	if err != nil {
		return nil, false, err
	}

	wrap := func(ph types.Hash, _ uint64) types.Hash { return ph }
	layer, isDog, err := puzzle.ParseRawDogLayer(puz)
	if err != nil {
		return nil, false, err
	}
	if isDog {
		dsol, err := puzzle.ParseRawDogSolution(sol)
		if err != nil {
			return nil, false, err
		}
		puz, sol = layer.Inner.Program, dsol.InnerSolution
		wrap = func(ph types.Hash, amount uint64) types.Hash {
			return puzzle.DogTreeHash(uint256.NewInt(amount), layer.AssetID, ph)
		}
	}

	out, _, err := runner.Run(puz, sol)
	if err != nil {
		return nil, false, err
	}
	conds, err := condition.Decode(out)
	if err != nil {
		return nil, false, err
	}
	parentID := cs.Coin.ID()
	for _, cc := range condition.CreateCoins(conds) {
		if types.NewCoin(parentID, wrap(cc.PuzzleHash, cc.Amount), cc.Amount).ID() == coinID {
			return cc.Memos, true, nil
		}
	}
	return nil, false, nil
}
