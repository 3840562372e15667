package ledger

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Result is the outcome of running one coin spend.
type Result struct {
	Coin   types.Coin
	CoinID types.Hash
	// Conditions are the spend's effective conditions. For DOG spends the
	// inner CREATE_COINs are wrapped in the DOG layer and the TAIL's output
	// is appended.
	Conditions []condition.Condition
	Dog        *DogResult
}

// DogResult carries the decoded DOG fields of a spend.
type DogResult struct {
	Layer     puzzle.RawDogLayer
	Solution  puzzle.DogSolution[*clvm.Node]
	InnerHash types.Hash
	// Created is the sum of the inner puzzle's CREATE_COIN amounts.
	Created uint256.Int
	TailRan bool
}

// Evaluate runs every spend in b, in bundle order. It checks each spend in
// isolation; rules that span spends are left to the ledger.
func Evaluate(runner *clvm.Runner, b *spend.Bundle) ([]Result, error) {
	results := make([]Result, 0, len(b.CoinSpends))
	for _, cs := range b.CoinSpends {
		r, err := evaluateSpend(runner, cs)
		if err != nil {
			return nil, spendErr(cs.Coin.ID(), err)
		}
		results = append(results, r)
	}
	return results, nil
}

func evaluateSpend(runner *clvm.Runner, cs spend.CoinSpend) (Result, error) {
	r := Result{Coin: cs.Coin, CoinID: cs.Coin.ID()}

	prog, err := cs.Puzzle()
	if err != nil {
		return r, err
	}
	sol, err := cs.SolutionNode()
	if err != nil {
		return r, err
	}
	if got := clvm.TreeHash(prog); got != cs.Coin.PuzzleHash {
		return r, fmt.Errorf("%w: reveal hashes to %s", ErrPuzzleHashMismatch, got)
	}

	layer, ok, err := puzzle.ParseRawDogLayer(prog)
	if err != nil {
		return r, err
	}
	if ok {
		return evaluateDog(runner, r, layer, sol)
	}

	out, _, err := runner.Run(prog, sol)
	if err != nil {
		return r, err
	}
	conds, err := condition.Decode(out)
	if err != nil {
		return r, err
	}
	for _, c := range conds {
		if _, isTail := c.(condition.RunTail); isTail {
			return r, ErrUnexpectedTail
		}
	}
	r.Conditions = conds
	return r, nil
}

// evaluateDog runs the inner puzzle of a DOG spend and applies the layer's
// output rules: created coins are wrapped with the same asset and the TAIL,
// when revealed, runs with the ring's view of this coin.
func evaluateDog(runner *clvm.Runner, r Result, layer puzzle.RawDogLayer, sol *clvm.Node) (Result, error) {
	dsol, err := puzzle.ParseRawDogSolution(sol)
	if err != nil {
		return r, err
	}
	if dsol.ThisCoinInfo != r.Coin {
		return r, fmt.Errorf("%w: this coin info", ErrRingLinkage)
	}

	out, _, err := runner.Run(layer.Inner.Program, dsol.InnerSolution)
	if err != nil {
		return r, fmt.Errorf("inner puzzle: %w", err)
	}
	inner, err := condition.Decode(out)
	if err != nil {
		return r, err
	}

	d := &DogResult{Layer: layer, Solution: dsol, InnerHash: layer.Inner.TreeHash()}
	conds := make([]condition.Condition, 0, len(inner))
	var tailOut []condition.Condition
	for _, c := range inner {
		switch c := c.(type) {
		case condition.CreateCoin:
			d.Created.Add(&d.Created, uint256.NewInt(c.Amount))
			conds = append(conds, condition.CreateCoin{
				PuzzleHash: puzzle.DogTreeHash(uint256.NewInt(c.Amount), layer.AssetID, c.PuzzleHash),
				Amount:     c.Amount,
				Memos:      c.Memos,
			})
		case condition.RunTail:
			if d.TailRan {
				return r, ErrMultipleTails
			}
			if types.AssetID(clvm.TreeHash(c.Program)) != layer.AssetID {
				return r, ErrTailMismatch
			}
			env := puzzle.TailSolution(r.Coin.ParentID, dsol.LineageProof != nil, dsol.ExtraDelta, c.Solution)
			tout, _, err := runner.Run(c.Program, env)
			if err != nil {
				return r, fmt.Errorf("tail: %w", err)
			}
			if tailOut, err = condition.Decode(tout); err != nil {
				return r, fmt.Errorf("tail: %w", err)
			}
			d.TailRan = true
		default:
			conds = append(conds, c)
		}
	}

	r.Conditions = append(conds, tailOut...)
	r.Dog = d
	return r, nil
}
