package dog

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/internal/log"
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// DogSpend pairs a Dog with its inner spend. ExtraDelta is nonzero only for
// a TAIL-authorized mint or melt.
type DogSpend struct {
	Dog        Dog
	InnerSpend spend.Spend
	ExtraDelta int64
}

// NewDogSpend creates a spend with no supply change.
func NewDogSpend(d Dog, inner spend.Spend) DogSpend {
	return DogSpend{Dog: d, InnerSpend: inner}
}

// WithExtraDelta creates a spend that changes supply by extraDelta.
func WithExtraDelta(d Dog, inner spend.Spend, extraDelta int64) DogSpend {
	return DogSpend{Dog: d, InnerSpend: inner, ExtraDelta: extraDelta}
}

// SingleDogSpend is one ring member with its linkage fields filled in.
type SingleDogSpend struct {
	PrevCoinID    types.Hash
	NextCoinProof types.CoinProof
	PrevSubtotal  int64
	ExtraDelta    int64
	InnerSpend    spend.Spend
}

// EveSpend links coin into a ring of one.
func EveSpend(coin types.Coin, innerPuzzleHash types.Hash, inner spend.Spend) SingleDogSpend {
	return SingleDogSpend{
		PrevCoinID: coin.ID(),
		NextCoinProof: types.CoinProof{
			ParentCoinInfo:  coin.ParentID,
			InnerPuzzleHash: innerPuzzleHash,
			Amount:          coin.Amount,
		},
		InnerSpend: inner,
	}
}

// Spend wraps s.InnerSpend in d's DOG layer and registers the spend of
// d.Coin with ctx.
func (d Dog) Spend(ctx *spend.Context, s SingleDogSpend) error {
	layer := d.Layer(puzzle.NewRawLayer(s.InnerSpend.Puzzle))
	puz, err := layer.ConstructPuzzle(ctx)
	if err != nil {
		return err
	}
	sol, err := layer.ConstructSolution(ctx, puzzle.DogSolution[*clvm.Node]{
		InnerSolution: s.InnerSpend.Solution,
		LineageProof:  d.LineageProof,
		PrevCoinID:    s.PrevCoinID,
		ThisCoinInfo:  d.Coin,
		NextCoinProof: s.NextCoinProof,
		PrevSubtotal:  s.PrevSubtotal,
		ExtraDelta:    s.ExtraDelta,
	})
	if err != nil {
		return err
	}
	return ctx.Spend(d.Coin, spend.New(puz, sol))
}

// SpendAll links spends into one ring, in the given order, and registers
// every member with ctx.
//
// Each member's delta is amount - extra_delta - sum(created amounts), and
// its prev_subtotal is the sum of the deltas before it. SpendAll does not
// check that the deltas close to zero; the DOG layer enforces that when the
// bundle is validated. On error ctx may hold part of the ring and should be
// discarded.
func SpendAll(ctx *spend.Context, spends []DogSpend) error {
	n := len(spends)
	if n == 0 {
		return ErrEmptyRing
	}

	// First pass: run every inner puzzle.
	deltas := make([]*uint256.Int, n)
	innerHashes := make([]types.Hash, n)
	for i, s := range spends {
		out, err := ctx.Run(s.InnerSpend.Puzzle, s.InnerSpend.Solution)
		if err != nil {
			return fmt.Errorf("ring member %d: %w", i, err)
		}
		conds, err := condition.Decode(out)
		if err != nil {
			return fmt.Errorf("ring member %d: %w", i, err)
		}
		delta := new(uint256.Int).SetUint64(s.Dog.Coin.Amount)
		delta.Sub(delta, types.SignedFromInt64(s.ExtraDelta))
		for _, cc := range condition.CreateCoins(conds) {
			delta.Sub(delta, uint256.NewInt(cc.Amount))
		}
		deltas[i] = delta
		innerHashes[i] = ctx.TreeHash(s.InnerSpend.Puzzle)
	}

	// Second pass: thread the ring.
	logger := log.Dog.With().Int("ring", n).Logger()
	total := new(uint256.Int)
	for i, s := range spends {
		prevSubtotal, ok := types.SignedToInt64(total)
		if !ok {
			return fmt.Errorf("%w: subtotal %s before member %d", ErrArithmeticOverflow, types.FormatSigned(total), i)
		}
		total.Add(total, deltas[i])

		prev := spends[(i+n-1)%n]
		next := (i + 1) % n
		single := SingleDogSpend{
			PrevCoinID: prev.Dog.Coin.ID(),
			NextCoinProof: types.CoinProof{
				ParentCoinInfo:  spends[next].Dog.Coin.ParentID,
				InnerPuzzleHash: innerHashes[next],
				Amount:          spends[next].Dog.Coin.Amount,
			},
			PrevSubtotal: prevSubtotal,
			ExtraDelta:   s.ExtraDelta,
			InnerSpend:   s.InnerSpend,
		}
		if err := s.Dog.Spend(ctx, single); err != nil {
			return fmt.Errorf("ring member %d: %w", i, err)
		}
		logger.Debug().
			Int("index", i).
			Str("coin", s.Dog.Coin.ID().String()).
			Str("delta", types.FormatSigned(deltas[i])).
			Int64("prev_subtotal", prevSubtotal).
			Msg("Ring member linked")
	}
	return nil
}
