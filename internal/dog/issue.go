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

// SingleIssuanceEve issues a token whose TAIL only allows the eve coin
// created by parentCoinID. conds are the eve's outputs; the TAIL reveal is
// appended to them.
func SingleIssuanceEve(ctx *spend.Context, parentCoinID types.Hash, amount *uint256.Int, conds *condition.List) (*condition.List, Dog, error) {
	tail, err := puzzle.NewGenesisByCoinIDTail(ctx, parentCoinID)
	if err != nil {
		return nil, Dog{}, err
	}
	return CreateAndSpendEve(ctx, parentCoinID, types.AssetID(ctx.TreeHash(tail)), amount, withTail(conds, tail))
}

// MultiIssuanceEve issues a token whose TAIL accepts any supply change
// signed by publicKey.
func MultiIssuanceEve(ctx *spend.Context, parentCoinID types.Hash, publicKey []byte, amount *uint256.Int, conds *condition.List) (*condition.List, Dog, error) {
	tail, err := puzzle.NewEverythingWithSignatureTail(ctx, publicKey)
	if err != nil {
		return nil, Dog{}, err
	}
	return CreateAndSpendEve(ctx, parentCoinID, types.AssetID(ctx.TreeHash(tail)), amount, withTail(conds, tail))
}

func withTail(conds *condition.List, tail *clvm.Node) *condition.List {
	return condition.New().Extend(conds).RunTail(tail, nil)
}

// CreateAndSpendEve builds an eve coin whose inner puzzle emits conds, and
// spends it as a ring of one. The eve coin has amount 0 and declares amount;
// conds must reveal the TAIL and create the issued coins. It returns the
// conditions the parent coin must emit to create the eve, and the eve.
func CreateAndSpendEve(ctx *spend.Context, parentCoinID types.Hash, assetID types.AssetID, amount *uint256.Int, conds *condition.List) (*condition.List, Dog, error) {
	if !amount.IsUint64() {
		return nil, Dog{}, fmt.Errorf("%w: issuance %s", ErrArithmeticOverflow, amount.ToBig())
	}
	if conds == nil {
		conds = condition.New()
	}
	inner := clvm.Quote(conds.Node())
	innerHash := ctx.TreeHash(inner)

	layer := puzzle.RawDogLayer{Amount: *amount, AssetID: assetID, Inner: puzzle.NewRawLayer(inner)}
	puzzleHash := layer.TreeHash()

	eve := New(types.NewCoin(parentCoinID, puzzleHash, 0), nil, amount, assetID, innerHash)
	if err := eve.Spend(ctx, EveSpend(eve.Coin, innerHash, spend.New(inner, clvm.Nil))); err != nil {
		return nil, Dog{}, err
	}

	log.Dog.Debug().
		Str("asset", assetID.String()).
		Str("eve", eve.Coin.ID().String()).
		Str("amount", amount.ToBig().String()).
		Msg("Eve spend created")
	return condition.New().CreateCoin(puzzleHash, 0), eve, nil
}
