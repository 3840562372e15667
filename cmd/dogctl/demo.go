package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-dog/config"
	"github.com/Klingon-tech/klingnet-dog/internal/dog"
	"github.com/Klingon-tech/klingnet-dog/internal/ledger"
	"github.com/Klingon-tech/klingnet-dog/internal/log"
	"github.com/Klingon-tech/klingnet-dog/internal/storage"
	"github.com/Klingon-tech/klingnet-dog/internal/tokenstore"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Key prefixes separating the ledger and the token store in one database.
var (
	prefixLedger = []byte("ledger/")
	prefixTokens = []byte("tokens/")
)

func newDemoCmd(a *app) *cobra.Command {
	var (
		seed   string
		supply uint64
		melt   uint64
		out    string
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Issue a token, merge it in a ring spend and melt part of it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if supply == 0 {
				return fmt.Errorf("supply must be positive")
			}
			if melt > supply || melt > math.MaxInt64 {
				return fmt.Errorf("cannot melt %d of a %d supply", melt, supply)
			}
			db, err := openDB(a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			d, err := newDemo(a, db, seed)
			if err != nil {
				return err
			}
			return d.run(cmd.OutOrStdout(), supply, melt, out)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "dogctl demo", "Seed of the owner and issuer key")
	cmd.Flags().Uint64Var(&supply, "supply", 10000, "Amount to issue")
	cmd.Flags().Uint64Var(&melt, "melt", 1000, "Amount to melt after the ring spend")
	cmd.Flags().StringVar(&out, "out", "", "Write the last bundle to this file")
	return cmd
}

// openDB opens the database configured for the local ledger.
func openDB(cfg *config.Config) (storage.DB, error) {
	if cfg.Ledger.Backend == config.BackendMemory {
		return storage.NewMemory(), nil
	}
	if err := os.MkdirAll(cfg.LedgerDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}
	return storage.NewBadger(cfg.LedgerDir())
}

// demo drives one token through its life cycle.
type demo struct {
	app    *app
	ledger *ledger.Ledger
	tokens *tokenstore.Store
	key    *crypto.PrivateKey
	owner  puzzle.OwnerLayer
	ph     types.Hash
	last   *spend.Bundle
}

func newDemo(a *app, db storage.DB, seed string) (*demo, error) {
	data, err := a.cfg.AggSigMeData()
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(storage.NewPrefixDB(db, prefixLedger), ledger.Options{
		MaxCost:      a.cfg.Executor.MaxCost,
		AggSigMeData: data,
	})
	if err != nil {
		return nil, err
	}
	key, err := crypto.PrivateKeyFromSeed([]byte(seed))
	if err != nil {
		return nil, err
	}
	owner := puzzle.NewOwnerLayer(key.PublicKey())
	return &demo{
		app:    a,
		ledger: l,
		tokens: tokenstore.New(storage.NewPrefixDB(db, prefixTokens)),
		key:    key,
		owner:  owner,
		ph:     owner.TreeHash(),
	}, nil
}

// submit signs and applies the context's bundle, then advances the token
// store past every DOG coin it spent.
func (d *demo) submit(ctx *spend.Context) error {
	b := ctx.Take()
	if err := d.ledger.Signer().Sign(b, d.key); err != nil {
		return err
	}
	if err := d.ledger.SpendBundle(b); err != nil {
		return err
	}
	d.last = b

	runner := d.app.runner()
	for _, cs := range b.CoinSpends {
		children, ok, err := dog.ParseCoinSpendChildren(runner, cs)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		err = d.tokens.Advance(cs.Coin.ID(), children)
		if errors.Is(err, tokenstore.ErrNotFound) {
			// Eve coins are never tracked.
			err = d.trackAll(children)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) trackAll(dogs []dog.Dog) error {
	for _, c := range dogs {
		if err := d.tokens.Put(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) run(w io.Writer, supply, melt uint64, out string) error {
	defer log.Benchmark("demo")()

	// Issue supply as two coins of different amounts.
	first := supply / 3
	coin, err := d.ledger.NewCoin(d.ph, supply)
	if err != nil {
		return err
	}
	ctx := d.app.spendContext()
	issue, eve, err := dog.MultiIssuanceEve(ctx, coin.ID(), d.key.PublicKey(), uint256.NewInt(supply),
		condition.New().CreateCoin(d.ph, first, d.ph.Bytes()).CreateCoin(d.ph, supply-first, d.ph.Bytes()))
	if err != nil {
		return err
	}
	if err := d.owner.Spend(ctx, coin, issue); err != nil {
		return err
	}
	if err := d.submit(ctx); err != nil {
		return fmt.Errorf("issue: %w", err)
	}
	asset := eve.AssetID
	printf(w, "issued %d of asset %s\n", supply, asset)

	// Merge every tracked coin of the asset, including those left by earlier
	// runs against a persistent ledger, into one.
	coins, err := d.tokens.ByAsset(asset)
	if err != nil {
		return err
	}
	var total uint64
	for _, c := range coins {
		total += c.Coin.Amount
	}
	ctx = d.app.spendContext()
	spends := make([]dog.DogSpend, len(coins))
	for i, c := range coins {
		conds := condition.New()
		if i == 0 {
			conds.CreateCoin(d.ph, total, d.ph.Bytes())
		}
		inner, err := d.owner.SpendWithConditions(ctx, conds)
		if err != nil {
			return err
		}
		spends[i] = dog.NewDogSpend(c, inner)
	}
	if err := dog.SpendAll(ctx, spends); err != nil {
		return err
	}
	if err := d.submit(ctx); err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	printf(w, "merged %d coins in one ring\n", len(coins))

	// Melt through the TAIL.
	if melt > 0 {
		merged, err := d.tokens.ByAsset(asset)
		if err != nil {
			return err
		}
		if len(merged) != 1 {
			return fmt.Errorf("expected one merged coin, tracking %d", len(merged))
		}
		ctx = d.app.spendContext()
		tail, err := puzzle.NewEverythingWithSignatureTail(ctx, d.key.PublicKey())
		if err != nil {
			return err
		}
		inner, err := d.owner.SpendWithConditions(ctx,
			condition.New().CreateCoin(d.ph, total-melt, d.ph.Bytes()).RunTail(tail, nil))
		if err != nil {
			return err
		}
		if err := dog.SpendAll(ctx, []dog.DogSpend{dog.WithExtraDelta(merged[0], inner, -int64(melt))}); err != nil {
			return err
		}
		if err := d.submit(ctx); err != nil {
			return fmt.Errorf("melt: %w", err)
		}
		printf(w, "melted %d\n", melt)
	}

	balance, err := d.tokens.Balance(asset)
	if err != nil {
		return err
	}
	printf(w, "balance %s at ledger height %d\n", types.FormatAmount(&balance), d.ledger.Height())

	if out != "" {
		data, err := d.last.Encode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return err
		}
		printf(w, "wrote last bundle to %s\n", out)
	}
	return nil
}
