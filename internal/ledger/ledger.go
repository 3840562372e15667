// Package ledger is an in-process coin ledger. It validates spend bundles
// against the DOG layer rules and persists coin records over a storage.DB,
// standing in for a full node in tests and in the demo command.
package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/internal/log"
	"github.com/Klingon-tech/klingnet-dog/internal/storage"
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/condition"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/puzzle"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Key prefixes.
var (
	prefixCoin   = []byte("c/")
	prefixBundle = []byte("b/")
	keyHeight    = []byte("m/height")
	keyFaucet    = []byte("m/faucet")
)

// CoinRecord is the ledger's view of a coin.
type CoinRecord struct {
	Coin          types.Coin `json:"coin"`
	CreatedHeight uint64     `json:"created_height"`
	Spent         bool       `json:"spent"`
	SpentHeight   uint64     `json:"spent_height,omitempty"`
}

// Options configures a Ledger.
type Options struct {
	// MaxCost bounds each program run. Zero selects clvm.DefaultMaxCost.
	MaxCost uint64
	// AggSigMeData is the network's extra data for AGG_SIG_ME digests.
	AggSigMeData []byte
}

// Ledger tracks coins and applies bundles one at a time. Each applied
// bundle advances the height by one.
type Ledger struct {
	mu           sync.Mutex
	db           storage.DB
	runner       *clvm.Runner
	aggSigMeData []byte
	height       uint64
	faucet       uint64
}

// New opens a ledger over db, resuming from any state already stored.
func New(db storage.DB, opts Options) (*Ledger, error) {
	l := &Ledger{
		db:           db,
		runner:       clvm.NewRunner(opts.MaxCost),
		aggSigMeData: opts.AggSigMeData,
	}
	var err error
	if l.height, err = l.loadCounter(keyHeight); err != nil {
		return nil, err
	}
	if l.faucet, err = l.loadCounter(keyFaucet); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) loadCounter(key []byte) (uint64, error) {
	v, err := l.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("corrupt counter %s", key)
	}
	return binary.BigEndian.Uint64(v), nil
}

func encodeCounter(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func coinKey(id types.Hash) []byte {
	return append(append([]byte{}, prefixCoin...), id[:]...)
}

// Height returns the number of bundles applied.
func (l *Ledger) Height() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// Signer returns a signer using this ledger's cost limit and signing data.
func (l *Ledger) Signer() *Signer {
	return NewSigner(l.runner, l.aggSigMeData)
}

// NewCoin creates an unspent coin out of thin air, for funding tests and
// demos. Each call gets a distinct parent id.
func (l *Ledger) NewCoin(puzzleHash types.Hash, amount uint64) (types.Coin, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.faucet + 1
	parent := crypto.Sha256([]byte("faucet"), encodeCounter(n))
	coin := types.NewCoin(parent, puzzleHash, amount)

	rec, err := json.Marshal(CoinRecord{Coin: coin, CreatedHeight: l.height})
	if err != nil {
		return types.Coin{}, err
	}
	batch := storage.NewBatch(l.db)
	if err := batch.Put(coinKey(coin.ID()), rec); err != nil {
		return types.Coin{}, fmt.Errorf("store coin: %w", err)
	}
	if err := batch.Put(keyFaucet, encodeCounter(n)); err != nil {
		return types.Coin{}, fmt.Errorf("store coin: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return types.Coin{}, fmt.Errorf("store coin: %w", err)
	}
	l.faucet = n
	log.Ledger.Debug().Str("coin", coin.ID().String()).Uint64("amount", amount).Msg("Faucet coin created")
	return coin, nil
}

// Coin returns the record of a coin.
func (l *Ledger) Coin(id types.Hash) (CoinRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coin(id)
}

func (l *Ledger) coin(id types.Hash) (CoinRecord, error) {
	data, err := l.db.Get(coinKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return CoinRecord{}, fmt.Errorf("%w: %s", ErrCoinNotFound, id)
	}
	if err != nil {
		return CoinRecord{}, err
	}
	var rec CoinRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return CoinRecord{}, fmt.Errorf("decode coin %s: %w", id, err)
	}
	return rec, nil
}

// Unspent returns the unspent coins locked by puzzleHash.
func (l *Ledger) Unspent(puzzleHash types.Hash) ([]CoinRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []CoinRecord
	err := l.db.ForEach(prefixCoin, func(_, value []byte) error {
		var rec CoinRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		if !rec.Spent && rec.Coin.PuzzleHash == puzzleHash {
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// SpendBundle validates b and, if every rule holds, applies it atomically:
// spent coins are marked spent and created coins are added. Coins created
// by the bundle may be spent within it.
func (l *Ledger) SpendBundle(b *spend.Bundle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(b.CoinSpends) == 0 {
		return ErrEmptyBundle
	}
	id := b.ID()
	if ok, err := l.db.Has(append(append([]byte{}, prefixBundle...), id[:]...)); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %s", ErrBundleApplied, id)
	}

	results, err := Evaluate(l.runner, b)
	if err == nil {
		err = l.validate(b, results)
	}
	if err != nil {
		log.Ledger.Warn().Err(err).Str("bundle", id.String()).Msg("Bundle rejected")
		return err
	}
	return l.apply(id, results)
}

// Validate runs every rule SpendBundle checks without applying b.
func (l *Ledger) Validate(b *spend.Bundle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	results, err := Evaluate(l.runner, b)
	if err != nil {
		return err
	}
	return l.validate(b, results)
}

// bundleView indexes the coins a bundle spends and creates.
type bundleView struct {
	removals  map[types.Hash]types.Coin
	additions map[types.Hash]types.Coin
}

func (l *Ledger) validate(b *spend.Bundle, results []Result) error {
	v := bundleView{
		removals:  make(map[types.Hash]types.Coin, len(results)),
		additions: make(map[types.Hash]types.Coin),
	}
	var in, out uint256.Int

	for _, r := range results {
		if _, dup := v.removals[r.CoinID]; dup {
			return spendErr(r.CoinID, ErrDuplicateSpend)
		}
		v.removals[r.CoinID] = r.Coin
		in.Add(&in, uint256.NewInt(r.Coin.Amount))

		for _, cc := range condition.CreateCoins(r.Conditions) {
			child := types.NewCoin(r.CoinID, cc.PuzzleHash, cc.Amount)
			cid := child.ID()
			if _, dup := v.additions[cid]; dup {
				return spendErr(r.CoinID, fmt.Errorf("%w: %s", ErrDuplicateOutput, cid))
			}
			v.additions[cid] = child
			out.Add(&out, uint256.NewInt(cc.Amount))
		}
	}
	if out.Gt(&in) {
		return fmt.Errorf("%w: %s > %s", ErrOutputsExceedInputs, out.ToBig(), in.ToBig())
	}

	for _, r := range results {
		if _, ephemeral := v.additions[r.CoinID]; ephemeral {
			continue
		}
		rec, err := l.coin(r.CoinID)
		if err != nil {
			return spendErr(r.CoinID, err)
		}
		if rec.Spent {
			return spendErr(r.CoinID, ErrCoinSpent)
		}
	}
	for id := range v.additions {
		if _, ephemeral := v.removals[id]; ephemeral {
			continue
		}
		if ok, err := l.db.Has(coinKey(id)); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("%w: %s already exists", ErrDuplicateOutput, id)
		}
	}

	if err := checkAssertions(results); err != nil {
		return err
	}
	if err := l.checkDogRings(results, v); err != nil {
		return err
	}
	return verifySignatures(Requirements(results, l.aggSigMeData), b.Signatures)
}

func checkAssertions(results []Result) error {
	announced := make(map[types.Hash]struct{})
	for _, r := range results {
		for _, c := range r.Conditions {
			if a, ok := c.(condition.CreateCoinAnnouncement); ok {
				announced[condition.AnnouncementID(r.CoinID, a.Message)] = struct{}{}
			}
		}
	}
	for _, r := range results {
		for _, c := range r.Conditions {
			switch c := c.(type) {
			case condition.AssertCoinAnnouncement:
				if _, ok := announced[c.ID]; !ok {
					return spendErr(r.CoinID, fmt.Errorf("%w: %s", ErrAnnouncement, c.ID))
				}
			case condition.AssertMyCoinID:
				if c.CoinID != r.CoinID {
					return spendErr(r.CoinID, ErrMyCoinID)
				}
			}
		}
	}
	return nil
}

// parentCoin finds the coin with id among the bundle's coins or the stored
// records.
func (l *Ledger) parentCoin(id types.Hash, v bundleView) (types.Coin, bool, error) {
	if c, ok := v.removals[id]; ok {
		return c, true, nil
	}
	rec, err := l.coin(id)
	if errors.Is(err, ErrCoinNotFound) {
		return types.Coin{}, false, nil
	}
	if err != nil {
		return types.Coin{}, false, err
	}
	return rec.Coin, true, nil
}

// dogRings splits the bundle's DOG spends into rings by following each
// member's prev_coin_id. A ring starts at its first member in bundle order,
// which is where its subtotal chain starts.
func dogRings(results []Result) ([][]*Result, error) {
	succ := make(map[types.Hash]*Result)
	for i := range results {
		r := &results[i]
		if r.Dog == nil {
			continue
		}
		prev := r.Dog.Solution.PrevCoinID
		if _, dup := succ[prev]; dup {
			return nil, spendErr(r.CoinID, fmt.Errorf("%w: prev coin %s claimed twice", ErrRingLinkage, prev))
		}
		succ[prev] = r
	}

	var rings [][]*Result
	seen := make(map[types.Hash]bool)
	for i := range results {
		start := &results[i]
		if start.Dog == nil || seen[start.CoinID] {
			continue
		}
		ring := []*Result{start}
		seen[start.CoinID] = true
		for cur := start; ; {
			next, ok := succ[cur.CoinID]
			if !ok {
				return nil, spendErr(cur.CoinID, fmt.Errorf("%w: ring is not closed", ErrRingLinkage))
			}
			if next == start {
				break
			}
			if seen[next.CoinID] || next.Dog.Layer.AssetID != start.Dog.Layer.AssetID {
				return nil, spendErr(next.CoinID, fmt.Errorf("%w: prev coin id", ErrRingLinkage))
			}
			seen[next.CoinID] = true
			ring = append(ring, next)
			cur = next
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

// checkDogRings checks every ring of DOG spends in the bundle:
//   - each member's next coin proof describes its real successor,
//   - prev_subtotal is the running sum of the deltas before it,
//   - a lineage proof matches the parent coin, and a spend without one is
//     an eve spend that reveals the TAIL and issues its declared amount,
//   - extra_delta is only nonzero when the TAIL runs,
//   - amounts are conserved: the sum over non-eve members of
//     (amount - created + extra_delta) is zero.
func (l *Ledger) checkDogRings(results []Result, v bundleView) error {
	rings, err := dogRings(results)
	if err != nil {
		return err
	}

	for _, ring := range rings {
		n := len(ring)
		asset := ring[0].Dog.Layer.AssetID
		subtotal := new(uint256.Int)
		surplus := new(uint256.Int)

		for i, r := range ring {
			d := r.Dog
			sol := d.Solution
			next := ring[(i+1)%n]

			np := sol.NextCoinProof
			if np.ParentCoinInfo != next.Coin.ParentID || np.Amount != next.Coin.Amount ||
				np.InnerPuzzleHash != next.Dog.InnerHash {
				return spendErr(r.CoinID, fmt.Errorf("%w: next coin proof", ErrRingLinkage))
			}
			if !types.SignedFromInt64(sol.PrevSubtotal).Eq(subtotal) {
				return spendErr(r.CoinID, fmt.Errorf("%w: got %d, want %s",
					ErrSubtotal, sol.PrevSubtotal, types.FormatSigned(subtotal)))
			}
			if sol.ExtraDelta != 0 && !d.TailRan {
				return spendErr(r.CoinID, ErrExtraDelta)
			}

			amount := uint256.NewInt(r.Coin.Amount)
			extra := types.SignedFromInt64(sol.ExtraDelta)
			delta := new(uint256.Int).Sub(amount, extra)
			delta.Sub(delta, &d.Created)
			subtotal.Add(subtotal, delta)

			if sol.LineageProof == nil {
				if !d.TailRan {
					return spendErr(r.CoinID, fmt.Errorf("%w: no lineage proof and no tail", ErrLineage))
				}
				if !d.Created.Eq(&d.Layer.Amount) {
					return spendErr(r.CoinID, fmt.Errorf("%w: created %s, declared %s",
						ErrIssuance, d.Created.ToBig(), d.Layer.Amount.ToBig()))
				}
				continue
			}
			if err := l.checkLineage(r, *sol.LineageProof, v); err != nil {
				return spendErr(r.CoinID, err)
			}
			s := new(uint256.Int).Sub(amount, &d.Created)
			surplus.Add(surplus, s.Add(s, extra))
		}

		if !surplus.IsZero() {
			return spendErr(ring[n-1].CoinID, fmt.Errorf("%w: asset %s off by %s",
				ErrSupplyChanged, asset, types.FormatSigned(surplus)))
		}
		log.Ledger.Debug().
			Str("asset", asset.String()).
			Int("ring", n).
			Str("subtotal", types.FormatSigned(subtotal)).
			Msg("Ring verified")
	}
	return nil
}

func (l *Ledger) checkLineage(r *Result, lp types.LineageProof, v bundleView) error {
	parent, ok, err := l.parentCoin(r.Coin.ParentID, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: parent %s unknown", ErrLineage, r.Coin.ParentID)
	}
	want := puzzle.DogTreeHash(uint256.NewInt(lp.ParentAmount), r.Dog.Layer.AssetID, lp.ParentInnerPuzzleHash)
	if parent.PuzzleHash != want || parent.ParentID != lp.ParentParentCoinInfo {
		return ErrLineage
	}
	return nil
}

func (l *Ledger) apply(id types.Hash, results []Result) error {
	height := l.height + 1
	batch := storage.NewBatch(l.db)
	additions := 0

	spent := make(map[types.Hash]struct{}, len(results))
	for _, r := range results {
		spent[r.CoinID] = struct{}{}
	}
	for _, r := range results {
		rec, err := l.coin(r.CoinID)
		if errors.Is(err, ErrCoinNotFound) {
			rec = CoinRecord{Coin: r.Coin, CreatedHeight: height}
		} else if err != nil {
			return err
		}
		rec.Spent = true
		rec.SpentHeight = height
		if err := putRecord(batch, rec); err != nil {
			return err
		}
	}
	for _, r := range results {
		for _, cc := range condition.CreateCoins(r.Conditions) {
			child := types.NewCoin(r.CoinID, cc.PuzzleHash, cc.Amount)
			if _, ephemeral := spent[child.ID()]; ephemeral {
				continue
			}
			if err := putRecord(batch, CoinRecord{Coin: child, CreatedHeight: height}); err != nil {
				return err
			}
			additions++
		}
	}
	if err := batch.Put(append(append([]byte{}, prefixBundle...), id[:]...), encodeCounter(height)); err != nil {
		return fmt.Errorf("apply bundle %s: %w", id, err)
	}
	if err := batch.Put(keyHeight, encodeCounter(height)); err != nil {
		return fmt.Errorf("apply bundle %s: %w", id, err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("apply bundle %s: %w", id, err)
	}
	l.height = height

	log.Ledger.Info().
		Str("bundle", id.String()).
		Uint64("height", height).
		Int("removals", len(results)).
		Int("additions", additions).
		Msg("Bundle applied")
	return nil
}

func putRecord(batch storage.Batch, rec CoinRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return batch.Put(coinKey(rec.Coin.ID()), data)
}
