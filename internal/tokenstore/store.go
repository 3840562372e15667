// Package tokenstore persists the DOG coins a holder is tracking.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/internal/dog"
	"github.com/Klingon-tech/klingnet-dog/internal/log"
	"github.com/Klingon-tech/klingnet-dog/internal/storage"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// ErrNotFound is returned when a coin is not tracked.
var ErrNotFound = errors.New("dog not tracked")

var (
	prefixDog   = []byte("d/") // d/<coinID(32)> -> record JSON
	prefixAsset = []byte("a/") // a/<assetID(32)><coinID(32)> -> 1
)

// record is the stored form of a dog.Dog. Amount is base 10 so that
// 128-bit amounts survive JSON.
type record struct {
	Coin         types.Coin          `json:"coin"`
	LineageProof *types.LineageProof `json:"lineage_proof,omitempty"`
	Amount       string              `json:"amount"`
	AssetID      types.AssetID       `json:"asset_id"`
	P2PuzzleHash types.Hash          `json:"p2_puzzle_hash"`
}

func toRecord(d dog.Dog) record {
	return record{
		Coin:         d.Coin,
		LineageProof: d.LineageProof,
		Amount:       types.FormatAmount(&d.Amount),
		AssetID:      d.AssetID,
		P2PuzzleHash: d.P2PuzzleHash,
	}
}

func (r record) dog() (dog.Dog, error) {
	amount, err := types.ParseAmount(r.Amount)
	if err != nil {
		return dog.Dog{}, err
	}
	return dog.New(r.Coin, r.LineageProof, &amount, r.AssetID, r.P2PuzzleHash), nil
}

// Store tracks Dogs by coin id with a secondary index by asset.
type Store struct {
	db storage.DB
}

// New creates a store over db.
func New(db storage.DB) *Store {
	return &Store{db: db}
}

// Put tracks d, replacing any previous state of the same coin.
func (s *Store) Put(d dog.Dog) error {
	batch := storage.NewBatch(s.db)
	if err := put(batch, d); err != nil {
		return err
	}
	return batch.Commit()
}

func put(batch storage.Batch, d dog.Dog) error {
	data, err := json.Marshal(toRecord(d))
	if err != nil {
		return fmt.Errorf("dog marshal: %w", err)
	}
	id := d.Coin.ID()
	if err := batch.Put(dogKey(id), data); err != nil {
		return err
	}
	return batch.Put(assetKey(d.AssetID, id), []byte{1})
}

// Get returns the tracked state of a coin.
func (s *Store) Get(coinID types.Hash) (dog.Dog, error) {
	data, err := s.db.Get(dogKey(coinID))
	if errors.Is(err, storage.ErrNotFound) {
		return dog.Dog{}, fmt.Errorf("%w: %s", ErrNotFound, coinID)
	}
	if err != nil {
		return dog.Dog{}, fmt.Errorf("dog get: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (dog.Dog, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return dog.Dog{}, fmt.Errorf("dog unmarshal: %w", err)
	}
	return r.dog()
}

// Delete stops tracking a coin. Deleting an untracked coin is a no-op.
func (s *Store) Delete(coinID types.Hash) error {
	d, err := s.Get(coinID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	batch := storage.NewBatch(s.db)
	if err := del(batch, d); err != nil {
		return err
	}
	return batch.Commit()
}

func del(batch storage.Batch, d dog.Dog) error {
	id := d.Coin.ID()
	if err := batch.Delete(dogKey(id)); err != nil {
		return err
	}
	return batch.Delete(assetKey(d.AssetID, id))
}

// ByAsset returns every tracked coin of an asset, ordered by coin id.
func (s *Store) ByAsset(assetID types.AssetID) ([]dog.Dog, error) {
	prefix := append(append([]byte{}, prefixAsset...), assetID[:]...)
	var out []dog.Dog
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		id, ok := types.BytesToHash(key[len(prefix):])
		if !ok {
			return nil // Malformed key, skip.
		}
		d, err := s.Get(id)
		if err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	return out, err
}

// Balance sums the amounts of every tracked coin of an asset.
func (s *Store) Balance(assetID types.AssetID) (uint256.Int, error) {
	dogs, err := s.ByAsset(assetID)
	if err != nil {
		return uint256.Int{}, err
	}
	var total uint256.Int
	for _, d := range dogs {
		total.Add(&total, uint256.NewInt(d.Coin.Amount))
	}
	return total, nil
}

// Advance replaces a spent coin with the children its spend created, in
// one batch. Children already tracked are overwritten.
func (s *Store) Advance(spent types.Hash, children []dog.Dog) error {
	parent, err := s.Get(spent)
	if err != nil {
		return err
	}
	batch := storage.NewBatch(s.db)
	if err := del(batch, parent); err != nil {
		return err
	}
	for _, c := range children {
		if err := put(batch, c); err != nil {
			return err
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("advance %s: %w", spent, err)
	}
	log.Store.Debug().
		Str("asset", parent.AssetID.String()).
		Str("spent", spent.String()).
		Int("children", len(children)).
		Msg("Dog advanced")
	return nil
}

func dogKey(id types.Hash) []byte {
	key := make([]byte, len(prefixDog)+types.HashSize)
	copy(key, prefixDog)
	copy(key[len(prefixDog):], id[:])
	return key
}

func assetKey(asset types.AssetID, id types.Hash) []byte {
	key := make([]byte, 0, len(prefixAsset)+2*types.HashSize)
	key = append(key, prefixAsset...)
	key = append(key, asset[:]...)
	return append(key, id[:]...)
}
