package spend

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// DefaultModCacheSize is the number of deserialized mods kept per context.
const DefaultModCacheSize = 64

// Options configures a Context. Zero values select defaults.
type Options struct {
	MaxCost      uint64
	ModCacheSize int
}

// Context accumulates coin spends for one bundle. It also owns the runner
// used to execute inner puzzles and a cache of deserialized mods.
//
// A Context is single-writer. After an error the accumulated spends may be
// partial and the context should be discarded.
type Context struct {
	runner *clvm.Runner
	mods   *lru.Cache[types.Hash, *clvm.Node]
	spends []CoinSpend
	spent  map[types.Hash]struct{}
}

// NewContext creates an empty context.
func NewContext(opts Options) *Context {
	size := opts.ModCacheSize
	if size <= 0 {
		size = DefaultModCacheSize
	}
	mods, err := lru.New[types.Hash, *clvm.Node](size)
	if err != nil {
		// Only returned for non-positive sizes.
		panic(err)
	}
	return &Context{
		runner: clvm.NewRunner(opts.MaxCost),
		mods:   mods,
		spent:  make(map[types.Hash]struct{}),
	}
}

// Mod returns the deserialized program for a well-known serialized mod,
// checking it against its declared tree hash the first time it is loaded.
func (c *Context) Mod(hash types.Hash, serialized []byte) (*clvm.Node, error) {
	if n, ok := c.mods.Get(hash); ok {
		return n, nil
	}
	n, err := clvm.Deserialize(serialized)
	if err != nil {
		return nil, fmt.Errorf("load mod %s: %w", hash, err)
	}
	if got := clvm.TreeHash(n); got != hash {
		return nil, fmt.Errorf("%w: declared %s, got %s", ErrModHashMismatch, hash, got)
	}
	c.mods.Add(hash, n)
	return n, nil
}

// Run executes a puzzle against a solution and returns its output.
func (c *Context) Run(puzzle, solution *clvm.Node) (*clvm.Node, error) {
	out, _, err := c.runner.Run(puzzle, solution)
	if err != nil {
		return nil, fmt.Errorf("run puzzle: %w", err)
	}
	return out, nil
}

// Runner returns the context's runner.
func (c *Context) Runner() *clvm.Runner {
	return c.runner
}

// TreeHash returns the structural hash of n.
func (c *Context) TreeHash(n *clvm.Node) types.Hash {
	return clvm.TreeHash(n)
}

// Spend registers the spend of coin. Each coin may be spent once per
// context.
func (c *Context) Spend(coin types.Coin, s Spend) error {
	id := coin.ID()
	if _, dup := c.spent[id]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateSpend, id)
	}
	c.spent[id] = struct{}{}
	c.spends = append(c.spends, NewCoinSpend(coin, s))
	return nil
}

// Insert appends an already serialized coin spend.
func (c *Context) Insert(cs CoinSpend) error {
	id := cs.Coin.ID()
	if _, dup := c.spent[id]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateSpend, id)
	}
	c.spent[id] = struct{}{}
	c.spends = append(c.spends, cs)
	return nil
}

// Len returns the number of registered spends.
func (c *Context) Len() int {
	return len(c.spends)
}

// Take returns the accumulated spends as an unsigned bundle and resets the
// context.
func (c *Context) Take() *Bundle {
	b := &Bundle{CoinSpends: c.spends}
	c.spends = nil
	c.spent = make(map[types.Hash]struct{})
	return b
}
