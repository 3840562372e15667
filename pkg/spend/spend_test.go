package spend

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

func testCoin(parent byte, amount uint64) types.Coin {
	var p, ph types.Hash
	p[0] = parent
	ph[0] = 0xee
	return types.NewCoin(p, ph, amount)
}

// --- Context ---

func TestContext_SpendTake(t *testing.T) {
	ctx := NewContext(Options{})
	a, b := testCoin(1, 10), testCoin(2, 20)

	if err := ctx.Spend(a, New(clvm.Int(1), nil)); err != nil {
		t.Fatalf("Spend a: %v", err)
	}
	if err := ctx.Spend(b, New(clvm.Int(1), clvm.List(clvm.Int(5)))); err != nil {
		t.Fatalf("Spend b: %v", err)
	}
	if ctx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ctx.Len())
	}

	bundle := ctx.Take()
	if len(bundle.CoinSpends) != 2 {
		t.Fatalf("bundle has %d spends, want 2", len(bundle.CoinSpends))
	}
	if bundle.CoinSpends[0].Coin != a || bundle.CoinSpends[1].Coin != b {
		t.Error("spends should keep registration order")
	}
	if ctx.Len() != 0 {
		t.Error("Take should reset the context")
	}

	// The same coin may be spent again after Take.
	if err := ctx.Spend(a, New(clvm.Int(1), nil)); err != nil {
		t.Errorf("Spend after Take: %v", err)
	}
}

func TestContext_DuplicateSpend(t *testing.T) {
	ctx := NewContext(Options{})
	c := testCoin(1, 10)
	if err := ctx.Spend(c, New(clvm.Int(1), nil)); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Spend(c, New(clvm.Int(1), nil)); !errors.Is(err, ErrDuplicateSpend) {
		t.Errorf("expected ErrDuplicateSpend, got %v", err)
	}
	if err := ctx.Insert(NewCoinSpend(c, New(clvm.Int(1), nil))); !errors.Is(err, ErrDuplicateSpend) {
		t.Errorf("Insert: expected ErrDuplicateSpend, got %v", err)
	}
}

func TestContext_Mod(t *testing.T) {
	ctx := NewContext(Options{ModCacheSize: 2})
	prog := clvm.List(clvm.Int(4), clvm.Int(2), clvm.Int(5))
	data := clvm.Serialize(prog)
	hash := clvm.TreeHash(prog)

	got, err := ctx.Mod(hash, data)
	if err != nil {
		t.Fatalf("Mod: %v", err)
	}
	if !got.Equal(prog) {
		t.Errorf("Mod = %s, want %s", got, prog)
	}
	again, err := ctx.Mod(hash, nil)
	if err != nil || again != got {
		t.Error("second load should hit the cache")
	}

	var wrong types.Hash
	if _, err := ctx.Mod(wrong, data); !errors.Is(err, ErrModHashMismatch) {
		t.Errorf("expected ErrModHashMismatch, got %v", err)
	}
	if _, err := ctx.Mod(types.Hash{1}, []byte{0xff}); !errors.Is(err, clvm.ErrDecode) {
		t.Errorf("expected clvm.ErrDecode, got %v", err)
	}
}

func TestContext_Run(t *testing.T) {
	ctx := NewContext(Options{})
	out, err := ctx.Run(clvm.Int(2), clvm.List(clvm.String("hi")))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Equal(clvm.String("hi")) {
		t.Errorf("Run = %s", out)
	}

	_, err = ctx.Run(clvm.List(clvm.Int(8)), clvm.Nil)
	if !errors.Is(err, clvm.ErrRaise) {
		t.Errorf("expected clvm.ErrRaise, got %v", err)
	}
}

func TestContext_MaxCost(t *testing.T) {
	ctx := NewContext(Options{MaxCost: 50})
	if ctx.Runner().MaxCost != 50 {
		t.Fatalf("MaxCost = %d", ctx.Runner().MaxCost)
	}
	loop := clvm.List(clvm.Int(2), clvm.Int(2), clvm.Int(1))
	if _, err := ctx.Run(loop, clvm.List(loop)); !errors.Is(err, clvm.ErrCostExceeded) {
		t.Errorf("expected ErrCostExceeded, got %v", err)
	}
}

// --- Bundle ---

func TestCoinSpend_Decode(t *testing.T) {
	puzzle := clvm.List(clvm.Int(4), clvm.Int(2), clvm.Int(5))
	solution := clvm.List(clvm.Int(7))
	cs := NewCoinSpend(testCoin(1, 10), New(puzzle, solution))

	p, err := cs.Puzzle()
	if err != nil || !p.Equal(puzzle) {
		t.Errorf("Puzzle() = %v, %v", p, err)
	}
	s, err := cs.SolutionNode()
	if err != nil || !s.Equal(solution) {
		t.Errorf("SolutionNode() = %v, %v", s, err)
	}

	cs.PuzzleReveal = []byte{0xff}
	if _, err := cs.Puzzle(); !errors.Is(err, clvm.ErrDecode) {
		t.Errorf("expected clvm.ErrDecode, got %v", err)
	}
}

func TestBundle_EncodeDecode(t *testing.T) {
	ctx := NewContext(Options{})
	if err := ctx.Spend(testCoin(1, 10), New(clvm.Int(1), clvm.List(clvm.Int(5)))); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Spend(testCoin(2, 0), New(clvm.Int(1), nil)); err != nil {
		t.Fatal(err)
	}
	bundle := ctx.Take()
	bundle.Signatures = [][]byte{bytes.Repeat([]byte{0x5a}, 64)}

	data, err := bundle.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := DecodeBundle(data)
	if err != nil {
		t.Fatalf("DecodeBundle: %v", err)
	}

	if got.ID() != bundle.ID() {
		t.Error("decoded bundle should have the same id")
	}
	if len(got.CoinSpends) != 2 || len(got.Signatures) != 1 {
		t.Fatalf("decoded %d spends, %d signatures", len(got.CoinSpends), len(got.Signatures))
	}
	for i := range bundle.CoinSpends {
		want, have := bundle.CoinSpends[i], got.CoinSpends[i]
		if want.Coin != have.Coin || !bytes.Equal(want.PuzzleReveal, have.PuzzleReveal) || !bytes.Equal(want.Solution, have.Solution) {
			t.Errorf("spend %d mismatch", i)
		}
	}
	if !bytes.Equal(got.Signatures[0], bundle.Signatures[0]) {
		t.Error("signature mismatch")
	}
}

func TestBundle_ID(t *testing.T) {
	ctx := NewContext(Options{})
	_ = ctx.Spend(testCoin(1, 10), New(clvm.Int(1), nil))
	b := ctx.Take()
	unsigned := b.ID()

	b.Signatures = [][]byte{{1, 2, 3}}
	if b.ID() != unsigned {
		t.Error("signatures should not change the bundle id")
	}

	_ = ctx.Spend(testCoin(1, 11), New(clvm.Int(1), nil))
	if ctx.Take().ID() == unsigned {
		t.Error("different spends should have different ids")
	}
}

func TestBundle_Removals(t *testing.T) {
	a, b := testCoin(1, 1), testCoin(2, 2)
	bundle := &Bundle{CoinSpends: []CoinSpend{
		NewCoinSpend(a, New(clvm.Int(1), nil)),
		NewCoinSpend(b, New(clvm.Int(1), nil)),
	}}
	got := bundle.Removals()
	if len(got) != 2 || got[0] != a.ID() || got[1] != b.ID() {
		t.Errorf("Removals() = %v", got)
	}
}
