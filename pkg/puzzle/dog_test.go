package puzzle

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

type nestedDog = DogLayer[RawDogLayer, DogSolution[*clvm.Node]]

func parseNestedDog(prog *clvm.Node) (nestedDog, bool, error) {
	return ParseDogLayer[RawDogLayer, DogSolution[*clvm.Node]](prog, ParseRawDogLayer)
}

// --- Puzzle round trip ---

func TestDogLayer_RoundTrip(t *testing.T) {
	ctx := newCtx()
	inner := clvm.List(clvm.Int(1), clvm.Int(2), clvm.Int(3))
	layer := RawDogLayer{
		Amount:  *uint256.NewInt(1000),
		AssetID: types.AssetID(fill(0x11)),
		Inner:   NewRawLayer(inner),
	}

	prog, err := layer.ConstructPuzzle(ctx)
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}
	parsed, ok, err := ParseRawDogLayer(prog)
	if err != nil || !ok {
		t.Fatalf("ParseRawDogLayer: ok=%v err=%v", ok, err)
	}
	if parsed.Amount.Uint64() != 1000 {
		t.Errorf("amount = %s, want 1000", types.FormatAmount(&parsed.Amount))
	}
	if parsed.AssetID != layer.AssetID {
		t.Error("asset id mismatch")
	}
	if !parsed.Inner.Program.Equal(inner) {
		t.Error("inner program mismatch")
	}
	if parsed.TreeHash() != clvm.TreeHash(prog) {
		t.Error("parsed TreeHash should match the program")
	}
}

func TestDogLayer_Nested(t *testing.T) {
	ctx := newCtx()
	innerDog := RawDogLayer{
		Amount:  *uint256.NewInt(7),
		AssetID: types.AssetID(fill(0x01)),
		Inner:   NewRawLayer(clvm.Int(1)),
	}
	outer := nestedDog{
		Amount:  *uint256.NewInt(9),
		AssetID: types.AssetID(fill(0x02)),
		Inner:   innerDog,
	}

	prog, err := outer.ConstructPuzzle(ctx)
	if err != nil {
		t.Fatalf("ConstructPuzzle: %v", err)
	}
	if outer.TreeHash() != clvm.TreeHash(prog) {
		t.Error("nested TreeHash should match the program")
	}

	parsed, ok, err := parseNestedDog(prog)
	if err != nil || !ok {
		t.Fatalf("parse nested: ok=%v err=%v", ok, err)
	}
	if parsed.AssetID != outer.AssetID || parsed.Inner.AssetID != innerDog.AssetID {
		t.Error("asset ids mismatch")
	}
	if parsed.Amount.Uint64() != 9 || parsed.Inner.Amount.Uint64() != 7 {
		t.Error("amounts mismatch")
	}
	if !parsed.Inner.Inner.Program.Equal(clvm.Int(1)) {
		t.Error("innermost program mismatch")
	}

	// A single DOG over a raw program is not a nested DOG.
	single, err := innerDog.ConstructPuzzle(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := parseNestedDog(single); ok || err != nil {
		t.Errorf("single dog as nested: ok=%v err=%v", ok, err)
	}
}

func TestDogTreeHash_MatchesConstruction(t *testing.T) {
	ctx := newCtx()
	inner := clvm.List(clvm.Int(1))
	amounts := []struct {
		name string
		v    uint256.Int
	}{
		{"zero", *uint256.NewInt(0)},
		{"one", *uint256.NewInt(1)},
		{"high bit byte", *uint256.NewInt(0x80)},
		{"max u64", *new(uint256.Int).SetUint64(^uint64(0))},
		{"max 127 bit", maxAmount127()},
	}

	for _, a := range amounts {
		t.Run(a.name, func(t *testing.T) {
			layer := RawDogLayer{Amount: a.v, AssetID: types.AssetID(fill(0xab)), Inner: NewRawLayer(inner)}
			prog, err := layer.ConstructPuzzle(ctx)
			if err != nil {
				t.Fatal(err)
			}
			want := clvm.TreeHash(prog)
			if got := DogTreeHash(&a.v, layer.AssetID, clvm.TreeHash(inner)); got != want {
				t.Errorf("DogTreeHash = %s, want %s", got, want)
			}
			parsed, ok, err := ParseRawDogLayer(prog)
			if err != nil || !ok {
				t.Fatalf("parse: ok=%v err=%v", ok, err)
			}
			if !parsed.Amount.Eq(&a.v) {
				t.Errorf("amount = %s, want %s", types.FormatAmount(&parsed.Amount), types.FormatAmount(&a.v))
			}
		})
	}
}

// --- Recognition ---

func TestParseDogLayer_NotRecognized(t *testing.T) {
	ctx := newCtx()
	owner := NewOwnerLayer(testKey(t, "k").PublicKey())
	ownerProg, err := owner.ConstructPuzzle(ctx)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		prog *clvm.Node
	}{
		{"atom", clvm.Int(1)},
		{"nil", clvm.Nil},
		{"plain list", clvm.List(clvm.Int(1), clvm.Int(2))},
		{"owner puzzle", ownerProg},
		{"other mod curried", clvm.Curry(clvm.Int(1), clvm.Int(2), clvm.Int(3), clvm.Int(4), clvm.Int(5))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ParseRawDogLayer(tt.prog)
			if ok || err != nil {
				t.Errorf("ok=%v err=%v, want not recognized", ok, err)
			}
		})
	}
}

func TestParseDogLayer_InnerNotRecognized(t *testing.T) {
	ctx := newCtx()
	layer := RawDogLayer{Amount: *uint256.NewInt(1), AssetID: types.AssetID(fill(3)), Inner: NewRawLayer(clvm.Int(1))}
	prog, err := layer.ConstructPuzzle(ctx)
	if err != nil {
		t.Fatal(err)
	}
	_, ok, err := ParseDogLayer[OwnerLayer, OwnerSolution](prog, ParseOwnerLayer)
	if ok || err != nil {
		t.Errorf("ok=%v err=%v, want not recognized", ok, err)
	}
}

func TestParseDogLayer_Errors(t *testing.T) {
	ctx := newCtx()
	mod, err := ctx.Mod(DogPuzzleHash, DogPuzzle)
	if err != nil {
		t.Fatal(err)
	}
	asset := clvm.Bytes32(fill(0x10))
	inner := clvm.Int(1)
	tooBig := new(uint256.Int).Lsh(uint256.NewInt(1), 200)

	tests := []struct {
		name string
		prog *clvm.Node
		want error
	}{
		{"wrong mod hash", clvm.Curry(mod, clvm.Bytes32(fill(0xee)), clvm.Int(5), asset, inner), ErrInvalidModHash},
		{"short mod hash", clvm.Curry(mod, clvm.Int(5), clvm.Int(5), asset, inner), ErrInvalidArgs},
		{"negative amount", clvm.Curry(mod, clvm.Bytes32(DogPuzzleHash), clvm.Int(-5), asset, inner), ErrInvalidArgs},
		{"amount too large", clvm.Curry(mod, clvm.Bytes32(DogPuzzleHash), clvm.Uint256(tooBig), asset, inner), ErrInvalidArgs},
		{"short asset id", clvm.Curry(mod, clvm.Bytes32(DogPuzzleHash), clvm.Int(5), clvm.Int(7), inner), ErrInvalidArgs},
		{"three args", clvm.Curry(mod, clvm.Bytes32(DogPuzzleHash), clvm.Int(5), asset), ErrInvalidArgs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := ParseRawDogLayer(tt.prog)
			if ok {
				t.Fatal("expected failure")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// --- Solutions ---

func TestDogSolution_RoundTrip(t *testing.T) {
	ctx := newCtx()
	layer := RawDogLayer{Amount: *uint256.NewInt(50), AssetID: types.AssetID(fill(9)), Inner: NewRawLayer(clvm.Int(1))}
	lp := &types.LineageProof{ParentParentCoinInfo: fill(1), ParentInnerPuzzleHash: fill(2), ParentAmount: 50}

	sols := []struct {
		name string
		sol  DogSolution[*clvm.Node]
	}{
		{"eve", DogSolution[*clvm.Node]{
			InnerSolution: clvm.List(clvm.Int(4)),
			PrevCoinID:    fill(3),
			ThisCoinInfo:  types.Coin{ParentID: fill(4), PuzzleHash: fill(5), Amount: 0},
			NextCoinProof: types.CoinProof{ParentCoinInfo: fill(4), InnerPuzzleHash: fill(6), Amount: 0},
			PrevSubtotal:  0,
			ExtraDelta:    0,
		}},
		{"with lineage", DogSolution[*clvm.Node]{
			InnerSolution: clvm.List(clvm.String("x")),
			LineageProof:  lp,
			PrevCoinID:    fill(7),
			ThisCoinInfo:  types.Coin{ParentID: fill(8), PuzzleHash: fill(5), Amount: 50},
			NextCoinProof: types.CoinProof{ParentCoinInfo: fill(10), InnerPuzzleHash: fill(11), Amount: 300},
			PrevSubtotal:  -250,
			ExtraDelta:    -3000,
		}},
	}

	for _, tt := range sols {
		t.Run(tt.name, func(t *testing.T) {
			n, err := layer.ConstructSolution(ctx, tt.sol)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ParseRawDogSolution(n)
			if err != nil {
				t.Fatalf("ParseRawDogSolution: %v", err)
			}
			if !got.InnerSolution.Equal(tt.sol.InnerSolution) {
				t.Error("inner solution mismatch")
			}
			if (got.LineageProof == nil) != (tt.sol.LineageProof == nil) {
				t.Fatal("lineage presence mismatch")
			}
			if got.LineageProof != nil && *got.LineageProof != *tt.sol.LineageProof {
				t.Error("lineage proof mismatch")
			}
			if got.PrevCoinID != tt.sol.PrevCoinID || got.ThisCoinInfo != tt.sol.ThisCoinInfo ||
				got.NextCoinProof != tt.sol.NextCoinProof {
				t.Error("ring linkage mismatch")
			}
			if got.PrevSubtotal != tt.sol.PrevSubtotal || got.ExtraDelta != tt.sol.ExtraDelta {
				t.Errorf("subtotal/delta = %d/%d", got.PrevSubtotal, got.ExtraDelta)
			}
		})
	}
}

func TestParseDogSolution_Invalid(t *testing.T) {
	triple := clvm.List(clvm.Bytes32(fill(1)), clvm.Bytes32(fill(2)), clvm.Int(3))
	tests := []struct {
		name string
		sol  *clvm.Node
	}{
		{"atom", clvm.Int(1)},
		{"six items", clvm.List(clvm.Nil, clvm.Nil, clvm.Bytes32(fill(1)), triple, triple, clvm.Int(0))},
		{"short prev id", clvm.List(clvm.Nil, clvm.Nil, clvm.Int(1), triple, triple, clvm.Int(0), clvm.Int(0))},
		{"bad coin", clvm.List(clvm.Nil, clvm.Nil, clvm.Bytes32(fill(1)), clvm.Int(1), triple, clvm.Int(0), clvm.Int(0))},
		{"bad lineage", clvm.List(clvm.Nil, clvm.List(clvm.Int(1)), clvm.Bytes32(fill(1)), triple, triple, clvm.Int(0), clvm.Int(0))},
		{"pair subtotal", clvm.List(clvm.Nil, clvm.Nil, clvm.Bytes32(fill(1)), triple, triple, triple, clvm.Int(0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRawDogSolution(tt.sol); !errors.Is(err, ErrInvalidSolution) {
				t.Errorf("err = %v, want ErrInvalidSolution", err)
			}
		})
	}
}
