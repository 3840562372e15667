package clvm

import (
	"bytes"
	"testing"

	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

func mustHash(t *testing.T, s string) types.Hash {
	t.Helper()
	h, err := types.HexToHash(s)
	if err != nil {
		t.Fatalf("bad hash %q: %v", s, err)
	}
	return h
}

func TestTreeHash(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil", Nil, "4bf5122f344554c53bde2ebb8cd2b7e3d1600ad631c385a5d7cce23c7785459a"},
		{"list", List(Int(1), Int(2)), "47b84b887e3aa3adaabc104120d0c2d617b5e0c8d569932b5292a8ec359d0c28"},
		{
			"conditions",
			List(
				List(Int(51), Atom(bytes.Repeat([]byte{0xaa}, 32)), Int(5)),
				List(Int(1), String("hi")),
			),
			"42ce6c51c3b54e045198f6c7b8273f5e18a8b50080c61fa2b549d0150a3b92c4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TreeHash(tt.node); got != mustHash(t, tt.want) {
				t.Errorf("TreeHash = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHashPair_MatchesTreeHash(t *testing.T) {
	l, r := String("left"), String("right")
	if HashPair(TreeHash(l), TreeHash(r)) != TreeHash(Cons(l, r)) {
		t.Error("HashPair should compose atom hashes like TreeHash")
	}
}

// --- Curry ---

func TestCurry(t *testing.T) {
	arg := Atom(bytes.Repeat([]byte{0x11}, 32))
	prog := Curry(Int(1), arg, Int(5))

	want := "ff02ffff0101ffff04ffff01a01111111111111111111111111111111111111111111111111111111111111111ffff04ffff0105ff01808080"
	if prog.Hex() != want {
		t.Errorf("Curry = %s, want %s", prog.Hex(), want)
	}
	if got := TreeHash(prog); got != mustHash(t, "f26b7137d0ee4290ace04d24bfd9e4e82b50a9ec072b5d5bf49da39f1cc6ea6c") {
		t.Errorf("TreeHash(Curry) = %s", got)
	}
}

func TestCurryTreeHash_MatchesTreeHash(t *testing.T) {
	mod := List(Int(4), Int(2), Int(5))
	tests := [][]*Node{
		nil,
		{Nil},
		{Int(7)},
		{Atom(bytes.Repeat([]byte{0x22}, 32)), Int(-3000), List(Int(1), Int(2))},
	}

	for i, args := range tests {
		hashes := make([]types.Hash, len(args))
		for j, a := range args {
			hashes[j] = TreeHash(a)
		}
		got := CurryTreeHash(TreeHash(mod), hashes...)
		want := TreeHash(Curry(mod, args...))
		if got != want {
			t.Errorf("case %d: CurryTreeHash = %s, want %s", i, got, want)
		}
	}
}

func TestUncurry(t *testing.T) {
	mod := List(Int(4), Int(2), Int(5))
	args := []*Node{Int(1), List(String("a"), String("b")), Nil}

	gotMod, gotArgs, ok := Uncurry(Curry(mod, args...))
	if !ok {
		t.Fatal("Uncurry should recognize a curried program")
	}
	if !gotMod.Equal(mod) {
		t.Errorf("mod = %s, want %s", gotMod, mod)
	}
	if len(gotArgs) != len(args) {
		t.Fatalf("got %d args, want %d", len(gotArgs), len(args))
	}
	for i := range args {
		if !gotArgs[i].Equal(args[i]) {
			t.Errorf("arg %d = %s, want %s", i, gotArgs[i], args[i])
		}
	}

	// A curried program with no arguments still uncurries.
	if _, none, ok := Uncurry(Curry(mod)); !ok || len(none) != 0 {
		t.Errorf("zero-arg curry: ok=%v args=%d", ok, len(none))
	}
}

func TestUncurry_NotCurried(t *testing.T) {
	tests := []struct {
		name string
		prog *Node
	}{
		{"atom", Int(1)},
		{"nil", Nil},
		{"wrong operator", List(Int(3), Quote(Int(1)), Int(1))},
		{"unquoted mod", List(Int(2), Int(1), Int(1))},
		{"bad env terminator", List(Int(2), Quote(Int(1)), Int(2))},
		{"env not cons", List(Int(2), Quote(Int(1)), List(Int(5), Quote(Int(1)), Int(1)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok := Uncurry(tt.prog); ok {
				t.Error("expected ok=false")
			}
		})
	}
}
