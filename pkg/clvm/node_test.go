package clvm

import (
	"errors"
	"testing"
)

func TestNode_Kinds(t *testing.T) {
	if !Nil.IsNil() || !Nil.IsAtom() || Nil.IsPair() {
		t.Error("Nil should be an empty atom")
	}
	if Atom(nil) != Nil {
		t.Error("empty atom should be Nil")
	}
	p := Cons(Int(1), nil)
	if !p.IsPair() || p.IsAtom() {
		t.Error("Cons should produce a pair")
	}
	if !p.Rest().IsNil() {
		t.Error("nil rest should be replaced with Nil")
	}
}

func TestAtom_Copies(t *testing.T) {
	b := []byte{1, 2, 3}
	n := Atom(b)
	b[0] = 9
	if n.Atom()[0] != 1 {
		t.Error("Atom should copy its input")
	}
}

func TestNode_Items(t *testing.T) {
	items, err := List(Int(1), Int(2), Int(3)).Items()
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i, it := range items {
		v, err := it.AsInt64()
		if err != nil || v != int64(i+1) {
			t.Errorf("item %d = %v (%v)", i, v, err)
		}
	}

	if _, err := Cons(Int(1), Int(2)).Items(); !errors.Is(err, ErrDecode) {
		t.Errorf("improper list: expected ErrDecode, got %v", err)
	}

	empty, err := Nil.Items()
	if err != nil || len(empty) != 0 {
		t.Errorf("Nil.Items() = %v, %v", empty, err)
	}
}

func TestNode_Equal(t *testing.T) {
	a := List(Int(1), Cons(String("x"), Nil))
	b := List(Int(1), Cons(String("x"), Nil))
	c := List(Int(1), Cons(String("y"), Nil))
	if !a.Equal(b) {
		t.Error("structurally equal trees should compare equal")
	}
	if a.Equal(c) {
		t.Error("different trees should not compare equal")
	}
	if Nil.Equal(Cons(Nil, Nil)) {
		t.Error("atom should not equal pair")
	}
}

func TestNode_String(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{Nil, "()"},
		{Int(5), "0x05"},
		{List(Int(1), Int(2)), "(0x01 0x02)"},
		{Cons(Int(1), Int(2)), "(0x01 . 0x02)"},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
