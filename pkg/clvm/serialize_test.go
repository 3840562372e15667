package clvm

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil", Nil, "80"},
		{"small atom", Atom([]byte{0x05}), "05"},
		{"high byte atom", Atom([]byte{0x80}), "8180"},
		{"list", List(Int(1), Int(2)), "ff01ff0280"},
		{"nested", List(String("hello"), Cons(Int(1), Int(2))), "ff8568656c6c6fffff010280"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hex.EncodeToString(Serialize(tt.node))
			if got != tt.want {
				t.Errorf("Serialize = %s, want %s", got, tt.want)
			}
			back, err := FromHex(tt.want)
			if err != nil {
				t.Fatalf("FromHex: %v", err)
			}
			if !back.Equal(tt.node) {
				t.Errorf("decoded %s, want %s", back, tt.node)
			}
		})
	}
}

func TestSerialize_LongAtoms(t *testing.T) {
	for _, size := range []int{0x3f, 0x40, 0x1fff, 0x2000, 0x10000} {
		atom := bytes.Repeat([]byte{0xaa}, size)
		data := Serialize(Atom(atom))
		back, err := Deserialize(data)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if !bytes.Equal(back.Atom(), atom) {
			t.Errorf("size %d: atom mismatch", size)
		}
	}

	if got := hex.EncodeToString(Serialize(Atom(bytes.Repeat([]byte{0xaa}, 64)))[:3]); got != "c040aa" {
		t.Errorf("64-byte prefix = %s, want c040aa", got)
	}
}

func TestDeserialize_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"truncated pair", "ff01"},
		{"truncated atom", "8501"},
		{"trailing bytes", "8080"},
		{"bad prefix", "fe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromHex(tt.data); !errors.Is(err, ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})
	}

	if _, err := FromHex("zz"); !errors.Is(err, ErrDecode) {
		t.Errorf("invalid hex: expected ErrDecode, got %v", err)
	}
}

func TestDeserialize_LongList(t *testing.T) {
	items := make([]*Node, maxDepth+10)
	for i := range items {
		items[i] = Int(int64(i % 100))
	}
	list := List(items...)
	got, err := Deserialize(Serialize(list))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	n, err := got.Items()
	if err != nil || len(n) != len(items) {
		t.Fatalf("items = %d, err = %v", len(n), err)
	}
	if !n[len(n)-1].Equal(items[len(items)-1]) {
		t.Errorf("last item = %s", n[len(n)-1])
	}
}

func TestDeserialize_DeepNesting(t *testing.T) {
	// ((((...)))) nested through first elements past the limit.
	data := bytes.Repeat([]byte{consBox}, maxDepth+2)
	data = append(data, bytes.Repeat([]byte{nilByte}, maxDepth+3)...)
	if _, err := Deserialize(data); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestFromHex_Prefix(t *testing.T) {
	n, err := FromHex("0xff01ff0280")
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if !n.Equal(List(Int(1), Int(2))) {
		t.Errorf("got %s", n)
	}
}
