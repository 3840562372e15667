// Package clvm implements the program tree used by coin puzzles: atoms and
// pairs, the canonical serialization, structural tree hashing, currying and
// a small evaluator.
package clvm

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// Node is an immutable program tree value. A node is either an atom (a byte
// string, possibly empty) or a pair of two nodes.
type Node struct {
	atom  []byte
	first *Node
	rest  *Node
}

// Nil is the empty atom. It terminates lists and stands for false.
var Nil = &Node{}

// Atom creates an atom node holding a copy of b.
func Atom(b []byte) *Node {
	if len(b) == 0 {
		return Nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return &Node{atom: c}
}

// String creates an atom from the bytes of s.
func String(s string) *Node {
	return Atom([]byte(s))
}

// Cons creates a pair.
func Cons(first, rest *Node) *Node {
	if first == nil {
		first = Nil
	}
	if rest == nil {
		rest = Nil
	}
	return &Node{first: first, rest: rest}
}

// List builds a proper nil-terminated list of items.
func List(items ...*Node) *Node {
	out := Nil
	for i := len(items) - 1; i >= 0; i-- {
		out = Cons(items[i], out)
	}
	return out
}

// Quote wraps n as (q . n); evaluating it yields n unchanged.
func Quote(n *Node) *Node {
	return Cons(opQuote, n)
}

// IsPair reports whether n is a pair.
func (n *Node) IsPair() bool {
	return n.first != nil
}

// IsAtom reports whether n is an atom.
func (n *Node) IsAtom() bool {
	return n.first == nil
}

// IsNil reports whether n is the empty atom.
func (n *Node) IsNil() bool {
	return n.first == nil && len(n.atom) == 0
}

// Atom returns the atom bytes, or nil for pairs. The slice must not be
// modified.
func (n *Node) Atom() []byte {
	return n.atom
}

// First returns the left element of a pair, or nil for atoms.
func (n *Node) First() *Node {
	return n.first
}

// Rest returns the right element of a pair, or nil for atoms.
func (n *Node) Rest() *Node {
	return n.rest
}

// Items returns the elements of a proper list.
func (n *Node) Items() ([]*Node, error) {
	var out []*Node
	cur := n
	for cur.IsPair() {
		out = append(out, cur.first)
		cur = cur.rest
	}
	if !cur.IsNil() {
		return nil, fmt.Errorf("%w: improper list terminator", ErrDecode)
	}
	return out, nil
}

// Equal reports structural equality.
func (n *Node) Equal(o *Node) bool {
	if n.IsPair() != o.IsPair() {
		return false
	}
	if n.IsAtom() {
		return bytes.Equal(n.atom, o.atom)
	}
	return n.first.Equal(o.first) && n.rest.Equal(o.rest)
}

// Hex returns the hex form of the serialized program.
func (n *Node) Hex() string {
	return hex.EncodeToString(Serialize(n))
}

// String renders the node in parenthesised form with atoms as 0x-hex, for
// logs and error messages.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n.IsAtom() {
		if len(n.atom) == 0 {
			sb.WriteString("()")
			return
		}
		sb.WriteString("0x")
		sb.WriteString(hex.EncodeToString(n.atom))
		return
	}
	sb.WriteByte('(')
	n.first.write(sb)
	cur := n.rest
	for cur.IsPair() {
		sb.WriteByte(' ')
		cur.first.write(sb)
		cur = cur.rest
	}
	if !cur.IsNil() {
		sb.WriteString(" . ")
		cur.write(sb)
	}
	sb.WriteByte(')')
}
