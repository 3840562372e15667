package clvm

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	consBox  = 0xff
	nilByte  = 0x80
	maxAtom  = 0x400000000
	maxDepth = 1 << 16
)

// Serialize encodes a program in the canonical prefix form: 0xff introduces a
// pair, 0x80 is nil, bytes up to 0x7f stand for themselves and longer atoms
// carry a length prefix.
func Serialize(n *Node) []byte {
	var buf []byte
	return appendNode(buf, n)
}

func appendNode(buf []byte, n *Node) []byte {
	for n.IsPair() {
		buf = append(buf, consBox)
		buf = appendNode(buf, n.first)
		n = n.rest
	}
	return appendAtom(buf, n.atom)
}

func appendAtom(buf, atom []byte) []byte {
	size := len(atom)
	switch {
	case size == 0:
		return append(buf, nilByte)
	case size == 1 && atom[0] <= 0x7f:
		return append(buf, atom[0])
	case size < 0x40:
		buf = append(buf, 0x80|byte(size))
	case size < 0x2000:
		buf = append(buf, 0xc0|byte(size>>8), byte(size))
	case size < 0x100000:
		buf = append(buf, 0xe0|byte(size>>16), byte(size>>8), byte(size))
	case size < 0x8000000:
		buf = append(buf, 0xf0|byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	default:
		buf = append(buf, 0xf8|byte(size>>32), byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	}
	return append(buf, atom...)
}

// Deserialize decodes a single program and rejects trailing bytes.
func Deserialize(data []byte) (*Node, error) {
	n, rest, err := decodeNode(data, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrDecode, len(rest))
	}
	return n, nil
}

// FromHex decodes a hex-encoded serialized program. An optional "0x" prefix
// is accepted.
func FromHex(s string) (*Node, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Deserialize(b)
}

// MustFromHex is FromHex for compile-time constants. It panics on error.
func MustFromHex(s string) *Node {
	n, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return n
}

func decodeNode(data []byte, depth int) (*Node, []byte, error) {
	if depth > maxDepth {
		return nil, nil, fmt.Errorf("%w: nesting too deep", ErrDecode)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: unexpected end of input", ErrDecode)
	}
	b := data[0]
	if b == consBox {
		// Walk the right spine iteratively; only first elements nest.
		var firsts []*Node
		for len(data) > 0 && data[0] == consBox {
			first, rest, err := decodeNode(data[1:], depth+1)
			if err != nil {
				return nil, nil, err
			}
			firsts = append(firsts, first)
			data = rest
		}
		n, rest, err := decodeNode(data, depth)
		if err != nil {
			return nil, nil, err
		}
		for i := len(firsts) - 1; i >= 0; i-- {
			n = Cons(firsts[i], n)
		}
		return n, rest, nil
	}
	if b == nilByte {
		return Nil, data[1:], nil
	}
	if b <= 0x7f {
		return Atom(data[:1]), data[1:], nil
	}

	// Count the leading one bits to find the prefix width.
	width := 0
	for mask := byte(0x80); mask != 0 && b&mask != 0; mask >>= 1 {
		width++
	}
	if width > 5 {
		return nil, nil, fmt.Errorf("%w: bad atom prefix 0x%02x", ErrDecode, b)
	}
	if len(data) < width {
		return nil, nil, fmt.Errorf("%w: truncated atom prefix", ErrDecode)
	}
	size := uint64(b & (0xff >> (width + 1)))
	for i := 1; i < width; i++ {
		size = size<<8 | uint64(data[i])
	}
	if size >= maxAtom {
		return nil, nil, fmt.Errorf("%w: atom too large", ErrDecode)
	}
	data = data[width:]
	if uint64(len(data)) < size {
		return nil, nil, fmt.Errorf("%w: truncated atom", ErrDecode)
	}
	return Atom(data[:size]), data[size:], nil
}
