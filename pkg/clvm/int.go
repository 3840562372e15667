package clvm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/Klingon-tech/klingnet-dog/pkg/types"
)

// Int creates an atom holding v as a minimal signed big-endian integer.
func Int(v int64) *Node {
	return Atom(encodeBig(big.NewInt(v)))
}

// Uint64 creates an atom holding an unsigned 64-bit value.
func Uint64(v uint64) *Node {
	return Atom(encodeBig(new(big.Int).SetUint64(v)))
}

// Uint256 creates an atom holding an unsigned value, such as a 128-bit
// token amount.
func Uint256(v *uint256.Int) *Node {
	return Atom(encodeBig(v.ToBig()))
}

// Bytes32 creates an atom from a hash.
func Bytes32(h types.Hash) *Node {
	return Atom(h[:])
}

// AsInt64 decodes an atom as a signed 64-bit integer.
func (n *Node) AsInt64() (int64, error) {
	v, err := n.bigInt()
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("%w: %s does not fit int64", ErrDecode, v)
	}
	return v.Int64(), nil
}

// AsUint64 decodes an atom as a non-negative 64-bit integer.
func (n *Node) AsUint64() (uint64, error) {
	v, err := n.bigInt()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s is not a uint64", ErrDecode, v)
	}
	return v.Uint64(), nil
}

// AsUint256 decodes an atom as a non-negative integer below 2^256.
func (n *Node) AsUint256() (uint256.Int, error) {
	v, err := n.bigInt()
	if err != nil {
		return uint256.Int{}, err
	}
	if v.Sign() < 0 {
		return uint256.Int{}, fmt.Errorf("%w: negative value %s", ErrDecode, v)
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return uint256.Int{}, fmt.Errorf("%w: %s exceeds 256 bits", ErrDecode, v)
	}
	return *out, nil
}

// AsHash decodes a 32-byte atom.
func (n *Node) AsHash() (types.Hash, error) {
	if n.IsPair() {
		return types.Hash{}, fmt.Errorf("%w: expected 32-byte atom, got pair", ErrDecode)
	}
	h, ok := types.BytesToHash(n.atom)
	if !ok {
		return types.Hash{}, fmt.Errorf("%w: expected 32-byte atom, got %d bytes", ErrDecode, len(n.atom))
	}
	return h, nil
}

func (n *Node) bigInt() (*big.Int, error) {
	if n.IsPair() {
		return nil, fmt.Errorf("%w: expected integer atom, got pair", ErrDecode)
	}
	return decodeBig(n.atom), nil
}

// decodeBig reads a big-endian two's complement integer.
func decodeBig(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(len(b))*8))
	}
	return v
}

// encodeBig writes the minimal big-endian two's complement form of v.
// Zero encodes as the empty atom.
func encodeBig(v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return nil
	case 1:
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// Negative: add 2^(8k) for the smallest k that keeps the sign bit set.
	n := (v.BitLen() + 8) / 8
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n)*8)
	b := new(big.Int).Add(v, mod).Bytes()
	for len(b) < n {
		b = append([]byte{0xff}, b...)
	}
	for len(b) > 1 && b[0] == 0xff && b[1]&0x80 != 0 {
		b = b[1:]
	}
	return b
}
