package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// ErrAmountTooLarge is returned for declared amounts above MaxAmount.
var ErrAmountTooLarge = errors.New("amount exceeds 128 bits")

// MaxAmount is the largest declared token amount, 2^128 - 1.
var MaxAmount = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 128), 1)

// CheckAmount verifies that a declared amount fits in 128 bits.
func CheckAmount(a *uint256.Int) error {
	if a.Gt(MaxAmount) {
		return fmt.Errorf("%w: %s", ErrAmountTooLarge, a.ToBig())
	}
	return nil
}

// ParseAmount parses a base-10 amount string.
func ParseAmount(s string) (uint256.Int, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok || b.Sign() < 0 {
		return uint256.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return uint256.Int{}, fmt.Errorf("%w: %s", ErrAmountTooLarge, s)
	}
	if err := CheckAmount(v); err != nil {
		return uint256.Int{}, err
	}
	return *v, nil
}

// FormatAmount renders an amount in base 10.
func FormatAmount(a *uint256.Int) string {
	return a.ToBig().String()
}

// Signed amounts are held as 256-bit two's complement values so that sums
// of 128-bit amounts and 64-bit deltas never wrap before they are narrowed.

// SignedFromInt64 sign-extends v.
func SignedFromInt64(v int64) *uint256.Int {
	if v >= 0 {
		return uint256.NewInt(uint64(v))
	}
	out := uint256.NewInt(uint64(-v)) // -MinInt64 wraps to its own magnitude
	return out.Neg(out)
}

// SignedToInt64 narrows a two's complement value. ok is false when v is
// outside the int64 range.
func SignedToInt64(v *uint256.Int) (int64, bool) {
	if v.Sign() >= 0 {
		if !v.IsUint64() || v.Uint64() > 1<<63-1 {
			return 0, false
		}
		return int64(v.Uint64()), true
	}
	mag := new(uint256.Int).Neg(v)
	if !mag.IsUint64() || mag.Uint64() > 1<<63 {
		return 0, false
	}
	return -int64(mag.Uint64()), true
}

// FormatSigned renders a two's complement value in base 10.
func FormatSigned(v *uint256.Int) string {
	if v.Sign() >= 0 {
		return v.ToBig().String()
	}
	return "-" + new(uint256.Int).Neg(v).ToBig().String()
}
