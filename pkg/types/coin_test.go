package types

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func repeatHash(b byte) Hash {
	var h Hash
	copy(h[:], bytes.Repeat([]byte{b}, HashSize))
	return h
}

func TestCoin_ID(t *testing.T) {
	parent := repeatHash(0x11)
	puzzleHash := repeatHash(0x22)

	tests := []struct {
		name   string
		amount uint64
		want   string
	}{
		{"zero amount", 0, "5189c77d29fe5d546a045ec46986852785fea5c13ac7da9c115ff5fb6edf817c"},
		{"small amount", 1000, "c3480b359a9a066e963fbca942591839c073d08cf84d882db37209fc5ac9b31c"},
		{"sign padded", 128, "d254c74c04ffcffe39ebc936fddba7a203723dcc083ef3004fc3f70477d6a7d4"},
		{"max uint64", math.MaxUint64, "3ef8011d9bbe0a3e37b7485c6e316a9cd3aac32f213beac9b766aa71b6cb6c0d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCoin(parent, puzzleHash, tt.amount).ID()
			if got.String() != tt.want {
				t.Errorf("ID() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCoin_ID_FieldsMatter(t *testing.T) {
	base := NewCoin(repeatHash(0x01), repeatHash(0x02), 5)
	variants := []Coin{
		NewCoin(repeatHash(0x03), repeatHash(0x02), 5),
		NewCoin(repeatHash(0x01), repeatHash(0x03), 5),
		NewCoin(repeatHash(0x01), repeatHash(0x02), 6),
	}
	for i, v := range variants {
		if v.ID() == base.ID() {
			t.Errorf("variant %d collides with base coin", i)
		}
	}

	// Identical fields collide by construction.
	if NewCoin(repeatHash(0x01), repeatHash(0x02), 5).ID() != base.ID() {
		t.Error("identical coins should share an id")
	}
}

func TestEncodeAmount(t *testing.T) {
	tests := []struct {
		in   uint64
		want []byte
	}{
		{0, nil},
		{1, []byte{0x01}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x00, 0x80}},
		{0x0100, []byte{0x01, 0x00}},
		{math.MaxUint64, []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		got := encodeAmount(tt.in)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("encodeAmount(%d) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

// --- Amount Tests ---

func TestCheckAmount(t *testing.T) {
	if err := CheckAmount(MaxAmount); err != nil {
		t.Errorf("MaxAmount should be valid: %v", err)
	}
	over := new(uint256.Int).AddUint64(MaxAmount, 1)
	if err := CheckAmount(over); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("340282366920938463463374607431768211455")
	if err != nil {
		t.Fatalf("ParseAmount(max): %v", err)
	}
	if !got.Eq(MaxAmount) {
		t.Errorf("got %s, want 2^128-1", FormatAmount(&got))
	}

	if _, err := ParseAmount("340282366920938463463374607431768211456"); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("2^128 should be rejected, got %v", err)
	}
	for _, bad := range []string{"", "-1", "12ab"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Errorf("ParseAmount(%q) should fail", bad)
		}
	}

	small, err := ParseAmount("42")
	if err != nil {
		t.Fatalf("ParseAmount(42): %v", err)
	}
	if FormatAmount(&small) != "42" {
		t.Errorf("FormatAmount = %s, want 42", FormatAmount(&small))
	}
}

// --- Signed arithmetic ---

func TestSignedInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 3000, -3000, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		got, ok := SignedToInt64(SignedFromInt64(v))
		if !ok || got != v {
			t.Errorf("round trip %d = %d, %v", v, got, ok)
		}
	}
}

func TestSignedToInt64_Overflow(t *testing.T) {
	hi := SignedFromInt64(math.MaxInt64)
	hi.Add(hi, uint256.NewInt(1))
	if _, ok := SignedToInt64(hi); ok {
		t.Error("MaxInt64+1 should not narrow")
	}

	small := SignedFromInt64(math.MinInt64)
	small.Sub(small, uint256.NewInt(1))
	if _, ok := SignedToInt64(small); ok {
		t.Error("MinInt64-1 should not narrow")
	}

	if got := FormatSigned(small); got != "-9223372036854775809" {
		t.Errorf("FormatSigned = %s", got)
	}
}

func TestSignedSum(t *testing.T) {
	// 10000 - (-3000) - 7000
	sum := new(uint256.Int).SetUint64(10000)
	sum.Sub(sum, SignedFromInt64(-3000))
	sum.Sub(sum, uint256.NewInt(7000))
	if got, ok := SignedToInt64(sum); !ok || got != 6000 {
		t.Errorf("delta = %d, %v, want 6000", got, ok)
	}
	if FormatSigned(SignedFromInt64(-42)) != "-42" {
		t.Error("FormatSigned(-42)")
	}
}
