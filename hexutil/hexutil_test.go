package hexutil

import (
	"math/big"
	"testing"
)

func TestDecodeOddLength(t *testing.T) {
	got, err := Decode("0x1")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []byte{0x01}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Decode(0x1) = %x, want %x", got, want)
	}
}

func TestEncodeBigZero(t *testing.T) {
	s, err := EncodeBig(big.NewInt(0))
	if err != nil {
		t.Fatalf("EncodeBig: %v", err)
	}
	if s != "0x0" {
		t.Errorf("EncodeBig(0) = %q, want 0x0", s)
	}
}

func TestEncodeBigRejectsNegative(t *testing.T) {
	if _, err := EncodeBig(big.NewInt(-1)); err == nil {
		t.Error("EncodeBig(-1) should have failed")
	}
}

func TestBigRoundtrip(t *testing.T) {
	vals := []int64{0, 1, 255, 256, 1000000000000000000}
	for _, v := range vals {
		n := big.NewInt(v)
		s, err := EncodeBig(n)
		if err != nil {
			t.Fatalf("EncodeBig(%d): %v", v, err)
		}
		back, err := DecodeBig(s)
		if err != nil {
			t.Fatalf("DecodeBig(%s): %v", s, err)
		}
		if back.Cmp(n) != 0 {
			t.Errorf("roundtrip(%d) = %s, want %d", v, back, v)
		}
	}
}

func TestMinimalBytes(t *testing.T) {
	got := MinimalBytes([]byte{0x00, 0x00, 0x01, 0x02})
	if len(got) != 2 || got[0] != 0x01 || got[1] != 0x02 {
		t.Errorf("MinimalBytes = %x", got)
	}
	if len(MinimalBytes([]byte{0, 0, 0})) != 0 {
		t.Errorf("MinimalBytes(all zero) should be empty")
	}
}

func TestStrip0xAdd0x(t *testing.T) {
	if Strip0x("0xabcd") != "abcd" {
		t.Error("Strip0x failed")
	}
	if Add0x("abcd") != "0xabcd" {
		t.Error("Add0x failed")
	}
	if Add0x("0xabcd") != "0xabcd" {
		t.Error("Add0x should be idempotent")
	}
}
