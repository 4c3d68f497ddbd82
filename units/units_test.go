package units

import (
	"math/big"
	"strings"
	"testing"

	"github.com/evoq-ethereum/ethgo/abi"
)

func TestParseUnitsWholeAndFraction(t *testing.T) {
	got, err := ParseUnits("1.5", 18)
	if err != nil {
		t.Fatalf("ParseUnits: %v", err)
	}
	want, _ := new(big.Int).SetString("1500000000000000000", 10)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseUnitsRejectsTooManyDecimals(t *testing.T) {
	if _, err := ParseUnits("1.1234567890123456789", 18); err == nil {
		t.Fatal("expected an error for excess fractional digits")
	}
}

func TestFormatUnitsRoundTrip(t *testing.T) {
	amount, _ := ParseUnits("42.05", 18)
	if got := FormatUnits(amount, 18); got != "42.05" {
		t.Fatalf("FormatUnits = %q, want 42.05", got)
	}
}

func TestFormatUnitsTrimsTrailingZeros(t *testing.T) {
	amount := big.NewInt(1000000000000000000)
	if got := FormatUnits(amount, 18); got != "1" {
		t.Fatalf("FormatUnits = %q, want 1", got)
	}
}

func TestIsAddress(t *testing.T) {
	if !IsAddress("0x0000000000000000000000000000000000000001") {
		t.Fatal("expected a valid address")
	}
	if IsAddress("0x123") {
		t.Fatal("expected an invalid address")
	}
}

func TestToChecksumAddressRoundTrips(t *testing.T) {
	addr, err := abi.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA00")
	if err != nil {
		t.Fatalf("HexToAddress: %v", err)
	}
	checksummed := ToChecksumAddress(addr)
	if !ValidateChecksumAddress(checksummed) {
		t.Fatalf("self-produced checksum %q failed validation", checksummed)
	}
	if !ValidateChecksumAddress(strings.ToLower(checksummed)) {
		t.Fatal("all-lowercase form should still validate")
	}
}

func TestValidateChecksumAddressRejectsBadCasing(t *testing.T) {
	addr, _ := abi.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA00")
	checksummed := ToChecksumAddress(addr)
	// Flip the case of every letter to produce a guaranteed-wrong casing
	// when the checksummed form contains at least one letter.
	flipped := []byte(checksummed)
	changed := false
	for i, c := range flipped {
		if c >= 'a' && c <= 'f' {
			flipped[i] = c - 'a' + 'A'
			changed = true
		} else if c >= 'A' && c <= 'F' {
			flipped[i] = c - 'A' + 'a'
			changed = true
		}
	}
	if !changed {
		t.Skip("fixture address has no alphabetic hex digits to flip")
	}
	if ValidateChecksumAddress(string(flipped)) {
		t.Fatal("expected a case-flipped checksum to fail validation")
	}
}

func TestIDMatchesAbi(t *testing.T) {
	got := ID("transfer(address,uint256)")
	want := abi.ID("transfer(address,uint256)")
	if string(got) != string(want) {
		t.Fatal("units.ID diverges from abi.ID")
	}
}
