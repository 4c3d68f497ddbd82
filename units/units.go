// Package units provides the small set of free-function helpers a caller
// reaches for alongside the typed abi/hexutil/rpc packages: decimal-aware
// integer conversion for token amounts, EIP-55 checksum addresses, and the
// keccak-based Keccak256/ID helpers re-exported at package level so callers
// don't need to import abi just to hash a signature string.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/hexutil"
)

// Ether is the canonical 18-decimal unit most ERC-20 tokens and all native
// value transfers use.
const Ether = 18

// ParseUnits converts a decimal string amount (e.g. "1.5") into its
// smallest-unit integer representation at the given number of decimals
// (e.g. ParseUnits("1.5", 18) == 1500000000000000000).
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("units: negative decimals %d", decimals)
	}
	neg := false
	amount = strings.TrimSpace(amount)
	if strings.HasPrefix(amount, "-") {
		neg = true
		amount = amount[1:]
	}
	whole, frac, hasFrac := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("units: %q has more than %d fractional digits", amount, decimals)
	}
	if hasFrac {
		frac += strings.Repeat("0", decimals-len(frac))
	} else {
		frac = strings.Repeat("0", decimals)
	}

	combined, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("units: invalid decimal amount %q", amount)
	}
	if neg {
		combined.Neg(combined)
	}
	return combined, nil
}

// FormatUnits renders an integer smallest-unit amount back to a decimal
// string at the given number of decimals, trimming trailing fractional
// zeros (but always keeping at least one digit before the point).
func FormatUnits(amount *big.Int, decimals int) string {
	if decimals <= 0 {
		return amount.String()
	}
	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, rem := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	fracStr := rem.String()
	if pad := decimals - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")

	out := whole.String()
	if fracStr != "" {
		out += "." + fracStr
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out
}

// IsAddress reports whether s is a syntactically valid Ethereum address:
// 0x-prefixed (optionally) and exactly 40 hex digits.
func IsAddress(s string) bool {
	stripped := hexutil.Strip0x(s)
	return len(stripped) == 40 && hexutil.Valid(stripped)
}

// ToChecksumAddress renders addr per EIP-55: each hex digit is uppercased
// if the corresponding nibble of keccak256(lowercase hex address) is >= 8.
func ToChecksumAddress(addr abi.Address) string {
	lower := fmt.Sprintf("%040x", addr[:])
	hash := abi.Keccak256([]byte(lower))

	out := make([]byte, 40)
	for i := 0; i < 40; i++ {
		c := lower[i]
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			out[i] = c - 'a' + 'A'
		} else {
			out[i] = c
		}
	}
	return "0x" + string(out)
}

// ValidateChecksumAddress reports whether s is both a syntactically valid
// address and correctly EIP-55 checksummed (an all-lowercase or all-
// uppercase input always passes, since those opt out of checksumming).
func ValidateChecksumAddress(s string) bool {
	if !IsAddress(s) {
		return false
	}
	body := hexutil.Strip0x(s)
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	addr, err := abi.HexToAddress(s)
	if err != nil {
		return false
	}
	return ToChecksumAddress(addr) == hexutil.Add0x(body)
}

// Keccak256 re-exports abi.Keccak256 so callers needn't import abi just to
// hash arbitrary bytes.
func Keccak256(data ...[]byte) []byte { return abi.Keccak256(data...) }

// ID re-exports abi.ID: the keccak256 hash of a signature string.
func ID(signature string) []byte { return abi.ID(signature) }
