package abi

import (
	"fmt"
	"strings"

	"github.com/evoq-ethereum/ethgo/hexutil"
)

// Address is a 20-byte Ethereum account/contract address.
type Address [20]byte

// Hex renders the address lowercase 0x-prefixed, without EIP-55 checksum
// casing (checksum formatting lives in the units package).
func (a Address) Hex() string { return hexutil.Encode(a[:]) }

func (a Address) String() string { return a.Hex() }

// HexToAddress parses a 0x-prefixed (or bare) 40-hex-digit address.
func HexToAddress(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) > 20 {
		return Address{}, fmt.Errorf("abi: address %q longer than 20 bytes", s)
	}
	var a Address
	copy(a[20-len(b):], b)
	return a, nil
}

// Tuple is the decoded result of a KindTuple value: an ordered value list
// with name-based lookup for components that have a non-empty ABI name.
type Tuple struct {
	Type   Type
	Values []interface{}
}

// At returns the i'th positional component value.
func (t Tuple) At(i int) interface{} { return t.Values[i] }

// Len is the number of components.
func (t Tuple) Len() int { return len(t.Values) }

// Get looks up a component by its declared name. ok is false if no
// component carries that name (anonymous or not present).
func (t Tuple) Get(name string) (interface{}, bool) {
	for i, c := range t.Type.Components {
		if c.Name == name {
			return t.Values[i], true
		}
	}
	return nil, false
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Values))
	for i, v := range t.Values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
