// Package rlp implements the Recursive Length Prefix encoding used to frame
// Ethereum transactions: a byte-oriented codec for strings and nested lists.
// This package only encodes — decoding is out of scope.
package rlp

import (
	"math/big"

	"github.com/evoq-ethereum/ethgo/hexutil"
)

// Item is anything this package can encode: either a byte string or a List.
type Item interface {
	encode() []byte
}

// Bytes is an RLP byte string.
type Bytes []byte

func (b Bytes) encode() []byte { return encodeBytes(b) }

// List is an ordered sequence of RLP items.
type List []Item

func (l List) encode() []byte {
	var body []byte
	for _, item := range l {
		body = append(body, item.encode()...)
	}
	return wrapList(body)
}

// Encode serializes a single item to its canonical RLP form.
func Encode(item Item) []byte {
	return item.encode()
}

// String wraps a Go string as an RLP byte string (UTF-8 bytes, no
// normalization).
func String(s string) Bytes { return Bytes(s) }

// Uint wraps a non-negative integer as an RLP byte string: leading zero
// bytes are stripped, and zero itself encodes as the empty string.
func Uint(n *big.Int) Bytes {
	if n == nil || n.Sign() == 0 {
		return Bytes{}
	}
	return Bytes(n.Bytes())
}

// Uint64 wraps a uint64 the same way Uint does.
func Uint64(n uint64) Bytes {
	if n == 0 {
		return Bytes{}
	}
	return Bytes(hexutil.MinimalBytes(big.NewInt(0).SetUint64(n).Bytes()))
}

// encodeBytes applies RLP's string-encoding rules: a single byte below
// 0x80 encodes as itself, a short string gets a one-byte length prefix, a
// long string gets a length-of-length prefix.
func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	if len(b) < 56 {
		out := make([]byte, 0, 1+len(b))
		out = append(out, 0x80+byte(len(b)))
		return append(out, b...)
	}
	lenBytes := minimalBigEndian(len(b))
	out := make([]byte, 0, 1+len(lenBytes)+len(b))
	out = append(out, 0xB7+byte(len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, b...)
}

// wrapList applies RLP's list-encoding rules to a pre-encoded body: the
// same short/long length-prefix scheme as encodeBytes, offset into the
// 0xC0 range to mark it as a list instead of a string.
func wrapList(body []byte) []byte {
	if len(body) < 56 {
		out := make([]byte, 0, 1+len(body))
		out = append(out, 0xC0+byte(len(body)))
		return append(out, body...)
	}
	lenBytes := minimalBigEndian(len(body))
	out := make([]byte, 0, 1+len(lenBytes)+len(body))
	out = append(out, 0xF7+byte(len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, body...)
}

func minimalBigEndian(n int) []byte {
	if n == 0 {
		return nil
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte(n & 0xff)}, b...)
		n >>= 8
	}
	return b
}
