package abi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/evoq-ethereum/ethgo/hexutil"
)

// Keccak256 hashes b using go-ethereum/crypto, kept as the single point of
// contact with an external keccak implementation for this whole package.
func Keccak256(b ...[]byte) []byte {
	return crypto.Keccak256(b...)
}

// ID is the keccak256 hash of a signature string, truncated to 4 bytes for
// function selectors or kept whole for event topic0.
func ID(signature string) []byte {
	return Keccak256([]byte(signature))
}

// Selector returns the 4-byte function/error selector for a signature like
// "transfer(address,uint256)".
func Selector(signature string) [4]byte {
	var out [4]byte
	copy(out[:], ID(signature)[:4])
	return out
}

// SelectorHex renders Selector as a 0x-prefixed hex string.
func SelectorHex(signature string) string {
	s := Selector(signature)
	return hexutil.Encode(s[:])
}

// Topic0 returns the full 32-byte keccak256 hash used as an event log's
// first topic.
func Topic0(signature string) [32]byte {
	var out [32]byte
	copy(out[:], ID(signature))
	return out
}

// EncodeIndexedTopic computes the 32-byte topic value for one `indexed`
// event parameter. Dynamic types (string, bytes, dynamic arrays) are hashed
// (keccak256 of their encoding) rather than ABI-encoded directly, since
// only the hash is recoverable from a log — callers must not expect to
// decode an indexed dynamic parameter back to its original value.
func EncodeIndexedTopic(t Type, v interface{}) ([32]byte, error) {
	var out [32]byte
	if !t.IsDynamic() {
		b, err := encodeValue(t, v)
		if err != nil {
			return out, err
		}
		copy(out[:], b)
		return out, nil
	}
	switch t.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return out, fmt.Errorf("string: value %v is not a string", v)
		}
		copy(out[:], Keccak256([]byte(s)))
	case KindBytes:
		b, err := asBytes(v)
		if err != nil {
			return out, err
		}
		copy(out[:], Keccak256(b))
	default:
		enc, err := encodeValue(t, v)
		if err != nil {
			return out, err
		}
		copy(out[:], Keccak256(enc))
	}
	return out, nil
}
