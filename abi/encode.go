package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/evoq-ethereum/ethgo/hexutil"
)

const wordBits = uint(256)

// EncodeArguments ABI-encodes an ordered value list against its declared
// types, applying the head/tail layout as if the whole list were one
// unnamed tuple. This is the core routine every encode-side
// operation (function calldata, event non-indexed data, error data, deploy
// args) reduces to.
func EncodeArguments(types []Type, values []interface{}) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("abi: %d types but %d values", len(types), len(values))
	}
	return encodeTuple(types, values)
}

// encodeTuple implements the generic head/tail scheme: it is used for the
// top-level argument list, for nested tuples, and for fixed/dynamic arrays
// (by repeating the element type). Static-only inputs fall out of the same
// code path as a pure concatenation, since no tail bytes are ever produced.
func encodeTuple(types []Type, values []interface{}) ([]byte, error) {
	heads := make([][]byte, len(types))
	tails := make([][]byte, len(types))

	headSize := 0
	for _, t := range types {
		if t.IsDynamic() {
			headSize += 32
		} else {
			headSize += t.headWords() * 32
		}
	}

	tailOffset := headSize
	for i, t := range types {
		if t.IsDynamic() {
			tail, err := encodeValue(t, values[i])
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d (%s): %w", i, t.Canonical(), err)
			}
			tails[i] = tail
			heads[i] = encodeUint256(big.NewInt(int64(tailOffset)))
			tailOffset += len(tail)
		} else {
			head, err := encodeValue(t, values[i])
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d (%s): %w", i, t.Canonical(), err)
			}
			heads[i] = head
		}
	}

	out := make([]byte, 0, tailOffset)
	for _, h := range heads {
		out = append(out, h...)
	}
	for _, tl := range tails {
		out = append(out, tl...)
	}
	return out, nil
}

// encodeValue encodes one value of type t. For static scalars this returns
// exactly t.headWords()*32 bytes; for dynamic types it returns the complete
// self-contained tail blob (length-prefixed for bytes/string/slice, bare
// head/tail body for dynamic tuples and dynamic fixed arrays).
func encodeValue(t Type, v interface{}) ([]byte, error) {
	switch t.Kind {
	case KindUint:
		n, err := asBigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 {
			return nil, fmt.Errorf("uint%d: negative value %s", t.Size, n)
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("uint%d: value %s overflows", t.Size, n)
		}
		w := encodeUint256(n)
		return w[:], nil

	case KindInt:
		n, err := asBigInt(v)
		if err != nil {
			return nil, err
		}
		if !fitsSignedBits(n, t.Size) {
			return nil, fmt.Errorf("int%d: value %s out of range", t.Size, n)
		}
		w := encodeInt256(n)
		return w[:], nil

	case KindAddress:
		a, err := asAddress(v)
		if err != nil {
			return nil, err
		}
		word := leftPad32(a[:])
		return word[:], nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("bool: value %v is not a bool", v)
		}
		var word [32]byte
		if b {
			word[31] = 1
		}
		return word[:], nil

	case KindFixedBytes:
		b, err := asBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("bytes%d: value has %d bytes", t.Size, len(b))
		}
		word := rightPad32(b)
		return word[:], nil

	case KindBytes:
		b, err := asBytes(v)
		if err != nil {
			return nil, err
		}
		return encodeDynamicBytes(b), nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("string: value %v is not a string", v)
		}
		return encodeDynamicBytes([]byte(s)), nil

	case KindArray:
		elems, err := asSlice(v)
		if err != nil {
			return nil, err
		}
		if len(elems) != t.ArrayLen {
			return nil, fmt.Errorf("array: expected %d elements, got %d", t.ArrayLen, len(elems))
		}
		return encodeTuple(repeatType(*t.Elem, t.ArrayLen), elems)

	case KindSlice:
		elems, err := asSlice(v)
		if err != nil {
			return nil, err
		}
		body, err := encodeTuple(repeatType(*t.Elem, len(elems)), elems)
		if err != nil {
			return nil, err
		}
		lenWord := encodeUint256(big.NewInt(int64(len(elems))))
		out := make([]byte, 0, 32+len(body))
		out = append(out, lenWord[:]...)
		return append(out, body...), nil

	case KindTuple:
		vals, err := asTupleValues(t, v)
		if err != nil {
			return nil, err
		}
		return encodeTuple(componentTypes(t), vals)

	default:
		return nil, fmt.Errorf("abi: unsupported type %s", t.Canonical())
	}
}

func encodeDynamicBytes(b []byte) []byte {
	lenWord := encodeUint256(big.NewInt(int64(len(b))))
	padded := ((len(b) + 31) / 32) * 32
	out := make([]byte, 0, 32+padded)
	out = append(out, lenWord[:]...)
	out = append(out, b...)
	out = append(out, make([]byte, padded-len(b))...)
	return out
}

func encodeUint256(n *big.Int) [32]byte {
	var out [32]byte
	n.FillBytes(out[:])
	return out
}

// encodeInt256 two's-complements a negative big.Int into a 32-byte word.
func encodeInt256(n *big.Int) [32]byte {
	if n.Sign() >= 0 {
		return encodeUint256(n)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), wordBits)
	wrapped := new(big.Int).Add(mod, n)
	return encodeUint256(wrapped)
}

func fitsSignedBits(n *big.Int, bits int) bool {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min := new(big.Int).Neg(limit)
	max := new(big.Int).Sub(limit, big.NewInt(1))
	return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
}

func repeatType(t Type, n int) []Type {
	out := make([]Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func componentTypes(t Type) []Type {
	out := make([]Type, len(t.Components))
	for i, c := range t.Components {
		out[i] = c.Type
	}
	return out
}

func leftPad32(b []byte) [32]byte {
	var out [32]byte
	copy(out[32-len(b):], b)
	return out
}

func rightPad32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

// --- value coercion helpers -------------------------------------------------

func asBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int64:
		return big.NewInt(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		if hexutil.Has0x(n) {
			return hexutil.DecodeBig(n)
		}
		b, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, fmt.Errorf("invalid decimal integer %q", n)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("expected an integer (*big.Int preferred), got %T", v)
	}
}

func asAddress(v interface{}) (Address, error) {
	switch a := v.(type) {
	case Address:
		return a, nil
	case string:
		return HexToAddress(a)
	default:
		return Address{}, fmt.Errorf("expected abi.Address or hex string, got %T", v)
	}
}

func asBytes(v interface{}) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		if strings.HasPrefix(b, "0x") || strings.HasPrefix(b, "0X") {
			return hexutil.Decode(b)
		}
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("expected []byte, got %T", v)
	}
}

func asSlice(v interface{}) ([]interface{}, error) {
	switch s := v.(type) {
	case []interface{}:
		return s, nil
	default:
		return nil, fmt.Errorf("expected []interface{}, got %T", v)
	}
}

func asTupleValues(t Type, v interface{}) ([]interface{}, error) {
	switch tv := v.(type) {
	case Tuple:
		return tv.Values, nil
	case []interface{}:
		return tv, nil
	default:
		return nil, fmt.Errorf("expected abi.Tuple or []interface{} for %s, got %T", t.Canonical(), v)
	}
}
