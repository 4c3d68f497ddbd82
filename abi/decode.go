package abi

import (
	"fmt"
	"math/big"
)

// DecodeArguments is the mirror of EncodeArguments: it reads an ordered
// value list out of a head/tail encoded blob against the declared types.
func DecodeArguments(types []Type, data []byte) ([]interface{}, error) {
	return decodeTuple(types, data)
}

// decodeTuple reads len(types) values out of data, which must be the
// self-contained blob for this tuple/array (offsets inside are relative to
// data's own start — exactly the invariant encodeTuple produces).
func decodeTuple(types []Type, data []byte) ([]interface{}, error) {
	headPos := make([]int, len(types))
	pos := 0
	for i, t := range types {
		headPos[i] = pos
		if t.IsDynamic() {
			pos += 32
		} else {
			pos += t.headWords() * 32
		}
	}

	out := make([]interface{}, len(types))
	for i, t := range types {
		hp := headPos[i]
		if hp+32 > len(data) && (t.IsDynamic() || t.headWords() > 0) {
			return nil, fmt.Errorf("abi: truncated data decoding arg %d (%s)", i, t.Canonical())
		}
		if t.IsDynamic() {
			off, err := readUint256(data, hp)
			if err != nil {
				return nil, err
			}
			if off < 0 || off > len(data) {
				return nil, fmt.Errorf("abi: arg %d (%s): offset %d out of range", i, t.Canonical(), off)
			}
			val, err := decodeValue(t, data[off:])
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d (%s): %w", i, t.Canonical(), err)
			}
			out[i] = val
		} else {
			end := hp + t.headWords()*32
			if end > len(data) {
				return nil, fmt.Errorf("abi: truncated static arg %d (%s)", i, t.Canonical())
			}
			val, err := decodeValue(t, data[hp:end])
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d (%s): %w", i, t.Canonical(), err)
			}
			out[i] = val
		}
	}
	return out, nil
}

// decodeValue decodes one value of type t from the front of data (data may
// be longer than what t needs — callers slice generously and rely on this
// function reading only what it requires).
func decodeValue(t Type, data []byte) (interface{}, error) {
	switch t.Kind {
	case KindUint:
		n, err := readWordBigInt(data)
		if err != nil {
			return nil, err
		}
		return n, nil

	case KindInt:
		n, err := readWordBigInt(data)
		if err != nil {
			return nil, err
		}
		return toSigned(n), nil

	case KindAddress:
		if len(data) < 32 {
			return nil, fmt.Errorf("address: truncated word")
		}
		var a Address
		copy(a[:], data[12:32])
		return a, nil

	case KindBool:
		if len(data) < 32 {
			return nil, fmt.Errorf("bool: truncated word")
		}
		return data[31] != 0, nil

	case KindFixedBytes:
		if len(data) < 32 {
			return nil, fmt.Errorf("bytes%d: truncated word", t.Size)
		}
		b := make([]byte, t.Size)
		copy(b, data[:t.Size])
		return b, nil

	case KindBytes:
		b, _, err := readDynamicBytes(data)
		return b, err

	case KindString:
		b, _, err := readDynamicBytes(data)
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case KindArray:
		vals, err := decodeTuple(repeatType(*t.Elem, t.ArrayLen), data)
		if err != nil {
			return nil, err
		}
		return vals, nil

	case KindSlice:
		n, err := readUint256(data, 0)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("slice: negative length")
		}
		vals, err := decodeTuple(repeatType(*t.Elem, n), data[32:])
		if err != nil {
			return nil, err
		}
		return vals, nil

	case KindTuple:
		vals, err := decodeTuple(componentTypes(t), data)
		if err != nil {
			return nil, err
		}
		return Tuple{Type: t, Values: vals}, nil

	default:
		return nil, fmt.Errorf("abi: unsupported type %s", t.Canonical())
	}
}

func readDynamicBytes(data []byte) ([]byte, int, error) {
	n, err := readUint256(data, 0)
	if err != nil {
		return nil, 0, err
	}
	if n < 0 {
		return nil, 0, fmt.Errorf("negative length")
	}
	if 32+n > len(data) {
		return nil, 0, fmt.Errorf("truncated dynamic bytes: need %d, have %d", 32+n, len(data))
	}
	out := make([]byte, n)
	copy(out, data[32:32+n])
	return out, n, nil
}

func readUint256(data []byte, at int) (int, error) {
	if at+32 > len(data) {
		return 0, fmt.Errorf("abi: truncated word at offset %d", at)
	}
	n := new(big.Int).SetBytes(data[at : at+32])
	if !n.IsInt64() {
		return 0, fmt.Errorf("abi: length/offset %s too large", n)
	}
	return int(n.Int64()), nil
}

func readWordBigInt(data []byte) (*big.Int, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("truncated word")
	}
	return new(big.Int).SetBytes(data[:32]), nil
}

// toSigned reinterprets a 256-bit word as a two's-complement signed
// integer: any intN value is sign-extended to fill the full word on the
// wire, so the sign bit to test is always bit 255, regardless of N.
func toSigned(n *big.Int) *big.Int {
	limit := new(big.Int).Lsh(big.NewInt(1), wordBits-1)
	if n.Cmp(limit) < 0 {
		return n
	}
	mod := new(big.Int).Lsh(big.NewInt(1), wordBits)
	return new(big.Int).Sub(n, mod)
}
