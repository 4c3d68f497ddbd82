package abi

import "testing"

func TestParseElementary(t *testing.T) {
	cases := map[string]string{
		"uint256": "uint256",
		"uint":    "uint256",
		"int8":    "int8",
		"int":     "int256",
		"address": "address",
		"bool":    "bool",
		"bytes":   "bytes",
		"bytes32": "bytes32",
		"string":  "string",
	}
	for in, want := range cases {
		typ, err := ParseType(in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", in, err)
		}
		if got := typ.Canonical(); got != want {
			t.Errorf("ParseType(%q).Canonical() = %q, want %q", in, got, want)
		}
	}
}

func TestParseArraySuffixOrder(t *testing.T) {
	// uint8[4][2] => outer array of length 2, each element uint8[4]
	typ, err := ParseType("uint8[4][2]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if typ.Kind != KindArray || typ.ArrayLen != 2 {
		t.Fatalf("outer = %+v", typ)
	}
	if typ.Elem.Kind != KindArray || typ.Elem.ArrayLen != 4 {
		t.Fatalf("inner = %+v", typ.Elem)
	}
	if typ.Elem.Elem.Kind != KindUint || typ.Elem.Elem.Size != 8 {
		t.Fatalf("base = %+v", typ.Elem.Elem)
	}
	if got, want := typ.Canonical(), "uint8[4][2]"; got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}

func TestParseDynamicArray(t *testing.T) {
	typ, err := ParseType("address[]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if typ.Kind != KindSlice || !typ.IsDynamic() {
		t.Fatalf("want dynamic slice, got %+v", typ)
	}
}

func TestParseTupleWithNames(t *testing.T) {
	typ, err := ParseType("(uint256 id, address owner)")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if typ.Kind != KindTuple || len(typ.Components) != 2 {
		t.Fatalf("got %+v", typ)
	}
	if typ.Components[0].Name != "id" || typ.Components[1].Name != "owner" {
		t.Fatalf("names = %+v", typ.Components)
	}
	if got, want := typ.Canonical(), "(uint256,address)"; got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}

func TestParseNestedTupleArray(t *testing.T) {
	typ, err := ParseType("(uint256,(bool,uint256)[])")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if !typ.IsDynamic() {
		t.Error("tuple containing a dynamic array must be dynamic")
	}
	inner := typ.Components[1].Type
	if inner.Kind != KindSlice || inner.Elem.Kind != KindTuple {
		t.Fatalf("inner = %+v", inner)
	}
}

func TestStaticTupleIsStatic(t *testing.T) {
	typ, err := ParseType("(uint256,address,bool)")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if typ.IsDynamic() {
		t.Error("all-static tuple must not be dynamic")
	}
	if typ.headWords() != 3 {
		t.Errorf("headWords = %d, want 3", typ.headWords())
	}
}

func TestInvalidBitSize(t *testing.T) {
	if _, err := ParseType("uint7"); err == nil {
		t.Error("uint7 should be rejected (not a multiple of 8)")
	}
	if _, err := ParseType("uint264"); err == nil {
		t.Error("uint264 should be rejected (> 256)")
	}
}

func TestInvalidFixedBytesSize(t *testing.T) {
	if _, err := ParseType("bytes33"); err == nil {
		t.Error("bytes33 should be rejected")
	}
}
