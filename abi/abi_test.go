package abi

import (
	"encoding/hex"
	"math/big"
	"testing"
)

// mustTypes parses a list of canonical type strings, failing the test on error.
func mustTypes(t *testing.T, names ...string) []Type {
	t.Helper()
	out := make([]Type, len(names))
	for i, n := range names {
		typ, err := ParseType(n)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", n, err)
		}
		out[i] = typ
	}
	return out
}

// TestSamFromSpec ports the canonical "sam(bytes,bool,uint256[])" example
// from the Solidity ABI specification — also present, with the same
// argument shape, as test case 19 of the original go-abi-encoder catalogue.
func TestSamFromSpec(t *testing.T) {
	types := mustTypes(t, "bytes", "bool", "uint256[]")
	values := []interface{}{
		[]byte("dave"),
		true,
		[]interface{}{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
	}
	got, err := EncodeArguments(types, values)
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	want := "" +
		"0000000000000000000000000000000000000000000000000000000000000060" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"00000000000000000000000000000000000000000000000000000000000000a0" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"6461766500000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000003" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"0000000000000000000000000000000000000000000000000000000000000003"
	if hex.EncodeToString(got) != want {
		t.Errorf("got  %s\nwant %s", hex.EncodeToString(got), want)
	}

	back, err := DecodeArguments(types, got)
	if err != nil {
		t.Fatalf("DecodeArguments: %v", err)
	}
	if string(back[0].([]byte)) != "dave" || back[1].(bool) != true {
		t.Fatalf("roundtrip mismatch: %+v", back)
	}
	nums := back[2].([]interface{})
	for i, want := range []int64{1, 2, 3} {
		if nums[i].(*big.Int).Int64() != want {
			t.Errorf("nums[%d] = %v, want %d", i, nums[i], want)
		}
	}
}

// TestBazFromCatalogue ports case 18, baz(uint256,bool) = (69, true).
func TestBazFromCatalogue(t *testing.T) {
	types := mustTypes(t, "uint256", "bool")
	got, err := EncodeArguments(types, []interface{}{big.NewInt(69), true})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	want := "0000000000000000000000000000000000000000000000000000000000000045" +
		"0000000000000000000000000000000000000000000000000000000000000001"
	if hex.EncodeToString(got) != want {
		t.Errorf("got  %s\nwant %s", hex.EncodeToString(got), want)
	}
}

// TestFixedUint8Array ports case 4, foo(uint8[2]) = [1, 2].
func TestFixedUint8Array(t *testing.T) {
	types := mustTypes(t, "uint8[2]")
	got, err := EncodeArguments(types, []interface{}{[]interface{}{big.NewInt(1), big.NewInt(2)}})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	want := "0000000000000000000000000000000000000000000000000000000000000001" +
		"0000000000000000000000000000000000000000000000000000000000000002"
	if hex.EncodeToString(got) != want {
		t.Errorf("got  %s\nwant %s", hex.EncodeToString(got), want)
	}
}

// TestDynamicUint8Array ports case 12, foo(uint8[]) = [1, 2].
func TestDynamicUint8Array(t *testing.T) {
	types := mustTypes(t, "uint8[]")
	got, err := EncodeArguments(types, []interface{}{[]interface{}{big.NewInt(1), big.NewInt(2)}})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	want := "0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"0000000000000000000000000000000000000000000000000000000000000001" +
		"0000000000000000000000000000000000000000000000000000000000000002"
	if hex.EncodeToString(got) != want {
		t.Errorf("got  %s\nwant %s", hex.EncodeToString(got), want)
	}
}

// TestTupleWithNamedFields ports case 7, foo((uint256 id, uint256 balance)).
func TestTupleWithNamedFields(t *testing.T) {
	typ, err := ParseType("(uint256 id, uint256 balance)")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	acct := Tuple{Type: typ, Values: []interface{}{big.NewInt(3), big.NewInt(10)}}
	got, err := EncodeArguments([]Type{typ}, []interface{}{acct})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	want := "0000000000000000000000000000000000000000000000000000000000000003" +
		"000000000000000000000000000000000000000000000000000000000000000a"
	if hex.EncodeToString(got) != want {
		t.Errorf("got  %s\nwant %s", hex.EncodeToString(got), want)
	}

	decoded, err := DecodeArguments([]Type{typ}, got)
	if err != nil {
		t.Fatalf("DecodeArguments: %v", err)
	}
	result := decoded[0].(Tuple)
	if id, ok := result.Get("id"); !ok || id.(*big.Int).Int64() != 3 {
		t.Errorf("result.Get(id) = %v, %v", id, ok)
	}
	if balance, ok := result.Get("balance"); !ok || balance.(*big.Int).Int64() != 10 {
		t.Errorf("result.Get(balance) = %v, %v", balance, ok)
	}
}

func TestNegativeIntRoundtrip(t *testing.T) {
	types := mustTypes(t, "int256")
	got, err := EncodeArguments(types, []interface{}{big.NewInt(-1)})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	want := "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	if hex.EncodeToString(got) != want {
		t.Errorf("got  %s\nwant %s", hex.EncodeToString(got), want)
	}
	back, err := DecodeArguments(types, got)
	if err != nil {
		t.Fatalf("DecodeArguments: %v", err)
	}
	if back[0].(*big.Int).Int64() != -1 {
		t.Errorf("back = %v, want -1", back[0])
	}
}

func TestFunctionSelector(t *testing.T) {
	// well-known: transfer(address,uint256) -> 0xa9059cbb
	got := SelectorHex("transfer(address,uint256)")
	want := "0xa9059cbb"
	if got != want {
		t.Errorf("Selector = %s, want %s", got, want)
	}
}

func TestParseAndEncodeFunctionFragment(t *testing.T) {
	frag, err := ParseFragment("function transfer(address to, uint256 amount) returns (bool)")
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if frag.Signature() != "transfer(address,uint256)" {
		t.Fatalf("Signature() = %q", frag.Signature())
	}
	to, _ := HexToAddress("0x000000000000000000000000000000000000aa")
	data, err := EncodeFunctionData(frag, []interface{}{to, big.NewInt(100)})
	if err != nil {
		t.Fatalf("EncodeFunctionData: %v", err)
	}
	sel := frag.Selector()
	if !hexPrefixEqual(data, sel) {
		t.Errorf("encoded data does not start with selector")
	}
	args, err := DecodeFunctionData(frag, data)
	if err != nil {
		t.Fatalf("DecodeFunctionData: %v", err)
	}
	if args[0].(Address) != to || args[1].(*big.Int).Int64() != 100 {
		t.Errorf("decoded args = %+v", args)
	}
}

func hexPrefixEqual(data []byte, sel [4]byte) bool {
	if len(data) < 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if data[i] != sel[i] {
			return false
		}
	}
	return true
}

func TestEventTopicsAndLogDecode(t *testing.T) {
	ev, err := ParseFragment("event Transfer(address indexed from, address indexed to, uint256 value)")
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	from, _ := HexToAddress("0x00000000000000000000000000000000000001")
	to, _ := HexToAddress("0x00000000000000000000000000000000000002")
	topics, err := EncodeEventTopics(ev, []interface{}{from, to})
	if err != nil {
		t.Fatalf("EncodeEventTopics: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	data, err := EncodeArguments([]Type{mustTypes(t, "uint256")[0]}, []interface{}{big.NewInt(42)})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	log, err := DecodeEventLog(ev, topics, data)
	if err != nil {
		t.Fatalf("DecodeEventLog: %v", err)
	}
	if log.Values[0].(Address) != from || log.Values[1].(Address) != to {
		t.Errorf("decoded indexed values = %+v", log.Values)
	}
	if log.Values[2].(*big.Int).Int64() != 42 {
		t.Errorf("decoded data value = %v", log.Values[2])
	}
}

func TestFormatRoundtrip(t *testing.T) {
	frag, err := ParseFragment("function balanceOf(address owner) view returns (uint256)")
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	sighash := frag.Format(FormatSighash)
	if sighash != "balanceOf(address)" {
		t.Errorf("FormatSighash = %q", sighash)
	}
	full := frag.Format(FormatFull)
	reparsed, err := ParseFragment(full)
	if err != nil {
		t.Fatalf("ParseFragment(full form %q): %v", full, err)
	}
	if reparsed.Signature() != frag.Signature() || reparsed.StateMutability != frag.StateMutability {
		t.Errorf("full-form roundtrip mismatch: %+v vs %+v", reparsed, frag)
	}

	jsonForm := frag.Format(FormatJSON)
	viaJSON, err := ParseFragmentJSON([]byte(jsonForm))
	if err != nil {
		t.Fatalf("ParseFragmentJSON(%s): %v", jsonForm, err)
	}
	if viaJSON.Signature() != frag.Signature() {
		t.Errorf("json-form roundtrip mismatch: %+v vs %+v", viaJSON, frag)
	}
}
