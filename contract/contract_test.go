package contract

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/rpc"
)

// fakeBackend is an in-memory Backend that returns canned ABI-encoded
// results keyed by the called function's selector, for exercising Contract
// without a live node.
type fakeBackend struct {
	results map[[4]byte][]byte
	logs    json.RawMessage
}

func (f *fakeBackend) Call(ctx context.Context, msg rpc.CallMsg) ([]byte, error) {
	var sel [4]byte
	copy(sel[:], msg.Data[:4])
	return f.results[sel], nil
}

func (f *fakeBackend) EstimateGas(ctx context.Context, from, to *abi.Address, value *big.Int, data []byte) (uint64, error) {
	return 21000, nil
}

func (f *fakeBackend) SendBatch(ctx context.Context, calls []rpc.BatchCall) ([]rpc.BatchResult, error) {
	out := make([]rpc.BatchResult, len(calls))
	for i, c := range calls {
		msg := c.Params[0].(rpc.CallMsg)
		var sel [4]byte
		copy(sel[:], msg.Data[:4])
		enc, _ := json.Marshal("0x" + hexEncode(f.results[sel]))
		out[i] = rpc.BatchResult{Result: enc}
	}
	return out, nil
}

func (f *fakeBackend) GetLogs(ctx context.Context, filter map[string]interface{}) (json.RawMessage, error) {
	return f.logs, nil
}

func mustIface(t *testing.T, decls ...string) *abi.Interface {
	t.Helper()
	iface, err := abi.ParseInterface(decls)
	if err != nil {
		t.Fatalf("ParseInterface: %v", err)
	}
	return iface
}

func TestContractCallDecodesResult(t *testing.T) {
	iface := mustIface(t, "function balanceOf(address owner) view returns (uint256)")
	fn, _ := iface.Function("balanceOf", 1)
	enc, err := abi.EncodeArguments([]abi.Type{{Kind: abi.KindUint, Size: 256}}, []interface{}{big.NewInt(42)})
	if err != nil {
		t.Fatalf("EncodeArguments: %v", err)
	}
	backend := &fakeBackend{results: map[[4]byte][]byte{fn.Selector(): enc}}

	c := New(abi.Address{1}, iface, backend)
	out, err := c.Call(context.Background(), "balanceOf", abi.Address{2})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	got, ok := out[0].(*big.Int)
	if !ok || got.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("out[0] = %v, want 42", out[0])
	}
}

func TestMulticallPreservesOrder(t *testing.T) {
	iface := mustIface(t,
		"function totalSupply() view returns (uint256)",
		"function decimals() view returns (uint8)",
	)
	supplyFn, _ := iface.Function("totalSupply", 0)
	decimalsFn, _ := iface.Function("decimals", 0)

	supplyEnc, _ := abi.EncodeArguments([]abi.Type{{Kind: abi.KindUint, Size: 256}}, []interface{}{big.NewInt(1000)})
	decimalsEnc, _ := abi.EncodeArguments([]abi.Type{{Kind: abi.KindUint, Size: 8}}, []interface{}{big.NewInt(18)})

	backend := &fakeBackend{results: map[[4]byte][]byte{
		supplyFn.Selector():   supplyEnc,
		decimalsFn.Selector(): decimalsEnc,
	}}
	c := New(abi.Address{1}, iface, backend)

	results, err := c.Multicall(context.Background(), []MulticallCall{
		{Function: "totalSupply"},
		{Function: "decimals"},
	})
	if err != nil {
		t.Fatalf("Multicall: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	supply := results[0][0].(*big.Int)
	if supply.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("supply = %v, want 1000", supply)
	}
	decimals := results[1][0].(*big.Int)
	if decimals.Cmp(big.NewInt(18)) != 0 {
		t.Fatalf("decimals = %v, want 18", decimals)
	}
}

func TestCreateAddressIsDeterministic(t *testing.T) {
	sender := abi.Address{0xde, 0xad, 0xbe, 0xef}
	a1 := CreateAddress(sender, 0)
	a2 := CreateAddress(sender, 0)
	a3 := CreateAddress(sender, 1)
	if a1 != a2 {
		t.Fatal("CreateAddress is not deterministic")
	}
	if a1 == a3 {
		t.Fatal("different nonces must yield different addresses")
	}
}

func TestSendRequiresConnect(t *testing.T) {
	iface := mustIface(t, "function transfer(address to, uint256 amount) returns (bool)")
	c := New(abi.Address{1}, iface, &fakeBackend{results: map[[4]byte][]byte{}})
	_, err := c.Send(context.Background(), "transfer", nil, abi.Address{2}, big.NewInt(1))
	if err == nil {
		t.Fatal("expected an error sending without Connect")
	}
}
