package tx

import (
	"math/big"
	"strings"
	"testing"

	"github.com/evoq-ethereum/ethgo/abi"
)

// stubSigner returns a fixed, syntactically valid signature so these tests
// exercise envelope construction without depending on a real private key.
type stubSigner struct{}

func (stubSigner) Sign(digest []byte) ([65]byte, error) {
	var sig [65]byte
	copy(sig[:32], digest) // r := digest, purely so output is deterministic
	sig[63] = 1            // s := 1
	sig[64] = 0             // parity
	return sig, nil
}

func newTestTx() *Transaction {
	to, _ := abi.HexToAddress("0x" + strings.Repeat("35", 20))
	return &Transaction{
		Nonce:    9,
		GasPrice: big.NewInt(20_000_000_000),
		GasLimit: 21000,
		To:       &to,
		Value:    big.NewInt(1_000_000_000_000_000_000),
		Data:     nil,
	}
}

func TestLegacyEIP155Dispatch(t *testing.T) {
	txn := newTestTx()
	if txn.IsEIP1559() {
		t.Fatal("transaction with only GasPrice set must not be classified EIP-1559")
	}
	payload := txn.SignaturePayloadFor(1)
	if payload.typ != TypeLegacy {
		t.Fatalf("payload type = %v, want legacy", payload.typ)
	}
	if len(payload.bytes) == 0 {
		t.Fatal("empty signature payload")
	}
}

func TestEIP1559Dispatch(t *testing.T) {
	txn := newTestTx()
	txn.GasPrice = nil
	txn.MaxPriorityFeePerGas = big.NewInt(2_000_000_000)
	txn.MaxFeePerGas = big.NewInt(30_000_000_000)
	if !txn.IsEIP1559() {
		t.Fatal("transaction with fee-cap fields must be classified EIP-1559")
	}
	payload := txn.SignaturePayloadFor(1)
	if payload.typ != TypeEIP1559 {
		t.Fatalf("payload type = %v, want eip1559", payload.typ)
	}
	if payload.bytes[0] != byte(TypeEIP1559) {
		t.Fatalf("eip1559 payload must be prefixed with the type byte, got %x", payload.bytes[0])
	}
}

func TestSignProducesRLPEnvelope(t *testing.T) {
	txn := newTestTx()
	signed, err := txn.Sign(stubSigner{}, 1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(signed) == 0 {
		t.Fatal("empty signed transaction")
	}
	// A legacy envelope is a bare RLP list, so its first byte must be >= 0xc0.
	if signed[0] < 0xc0 {
		t.Errorf("legacy envelope should start with an RLP list prefix, got %x", signed[0])
	}
}

func TestSignEIP1559HasTypePrefix(t *testing.T) {
	txn := newTestTx()
	txn.GasPrice = nil
	txn.MaxPriorityFeePerGas = big.NewInt(2_000_000_000)
	txn.MaxFeePerGas = big.NewInt(30_000_000_000)
	signed, err := txn.Sign(stubSigner{}, 1)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if signed[0] != byte(TypeEIP1559) {
		t.Fatalf("signed[0] = %x, want 0x02", signed[0])
	}
}

func TestHashIsDeterministic(t *testing.T) {
	a := Hash([]byte("same bytes"))
	b := Hash([]byte("same bytes"))
	if a != b {
		t.Fatal("Hash must be deterministic over identical input")
	}
}
