// Package tx builds and signs Ethereum transaction envelopes: legacy
// EIP-155 and EIP-1559 (type 0x02). The construction and signing split —
// a signature payload computed separately from the final signed
// envelope — follows the same shape as a conventional Go signer library's
// transaction builder.
package tx

import (
	"fmt"
	"math/big"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/rlp"
)

// Type identifies the transaction envelope format.
type Type byte

const (
	TypeLegacy  Type = 0x00
	TypeEIP1559 Type = 0x02
)

// AccessTuple is one entry of an EIP-2930/1559 access list. The EIP-1559
// envelope encodes Transaction.AccessList as given (an empty list when it
// is nil); the legacy envelope carries no access list. There is no separate
// EIP-2930 (type 0x01) envelope.
type AccessTuple struct {
	Address     abi.Address
	StorageKeys [][32]byte
}

// Transaction holds the fields needed to build either envelope. Which
// envelope is built depends on whether MaxFeePerGas is set (see IsEIP1559)
// — callers populate MaxPriorityFeePerGas/MaxFeePerGas for EIP-1559, or
// GasPrice for legacy, never both.
type Transaction struct {
	Nonce                uint64
	GasPrice             *big.Int // legacy only
	MaxPriorityFeePerGas *big.Int // EIP-1559 only
	MaxFeePerGas         *big.Int // EIP-1559 only
	GasLimit             uint64
	To                   *abi.Address // nil for contract creation
	Value                *big.Int
	Data                 []byte
	AccessList           []AccessTuple
}

// Signer produces a 65-byte r||s||v(0/1) secp256k1 signature over digest.
// account.Account implements this; it is an interface here purely to keep
// this package decoupled from key storage.
type Signer interface {
	Sign(digest []byte) (sig [65]byte, err error)
}

// SignaturePayload is the exact byte sequence that gets hashed and signed
// for a transaction — useful on its own for hardware wallets or external
// signers that want to perform the keccak256+ecdsa step themselves.
type SignaturePayload struct {
	fields rlp.List
	typ    Type
	bytes  []byte
}

// Bytes returns the payload that gets keccak256-hashed and signed.
func (p *SignaturePayload) Bytes() []byte { return p.bytes }

// Hash returns keccak256(Bytes()).
func (p *SignaturePayload) Hash() [32]byte {
	var out [32]byte
	copy(out[:], abi.Keccak256(p.bytes))
	return out
}

func addressOrNil(a *abi.Address) rlp.Item {
	if a == nil {
		return rlp.Bytes{}
	}
	return rlp.Bytes(a[:])
}

func buildLegacyFields(t *Transaction) rlp.List {
	return rlp.List{
		rlp.Uint64(t.Nonce),
		rlp.Uint(t.GasPrice),
		rlp.Uint64(t.GasLimit),
		addressOrNil(t.To),
		rlp.Uint(t.Value),
		rlp.Bytes(t.Data),
	}
}

// appendEIP155Values appends chainId, 0, 0 to a legacy field list, per
// EIP-155's definition of the value that gets hashed before signing.
func appendEIP155Values(fields rlp.List, chainID uint64) rlp.List {
	return append(fields,
		rlp.Uint64(chainID),
		rlp.Uint64(0),
		rlp.Uint64(0),
	)
}

func accessListItem(list []AccessTuple) rlp.Item {
	items := make(rlp.List, len(list))
	for i, a := range list {
		keys := make(rlp.List, len(a.StorageKeys))
		for j, k := range a.StorageKeys {
			keys[j] = rlp.Bytes(k[:])
		}
		items[i] = rlp.List{rlp.Bytes(a.Address[:]), keys}
	}
	return items
}

func build1559Fields(t *Transaction, chainID uint64) rlp.List {
	return rlp.List{
		rlp.Uint64(chainID),
		rlp.Uint64(t.Nonce),
		rlp.Uint(t.MaxPriorityFeePerGas),
		rlp.Uint(t.MaxFeePerGas),
		rlp.Uint64(t.GasLimit),
		addressOrNil(t.To),
		rlp.Uint(t.Value),
		rlp.Bytes(t.Data),
		accessListItem(t.AccessList),
	}
}

// IsEIP1559 reports whether t carries EIP-1559 fee fields, which decides
// which envelope Sign/SignaturePayloadFor pick. Presence of MaxFeePerGas is
// the selector (spec.md §3): a zero-valued-but-set fee still means 1559.
func (t *Transaction) IsEIP1559() bool {
	return t.MaxFeePerGas != nil
}

// SignaturePayloadFor computes the unsigned payload for t, auto-dispatching
// between legacy EIP-155 and EIP-1559 envelopes based on which fee fields
// are populated.
func (t *Transaction) SignaturePayloadFor(chainID uint64) *SignaturePayload {
	if t.IsEIP1559() {
		fields := build1559Fields(t, chainID)
		return &SignaturePayload{
			fields: fields,
			typ:    TypeEIP1559,
			bytes:  append([]byte{byte(TypeEIP1559)}, rlp.Encode(fields)...),
		}
	}
	fields := appendEIP155Values(buildLegacyFields(t), chainID)
	return &SignaturePayload{
		fields: fields,
		typ:    TypeLegacy,
		bytes:  rlp.Encode(fields),
	}
}

// Sign builds, hashes, and signs t against chainID, auto-dispatching
// between the legacy EIP-155 and EIP-1559 envelopes and returning the
// final RLP-encoded (and, for 1559, type-prefixed) signed transaction
// bytes.
func (t *Transaction) Sign(signer Signer, chainID uint64) ([]byte, error) {
	if signer == nil {
		return nil, fmt.Errorf("tx: nil signer")
	}
	payload := t.SignaturePayloadFor(chainID)
	digest := payload.Hash()
	sig, err := signer.Sign(digest[:])
	if err != nil {
		return nil, fmt.Errorf("tx: sign: %w", err)
	}

	r := new(big.Int).SetBytes(sig[0:32])
	s := new(big.Int).SetBytes(sig[32:64])
	parity := uint64(sig[64])

	switch payload.typ {
	case TypeEIP1559:
		fields := appendSignature(payload.fields, parity, r, s)
		return append([]byte{byte(TypeEIP1559)}, rlp.Encode(fields)...), nil
	default:
		v := 2*chainID + 35 + parity
		// legacy fields without the chainID/0/0 EIP-155 hash-only values
		fields := appendSignature(payload.fields[:6], v, r, s)
		return rlp.Encode(fields), nil
	}
}

func appendSignature(fields rlp.List, v uint64, r, s *big.Int) rlp.List {
	out := make(rlp.List, len(fields), len(fields)+3)
	copy(out, fields)
	return append(out, rlp.Uint64(v), rlp.Uint(r), rlp.Uint(s))
}

// Hash recovers the transaction hash from its final signed bytes — the
// keccak256 of the bytes exactly as broadcast (including the EIP-1559 type
// prefix byte, when present).
func Hash(signedBytes []byte) [32]byte {
	var out [32]byte
	copy(out[:], abi.Keccak256(signedBytes))
	return out
}
