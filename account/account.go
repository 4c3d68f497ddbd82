// Package account wraps a secp256k1 private key as a signer bindable to a
// JSON-RPC transport, auto-filling nonce/gas/fee/chainId the way a
// conventional Go Ethereum client's wallet type does.
package account

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/tx"
	"go.uber.org/zap"
)

// Account holds a parsed private key and its derived address. It never
// logs or otherwise surfaces the key material.
type Account struct {
	key     *ecdsa.PrivateKey
	address abi.Address
}

// FromPrivateKeyHex parses a 32-byte secp256k1 private key (0x-prefixed or
// bare hex) and derives its address.
func FromPrivateKeyHex(hexKey string) (*Account, error) {
	key, err := ethcrypto.HexToECDSA(trim0x(hexKey))
	if err != nil {
		return nil, fmt.Errorf("account: invalid private key: %w", err)
	}
	return fromKey(key), nil
}

func fromKey(key *ecdsa.PrivateKey) *Account {
	var addr abi.Address
	copy(addr[:], ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())
	return &Account{key: key, address: addr}
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Address returns the account's derived on-chain address.
func (a *Account) Address() abi.Address { return a.address }

// Sign implements tx.Signer: a raw secp256k1 signature over digest, with
// the recovery id (parity) as the last byte — exactly what tx.Transaction.Sign
// expects for both legacy and EIP-1559 envelopes.
func (a *Account) Sign(digest []byte) (sig [65]byte, err error) {
	raw, err := ethcrypto.Sign(digest, a.key)
	if err != nil {
		return sig, fmt.Errorf("account: sign: %w", err)
	}
	copy(sig[:], raw)
	return sig, nil
}

// SignPersonal signs message per EIP-191's "personal_sign" convention:
// keccak256("\x19Ethereum Signed Message:\n"+len(message)+message), with
// the recovery byte shifted into the legacy 27/28 range personal_sign
// verifiers expect.
func (a *Account) SignPersonal(message []byte) ([65]byte, error) {
	digest := personalMessageHash(message)
	sig, err := a.Sign(digest[:])
	if err != nil {
		return sig, err
	}
	sig[64] += 27
	return sig, nil
}

func personalMessageHash(message []byte) [32]byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	var out [32]byte
	copy(out[:], abi.Keccak256([]byte(prefix), message))
	return out
}

// ChainReader is the minimal slice of a JSON-RPC transport a bound Account
// needs to auto-fill a transaction; rpc.Transport implements it.
type ChainReader interface {
	ChainID(ctx context.Context) (uint64, error)
	NonceAt(ctx context.Context, addr abi.Address) (uint64, error)
	SuggestFees(ctx context.Context) (gasPrice, tip, feeCap *big.Int, err error)
	EstimateGas(ctx context.Context, from, to *abi.Address, value *big.Int, data []byte) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) ([32]byte, error)
	WaitForTransaction(ctx context.Context, hash [32]byte, confirmations uint64, timeoutSeconds int) (json.RawMessage, error)
}

// Signer is a bound Account: an Account plus the transport it auto-fills
// transactions against.
type Signer struct {
	*Account
	chain ChainReader
	log   *zap.Logger
}

// Bind attaches chain to account, producing a Signer able to auto-fill and
// broadcast transactions.
func Bind(a *Account, chain ChainReader, log *zap.Logger) *Signer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Signer{Account: a, chain: chain, log: log}
}

// SendTransaction fills in any zero-valued fields of t (nonce, gas limit,
// fee fields, and implicitly chainId via Sign) and broadcasts the signed
// result, returning its transaction hash. The auto-fill sequence is: nonce,
// then gas estimate, then fee suggestion — EIP-1559 if the latest block
// carries a base fee, legacy gasPrice otherwise — then sign and send.
func (s *Signer) SendTransaction(ctx context.Context, t *tx.Transaction) ([32]byte, error) {
	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return [32]byte{}, fmt.Errorf("account: fetching chain id: %w", err)
	}

	if t.Nonce == 0 {
		nonce, err := s.chain.NonceAt(ctx, s.address)
		if err != nil {
			return [32]byte{}, fmt.Errorf("account: fetching nonce: %w", err)
		}
		t.Nonce = nonce
	}

	if t.GasLimit == 0 {
		gas, err := s.chain.EstimateGas(ctx, &s.address, t.To, t.Value, t.Data)
		if err != nil {
			return [32]byte{}, fmt.Errorf("account: estimating gas: %w", err)
		}
		t.GasLimit = gas
	}

	if t.GasPrice == nil && t.MaxFeePerGas == nil {
		gasPrice, tip, feeCap, err := s.chain.SuggestFees(ctx)
		if err != nil {
			return [32]byte{}, fmt.Errorf("account: suggesting fees: %w", err)
		}
		if feeCap != nil {
			t.MaxPriorityFeePerGas = tip
			t.MaxFeePerGas = feeCap
		} else {
			t.GasPrice = gasPrice
		}
	}

	signed, err := t.Sign(s.Account, chainID)
	if err != nil {
		return [32]byte{}, fmt.Errorf("account: signing: %w", err)
	}

	s.log.Debug("broadcasting transaction", zap.Uint64("nonce", t.Nonce), zap.Uint64("gasLimit", t.GasLimit))
	return s.chain.SendRawTransaction(ctx, signed)
}

// Wait blocks until hash has confirmations blocks mined on top of it, or
// timeoutSeconds elapses — the "wait(confirmations=1, timeout_s=60)" probe
// spec.md §4.F says SendTransaction's returned handle carries.
func (s *Signer) Wait(ctx context.Context, hash [32]byte, confirmations uint64, timeoutSeconds int) (json.RawMessage, error) {
	return s.chain.WaitForTransaction(ctx, hash, confirmations, timeoutSeconds)
}
