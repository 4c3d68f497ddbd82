// Package contract provides a high-level facade over an ABI Interface
// bound to a deployed address: call/send/estimate/query-filter operations
// that encode arguments, dispatch through a JSON-RPC backend, and decode
// results — the read/write split a conventional Go web3 client's contract
// binding uses.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/account"
	"github.com/evoq-ethereum/ethgo/ethgoerr"
	"github.com/evoq-ethereum/ethgo/rlp"
	"github.com/evoq-ethereum/ethgo/rpc"
	"github.com/evoq-ethereum/ethgo/tx"
)

// Backend is the slice of rpc.Transport a Contract needs; kept as an
// interface so tests can substitute a fake without spinning up an HTTP
// server.
type Backend interface {
	Call(ctx context.Context, msg rpc.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, from, to *abi.Address, value *big.Int, data []byte) (uint64, error)
	SendBatch(ctx context.Context, calls []rpc.BatchCall) ([]rpc.BatchResult, error)
	GetLogs(ctx context.Context, filter map[string]interface{}) (json.RawMessage, error)
}

// Contract binds an ABI Interface to a deployed address and a backend to
// dispatch calls through.
type Contract struct {
	Address abi.Address
	Iface   *abi.Interface
	backend Backend
	signer  *account.Signer
	log     *zap.Logger
}

// New binds iface to address, read-only (no signer — Send will fail until
// Connect is called).
func New(address abi.Address, iface *abi.Interface, backend Backend) *Contract {
	return &Contract{Address: address, Iface: iface, backend: backend, log: zap.NewNop()}
}

// Connect returns a copy of c bound to signer, enabling Send.
func (c *Contract) Connect(signer *account.Signer) *Contract {
	bound := *c
	bound.signer = signer
	return &bound
}

// WithLogger returns a copy of c that logs call/send/multicall activity to
// log instead of discarding it.
func (c *Contract) WithLogger(log *zap.Logger) *Contract {
	bound := *c
	bound.log = log
	return &bound
}

func (c *Contract) logger() *zap.Logger {
	if c.log == nil {
		return zap.NewNop()
	}
	return c.log
}

func (c *Contract) resolveFunction(name string, argc int) (abi.Fragment, error) {
	return c.Iface.Function(name, argc)
}

// Call performs a read-only eth_call against function name and decodes the
// result against its declared outputs.
func (c *Contract) Call(ctx context.Context, name string, args ...interface{}) ([]interface{}, error) {
	fn, err := c.resolveFunction(name, len(args))
	if err != nil {
		return nil, err
	}
	data, err := abi.EncodeFunctionData(fn, args)
	if err != nil {
		return nil, err
	}
	c.logger().Debug("eth_call", zap.String("function", fn.Signature()), zap.Stringer("to", c.Address))
	ret, err := c.backend.Call(ctx, rpc.CallMsg{To: &c.Address, Data: data})
	if err != nil {
		return nil, annotateCallErr(err, "call", c.Address, fn.Signature())
	}
	vals, err := abi.DecodeFunctionResult(fn, ret)
	if err != nil {
		// A handful of nodes answer a reverted eth_call with a 200 OK carrying
		// the revert payload as the result rather than a JSON-RPC error
		// object; recognize that shape instead of surfacing a confusing
		// ABI-decode failure.
		if _, ok, rerr := abi.DecodeRevertReason(ret); rerr == nil && ok {
			txCtx := map[string]interface{}{"to": c.Address.Hex(), "function": fn.Signature()}
			return nil, ethgoerr.NewCallException("call", txCtx, ret)
		}
		return nil, err
	}
	return vals, nil
}

// annotateCallErr attaches the reverting action and contract call context to
// the Action/Transaction fields of a CALL_EXCEPTION found anywhere in err's
// wrap chain (rpc.Transport.Call classifies the raw JSON-RPC error, which has
// no notion of which contract method was being invoked, and account.Signer
// wraps the errors it passes up).
func annotateCallErr(err error, action string, to abi.Address, signature string) error {
	var ce *ethgoerr.Error
	if !errors.As(err, &ce) || ce.Kind != ethgoerr.CallException {
		return err
	}
	ce.Action = action
	ce.Transaction = map[string]interface{}{"to": to.Hex(), "function": signature}
	return err
}

// EstimateGas estimates the gas cost of calling name with args, without
// broadcasting anything.
func (c *Contract) EstimateGas(ctx context.Context, name string, value *big.Int, args ...interface{}) (uint64, error) {
	fn, err := c.resolveFunction(name, len(args))
	if err != nil {
		return 0, err
	}
	data, err := abi.EncodeFunctionData(fn, args)
	if err != nil {
		return 0, err
	}
	var from *abi.Address
	if c.signer != nil {
		addr := c.signer.Address()
		from = &addr
	}
	gas, err := c.backend.EstimateGas(ctx, from, &c.Address, value, data)
	if err != nil {
		return 0, annotateCallErr(err, "estimateGas", c.Address, fn.Signature())
	}
	return gas, nil
}

// Send builds, signs, and broadcasts a state-changing call to function
// name, returning the transaction hash. Requires Connect to have been
// called first.
func (c *Contract) Send(ctx context.Context, name string, value *big.Int, args ...interface{}) ([32]byte, error) {
	if c.signer == nil {
		return [32]byte{}, ethgoerr.New(ethgoerr.InvalidArgument, "contract not connected to a signer, call Connect first")
	}
	fn, err := c.resolveFunction(name, len(args))
	if err != nil {
		return [32]byte{}, err
	}
	if fn.StateMutability == abi.View || fn.StateMutability == abi.Pure {
		return [32]byte{}, ethgoerr.New(ethgoerr.UnsupportedOperation, "%s is a view/pure function, use Call instead of Send", name)
	}
	data, err := abi.EncodeFunctionData(fn, args)
	if err != nil {
		return [32]byte{}, err
	}
	txn := &tx.Transaction{To: &c.Address, Value: value, Data: data}
	hash, err := c.signer.SendTransaction(ctx, txn)
	if err != nil {
		return [32]byte{}, annotateCallErr(err, "sendTransaction", c.Address, fn.Signature())
	}
	c.logger().Info("sent transaction", zap.String("function", fn.Signature()), zap.Stringer("to", c.Address))
	return hash, nil
}

// MulticallCall is one entry of a Multicall batch: a function name on this
// same contract plus its arguments.
type MulticallCall struct {
	Function string
	Args     []interface{}
}

// Multicall evaluates several read calls against this contract as a single
// JSON-RPC batch POST (not an on-chain Multicall aggregator contract — one
// HTTP round trip, independent eth_call entries), returning each call's
// decoded outputs in the same order they were given.
func (c *Contract) Multicall(ctx context.Context, calls []MulticallCall) ([][]interface{}, error) {
	fns := make([]abi.Fragment, len(calls))
	batch := make([]rpc.BatchCall, len(calls))
	for i, mc := range calls {
		fn, err := c.resolveFunction(mc.Function, len(mc.Args))
		if err != nil {
			return nil, fmt.Errorf("contract: multicall entry %d: %w", i, err)
		}
		fns[i] = fn
		data, err := abi.EncodeFunctionData(fn, mc.Args)
		if err != nil {
			return nil, fmt.Errorf("contract: multicall entry %d: %w", i, err)
		}
		msg := rpc.CallMsg{To: &c.Address, Data: data}
		batch[i] = rpc.BatchCall{Method: "eth_call", Params: []interface{}{msg, "latest"}}
	}

	c.logger().Debug("multicall", zap.Int("entries", len(calls)), zap.Stringer("to", c.Address))
	results, err := c.backend.SendBatch(ctx, batch)
	if err != nil {
		return nil, err
	}

	out := make([][]interface{}, len(calls))
	for i, r := range results {
		if r.Err != nil {
			annotated := annotateCallErr(r.Err, "call", c.Address, fns[i].Signature())
			return nil, fmt.Errorf("contract: multicall entry %d (%s): %w", i, calls[i].Function, annotated)
		}
		var hexStr string
		if err := json.Unmarshal(r.Result, &hexStr); err != nil {
			return nil, fmt.Errorf("contract: multicall entry %d: decoding result: %w", i, err)
		}
		data, err := hexDecode(hexStr)
		if err != nil {
			return nil, fmt.Errorf("contract: multicall entry %d: %w", i, err)
		}
		vals, err := abi.DecodeFunctionResult(fns[i], data)
		if err != nil {
			return nil, fmt.Errorf("contract: multicall entry %d: %w", i, err)
		}
		out[i] = vals
	}
	return out, nil
}

func hexDecode(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		var b byte
		if _, err := fmt.Sscanf(s[2*i:2*i+2], "%02x", &b); err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// QueryFilter fetches and decodes logs for event eventName between
// fromBlock and toBlock (each either a uint64 block number or the strings
// "latest"/"earliest"/"pending"), filtered by indexedArgs (nil entries are
// wildcards).
func (c *Contract) QueryFilter(ctx context.Context, eventName string, fromBlock, toBlock interface{}, indexedArgs []interface{}) ([]abi.DecodedLog, error) {
	ev, err := eventByIndexedCount(c.Iface, eventName, len(indexedArgs))
	if err != nil {
		return nil, err
	}
	topics, err := abi.EncodeEventTopics(ev, indexedArgs)
	if err != nil {
		return nil, err
	}
	topicsHex := make([]interface{}, len(topics))
	for i, t := range topics {
		topicsHex[i] = "0x" + hexEncode(t[:])
	}
	filter := map[string]interface{}{
		"address":   c.Address.Hex(),
		"fromBlock": blockParam(fromBlock),
		"toBlock":   blockParam(toBlock),
		"topics":    topicsHex,
	}
	raw, err := c.backend.GetLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	var logs []struct {
		Topics []string `json:"topics"`
		Data   string   `json:"data"`
	}
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, fmt.Errorf("contract: decoding eth_getLogs result: %w", err)
	}
	out := make([]abi.DecodedLog, 0, len(logs))
	for _, l := range logs {
		logTopics := make([][32]byte, len(l.Topics))
		for i, th := range l.Topics {
			b, err := hexDecode(th)
			if err != nil {
				return nil, err
			}
			copy(logTopics[i][:], b)
		}
		data, err := hexDecode(l.Data)
		if err != nil {
			return nil, err
		}
		decoded, err := abi.DecodeEventLog(ev, logTopics, data)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

// eventByIndexedCount finds the event fragment named name whose number of
// indexed parameters matches indexedCount — QueryFilter's indexedArgs has
// exactly one slot per indexed parameter (nil for a wildcard), which is a
// different arity than Interface.Event's total-input-count lookup, so
// overloaded events are disambiguated here instead.
func eventByIndexedCount(iface *abi.Interface, name string, indexedCount int) (abi.Fragment, error) {
	var match *abi.Fragment
	for idx := range iface.Fragments {
		f := iface.Fragments[idx]
		if f.Kind != abi.KindEvent || f.Name != name {
			continue
		}
		n := 0
		for _, in := range f.Inputs {
			if in.Indexed {
				n++
			}
		}
		if n == indexedCount {
			if match != nil {
				return abi.Fragment{}, fmt.Errorf("abi: ambiguous event overload %q with %d indexed args", name, indexedCount)
			}
			fCopy := f
			match = &fCopy
		}
	}
	if match == nil {
		return abi.Fragment{}, fmt.Errorf("abi: no event %q with %d indexed args", name, indexedCount)
	}
	return *match, nil
}

func blockParam(b interface{}) interface{} {
	switch v := b.(type) {
	case uint64:
		return "0x" + big.NewInt(0).SetUint64(v).Text(16)
	case nil:
		return "latest"
	default:
		return v
	}
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[2*i] = digits[c>>4]
		out[2*i+1] = digits[c&0xf]
	}
	return string(out)
}

// Factory deploys new instances of a contract from its creation bytecode
// and constructor ABI.
type Factory struct {
	Bytecode []byte
	Iface    *abi.Interface
	backend  Backend
}

// NewFactory builds a Factory for deploying iface's bytecode.
func NewFactory(bytecode []byte, iface *abi.Interface, backend Backend) *Factory {
	return &Factory{Bytecode: bytecode, Iface: iface, backend: backend}
}

// Deploy signs and broadcasts a contract creation transaction, returning
// the deployed address (derived via CREATE's keccak256(rlp([sender,
// nonce])) rule) and the deployment transaction hash. The deployed address
// is computed from the nonce the transaction was sent with: nonce itself,
// or the account's pending nonce when nonce is 0 (see
// account.Signer.SendTransaction).
func (f *Factory) Deploy(ctx context.Context, signer *account.Signer, nonce uint64, args ...interface{}) (abi.Address, [32]byte, error) {
	data, err := abi.EncodeDeploy(f.Iface.Constructor, f.Bytecode, args)
	if err != nil {
		return abi.Address{}, [32]byte{}, err
	}
	txn := &tx.Transaction{Data: data, Nonce: nonce}
	hash, err := signer.SendTransaction(ctx, txn)
	if err != nil {
		return abi.Address{}, [32]byte{}, err
	}
	return CreateAddress(signer.Address(), txn.Nonce), hash, nil
}

// CreateAddress derives the address a CREATE-style deployment from sender
// at nonce will land at: the low 20 bytes of keccak256(rlp([sender,
// nonce])).
func CreateAddress(sender abi.Address, nonce uint64) abi.Address {
	encoded := rlp.Encode(rlp.List{rlp.Bytes(sender[:]), rlp.Uint64(nonce)})
	hash := abi.Keccak256(encoded)
	var out abi.Address
	copy(out[:], hash[12:])
	return out
}
