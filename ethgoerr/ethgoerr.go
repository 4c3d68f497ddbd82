// Package ethgoerr implements the closed error-kind taxonomy
// that every other package in this module classifies its failures into,
// following the ffcapi.ErrorReason / rpcErr.Error() convention used to
// separate "what kind of failure is this" from "what's the human message".
package ethgoerr

import (
	"fmt"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/hexutil"
)

// Kind is a closed set of error categories a caller can safely switch on,
// instead of pattern-matching provider-specific error strings.
type Kind string

const (
	CallException          Kind = "CALL_EXCEPTION"
	InsufficientFunds      Kind = "INSUFFICIENT_FUNDS"
	NonceExpired           Kind = "NONCE_EXPIRED"
	ReplacementUnderpriced Kind = "REPLACEMENT_UNDERPRICED"
	TransactionReplaced    Kind = "TRANSACTION_REPLACED"
	ServerError            Kind = "SERVER_ERROR"
	NetworkError           Kind = "NETWORK_ERROR"
	Timeout                Kind = "TIMEOUT"
	BadData                Kind = "BAD_DATA"
	InvalidArgument        Kind = "INVALID_ARGUMENT"
	UnsupportedOperation   Kind = "UNSUPPORTED_OPERATION"
	Cancelled              Kind = "CANCELLED"
	Unknown                Kind = "UNKNOWN_ERROR"
)

// Error is the structured error value every classified failure in this
// module returns: a Kind a caller can switch on, a short machine-ish
// message, a longer human message, and an arbitrary info payload (e.g. the
// raw JSON-RPC error object, or the revert data).
type Error struct {
	Kind         Kind
	Code         int // JSON-RPC error code, when this came from a provider response; 0 otherwise
	Message      string
	ShortMessage string
	Info         map[string]interface{}

	// Reason, Data, Action, and Transaction are only populated on
	// CALL_EXCEPTION: Reason is the decoded Error(string)/Panic(uint256)
	// revert message (unset if the revert data didn't match either), Data
	// is the raw revert bytes, Action names the operation that reverted
	// (e.g. "call", "estimateGas", "sendTransaction"), and Transaction
	// carries the request that produced it.
	Reason      string
	Data        []byte
	Action      string
	Transaction interface{}

	cause error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a classified Error directly — used by callers (rpc, contract)
// that detect a condition locally rather than from a provider response.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), ShortMessage: string(kind)}
}

// Wrap attaches a Kind to an existing error without discarding it.
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: cause.Error(), ShortMessage: string(kind), cause: cause}
}

// RPCError is the minimal shape of a JSON-RPC 2.0 error object, as returned
// in a response's "error" field — the only input Classify needs.
type RPCError struct {
	Code    int
	Message string
	Data    interface{}
}

// Classify maps a raw JSON-RPC error onto the closed taxonomy. Precedence
// order: a revert with returned data is always CALL_EXCEPTION; the
// EIP-1474 code 3 short-circuits the same way; then the well-known provider
// message substrings are matched in order (revert, insufficient funds,
// nonce family, replacement underpriced). Code -32000 carries no meaning of
// its own here: a -32000 error is classified by its message like any other.
// Anything else becomes SERVER_ERROR.
func Classify(rpcErr *RPCError) *Error {
	if rpcErr == nil {
		return nil
	}
	msg := rpcErr.Message

	if rpcErr.Data != nil || rpcErr.Code == 3 {
		e := &Error{Kind: CallException, Code: rpcErr.Code, Message: msg, ShortMessage: "execution reverted", Info: dataInfo(rpcErr.Data)}
		if raw, ok := revertDataBytes(rpcErr.Data); ok {
			e.Data = raw
			if reason, found, err := abi.DecodeRevertReason(raw); err == nil && found {
				e.Reason = reason
			}
		}
		return e
	}
	switch {
	case containsAny(msg, "execution reverted", "revert"):
		return &Error{Kind: CallException, Code: rpcErr.Code, Message: msg}
	case containsAny(msg, "insufficient funds"):
		return &Error{Kind: InsufficientFunds, Code: rpcErr.Code, Message: msg}
	case containsAny(msg, "nonce too low", "nonce too high", "invalid nonce", "nonce has already been used", "known transaction"):
		return &Error{Kind: NonceExpired, Code: rpcErr.Code, Message: "nonce has already been used", Info: map[string]interface{}{"rawMessage": msg}}
	case containsAny(msg, "replacement transaction underpriced", "replacement fee too low"):
		return &Error{Kind: ReplacementUnderpriced, Code: rpcErr.Code, Message: msg}
	case containsAny(msg, "already known", "transaction underpriced"):
		return &Error{Kind: ServerError, Code: rpcErr.Code, Message: msg}
	default:
		return &Error{Kind: ServerError, Code: rpcErr.Code, Message: msg}
	}
}

func dataInfo(data interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	return map[string]interface{}{"data": data}
}

// revertDataBytes extracts the raw revert bytes out of a JSON-RPC error's
// "data" field, which providers shape inconsistently: a bare 0x-hex string,
// or an object carrying one under a "data" key (e.g. Geth-family nodes).
func revertDataBytes(data interface{}) ([]byte, bool) {
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, false
		}
		return b, true
	case map[string]interface{}:
		if s, ok := v["data"].(string); ok {
			b, err := hexutil.Decode(s)
			if err == nil {
				return b, true
			}
		}
	}
	return nil, false
}

// NewCallException builds a CALL_EXCEPTION error directly from a revert
// payload, for callers (the contract facade) that already hold the raw
// return data from an eth_call rather than a JSON-RPC error envelope.
func NewCallException(action string, transaction interface{}, data []byte) *Error {
	e := &Error{Kind: CallException, ShortMessage: "execution reverted", Action: action, Transaction: transaction, Data: data}
	if reason, found, err := abi.DecodeRevertReason(data); err == nil && found {
		e.Reason = reason
		e.Message = reason
	}
	return e
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if indexFold(s, sub) >= 0 {
			return true
		}
	}
	return false
}

// indexFold is a small case-insensitive substring search, avoiding a
// strings.ToLower allocation per candidate on the hot classify path.
func indexFold(s, sub string) int {
	if sub == "" {
		return 0
	}
	n, m := len(s), len(sub)
	for i := 0; i+m <= n; i++ {
		if equalFold(s[i:i+m], sub) {
			return i
		}
	}
	return -1
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
