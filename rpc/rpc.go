// Package rpc implements the JSON-RPC 2.0 transport this module speaks to
// an Ethereum node over: single and batched requests, out-of-order
// response re-keying, and typed wrappers for the methods the rest of the
// module needs. The request/response envelope and the double-checked-lock
// caching pattern follow a conventional Go JSON-RPC client's transport
// layer.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evoq-ethereum/ethgo/abi"
	"github.com/evoq-ethereum/ethgo/ethgoerr"
	"github.com/evoq-ethereum/ethgo/hexutil"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Request is one JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

type wireError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Response is one JSON-RPC 2.0 reply.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
}

// Transport is a JSON-RPC client bound to a single node URL.
type Transport struct {
	client *resty.Client
	url    string
	log    *zap.Logger

	idCounter uint64

	chainIDMu    sync.RWMutex
	chainIDCache uint64
	chainIDGroup singleflight.Group
}

// NewTransport builds a Transport against url. log may be nil, in which
// case a no-op logger is used.
func NewTransport(url string, log *zap.Logger) *Transport {
	if log == nil {
		log = zap.NewNop()
	}
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	return &Transport{client: client, url: url, log: log}
}

func (t *Transport) nextID() uint64 {
	return atomic.AddUint64(&t.idCounter, 1)
}

// Send issues a single JSON-RPC call and returns its raw result, classified
// into the ethgoerr taxonomy on failure.
func (t *Transport) Send(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	req := Request{JSONRPC: "2.0", Method: method, Params: params, ID: t.nextID()}
	var resp Response

	httpResp, err := t.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(t.url)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if httpResp.IsError() {
		return nil, ethgoerr.New(ethgoerr.ServerError, "node returned HTTP %d calling %s", httpResp.StatusCode(), method)
	}
	if resp.Error != nil {
		return nil, ethgoerr.Classify(&ethgoerr.RPCError{Code: resp.Error.Code, Message: resp.Error.Message, Data: resp.Error.Data})
	}
	t.log.Debug("rpc call", zap.String("method", method), zap.Uint64("id", req.ID))
	return resp.Result, nil
}

// BatchCall is one entry of a batched request.
type BatchCall struct {
	Method string
	Params []interface{}
}

// BatchResult is one entry of a batched response, positionally aligned
// with the BatchCall slice SendBatch was given — regardless of the order
// the node actually replied in.
type BatchResult struct {
	Result json.RawMessage
	Err    error
}

// SendBatch issues all calls as one JSON-RPC batch POST and re-keys the
// (possibly out-of-order) responses back onto the caller's original order
// by request id.
func (t *Transport) SendBatch(ctx context.Context, calls []BatchCall) ([]BatchResult, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]Request, len(calls))
	idToIndex := make(map[uint64]int, len(calls))
	for i, c := range calls {
		id := t.nextID()
		reqs[i] = Request{JSONRPC: "2.0", Method: c.Method, Params: c.Params, ID: id}
		idToIndex[id] = i
	}

	var resps []Response
	httpResp, err := t.client.R().
		SetContext(ctx).
		SetBody(reqs).
		SetResult(&resps).
		Post(t.url)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if httpResp.IsError() {
		return nil, ethgoerr.New(ethgoerr.ServerError, "node returned HTTP %d for batch of %d", httpResp.StatusCode(), len(calls))
	}

	out := make([]BatchResult, len(calls))
	for _, r := range resps {
		idx, ok := idToIndex[r.ID]
		if !ok {
			continue // response to an id we didn't send; ignore rather than fail the whole batch
		}
		if r.Error != nil {
			out[idx] = BatchResult{Err: ethgoerr.Classify(&ethgoerr.RPCError{Code: r.Error.Code, Message: r.Error.Message, Data: r.Error.Data})}
		} else {
			out[idx] = BatchResult{Result: r.Result}
		}
	}
	return out, nil
}

func classifyTransportError(err error) error {
	return ethgoerr.Wrap(ethgoerr.NetworkError, err)
}

// --- typed convenience wrappers ---------------------------------------

func (t *Transport) callQuantity(ctx context.Context, method string, params ...interface{}) (uint64, error) {
	raw, err := t.Send(ctx, method, params...)
	if err != nil {
		return 0, err
	}
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return 0, ethgoerr.New(ethgoerr.BadData, "decoding %s result: %v", method, err)
	}
	n, err := hexToBig(hexStr)
	if err != nil {
		return 0, ethgoerr.New(ethgoerr.BadData, "decoding %s quantity %q: %v", method, hexStr, err)
	}
	if !n.IsUint64() {
		return 0, ethgoerr.New(ethgoerr.BadData, "%s result %s overflows uint64", method, n)
	}
	return n.Uint64(), nil
}

func (t *Transport) callBigQuantity(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	raw, err := t.Send(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return nil, ethgoerr.New(ethgoerr.BadData, "decoding %s result: %v", method, err)
	}
	return hexToBig(hexStr)
}

func hexToBig(s string) (*big.Int, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return n, nil
}

func addrParam(a abi.Address) string { return a.Hex() }

// ChainID returns the network's chain id, cached after the first lookup
// behind a singleflight call so concurrent callers during warm-up collapse
// onto one request (grounded on a double-checked-locking client cache).
func (t *Transport) ChainID(ctx context.Context) (uint64, error) {
	t.chainIDMu.RLock()
	if t.chainIDCache != 0 {
		defer t.chainIDMu.RUnlock()
		return t.chainIDCache, nil
	}
	t.chainIDMu.RUnlock()

	v, err, _ := t.chainIDGroup.Do("chainId", func() (interface{}, error) {
		id, err := t.callQuantity(ctx, "eth_chainId")
		if err != nil {
			return nil, err
		}
		t.chainIDMu.Lock()
		t.chainIDCache = id
		t.chainIDMu.Unlock()
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

// BlockNumber returns the most recent block number.
func (t *Transport) BlockNumber(ctx context.Context) (uint64, error) {
	return t.callQuantity(ctx, "eth_blockNumber")
}

// NonceAt returns addr's transaction count at the latest block (its next
// usable nonce).
func (t *Transport) NonceAt(ctx context.Context, addr abi.Address) (uint64, error) {
	return t.callQuantity(ctx, "eth_getTransactionCount", addrParam(addr), "latest")
}

// GetBalance returns addr's wei balance at the latest block.
func (t *Transport) GetBalance(ctx context.Context, addr abi.Address) (*big.Int, error) {
	return t.callBigQuantity(ctx, "eth_getBalance", addrParam(addr), "latest")
}

// GasPrice returns the node's suggested legacy gas price.
func (t *Transport) GasPrice(ctx context.Context) (*big.Int, error) {
	return t.callBigQuantity(ctx, "eth_gasPrice")
}

// priorityFeeWei is the fixed EIP-1559 priority fee spec.md §4.F prescribes
// (1.5 gwei) — this package never queries a node for a suggested tip, since
// eth_maxPriorityFeePerGas isn't among the JSON-RPC methods spec.md §6 lists
// as consumed and many non-geth nodes don't implement it.
var priorityFeeWei = big.NewInt(1_500_000_000)

// SuggestFees implements spec.md §4.F step 4's fee auto-fill formula:
// query eth_gasPrice and the latest block; if the block exposes
// baseFeePerGas, return an EIP-1559 suggestion (tip is fixed at 1.5 gwei,
// feeCap = 2*baseFee+tip) with gasPrice left nil; otherwise return the
// legacy gasPrice with tip/feeCap left nil.
func (t *Transport) SuggestFees(ctx context.Context) (gasPrice, tip, feeCap *big.Int, err error) {
	price, err := t.GasPrice(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	raw, err := t.Send(ctx, "eth_getBlockByNumber", "latest", false)
	if err != nil {
		return nil, nil, nil, err
	}
	var block struct {
		BaseFeePerGas *string `json:"baseFeePerGas"`
	}
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, nil, nil, ethgoerr.New(ethgoerr.BadData, "decoding latest block: %v", err)
	}
	if block.BaseFeePerGas == nil {
		return price, nil, nil, nil
	}
	baseFee, err := hexToBig(*block.BaseFeePerGas)
	if err != nil {
		return nil, nil, nil, ethgoerr.New(ethgoerr.BadData, "decoding base fee: %v", err)
	}
	feeCap = new(big.Int).Add(priorityFeeWei, new(big.Int).Mul(baseFee, big.NewInt(2)))
	return nil, priorityFeeWei, feeCap, nil
}

// CallMsg mirrors an eth_call / eth_estimateGas argument object.
type CallMsg struct {
	From  *abi.Address
	To    *abi.Address
	Value *big.Int
	Data  []byte
}

func (c CallMsg) toParams() map[string]interface{} {
	p := map[string]interface{}{}
	if c.From != nil {
		p["from"] = c.From.Hex()
	}
	if c.To != nil {
		p["to"] = c.To.Hex()
	}
	if c.Value != nil {
		p["value"] = "0x" + c.Value.Text(16)
	}
	if len(c.Data) > 0 {
		p["data"] = "0x" + hexEncode(c.Data)
	}
	return p
}

// MarshalJSON renders c as the same argument object Call and EstimateGas
// send, so a CallMsg placed directly in batch params goes out in eth_call
// shape.
func (c CallMsg) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toParams())
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

// Call performs an eth_call against the latest block and returns the raw
// return data (or the revert reason classified as CALL_EXCEPTION).
func (t *Transport) Call(ctx context.Context, msg CallMsg) ([]byte, error) {
	raw, err := t.Send(ctx, "eth_call", msg.toParams(), "latest")
	if err != nil {
		return nil, err
	}
	var hexStr string
	if err := json.Unmarshal(raw, &hexStr); err != nil {
		return nil, ethgoerr.New(ethgoerr.BadData, "decoding eth_call result: %v", err)
	}
	return decodeOrEmpty(hexStr), nil
}

// EstimateGas implements account.ChainReader's EstimateGas.
func (t *Transport) EstimateGas(ctx context.Context, from, to *abi.Address, value *big.Int, data []byte) (uint64, error) {
	msg := CallMsg{From: from, To: to, Value: value, Data: data}
	return t.callQuantity(ctx, "eth_estimateGas", msg.toParams())
}

// SendRawTransaction broadcasts a signed, RLP-encoded transaction and
// returns its hash.
func (t *Transport) SendRawTransaction(ctx context.Context, raw []byte) ([32]byte, error) {
	hexStr, err := t.Send(ctx, "eth_sendRawTransaction", "0x"+hexEncode(raw))
	if err != nil {
		return [32]byte{}, err
	}
	var s string
	if err := json.Unmarshal(hexStr, &s); err != nil {
		return [32]byte{}, ethgoerr.New(ethgoerr.BadData, "decoding transaction hash: %v", err)
	}
	var out [32]byte
	copy(out[:], decodeOrEmpty(s))
	return out, nil
}

func decodeOrEmpty(s string) []byte {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil
	}
	return b
}

// GetTransactionReceipt fetches a transaction's receipt, returning
// (nil, nil) if it is not yet mined.
func (t *Transport) GetTransactionReceipt(ctx context.Context, hash [32]byte) (json.RawMessage, error) {
	raw, err := t.Send(ctx, "eth_getTransactionReceipt", "0x"+hexEncode(hash[:]))
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return raw, nil
}

// WaitForTransaction polls eth_getTransactionReceipt once a second until hash
// is mined with at least confirmations blocks built on top of it, or
// timeoutSeconds elapses (spec.md §4.G). confirmations <= 1 returns as soon
// as a receipt appears; confirmations > 1 additionally polls eth_blockNumber
// until current - receipt.blockNumber + 1 >= confirmations.
func (t *Transport) WaitForTransaction(ctx context.Context, hash [32]byte, confirmations uint64, timeoutSeconds int) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var receipt json.RawMessage
	for receipt == nil {
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}
		r, err := t.GetTransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		receipt = r
		if receipt == nil {
			if err := sleepOrDeadline(ctx, ticker); err != nil {
				return nil, err
			}
		}
	}

	if confirmations <= 1 {
		return receipt, nil
	}

	var parsed struct {
		BlockNumber string `json:"blockNumber"`
	}
	if err := json.Unmarshal(receipt, &parsed); err != nil {
		return nil, ethgoerr.New(ethgoerr.BadData, "decoding receipt block number: %v", err)
	}
	receiptBlock, err := hexToBig(parsed.BlockNumber)
	if err != nil {
		return nil, ethgoerr.New(ethgoerr.BadData, "decoding receipt block number %q: %v", parsed.BlockNumber, err)
	}

	for {
		current, err := t.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		have := new(big.Int).Sub(new(big.Int).SetUint64(current), receiptBlock)
		have.Add(have, big.NewInt(1))
		if have.Cmp(new(big.Int).SetUint64(confirmations)) >= 0 {
			return receipt, nil
		}
		if err := sleepOrDeadline(ctx, ticker); err != nil {
			return nil, err
		}
	}
}

// sleepOrDeadline waits for the next ticker tick, translating a context
// deadline into ethgoerr.Timeout (spec.md §4.G: "Exceeding timeout fails
// with TIMEOUT") and any other cancellation into ethgoerr.Cancelled.
func sleepOrDeadline(ctx context.Context, ticker *time.Ticker) error {
	select {
	case <-ctx.Done():
		return ctxErr(ctx)
	case <-ticker.C:
		return nil
	}
}

// ctxErr classifies ctx's cancellation cause, if any, into the taxonomy;
// returns nil while ctx is still live.
func ctxErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return ethgoerr.New(ethgoerr.Timeout, "waiting for transaction receipt")
	default:
		return ethgoerr.Wrap(ethgoerr.Cancelled, ctx.Err())
	}
}

// GetLogs fetches logs matching a filter built by the contract package and
// returns the raw JSON-RPC result for it to decode against an ABI event.
func (t *Transport) GetLogs(ctx context.Context, filter map[string]interface{}) (json.RawMessage, error) {
	return t.Send(ctx, "eth_getLogs", filter)
}
