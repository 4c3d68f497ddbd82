package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evoq-ethereum/ethgo/ethgoerr"
)

// startStub serves fn's responses keyed by request id, letting tests model
// out-of-order batch responses explicitly.
func startStub(t *testing.T, handler func([]Request) []Response) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var single Request
		var batch []Request
		body, _ := readAll(r)
		if err := json.Unmarshal(body, &batch); err == nil && len(batch) > 0 {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(handler(batch))
			return
		}
		_ = json.Unmarshal(body, &single)
		resps := handler([]Request{single})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resps[0])
	}))
}

func readAll(r *http.Request) ([]byte, error) {
	buf := make([]byte, 0, 1024)
	chunk := make([]byte, 1024)
	for {
		n, err := r.Body.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			break
		}
	}
	return buf, nil
}

func TestSendSingle(t *testing.T) {
	srv := startStub(t, func(reqs []Request) []Response {
		return []Response{{JSONRPC: "2.0", ID: reqs[0].ID, Result: json.RawMessage(`"0x2a"`)}}
	})
	defer srv.Close()

	tr := NewTransport(srv.URL, nil)
	n, err := tr.callQuantity(context.Background(), "eth_blockNumber")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 42 {
		t.Errorf("n = %d, want 42", n)
	}
}

func TestSendBatchReordersResponses(t *testing.T) {
	srv := startStub(t, func(reqs []Request) []Response {
		// Reply in reverse order to exercise re-keying by id; each result
		// echoes its request's method so misplaced results are detectable.
		out := make([]Response, len(reqs))
		for i, r := range reqs {
			out[len(reqs)-1-i] = Response{JSONRPC: "2.0", ID: r.ID, Result: json.RawMessage(`"` + r.Method + `"`)}
		}
		return out
	})
	defer srv.Close()

	tr := NewTransport(srv.URL, nil)
	calls := []BatchCall{
		{Method: "eth_blockNumber"},
		{Method: "eth_gasPrice"},
		{Method: "eth_chainId"},
	}
	results, err := tr.SendBatch(context.Background(), calls)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result[%d] err = %v", i, r.Err)
		}
		if want := `"` + calls[i].Method + `"`; string(r.Result) != want {
			t.Errorf("result[%d] = %s, want %s", i, r.Result, want)
		}
	}
}

func TestChainIDIsCached(t *testing.T) {
	calls := 0
	srv := startStub(t, func(reqs []Request) []Response {
		calls++
		return []Response{{JSONRPC: "2.0", ID: reqs[0].ID, Result: json.RawMessage(`"0x1"`)}}
	})
	defer srv.Close()

	tr := NewTransport(srv.URL, nil)
	for i := 0; i < 3; i++ {
		id, err := tr.ChainID(context.Background())
		if err != nil {
			t.Fatalf("ChainID: %v", err)
		}
		if id != 1 {
			t.Fatalf("id = %d, want 1", id)
		}
	}
	if calls != 1 {
		t.Errorf("eth_chainId was called %d times, want 1 (should be cached)", calls)
	}
}

func TestWaitForTransactionReturnsOnFirstReceipt(t *testing.T) {
	srv := startStub(t, func(reqs []Request) []Response {
		return []Response{{JSONRPC: "2.0", ID: reqs[0].ID, Result: json.RawMessage(`{"status":"0x1","blockNumber":"0x10"}`)}}
	})
	defer srv.Close()

	tr := NewTransport(srv.URL, nil)
	var hash [32]byte
	receipt, err := tr.WaitForTransaction(context.Background(), hash, 1, 5)
	if err != nil {
		t.Fatalf("WaitForTransaction: %v", err)
	}
	if receipt == nil {
		t.Fatal("expected a receipt")
	}
}

func TestWaitForTransactionTimesOutWaitingForReceipt(t *testing.T) {
	srv := startStub(t, func(reqs []Request) []Response {
		return []Response{{JSONRPC: "2.0", ID: reqs[0].ID, Result: json.RawMessage(`null`)}}
	})
	defer srv.Close()

	tr := NewTransport(srv.URL, nil)
	var hash [32]byte
	// A zero timeout means the deadline has already elapsed before the
	// first poll, so this deterministically exercises the TIMEOUT path
	// instead of racing a real one-second ticker.
	_, err := tr.WaitForTransaction(context.Background(), hash, 1, 0)
	var classified *ethgoerr.Error
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !asEthgoerr(err, &classified) || classified.Kind != ethgoerr.Timeout {
		t.Fatalf("got %v, want ethgoerr.Timeout", err)
	}
}

func asEthgoerr(err error, out **ethgoerr.Error) bool {
	e, ok := err.(*ethgoerr.Error)
	if ok {
		*out = e
	}
	return ok
}

func TestClassifiesRPCError(t *testing.T) {
	srv := startStub(t, func(reqs []Request) []Response {
		return []Response{{JSONRPC: "2.0", ID: reqs[0].ID, Error: &wireError{Code: -32000, Message: "insufficient funds for gas * price + value"}}}
	})
	defer srv.Close()

	tr := NewTransport(srv.URL, nil)
	_, err := tr.Send(context.Background(), "eth_sendRawTransaction", "0x00")
	if err == nil {
		t.Fatal("expected a classified error")
	}
	var classified *ethgoerr.Error
	if !asEthgoerr(err, &classified) || classified.Kind != ethgoerr.InsufficientFunds {
		t.Fatalf("got %v, want ethgoerr.InsufficientFunds", err)
	}
}
