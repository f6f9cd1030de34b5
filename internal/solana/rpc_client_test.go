package solana

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// rpcServer answers every request with handler(req) as the result.
func rpcServer(t *testing.T, method string, handler func(req rpcRequest) interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		if req.Method != method {
			t.Errorf("expected method %s, got %s", method, req.Method)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handler(req),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPClient_GetBalance(t *testing.T) {
	server := rpcServer(t, "getBalance", func(req rpcRequest) interface{} {
		if req.Params[0] != "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T" {
			t.Errorf("unexpected address param: %v", req.Params[0])
		}
		return map[string]interface{}{
			"context": map[string]interface{}{"slot": 1},
			"value":   uint64(2_500_000_000),
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	lamports, err := client.GetBalance(context.Background(), "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if lamports != 2_500_000_000 {
		t.Errorf("expected 2500000000 lamports, got %d", lamports)
	}
}

func TestHTTPClient_GetLatestBlockhash(t *testing.T) {
	server := rpcServer(t, "getLatestBlockhash", func(req rpcRequest) interface{} {
		return map[string]interface{}{
			"value": map[string]interface{}{
				"blockhash":            "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
				"lastValidBlockHeight": uint64(3090),
			},
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	bh, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash: %v", err)
	}
	if bh.Hash != "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N" {
		t.Errorf("unexpected blockhash %s", bh.Hash)
	}
	if bh.LastValidBlockHeight != 3090 {
		t.Errorf("unexpected last valid height %d", bh.LastValidBlockHeight)
	}
}

func TestHTTPClient_SendTransaction(t *testing.T) {
	server := rpcServer(t, "sendTransaction", func(req rpcRequest) interface{} {
		if req.Params[0] != "AQID" {
			t.Errorf("unexpected tx param: %v", req.Params[0])
		}
		cfg, _ := req.Params[1].(map[string]interface{})
		if cfg["encoding"] != "base64" {
			t.Errorf("expected base64 encoding, got %v", cfg["encoding"])
		}
		return "2id3YC2jK9G5Wo2phDx4gJVAew8DcY5NAojnVuao8rkxwPYPe8cSwE5GzhEgJA2y8fVjDEo6iR6ykBvDxrTQrtpb"
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	sig, err := client.SendTransaction(context.Background(), "AQID")
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if sig != "2id3YC2jK9G5Wo2phDx4gJVAew8DcY5NAojnVuao8rkxwPYPe8cSwE5GzhEgJA2y8fVjDEo6iR6ykBvDxrTQrtpb" {
		t.Errorf("unexpected signature %s", sig)
	}
}

func TestHTTPClient_GetSignatureStatuses(t *testing.T) {
	server := rpcServer(t, "getSignatureStatuses", func(req rpcRequest) interface{} {
		return map[string]interface{}{
			"value": []interface{}{
				map[string]interface{}{
					"slot":               uint64(72),
					"confirmations":      uint64(10),
					"err":                nil,
					"confirmationStatus": "confirmed",
				},
				nil,
				map[string]interface{}{
					"slot":               uint64(48),
					"confirmations":      nil,
					"err":                map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
					"confirmationStatus": "finalized",
				},
			},
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	statuses, err := client.GetSignatureStatuses(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("GetSignatureStatuses: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	if !statuses[0].Reached(CommitmentConfirmed) || statuses[0].Reached(CommitmentFinalized) {
		t.Errorf("status 0 commitment wrong: %s", statuses[0].ConfirmationStatus)
	}
	if statuses[1] != nil {
		t.Errorf("expected nil status for unknown signature")
	}
	if statuses[2].Err == nil || statuses[2].Confirmations != nil {
		t.Errorf("expected failed rooted status, got %+v", statuses[2])
	}
}

func TestHTTPClient_Retry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := attempts.Add(1)
		if count < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]interface{}{"value": uint64(999)},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(3),
		WithRetryDelay(10*time.Millisecond),
	)

	balance, err := client.GetBalance(context.Background(), "addr")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}

	if balance != 999 {
		t.Errorf("expected balance 999, got %d", balance)
	}

	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_RetryExhausted(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(2),
		WithRetryDelay(time.Millisecond),
	)

	_, err := client.GetBalance(context.Background(), "addr")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if IsRPCError(err) {
		t.Errorf("transport failure reported as RPC error: %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_RPCError(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)

		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error": map[string]interface{}{
				"code":    -32002,
				"message": "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit.",
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))

	_, err := client.SendTransaction(context.Background(), "AQID")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %T", err)
	}
	if rpcErr.Code != -32002 {
		t.Errorf("expected code -32002, got %d", rpcErr.Code)
	}
	if attempts.Load() != 1 {
		t.Errorf("RPC errors must not be retried, got %d attempts", attempts.Load())
	}
}

func TestHTTPClient_Observer(t *testing.T) {
	server := rpcServer(t, "getBalance", func(req rpcRequest) interface{} {
		return map[string]interface{}{"value": uint64(1)}
	})
	defer server.Close()

	var observed string
	client := NewHTTPClient(server.URL, WithObserver(func(method string, _ time.Duration, err error) {
		if err == nil {
			observed = method
		}
	}))

	if _, err := client.GetBalance(context.Background(), "addr"); err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if observed != "getBalance" {
		t.Errorf("observer saw %q", observed)
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetBalance(ctx, "addr")
	if err == nil {
		t.Fatal("expected error due to context cancellation")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
