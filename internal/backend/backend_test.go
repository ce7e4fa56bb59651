package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

func mustParams(t *testing.T, symbol string, network chain.Network) *chain.Params {
	t.Helper()
	p, ok := chain.Get(symbol, network)
	if !ok {
		t.Fatalf("no params for %s/%s", symbol, network)
	}
	return p
}

func TestDefaultConfigs(t *testing.T) {
	configs := DefaultConfigs()

	tests := []struct {
		symbol       string
		expectedType Type
	}{
		{"BTC", TypeMempool},
		{"ETH", TypeEVM},
	}

	for _, tc := range tests {
		cfg, ok := configs[tc.symbol]
		if !ok {
			t.Errorf("expected default config for %s", tc.symbol)
			continue
		}
		if cfg.Type != tc.expectedType {
			t.Errorf("%s: type = %s, want %s", tc.symbol, cfg.Type, tc.expectedType)
		}
		if cfg.URL(chain.Mainnet) == "" || cfg.URL(chain.Testnet) == "" {
			t.Errorf("%s: both network URLs should be set", tc.symbol)
		}
	}
}

func TestNewMempoolBackend(t *testing.T) {
	b := NewMempoolBackend("https://mempool.space/api/", mustParams(t, "BTC", chain.Mainnet), 0)

	if b.Type() != TypeMempool {
		t.Errorf("Type() = %s, want mempool", b.Type())
	}
	if b.IsConnected() {
		t.Error("should not be connected initially")
	}
	if b.baseURL != "https://mempool.space/api" {
		t.Errorf("baseURL = %s, trailing slash should be removed", b.baseURL)
	}
}

func newMempoolServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/blocks/tip/height", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "871234\n")
	})
	mux.HandleFunc("/address/bc1qfunded", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"address": "bc1qfunded",
			"chain_stats": {"funded_txo_sum": 150000000, "spent_txo_sum": 50000000},
			"mempool_stats": {"funded_txo_sum": 1000, "spent_txo_sum": 3000}
		}`)
	})
	mux.HandleFunc("/address/bc1qlimited", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMempoolBalance(t *testing.T) {
	srv := newMempoolServer(t)
	b := NewMempoolBackend(srv.URL, mustParams(t, "BTC", chain.Mainnet), 5)
	ctx := context.Background()

	if err := b.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !b.IsConnected() {
		t.Error("expected connected")
	}

	bal, err := b.Balance(ctx, "bc1qfunded")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if bal.Confirmed.Int64() != 100000000 {
		t.Errorf("Confirmed = %s, want 100000000", bal.Confirmed)
	}
	if bal.Pending.Int64() != -2000 {
		t.Errorf("Pending = %s, want -2000", bal.Pending)
	}
	if bal.Decimals != 8 || bal.Symbol != "BTC" {
		t.Errorf("unexpected asset %s/%d", bal.Symbol, bal.Decimals)
	}

	height, err := b.BlockHeight(ctx)
	if err != nil || height != 871234 {
		t.Errorf("BlockHeight() = %d, %v", height, err)
	}

	if err := b.Close(); err != nil || b.IsConnected() {
		t.Error("Close should disconnect")
	}
}

func TestMempoolErrors(t *testing.T) {
	srv := newMempoolServer(t)
	b := NewMempoolBackend(srv.URL, mustParams(t, "BTC", chain.Mainnet), 5)
	ctx := context.Background()

	if _, err := b.Balance(ctx, "bc1qunknown"); !errors.Is(err, ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
	if _, err := b.Balance(ctx, "bc1qlimited"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}

	dead := NewMempoolBackend("http://127.0.0.1:1", mustParams(t, "BTC", chain.Mainnet), 1)
	if err := dead.Connect(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestBlockbookBackend(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"blockbook": {"bestHeight": 871240}, "backend": {"chain": "main"}}`)
	})
	mux.HandleFunc("/api/v2/address/bc1qfunded", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("details") != "basic" {
			t.Errorf("details = %q, want basic", r.URL.Query().Get("details"))
		}
		fmt.Fprint(w, `{"address": "bc1qfunded", "balance": "250000000", "unconfirmedBalance": "-1500"}`)
	})
	mux.HandleFunc("/api/v2/address/bc1qbroken", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"address": "bc1qbroken", "balance": "lots"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	b := NewBlockbookBackend(srv.URL+"/api/v2/", mustParams(t, "BTC", chain.Mainnet), 5)
	ctx := context.Background()

	if b.Type() != TypeBlockbook {
		t.Errorf("Type() = %s, want blockbook", b.Type())
	}
	if err := b.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	bal, err := b.Balance(ctx, "bc1qfunded")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if bal.Confirmed.Int64() != 250000000 || bal.Pending.Int64() != -1500 {
		t.Errorf("Balance() = %s / %s", bal.Confirmed, bal.Pending)
	}

	if _, err := b.Balance(ctx, "bc1qbroken"); err == nil {
		t.Error("expected error for non-numeric balance")
	}
	if _, err := b.Balance(ctx, "bc1qunknown"); !errors.Is(err, ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}

	height, err := b.BlockHeight(ctx)
	if err != nil || height != 871240 {
		t.Errorf("BlockHeight() = %d, %v", height, err)
	}
}

func TestEsploraBackend(t *testing.T) {
	srv := newMempoolServer(t)
	b := NewEsploraBackend(srv.URL, mustParams(t, "BTC", chain.Mainnet), 5)

	if b.Type() != TypeEsplora {
		t.Errorf("Type() = %s, want esplora", b.Type())
	}
	bal, err := b.Balance(context.Background(), "bc1qfunded")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if bal.Confirmed.Int64() != 100000000 {
		t.Errorf("Confirmed = %s, want 100000000", bal.Confirmed)
	}
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newEthServer(t *testing.T, chainID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result interface{}
		switch req.Method {
		case "eth_chainId":
			result = chainID
		case "eth_blockNumber":
			result = "0x1312d00"
		case "eth_getBalance":
			var tag string
			_ = json.Unmarshal(req.Params[1], &tag)
			if tag == "pending" {
				result = "0xde0b6b3a7640000" // 1 ETH
			} else {
				result = "0x6f05b59d3b20000" // 0.5 ETH
			}
		default:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEVMBackendBalance(t *testing.T) {
	srv := newEthServer(t, "0x1")
	b := NewEVMBackend(srv.URL, mustParams(t, "ETH", chain.Mainnet))
	ctx := context.Background()

	if _, err := b.Balance(ctx, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected before Connect, got %v", err)
	}

	if err := b.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer b.Close()

	bal, err := b.Balance(ctx, "0x9858effd232b4033e47d90003d41ec34ecaeda94")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if bal.Confirmed.String() != "500000000000000000" {
		t.Errorf("Confirmed = %s", bal.Confirmed)
	}
	if bal.Pending.String() != "500000000000000000" {
		t.Errorf("Pending = %s", bal.Pending)
	}
	if bal.Address != "0x9858EfFD232B4033E47d90003D41EC34EcaEda94" {
		t.Errorf("Address not checksummed: %s", bal.Address)
	}
	if bal.Decimals != 18 {
		t.Errorf("Decimals = %d", bal.Decimals)
	}

	height, err := b.BlockHeight(ctx)
	if err != nil || height != 20000000 {
		t.Errorf("BlockHeight() = %d, %v", height, err)
	}

	if _, err := b.Balance(ctx, "not-an-address"); err == nil {
		t.Error("expected error for invalid address")
	}
}

func TestEVMBackendChainIDMismatch(t *testing.T) {
	srv := newEthServer(t, "0xaa36a7") // sepolia
	b := NewEVMBackend(srv.URL, mustParams(t, "ETH", chain.Mainnet))

	if err := b.Connect(context.Background()); err == nil {
		t.Fatal("expected chain id mismatch")
	}
	if b.IsConnected() {
		t.Error("mismatched backend should stay disconnected")
	}
}

func TestRegistryFromConfigs(t *testing.T) {
	configs := map[string]*Config{
		"BTC": {Type: TypeEsplora, MainnetURL: "https://blockstream.info/api"},
		"ETH": {Type: TypeEVM, MainnetURL: "https://eth.example", TestnetURL: ""},
	}

	r, err := NewRegistryFromConfigs(configs, chain.Mainnet)
	if err != nil {
		t.Fatalf("NewRegistryFromConfigs() error = %v", err)
	}
	if got := r.List(); len(got) != 2 || got[0] != "BTC" || got[1] != "ETH" {
		t.Errorf("List() = %v", got)
	}
	if b, ok := r.Get("btc"); !ok || b.Type() != TypeEsplora {
		t.Error("lookup should be case-insensitive")
	}

	testnet, err := NewRegistryFromConfigs(configs, chain.Testnet)
	if err != nil {
		t.Fatalf("testnet registry error = %v", err)
	}
	if len(testnet.List()) != 0 {
		t.Errorf("configs without testnet URLs should be skipped, got %v", testnet.List())
	}

	if _, err := r.Balance(context.Background(), "LUSD", "0x0"); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}

	_, err = NewRegistryFromConfigs(map[string]*Config{"BTC": {Type: "electrum", MainnetURL: "x"}}, chain.Mainnet)
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("expected ErrUnsupportedBackend, got %v", err)
	}
}

func TestExplorerLinks(t *testing.T) {
	e := Explorers{Bitcoin: "https://mempool.space/", Ethereum: "https://etherscan.io"}

	tests := []struct {
		name    string
		fn      func() (string, error)
		want    string
		wantErr bool
	}{
		{"btc tx", func() (string, error) { return e.TxURL("bitcoin", "abcd") }, "https://mempool.space/tx/abcd", false},
		{"btc address", func() (string, error) { return e.AddressURL("bitcoin", "bc1qxyz") }, "https://mempool.space/address/bc1qxyz", false},
		{"eth tx", func() (string, error) { return e.TxURL("ethereum", "0xff") }, "https://etherscan.io/tx/0xff", false},
		{"eth address", func() (string, error) { return e.AddressURL("ethereum", "0xabc") }, "https://etherscan.io/address/0xabc", false},
		{"unknown chain", func() (string, error) { return e.TxURL("solana", "x") }, "", true},
		{"empty id", func() (string, error) { return e.TxURL("bitcoin", "") }, "", true},
		{"unconfigured", func() (string, error) { return Explorers{}.TxURL("bitcoin", "x") }, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	links, err := e.Links("bitcoin", "", "bc1qxyz")
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if links.Tx != "" || links.Address != "https://mempool.space/address/bc1qxyz" {
		t.Errorf("Links() = %+v", links)
	}
}
