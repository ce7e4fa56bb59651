package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// BlockbookBackend implements Backend using Trezor's Blockbook API.
// API docs: https://github.com/trezor/blockbook/blob/master/docs/api.md
type BlockbookBackend struct {
	baseURL    string
	params     *chain.Params
	httpClient *http.Client
	mu         sync.RWMutex
	connected  bool
}

// NewBlockbookBackend creates a new Blockbook backend.
// baseURL should be like "https://btc1.trezor.io/api/v2". timeout is in
// seconds; zero means 30.
func NewBlockbookBackend(baseURL string, params *chain.Params, timeout int) *BlockbookBackend {
	if timeout <= 0 {
		timeout = 30
	}
	return &BlockbookBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		params:  params,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// Type returns TypeBlockbook.
func (b *BlockbookBackend) Type() Type {
	return TypeBlockbook
}

// Connect tests the connection to the API.
func (b *BlockbookBackend) Connect(ctx context.Context) error {
	if _, err := b.BlockHeight(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	return nil
}

// Close closes the connection.
func (b *BlockbookBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
	return nil
}

// IsConnected returns true if connected.
func (b *BlockbookBackend) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

// Balance returns the confirmed balance and the unconfirmed delta. Blockbook
// reports both as decimal strings in the smallest unit.
func (b *BlockbookBackend) Balance(ctx context.Context, address string) (*Balance, error) {
	var result struct {
		Address            string `json:"address"`
		Balance            string `json:"balance"`
		UnconfirmedBalance string `json:"unconfirmedBalance"`
	}

	if err := b.get(ctx, "/address/"+address+"?details=basic", &result); err != nil {
		return nil, err
	}

	confirmed, err := parseUnits(result.Balance)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	pending, err := parseUnits(result.UnconfirmedBalance)
	if err != nil {
		return nil, fmt.Errorf("unconfirmed balance: %w", err)
	}

	if result.Address == "" {
		result.Address = address
	}
	return &Balance{
		Symbol:    b.params.Symbol,
		Address:   result.Address,
		Confirmed: confirmed,
		Pending:   pending,
		Decimals:  b.params.Decimals,
	}, nil
}

// BlockHeight returns the current block height.
func (b *BlockbookBackend) BlockHeight(ctx context.Context) (int64, error) {
	var result struct {
		Blockbook struct {
			BestHeight int64 `json:"bestHeight"`
		} `json:"blockbook"`
	}

	if err := b.get(ctx, "", &result); err != nil {
		return 0, err
	}

	return result.Blockbook.BestHeight, nil
}

// get performs a GET request and decodes JSON response.
func (b *BlockbookBackend) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAddressNotFound
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// parseUnits parses a signed integer amount; empty means zero.
func parseUnits(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// Ensure BlockbookBackend implements Backend
var _ Backend = (*BlockbookBackend)(nil)
