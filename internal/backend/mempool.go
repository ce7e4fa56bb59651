package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// MempoolBackend implements Backend using the mempool.space API.
// Compatible with mempool.space, blockstream.info and self-hosted Esplora.
type MempoolBackend struct {
	baseURL    string
	params     *chain.Params
	httpClient *http.Client
	mu         sync.RWMutex
	connected  bool
}

// NewMempoolBackend creates a new mempool.space backend. timeout is in
// seconds; zero means 30.
func NewMempoolBackend(baseURL string, params *chain.Params, timeout int) *MempoolBackend {
	if timeout <= 0 {
		timeout = 30
	}
	return &MempoolBackend{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		params:  params,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// Type returns TypeMempool.
func (m *MempoolBackend) Type() Type {
	return TypeMempool
}

// Connect tests the connection to the API.
func (m *MempoolBackend) Connect(ctx context.Context) error {
	if _, err := m.BlockHeight(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

// Close closes the connection.
func (m *MempoolBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected returns true if connected.
func (m *MempoolBackend) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Balance returns the confirmed balance and the unconfirmed mempool delta.
func (m *MempoolBackend) Balance(ctx context.Context, address string) (*Balance, error) {
	var result struct {
		Address    string `json:"address"`
		ChainStats struct {
			FundedTxoSum uint64 `json:"funded_txo_sum"`
			SpentTxoSum  uint64 `json:"spent_txo_sum"`
		} `json:"chain_stats"`
		MempoolStats struct {
			FundedTxoSum uint64 `json:"funded_txo_sum"`
			SpentTxoSum  uint64 `json:"spent_txo_sum"`
		} `json:"mempool_stats"`
	}

	if err := m.get(ctx, "/address/"+address, &result); err != nil {
		return nil, err
	}

	confirmed := new(big.Int).SetUint64(result.ChainStats.FundedTxoSum)
	confirmed.Sub(confirmed, new(big.Int).SetUint64(result.ChainStats.SpentTxoSum))

	pending := new(big.Int).SetUint64(result.MempoolStats.FundedTxoSum)
	pending.Sub(pending, new(big.Int).SetUint64(result.MempoolStats.SpentTxoSum))

	return &Balance{
		Symbol:    m.params.Symbol,
		Address:   address,
		Confirmed: confirmed,
		Pending:   pending,
		Decimals:  m.params.Decimals,
	}, nil
}

// BlockHeight returns the current block height.
func (m *MempoolBackend) BlockHeight(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/blocks/tip/height", nil)
	if err != nil {
		return 0, err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
}

func (m *MempoolBackend) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return err
	}

	// Add cache-busting headers to avoid stale CDN responses
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := m.httpClient.Do(req)
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
