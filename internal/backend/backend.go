// Package backend provides read-only chain lookups for the wallet balances
// the UI shows. No keys are handled here.
package backend

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// Common errors
var (
	ErrNotConnected       = errors.New("backend not connected")
	ErrAddressNotFound    = errors.New("address not found")
	ErrRateLimited        = errors.New("rate limited")
	ErrUnsupportedBackend = errors.New("unsupported backend type")
	ErrNoBackend          = errors.New("no backend for asset")
)

// Type represents the backend type.
type Type string

const (
	TypeMempool   Type = "mempool"   // mempool.space API
	TypeEsplora   Type = "esplora"   // blockstream.info API
	TypeBlockbook Type = "blockbook" // Trezor Blockbook API
	TypeEVM       Type = "evm"       // Ethereum JSON-RPC node
)

// Balance is an address balance in the asset's smallest unit.
type Balance struct {
	Symbol    string   `json:"symbol"`
	Address   string   `json:"address"`
	Confirmed *big.Int `json:"confirmed"`
	Pending   *big.Int `json:"pending"`
	Decimals  uint8    `json:"decimals"`
}

// Backend defines the read-only chain data provider.
type Backend interface {
	Type() Type
	Connect(ctx context.Context) error
	Close() error
	IsConnected() bool

	// Balance returns confirmed and pending balances for address.
	Balance(ctx context.Context, address string) (*Balance, error)

	// BlockHeight returns the chain tip height.
	BlockHeight(ctx context.Context) (int64, error)
}

// Config contains backend configuration.
type Config struct {
	Type       Type   `yaml:"type"`
	MainnetURL string `yaml:"mainnet"`
	TestnetURL string `yaml:"testnet"`

	// Optional settings
	Timeout int `yaml:"timeout,omitempty"` // seconds, default 30
}

// URL returns the endpoint for network.
func (c *Config) URL(network chain.Network) string {
	if network == chain.Testnet {
		return c.TestnetURL
	}
	return c.MainnetURL
}

// DefaultConfigs returns default backend configurations for the wallet assets.
func DefaultConfigs() map[string]*Config {
	return map[string]*Config{
		"BTC": {
			Type:       TypeMempool,
			MainnetURL: "https://mempool.space/api",
			TestnetURL: "https://mempool.space/testnet4/api",
		},
		"ETH": {
			Type:       TypeEVM,
			MainnetURL: "https://eth.llamarpc.com",
			TestnetURL: "https://ethereum-sepolia-rpc.publicnode.com",
		},
	}
}

// Registry holds backend instances by asset symbol.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates a new backend registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// NewRegistryFromConfigs builds backends for every config with a URL on network.
func NewRegistryFromConfigs(configs map[string]*Config, network chain.Network) (*Registry, error) {
	r := NewRegistry()

	for symbol, cfg := range configs {
		url := cfg.URL(network)
		if url == "" {
			continue
		}

		params, ok := chain.Get(symbol, network)
		if !ok {
			return nil, errors.New("unknown asset " + symbol)
		}

		switch cfg.Type {
		case TypeMempool:
			r.Register(symbol, NewMempoolBackend(url, params, cfg.Timeout))
		case TypeEsplora:
			r.Register(symbol, NewEsploraBackend(url, params, cfg.Timeout))
		case TypeBlockbook:
			r.Register(symbol, NewBlockbookBackend(url, params, cfg.Timeout))
		case TypeEVM:
			r.Register(symbol, NewEVMBackend(url, params))
		default:
			return nil, ErrUnsupportedBackend
		}
	}

	return r, nil
}

// Register adds a backend to the registry.
func (r *Registry) Register(symbol string, backend Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[strings.ToUpper(symbol)] = backend
}

// Get returns a backend by symbol.
func (r *Registry) Get(symbol string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[strings.ToUpper(symbol)]
	return b, ok
}

// List returns all registered symbols, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	symbols := make([]string, 0, len(r.backends))
	for s := range r.backends {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Balance looks up address on the backend registered for symbol.
func (r *Registry) Balance(ctx context.Context, symbol, address string) (*Balance, error) {
	b, ok := r.Get(symbol)
	if !ok {
		return nil, ErrNoBackend
	}
	return b.Balance(ctx, address)
}

// ConnectAll connects all registered backends.
func (r *Registry) ConnectAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.backends {
		if err := b.Connect(ctx); err != nil {
			return err
		}
	}
	return nil
}

// CloseAll closes all registered backends.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.backends {
		b.Close()
	}
}
