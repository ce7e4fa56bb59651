package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// EVMBackend reads balances from an Ethereum JSON-RPC node.
type EVMBackend struct {
	rpcURL string
	params *chain.Params

	mu     sync.RWMutex
	client *ethclient.Client
}

// NewEVMBackend creates a backend for rpcURL. Nothing is dialed until Connect.
func NewEVMBackend(rpcURL string, params *chain.Params) *EVMBackend {
	return &EVMBackend{rpcURL: rpcURL, params: params}
}

// Type returns TypeEVM.
func (e *EVMBackend) Type() Type {
	return TypeEVM
}

// Connect dials the node and checks its chain id against the configured network.
func (e *EVMBackend) Connect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, e.rpcURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	if e.params.ChainID != 0 && chainID.Uint64() != e.params.ChainID {
		client.Close()
		return fmt.Errorf("node chain id %d does not match expected %d", chainID.Uint64(), e.params.ChainID)
	}

	e.mu.Lock()
	if e.client != nil {
		e.client.Close()
	}
	e.client = client
	e.mu.Unlock()
	return nil
}

// Close closes the RPC client.
func (e *EVMBackend) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
	return nil
}

// IsConnected returns true if connected.
func (e *EVMBackend) IsConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.client != nil
}

// Balance returns the latest balance and the pending delta in wei.
func (e *EVMBackend) Balance(ctx context.Context, address string) (*Balance, error) {
	client, err := e.conn()
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid ethereum address %q", address)
	}
	account := common.HexToAddress(address)

	confirmed, err := client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance: %w", err)
	}
	pendingTotal, err := client.PendingBalanceAt(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance pending: %w", err)
	}

	return &Balance{
		Symbol:    e.params.Symbol,
		Address:   account.Hex(),
		Confirmed: confirmed,
		Pending:   pendingTotal.Sub(pendingTotal, confirmed),
		Decimals:  e.params.Decimals,
	}, nil
}

// BlockHeight returns the latest block number.
func (e *EVMBackend) BlockHeight(ctx context.Context) (int64, error) {
	client, err := e.conn()
	if err != nil {
		return 0, err
	}
	n, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func (e *EVMBackend) conn() (*ethclient.Client, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.client == nil {
		return nil, ErrNotConnected
	}
	return e.client, nil
}
