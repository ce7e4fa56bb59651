package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/odinxorg/odinx-wallet/internal/backend"
	"github.com/odinxorg/odinx-wallet/internal/store"
	"github.com/odinxorg/odinx-wallet/pkg/format"
)

// ========================================
// Wallet store handlers
// ========================================

// WalletStateResult is the response for wallet_state and the payload of
// wallet_state events.
type WalletStateResult struct {
	store.State
	Status    store.ConnectionStatus `json:"status"`
	LastError string                 `json:"lastError,omitempty"`
}

func (s *Server) walletSnapshot() *WalletStateResult {
	res := &WalletStateResult{
		State:  s.store.State(),
		Status: s.store.Status(),
	}
	if err := s.store.LastError(); err != nil {
		res.LastError = err.Error()
	}
	return res
}

func (s *Server) requireStore() error {
	if s.store == nil {
		return fmt.Errorf("wallet store not initialized")
	}
	return nil
}

func (s *Server) walletState(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.walletSnapshot(), nil
}

// WalletConnectResult is the response for wallet_connect. A failed connect
// is reported here, not as an RPC error.
type WalletConnectResult struct {
	store.ConnectResult
	Error string `json:"error,omitempty"`
}

func (s *Server) walletConnect(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	res := s.store.ConnectWallets(ctx)
	out := &WalletConnectResult{ConnectResult: res}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out, nil
}

func (s *Server) walletCheck(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := s.store.CheckConnection(ctx); err != nil {
		return nil, err
	}
	return s.walletSnapshot(), nil
}

func (s *Server) walletReset(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := s.store.ResetWallets(); err != nil {
		return nil, err
	}
	return s.walletSnapshot(), nil
}

// BalanceResult is one entry of wallet_balances.
type BalanceResult struct {
	Symbol    string `json:"symbol"`
	Address   string `json:"address"`
	Confirmed string `json:"confirmed"`
	Pending   string `json:"pending"`
	Display   string `json:"display"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) walletBalances(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if s.backends == nil {
		return nil, backend.ErrNoBackend
	}

	state := s.store.State()
	if !state.Connected {
		return nil, fmt.Errorf("wallets not connected")
	}

	lookups := []struct {
		symbol  string
		address string
	}{
		{"BTC", state.BtcAddress},
		{"ETH", state.EvmAddress},
	}

	results := make([]*BalanceResult, len(lookups))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range lookups {
		g.Go(func() error {
			res := &BalanceResult{Symbol: l.symbol, Address: l.address}
			bal, err := s.backends.Balance(gctx, l.symbol, l.address)
			if err != nil {
				// reported per asset
				res.Error = err.Error()
			} else {
				res.Address = bal.Address
				res.Confirmed = format.FormatAmount(bal.Confirmed, bal.Decimals)
				res.Pending = format.FormatAmount(bal.Pending, bal.Decimals)
				display, ferr := format.FormatBalance(format.Asset(l.symbol), format.ToFloat(bal.Confirmed, bal.Decimals))
				if ferr != nil {
					return ferr
				}
				res.Display = display
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ========================================
// Formatting handlers
// ========================================

// CopyAddressParams is the parameters for wallet_copyAddress. Either an
// explicit address or a chain whose connected address should be copied.
type CopyAddressParams struct {
	Address string `json:"address,omitempty"`
	Chain   string `json:"chain,omitempty"`
}

// ClipboardLabelResult is the response for wallet_copyAddress and the
// payload of clipboard_label events.
type ClipboardLabelResult struct {
	Label string `json:"label"`
}

func (s *Server) walletCopyAddress(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.clipboard == nil {
		return nil, fmt.Errorf("clipboard not available")
	}

	var p CopyAddressParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	address := p.Address
	if address == "" {
		if err := s.requireStore(); err != nil {
			return nil, err
		}
		state := s.store.State()
		switch strings.ToLower(p.Chain) {
		case "bitcoin", "btc":
			address = state.BtcAddress
		case "ethereum", "eth":
			address = state.EvmAddress
		case "":
			return nil, invalidParams("address or chain is required")
		default:
			return nil, invalidParams("unknown chain %q", p.Chain)
		}
		if address == "" {
			return nil, fmt.Errorf("no %s address connected", p.Chain)
		}
	}

	if err := s.clipboard.Copy(address); err != nil {
		return nil, fmt.Errorf("copy failed: %w", err)
	}
	return &ClipboardLabelResult{Label: s.clipboard.Label()}, nil
}

// TruncateAddressParams is the parameters for wallet_truncateAddress.
type TruncateAddressParams struct {
	Address string `json:"address"`
}

// TextResult wraps a single display string.
type TextResult struct {
	Text string `json:"text"`
}

func (s *Server) walletTruncateAddress(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p TruncateAddressParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return &TextResult{Text: format.TruncateAddress(p.Address)}, nil
}

// FormatBalanceParams is the parameters for wallet_formatBalance.
type FormatBalanceParams struct {
	Asset string  `json:"asset"`
	Value float64 `json:"value"`
}

func (s *Server) walletFormatBalance(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p FormatBalanceParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	text, err := format.FormatBalance(format.Asset(p.Asset), p.Value)
	if err != nil {
		if errors.Is(err, format.ErrUnknownAsset) {
			return nil, &paramsError{err: err}
		}
		return nil, err
	}
	return &TextResult{Text: text}, nil
}

// decodeParams unmarshals params into v. Missing params leave v zeroed.
func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams("invalid params: %v", err)
	}
	return nil
}
