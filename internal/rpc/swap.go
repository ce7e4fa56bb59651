package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/odinxorg/odinx-wallet/internal/odin"
)

// ========================================
// Swap handlers
// ========================================

func (s *Server) requireService() error {
	if s.sdk == nil {
		return fmt.Errorf("swap service not initialized")
	}
	return nil
}

func checkPair(tokenIn, tokenOut, chainIn, chainOut string) error {
	if tokenIn == "" || tokenOut == "" {
		return invalidParams("tokenInSymbol and tokenOutSymbol are required")
	}
	for _, c := range []string{chainIn, chainOut} {
		switch c {
		case odin.ChainBitcoin, odin.ChainEthereum:
		default:
			return invalidParams("unsupported chain %q", c)
		}
	}
	return nil
}

func (s *Server) swapDetails(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p odin.TokenSwapDetailsRequest
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := checkPair(p.TokenInSymbol, p.TokenOutSymbol, p.ChainIn, p.ChainOut); err != nil {
		return nil, err
	}
	if p.AmountOut < 0 {
		return nil, invalidParams("amountOut must not be negative")
	}

	return s.sdk.GetTokenSwapDetails(ctx, p)
}

func (s *Server) swapMaxAmountOut(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p odin.MaxAmountOutRequest
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := checkPair(p.TokenInSymbol, p.TokenOutSymbol, p.ChainIn, p.ChainOut); err != nil {
		return nil, err
	}

	return s.sdk.GetMaxAmountOut(ctx, p)
}

func (s *Server) swapCreate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p odin.CreateSwapRequest
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := checkPair(p.TokenInSymbol, p.TokenOutSymbol, p.ChainIn, p.ChainOut); err != nil {
		return nil, err
	}
	if p.AmountOut <= 0 {
		return nil, invalidParams("amountOut must be positive")
	}

	return s.sdk.CreateSwap(ctx, p)
}

// SwapIDParams is the parameters for swap_status and swap_createHtlc.
type SwapIDParams struct {
	SwapID string `json:"swapId"`
}

func (p *SwapIDParams) check() error {
	p.SwapID = strings.TrimSpace(p.SwapID)
	if p.SwapID == "" {
		return invalidParams("swapId is required")
	}
	return nil
}

// SwapConfirmParams is the parameters for swap_confirm.
type SwapConfirmParams struct {
	SwapIDParams
	Claim string `json:"claim"`
}

func (s *Server) swapConfirm(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p SwapConfirmParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	if p.Claim == "" {
		return nil, invalidParams("claim is required")
	}

	return s.sdk.ConfirmSwap(ctx, p.SwapID, p.Claim)
}

func (s *Server) swapCreateHtlc(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p SwapIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	return s.sdk.CreateUserHtlc(ctx, p.SwapID)
}

// SwapConfirmHtlcParams is the parameters for swap_confirmHtlc. Parts are
// forwarded in the order given.
type SwapConfirmHtlcParams struct {
	SwapIDParams
	Parts []string `json:"parts"`
}

func (s *Server) swapConfirmHtlc(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p SwapConfirmHtlcParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	return s.sdk.ConfirmUserHtlc(ctx, p.SwapID, p.Parts)
}

func (s *Server) swapStatus(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p SwapIDParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	return s.sdk.GetSwapStatus(ctx, p.SwapID)
}

// SwapHistoryParams is the parameters for swap_history. Empty addresses
// are not sent as filters.
type SwapHistoryParams struct {
	AddressIn  string `json:"addressIn,omitempty"`
	AddressOut string `json:"addressOut,omitempty"`
}

func (s *Server) swapHistory(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if err := s.requireService(); err != nil {
		return nil, err
	}

	var p SwapHistoryParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	return s.sdk.GetAllSwapsHistory(ctx, p.AddressIn, p.AddressOut)
}

// ExplorerLinksParams is the parameters for explorer_links.
type ExplorerLinksParams struct {
	Chain   string `json:"chain"`
	TxID    string `json:"txId,omitempty"`
	Address string `json:"address,omitempty"`
}

func (s *Server) explorerLinks(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p ExplorerLinksParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.TxID == "" && p.Address == "" {
		return nil, invalidParams("txId or address is required")
	}

	links, err := s.explorers.Links(p.Chain, p.TxID, p.Address)
	if err != nil {
		return nil, &paramsError{err: err}
	}
	return links, nil
}
