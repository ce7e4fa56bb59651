// Package service is the swap façade the UI layer calls. It forwards every
// request to the trade client unchanged.
package service

//go:generate mockgen -destination=mocks/mock_trader.go -package=mocks github.com/odinxorg/odinx-wallet/internal/service Trader

import (
	"context"
	"time"

	"github.com/odinxorg/odinx-wallet/internal/odin"
	"github.com/odinxorg/odinx-wallet/pkg/logging"
)

// Trader is the trade client the service forwards to.
type Trader interface {
	GetTokenSwapDetails(ctx context.Context, req odin.TokenSwapDetailsRequest) (*odin.TokenSwapDetailsResponse, error)
	GetMaxAmountOut(ctx context.Context, req odin.MaxAmountOutRequest) (*odin.MaxAmountOutResponse, error)
	CreateSwap(ctx context.Context, req odin.CreateSwapRequest) (*odin.Swap, error)
	ConfirmSwap(ctx context.Context, swapID, claim string) (*odin.Swap, error)
	CreateUserHtlc(ctx context.Context, swapID string) (*odin.UserHtlc, error)
	ConfirmUserHtlc(ctx context.Context, swapID string, parts []string) (*odin.Swap, error)
	GetSwap(ctx context.Context, swapID string) (*odin.Swap, error)
	GetSwapHistory(ctx context.Context, filter odin.HistoryFilter) ([]odin.Swap, error)
}

var _ Trader = (*odin.Client)(nil)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for swap-creation failures.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service forwards swap operations to a Trader.
type Service struct {
	source  func() Trader
	log     *logging.Logger
	metrics *Metrics
}

// New binds the service to a fixed trader.
func New(trader Trader, opts ...Option) *Service {
	return NewWithSource(func() Trader { return trader }, opts...)
}

// NewWithSource resolves the trader on every call, so the service follows
// a client that is replaced at runtime.
func NewWithSource(source func() Trader, opts ...Option) *Service {
	s := &Service{
		source: source,
		log:    logging.GetDefault().Component("sdk"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetTokenSwapDetails returns a quote for a token pair.
func (s *Service) GetTokenSwapDetails(ctx context.Context, req odin.TokenSwapDetailsRequest) (*odin.TokenSwapDetailsResponse, error) {
	defer s.observe("getTokenSwapDetails", time.Now())
	resp, err := s.source().GetTokenSwapDetails(ctx, req)
	s.count("getTokenSwapDetails", err)
	return resp, err
}

// GetMaxAmountOut returns the largest available payout.
func (s *Service) GetMaxAmountOut(ctx context.Context, req odin.MaxAmountOutRequest) (*odin.MaxAmountOutResponse, error) {
	defer s.observe("getMaxAmountOut", time.Now())
	resp, err := s.source().GetMaxAmountOut(ctx, req)
	s.count("getMaxAmountOut", err)
	return resp, err
}

// CreateSwap opens a swap. A failure is logged once and returned as is.
func (s *Service) CreateSwap(ctx context.Context, req odin.CreateSwapRequest) (*odin.Swap, error) {
	defer s.observe("createSwap", time.Now())
	swap, err := s.source().CreateSwap(ctx, req)
	s.count("createSwap", err)
	if err != nil {
		s.log.Error("Error creating swap", "error", err,
			"token_in", req.TokenInSymbol, "token_out", req.TokenOutSymbol,
			"chain_in", req.ChainIn, "chain_out", req.ChainOut)
		return nil, err
	}
	return swap, nil
}

// ConfirmSwap submits the signed user claim.
func (s *Service) ConfirmSwap(ctx context.Context, swapID, claim string) (*odin.Swap, error) {
	defer s.observe("confirmSwap", time.Now())
	swap, err := s.source().ConfirmSwap(ctx, swapID, claim)
	s.count("confirmSwap", err)
	return swap, err
}

// CreateUserHtlc builds the user's HTLC.
func (s *Service) CreateUserHtlc(ctx context.Context, swapID string) (*odin.UserHtlc, error) {
	defer s.observe("createUserHtlc", time.Now())
	htlc, err := s.source().CreateUserHtlc(ctx, swapID)
	s.count("createUserHtlc", err)
	return htlc, err
}

// ConfirmUserHtlc submits the signed HTLC parts in order.
func (s *Service) ConfirmUserHtlc(ctx context.Context, swapID string, parts []string) (*odin.Swap, error) {
	defer s.observe("confirmUserHtlc", time.Now())
	swap, err := s.source().ConfirmUserHtlc(ctx, swapID, parts)
	s.count("confirmUserHtlc", err)
	return swap, err
}

// GetSwapStatus returns the current state of a swap.
func (s *Service) GetSwapStatus(ctx context.Context, swapID string) (*odin.Swap, error) {
	defer s.observe("getSwapStatus", time.Now())
	swap, err := s.source().GetSwap(ctx, swapID)
	s.count("getSwapStatus", err)
	return swap, err
}

// GetAllSwapsHistory lists swaps. Either address may be empty.
func (s *Service) GetAllSwapsHistory(ctx context.Context, addressIn, addressOut string) ([]odin.Swap, error) {
	defer s.observe("getAllSwapsHistory", time.Now())
	swaps, err := s.source().GetSwapHistory(ctx, odin.HistoryFilter{AddressIn: addressIn, AddressOut: addressOut})
	s.count("getAllSwapsHistory", err)
	return swaps, err
}

func (s *Service) observe(method string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (s *Service) count(method string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.requests.WithLabelValues(method, outcome).Inc()
}
