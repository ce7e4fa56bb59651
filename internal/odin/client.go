// Package odin is the HTTP client for the OdinX trade API. Authenticated
// calls sign with the wallet signers it was built with.
package odin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odinxorg/odinx-wallet/internal/signer"
)

const (
	// HeaderPartnerID identifies the wallet partner on every request.
	HeaderPartnerID = "X-Wallet-Partner-Id"
	// HeaderRequestID carries a per-request UUID.
	HeaderRequestID = "X-Request-Id"

	defaultTimeout = 30 * time.Second
)

// ErrNoSigner is returned when an operation needs a signer the client was built without.
var ErrNoSigner = errors.New("no signer configured")

// APIError is a non-2xx response from the trade API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("odin api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("odin api: status %d: %s", e.StatusCode, e.Message)
}

// Config configures a Client.
type Config struct {
	URL             string
	WalletPartnerID string
	BitcoinSigner   signer.Signer
	EthereumSigner  signer.Signer
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// Client talks to the trade API.
type Client struct {
	baseURL    string
	partnerID  string
	btc        signer.Signer
	evm        signer.Signer
	httpClient *http.Client
}

// New creates a client. Signers may be nil; calls that need them return ErrNoSigner.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		partnerID:  cfg.WalletPartnerID,
		btc:        cfg.BitcoinSigner,
		evm:        cfg.EthereumSigner,
		httpClient: httpClient,
	}
}

// URL returns the API base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// HasSigners reports whether both signers are bound.
func (c *Client) HasSigners() bool {
	return c.btc != nil && c.evm != nil
}

// GetTokenSwapDetails returns a quote for a token pair.
func (c *Client) GetTokenSwapDetails(ctx context.Context, req TokenSwapDetailsRequest) (*TokenSwapDetailsResponse, error) {
	var out TokenSwapDetailsResponse
	if err := c.do(ctx, http.MethodPost, "/swap/details", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMaxAmountOut returns the largest payout currently available.
func (c *Client) GetMaxAmountOut(ctx context.Context, req MaxAmountOutRequest) (*MaxAmountOutResponse, error) {
	var out MaxAmountOutResponse
	if err := c.do(ctx, http.MethodPost, "/swap/max-amount-out", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSwap opens a swap, filling addressIn/addressOut from the signers for
// the requested chains.
func (c *Client) CreateSwap(ctx context.Context, req CreateSwapRequest) (*Swap, error) {
	addressIn, err := c.addressFor(ctx, req.ChainIn)
	if err != nil {
		return nil, fmt.Errorf("chain in: %w", err)
	}
	addressOut, err := c.addressFor(ctx, req.ChainOut)
	if err != nil {
		return nil, fmt.Errorf("chain out: %w", err)
	}

	body := createSwapBody{CreateSwapRequest: req, AddressIn: addressIn, AddressOut: addressOut}

	var out Swap
	if err := c.do(ctx, http.MethodPost, "/swap", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmSwap signs the claim with the Ethereum signer and submits it.
func (c *Client) ConfirmSwap(ctx context.Context, swapID, claim string) (*Swap, error) {
	if c.evm == nil {
		return nil, ErrNoSigner
	}
	path, err := swapPath(swapID, "confirm")
	if err != nil {
		return nil, err
	}

	address, err := c.evm.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim signer address: %w", err)
	}
	signature, err := c.evm.SignMessage(ctx, []byte(claim))
	if err != nil {
		return nil, fmt.Errorf("sign claim: %w", err)
	}

	body := confirmSwapBody{Claim: claim, Signature: signature, Address: address}

	var out Swap
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUserHtlc asks the backend to build the user's HTLC.
func (c *Client) CreateUserHtlc(ctx context.Context, swapID string) (*UserHtlc, error) {
	path, err := swapPath(swapID, "htlc")
	if err != nil {
		return nil, err
	}

	var out UserHtlc
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmUserHtlc submits the signed HTLC parts in the given order.
func (c *Client) ConfirmUserHtlc(ctx context.Context, swapID string, parts []string) (*Swap, error) {
	path, err := swapPath(swapID, "htlc", "confirm")
	if err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []string{}
	}

	var out Swap
	if err := c.do(ctx, http.MethodPost, path, confirmHtlcBody{Parts: parts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSwap returns a swap by id.
func (c *Client) GetSwap(ctx context.Context, swapID string) (*Swap, error) {
	path, err := swapPath(swapID)
	if err != nil {
		return nil, err
	}

	var out Swap
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSwapHistory lists swaps, optionally filtered by input and/or output address.
func (c *Client) GetSwapHistory(ctx context.Context, filter HistoryFilter) ([]Swap, error) {
	query := url.Values{}
	if filter.AddressIn != "" {
		query.Set("addressIn", filter.AddressIn)
	}
	if filter.AddressOut != "" {
		query.Set("addressOut", filter.AddressOut)
	}

	path := "/swap/history"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out []Swap
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Swap{}
	}
	return out, nil
}

func (c *Client) addressFor(ctx context.Context, chainName string) (string, error) {
	var s signer.Signer
	switch chainName {
	case ChainBitcoin:
		s = c.btc
	case ChainEthereum:
		s = c.evm
	default:
		return "", fmt.Errorf("unknown chain %q", chainName)
	}
	if s == nil {
		return "", ErrNoSigner
	}
	return s.Address(ctx)
}

func swapPath(swapID string, suffix ...string) (string, error) {
	if strings.TrimSpace(swapID) == "" {
		return "", errors.New("swap id is required")
	}
	parts := append([]string{"/swap", url.PathEscape(swapID)}, suffix...)
	return strings.Join(parts, "/"), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.partnerID != "" {
		req.Header.Set(HeaderPartnerID, c.partnerID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp, requestID)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, requestID string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
