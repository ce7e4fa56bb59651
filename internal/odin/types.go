package odin

import (
	"time"

	"github.com/shopspring/decimal"
)

// Swap chain identifiers understood by the trade API.
const (
	ChainBitcoin  = "bitcoin"
	ChainEthereum = "ethereum"
)

// SwapStatus is the backend's lifecycle state of a swap.
type SwapStatus string

const (
	SwapStatusCreated       SwapStatus = "created"
	SwapStatusConfirmed     SwapStatus = "confirmed"
	SwapStatusHtlcCreated   SwapStatus = "htlc_created"
	SwapStatusHtlcConfirmed SwapStatus = "htlc_confirmed"
	SwapStatusCompleted     SwapStatus = "completed"
	SwapStatusExpired       SwapStatus = "expired"
	SwapStatusFailed        SwapStatus = "failed"
)

// TokenSwapDetailsRequest asks for a quote on a token pair.
type TokenSwapDetailsRequest struct {
	TokenInSymbol  string  `json:"tokenInSymbol"`
	TokenOutSymbol string  `json:"tokenOutSymbol"`
	ChainIn        string  `json:"chainIn"`
	ChainOut       string  `json:"chainOut"`
	AmountOut      float64 `json:"amountOut,omitempty"`
}

// TokenSwapDetailsResponse is a quote for a token pair.
type TokenSwapDetailsResponse struct {
	TokenInSymbol  string          `json:"tokenInSymbol"`
	TokenOutSymbol string          `json:"tokenOutSymbol"`
	AmountIn       decimal.Decimal `json:"amountIn"`
	AmountOut      decimal.Decimal `json:"amountOut"`
	Rate           decimal.Decimal `json:"rate"`
	Fee            decimal.Decimal `json:"fee"`
	MinAmountOut   decimal.Decimal `json:"minAmountOut"`
	ExpiresAt      time.Time       `json:"expiresAt,omitempty"`
}

// MaxAmountOutRequest asks for the largest amount the liquidity provider can pay out.
type MaxAmountOutRequest struct {
	TokenInSymbol  string `json:"tokenInSymbol"`
	TokenOutSymbol string `json:"tokenOutSymbol"`
	ChainIn        string `json:"chainIn"`
	ChainOut       string `json:"chainOut"`
}

// MaxAmountOutResponse carries the payout ceiling.
type MaxAmountOutResponse struct {
	TokenOutSymbol string          `json:"tokenOutSymbol"`
	MaxAmountOut   decimal.Decimal `json:"maxAmountOut"`
}

// CreateSwapRequest is the user-facing swap request. The client fills in
// the wallet addresses from its signers.
type CreateSwapRequest struct {
	AmountOut      float64 `json:"amountOut"`
	TokenInSymbol  string  `json:"tokenInSymbol"`
	TokenOutSymbol string  `json:"tokenOutSymbol"`
	ChainIn        string  `json:"chainIn"`
	ChainOut       string  `json:"chainOut"`
}

type createSwapBody struct {
	CreateSwapRequest
	AddressIn  string `json:"addressIn"`
	AddressOut string `json:"addressOut"`
}

// Swap is the backend's view of a swap.
type Swap struct {
	ID              string          `json:"id"`
	Status          SwapStatus      `json:"status"`
	TokenInSymbol   string          `json:"tokenInSymbol"`
	TokenOutSymbol  string          `json:"tokenOutSymbol"`
	ChainIn         string          `json:"chainIn"`
	ChainOut        string          `json:"chainOut"`
	AmountIn        decimal.Decimal `json:"amountIn"`
	AmountOut       decimal.Decimal `json:"amountOut"`
	AddressIn       string          `json:"addressIn"`
	AddressOut      string          `json:"addressOut"`
	UserClaimToSign string          `json:"userClaimToSign,omitempty"`
	TxIn            string          `json:"txIn,omitempty"`
	TxOut           string          `json:"txOut,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt,omitempty"`
}

// UserHtlc is the user's side of the hashed timelock, returned for signing.
type UserHtlc struct {
	SwapID   string   `json:"swapId"`
	Chain    string   `json:"chain"`
	Address  string   `json:"address"`
	Parts    []string `json:"parts"`
	Timelock int64    `json:"timelock"`
}

// HistoryFilter narrows swap history. Empty fields are omitted.
type HistoryFilter struct {
	AddressIn  string
	AddressOut string
}

type confirmSwapBody struct {
	Claim     string `json:"claim"`
	Signature string `json:"signature"`
	Address   string `json:"address"`
}

type confirmHtlcBody struct {
	Parts []string `json:"parts"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
