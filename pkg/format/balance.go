// Package format provides display helpers for balances and addresses.
package format

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownAsset is returned when an asset has no known precision.
var ErrUnknownAsset = errors.New("unknown asset")

// Asset identifies a displayable asset kind.
type Asset string

const (
	AssetBTC  Asset = "BTC"
	AssetETH  Asset = "ETH"
	AssetLUSD Asset = "LUSD"
)

// decimals holds the fixed display precision per asset.
var decimals = map[Asset]uint8{
	AssetBTC:  8,
	AssetETH:  18,
	AssetLUSD: 18,
}

// Decimals returns the display precision for an asset.
func Decimals(kind Asset) (uint8, bool) {
	d, ok := decimals[Asset(strings.ToUpper(string(kind)))]
	return d, ok
}

// FormatBalance renders value with the asset's fixed number of decimals,
// e.g. FormatBalance(AssetBTC, 1.5) returns "1.50000000".
func FormatBalance(kind Asset, value float64) (string, error) {
	places, ok := Decimals(kind)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAsset, kind)
	}
	return fixed(value, places), nil
}

// FormatBitcoinBalance formats a BTC amount with 8 decimals.
func FormatBitcoinBalance(value float64) string {
	return fixed(value, 8)
}

// FormatEthereumBalance formats an ETH amount with 18 decimals.
func FormatEthereumBalance(value float64) string {
	return fixed(value, 18)
}

// FormatLusdBalance formats an LUSD amount with 18 decimals.
func FormatLusdBalance(value float64) string {
	return fixed(value, 18)
}

// fixed renders non-finite values by name; decimal cannot represent them.
func fixed(value float64, places uint8) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(value).StringFixed(int32(places))
}

// FormatAmount formats an amount in smallest units as a decimal string
// with trailing zeros trimmed. FormatAmount(big.NewInt(100000000), 8) returns "1".
func FormatAmount(amount *big.Int, places uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(places)).String()
}

// ToFloat converts a smallest-unit amount into a float for FormatBalance.
func ToFloat(amount *big.Int, places uint8) float64 {
	if amount == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(amount, -int32(places)).Float64()
	return f
}
