// Package chain defines network parameters and derivation paths for the
// two chains a swap can touch: Bitcoin and Ethereum.
package chain

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network represents mainnet or testnet.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// ParseNetwork parses a network name. Empty input means mainnet.
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case "", Mainnet:
		return Mainnet, nil
	case Testnet:
		return Testnet, nil
	default:
		return "", fmt.Errorf("unknown network %q", s)
	}
}

// ChainType represents the blockchain family.
type ChainType string

const (
	ChainTypeBitcoin ChainType = "bitcoin"
	ChainTypeEVM     ChainType = "evm"
)

// AddressType represents the address encoding format.
type AddressType string

const (
	AddressP2WPKH AddressType = "p2wpkh" // Native SegWit (bc1q...)
	AddressP2TR   AddressType = "p2tr"   // Taproot (bc1p...)
	AddressEVM    AddressType = "evm"    // 0x...
)

// Swap-side chain identifiers as the trade backend names them.
const (
	SwapChainBitcoin  = "bitcoin"
	SwapChainEthereum = "ethereum"
)

// Params contains the parameters for a chain on one network.
type Params struct {
	Symbol   string
	Name     string
	Type     ChainType
	Decimals uint8

	// BIP44 derivation
	CoinType       uint32
	DefaultPurpose uint32

	// Bitcoin-like
	Bech32HRP string

	// EVM
	ChainID uint64

	DefaultAddressType AddressType
}

// DerivationPath returns m/purpose'/coin'/account'/change/index as BIP32 indexes.
func (p *Params) DerivationPath(account, change, index uint32) []uint32 {
	return []uint32{
		p.DefaultPurpose + 0x80000000,
		p.CoinType + 0x80000000,
		account + 0x80000000,
		change,
		index,
	}
}

// DerivationPathString returns the derivation path in m/84'/0'/0'/0/0 form.
func (p *Params) DerivationPathString(account, change, index uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", p.DefaultPurpose, p.CoinType, account, change, index)
}

// NetParams returns the btcd network parameters for a Bitcoin chain.
func NetParams(network Network) *chaincfg.Params {
	if network == Testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

var registry = make(map[string]map[Network]*Params)

// Register adds chain params to the registry.
func Register(symbol string, network Network, params *Params) {
	if registry[symbol] == nil {
		registry[symbol] = make(map[Network]*Params)
	}
	registry[symbol][network] = params
}

// Get returns chain params for a symbol and network.
func Get(symbol string, network Network) (*Params, bool) {
	nets, ok := registry[strings.ToUpper(symbol)]
	if !ok {
		return nil, false
	}
	params, ok := nets[network]
	return params, ok
}

// ForSwapChain maps a swap chain identifier ("bitcoin", "ethereum") to params.
func ForSwapChain(name string, network Network) (*Params, bool) {
	switch strings.ToLower(name) {
	case SwapChainBitcoin:
		return Get("BTC", network)
	case SwapChainEthereum:
		return Get("ETH", network)
	}
	return nil, false
}

// IsSupported returns true if the chain is registered.
func IsSupported(symbol string) bool {
	_, ok := registry[strings.ToUpper(symbol)]
	return ok
}
