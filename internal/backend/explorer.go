package backend

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// Explorers builds block explorer links from the configured base URLs.
// Both explorers use the /tx/{id} and /address/{addr} layout.
type Explorers struct {
	Bitcoin  string
	Ethereum string
}

// Links is a pair of explorer URLs for display.
type Links struct {
	Tx      string `json:"tx,omitempty"`
	Address string `json:"address,omitempty"`
}

// TxURL returns the explorer link for a transaction on swapChain.
func (e Explorers) TxURL(swapChain, txID string) (string, error) {
	return e.link(swapChain, "tx", txID)
}

// AddressURL returns the explorer link for an address on swapChain.
func (e Explorers) AddressURL(swapChain, address string) (string, error) {
	return e.link(swapChain, "address", address)
}

// Links returns both links; empty inputs produce empty links.
func (e Explorers) Links(swapChain, txID, address string) (Links, error) {
	var out Links
	var err error
	if txID != "" {
		if out.Tx, err = e.TxURL(swapChain, txID); err != nil {
			return Links{}, err
		}
	}
	if address != "" {
		if out.Address, err = e.AddressURL(swapChain, address); err != nil {
			return Links{}, err
		}
	}
	return out, nil
}

func (e Explorers) link(swapChain, kind, id string) (string, error) {
	var base string
	switch swapChain {
	case chain.SwapChainBitcoin:
		base = e.Bitcoin
	case chain.SwapChainEthereum:
		base = e.Ethereum
	default:
		return "", fmt.Errorf("unknown chain %q", swapChain)
	}
	if base == "" {
		return "", fmt.Errorf("no explorer configured for %s", swapChain)
	}
	if id == "" {
		return "", fmt.Errorf("empty %s", kind)
	}
	return strings.TrimSuffix(base, "/") + "/" + kind + "/" + url.PathEscape(id), nil
}
