package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// BitcoinAddress encodes pubKey using the chain's default Bitcoin address type.
func BitcoinAddress(pubKey *btcec.PublicKey, params *chain.Params, network chain.Network) (string, error) {
	netParams := chain.NetParams(network)

	switch params.DefaultAddressType {
	case chain.AddressP2TR:
		taprootKey := txscript.ComputeTaprootKeyNoScript(pubKey)
		addr, err := btcutil.NewAddressTaproot(taprootKey.SerializeCompressed()[1:], netParams)
		if err != nil {
			return "", fmt.Errorf("failed to create Taproot address: %w", err)
		}
		return addr.EncodeAddress(), nil
	case chain.AddressP2WPKH:
		pubKeyHash := btcutil.Hash160(pubKey.SerializeCompressed())
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, netParams)
		if err != nil {
			return "", fmt.Errorf("failed to create P2WPKH address: %w", err)
		}
		return addr.EncodeAddress(), nil
	default:
		return "", fmt.Errorf("unsupported address type %q", params.DefaultAddressType)
	}
}

// EVMAddress returns the EIP-55 checksummed address of a secp256k1 public key.
func EVMAddress(pubKey *btcec.PublicKey) common.Address {
	return crypto.PubkeyToAddress(*pubKey.ToECDSA())
}

// ValidateBitcoinAddress reports whether address decodes for the given network.
func ValidateBitcoinAddress(address string, network chain.Network) bool {
	_, err := btcutil.DecodeAddress(address, chain.NetParams(network))
	return err == nil
}

// DeriveAddress derives the default receive address for symbol at account/index.
func (w *Wallet) DeriveAddress(symbol string, account, index uint32) (string, error) {
	params, ok := chain.Get(symbol, w.network)
	if !ok {
		return "", fmt.Errorf("unsupported chain: %s", symbol)
	}

	pubKey, err := w.DerivePublicKey(symbol, account, index)
	if err != nil {
		return "", err
	}

	if params.Type == chain.ChainTypeEVM {
		return EVMAddress(pubKey).Hex(), nil
	}
	return BitcoinAddress(pubKey, params, w.network)
}
