package signer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/odinxorg/odinx-wallet/internal/chain"
	"github.com/odinxorg/odinx-wallet/internal/wallet"
)

const bitcoinMessageMagic = "Bitcoin Signed Message:\n"

// BitcoinSigner signs for the BIP84 receive address of the local keystore.
type BitcoinSigner struct {
	hdSigner
}

// NewBitcoinSigner creates an unconnected Bitcoin signer.
func NewBitcoinSigner(cfg Config) *BitcoinSigner {
	return &BitcoinSigner{hdSigner{cfg: cfg, symbol: "BTC"}}
}

// Chain returns "bitcoin".
func (s *BitcoinSigner) Chain() string {
	return chain.SwapChainBitcoin
}

// Connect unlocks the keystore and derives the receive address.
func (s *BitcoinSigner) Connect(ctx context.Context) error {
	return s.connect(ctx, func(w *wallet.Wallet) (string, error) {
		return w.DeriveAddress(s.symbol, s.cfg.Account, s.cfg.Index)
	})
}

// Address returns the P2WPKH address.
func (s *BitcoinSigner) Address(ctx context.Context) (string, error) {
	return s.currentAddress(ctx)
}

// PublicKey returns the compressed public key of the connected address.
func (s *BitcoinSigner) PublicKey() (*btcec.PublicKey, error) {
	key, err := s.privateKey()
	if err != nil {
		return nil, err
	}
	return key.PubKey(), nil
}

// SignMessage produces a base64 compact signature over the Bitcoin
// signed-message digest of msg.
func (s *BitcoinSigner) SignMessage(ctx context.Context, msg []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := s.privateKey()
	if err != nil {
		return "", err
	}

	digest, err := BitcoinMessageHash(msg)
	if err != nil {
		return "", err
	}

	sig := ecdsa.SignCompact(key, digest, true)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// BitcoinMessageHash returns double-SHA256(varstr(magic) || varstr(msg)).
func BitcoinMessageHash(msg []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, bitcoinMessageMagic); err != nil {
		return nil, err
	}
	if err := wire.WriteVarBytes(&buf, 0, msg); err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}

// VerifyBitcoinMessage checks a base64 compact signature against a P2WPKH address.
func VerifyBitcoinMessage(address, signature string, msg []byte, network chain.Network) (bool, error) {
	if !wallet.ValidateBitcoinAddress(address, network) {
		return false, fmt.Errorf("invalid %s address %q", network, address)
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	digest, err := BitcoinMessageHash(msg)
	if err != nil {
		return false, err
	}

	pubKey, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return false, fmt.Errorf("recover public key: %w", err)
	}

	recovered, err := btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(pubKey.SerializeCompressed()), chain.NetParams(network))
	if err != nil {
		return false, err
	}
	return recovered.EncodeAddress() == address, nil
}

var _ Signer = (*BitcoinSigner)(nil)
