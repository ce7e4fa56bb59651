package signer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/odinxorg/odinx-wallet/internal/chain"
	"github.com/odinxorg/odinx-wallet/internal/wallet"
)

// EvmSigner signs for the BIP44 Ethereum account of the local keystore.
type EvmSigner struct {
	hdSigner
}

// NewEvmSigner creates an unconnected Ethereum signer.
func NewEvmSigner(cfg Config) *EvmSigner {
	return &EvmSigner{hdSigner{cfg: cfg, symbol: "ETH"}}
}

// Chain returns "ethereum".
func (s *EvmSigner) Chain() string {
	return chain.SwapChainEthereum
}

// Connect unlocks the keystore and derives the account address.
func (s *EvmSigner) Connect(ctx context.Context) error {
	return s.connect(ctx, func(w *wallet.Wallet) (string, error) {
		return w.DeriveAddress(s.symbol, s.cfg.Account, s.cfg.Index)
	})
}

// Address returns the EIP-55 checksummed address.
func (s *EvmSigner) Address(ctx context.Context) (string, error) {
	return s.currentAddress(ctx)
}

// ChainID returns the EVM chain id for the signer's network.
func (s *EvmSigner) ChainID() uint64 {
	params, ok := chain.ForSwapChain(s.Chain(), s.network())
	if !ok {
		return 0
	}
	return params.ChainID
}

// SignMessage signs msg as an EIP-191 personal message and returns a
// 0x-prefixed 65-byte signature with v in {27, 28}.
func (s *EvmSigner) SignMessage(ctx context.Context, msg []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := s.privateKey()
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(accounts.TextHash(msg), key.ToECDSA())
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// RecoverEvmSigner returns the address that produced an EIP-191 signature.
func RecoverEvmSigner(signature string, msg []byte) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(msg), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

var _ Signer = (*EvmSigner)(nil)
