// Package signer provides the Bitcoin and Ethereum signers the wallet store
// connects. Both unlock the same local keystore and derive their chain's
// receive key; nothing is usable until Connect succeeds.
package signer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/odinxorg/odinx-wallet/internal/chain"
	"github.com/odinxorg/odinx-wallet/internal/wallet"
)

// ErrNotConnected is returned by signer operations before Connect succeeds.
var ErrNotConnected = errors.New("signer not connected")

// Signer authorizes operations for one wallet address on one chain.
type Signer interface {
	// Connect unlocks the signer. Calling it again re-unlocks.
	Connect(ctx context.Context) error

	// Address returns the connected address.
	Address(ctx context.Context) (string, error)

	// SignMessage signs msg with the chain's message-signing scheme.
	SignMessage(ctx context.Context, msg []byte) (string, error)

	// Chain returns the swap chain identifier ("bitcoin" or "ethereum").
	Chain() string
}

// PasswordFunc supplies the keystore password at connect time.
type PasswordFunc func() (string, error)

// StaticPassword returns a PasswordFunc that always yields password.
func StaticPassword(password string) PasswordFunc {
	return func() (string, error) { return password, nil }
}

// Config describes where a signer finds its key.
type Config struct {
	Keystore   *wallet.Keystore
	Password   PasswordFunc
	Passphrase string
	Account    uint32
	Index      uint32
}

// hdSigner holds the state shared by both chain signers.
type hdSigner struct {
	cfg    Config
	symbol string

	mu      sync.RWMutex
	key     *btcec.PrivateKey
	address string
}

func (s *hdSigner) connect(ctx context.Context, encode func(*wallet.Wallet) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.Keystore == nil {
		return fmt.Errorf("%s signer: no keystore configured", s.symbol)
	}
	if s.cfg.Password == nil {
		return fmt.Errorf("%s signer: no password source configured", s.symbol)
	}

	password, err := s.cfg.Password()
	if err != nil {
		return fmt.Errorf("%s signer: password: %w", s.symbol, err)
	}

	w, err := s.cfg.Keystore.Unlock(password, s.cfg.Passphrase)
	if err != nil {
		return fmt.Errorf("%s signer: %w", s.symbol, err)
	}
	defer w.ClearCache()

	key, err := w.DerivePrivateKey(s.symbol, s.cfg.Account, s.cfg.Index)
	if err != nil {
		return fmt.Errorf("%s signer: %w", s.symbol, err)
	}

	address, err := encode(w)
	if err != nil {
		return fmt.Errorf("%s signer: %w", s.symbol, err)
	}

	s.mu.Lock()
	s.key = key
	s.address = address
	s.mu.Unlock()
	return nil
}

func (s *hdSigner) currentAddress(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return "", ErrNotConnected
	}
	return s.address, nil
}

func (s *hdSigner) privateKey() (*btcec.PrivateKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, ErrNotConnected
	}
	return s.key, nil
}

func (s *hdSigner) network() chain.Network {
	if s.cfg.Keystore == nil || s.cfg.Keystore.Network == "" {
		return chain.Mainnet
	}
	return s.cfg.Keystore.Network
}
