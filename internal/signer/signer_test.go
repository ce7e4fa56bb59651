package signer

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/odinxorg/odinx-wallet/internal/chain"
	"github.com/odinxorg/odinx-wallet/internal/wallet"
)

// Test mnemonic (DO NOT USE FOR REAL FUNDS)
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

const testPassword = "Correct-Horse-9"

func newTestKeystore(t *testing.T, network chain.Network) *wallet.Keystore {
	t.Helper()
	ks := wallet.NewKeystore(t.TempDir(), network)
	if err := ks.Create(testMnemonic, testPassword); err != nil {
		t.Fatalf("create keystore: %v", err)
	}
	return ks
}

func TestAddressBeforeConnect(t *testing.T) {
	ctx := context.Background()
	signers := []Signer{
		NewBitcoinSigner(Config{}),
		NewEvmSigner(Config{}),
	}

	for _, s := range signers {
		if _, err := s.Address(ctx); !errors.Is(err, ErrNotConnected) {
			t.Errorf("%s: Address() error = %v, want ErrNotConnected", s.Chain(), err)
		}
		if _, err := s.SignMessage(ctx, []byte("hi")); !errors.Is(err, ErrNotConnected) {
			t.Errorf("%s: SignMessage() error = %v, want ErrNotConnected", s.Chain(), err)
		}
	}
}

func TestConnectWithoutKeystore(t *testing.T) {
	s := NewBitcoinSigner(Config{Password: StaticPassword(testPassword)})
	if err := s.Connect(context.Background()); err == nil {
		t.Fatal("expected error without keystore")
	}
}

func TestConnectMissingSeedFile(t *testing.T) {
	ks := wallet.NewKeystore(t.TempDir(), chain.Mainnet)
	s := NewEvmSigner(Config{Keystore: ks, Password: StaticPassword(testPassword)})

	err := s.Connect(context.Background())
	if !errors.Is(err, wallet.ErrNoKeystore) {
		t.Fatalf("Connect() error = %v, want ErrNoKeystore", err)
	}
}

func TestConnectWrongPassword(t *testing.T) {
	ks := newTestKeystore(t, chain.Mainnet)
	s := NewBitcoinSigner(Config{Keystore: ks, Password: StaticPassword("Wrong-Password-1")})

	if err := s.Connect(context.Background()); !errors.Is(err, wallet.ErrWrongPassword) {
		t.Fatalf("Connect() error = %v, want ErrWrongPassword", err)
	}
	if _, err := s.Address(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("failed connect should leave signer disconnected, got %v", err)
	}
}

func TestSignersConnect(t *testing.T) {
	ctx := context.Background()
	ks := newTestKeystore(t, chain.Mainnet)
	cfg := Config{Keystore: ks, Password: StaticPassword(testPassword)}

	tests := []struct {
		signer Signer
		chain  string
		want   string
	}{
		{NewBitcoinSigner(cfg), "bitcoin", "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"},
		{NewEvmSigner(cfg), "ethereum", "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			if tt.signer.Chain() != tt.chain {
				t.Errorf("Chain() = %s, want %s", tt.signer.Chain(), tt.chain)
			}
			if err := tt.signer.Connect(ctx); err != nil {
				t.Fatalf("Connect() error = %v", err)
			}
			got, err := tt.signer.Address(ctx)
			if err != nil {
				t.Fatalf("Address() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Address() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBitcoinSignMessage(t *testing.T) {
	ctx := context.Background()
	ks := newTestKeystore(t, chain.Mainnet)
	s := NewBitcoinSigner(Config{Keystore: ks, Password: StaticPassword(testPassword)})
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	msg := []byte("swap claim 42")
	sig, err := s.SignMessage(ctx, msg)
	if err != nil {
		t.Fatalf("SignMessage() error = %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}
	if len(raw) != 65 {
		t.Errorf("compact signature length = %d, want 65", len(raw))
	}

	addr, _ := s.Address(ctx)
	ok, err := VerifyBitcoinMessage(addr, sig, msg, chain.Mainnet)
	if err != nil {
		t.Fatalf("VerifyBitcoinMessage() error = %v", err)
	}
	if !ok {
		t.Error("signature did not verify against signer address")
	}

	ok, _ = VerifyBitcoinMessage(addr, sig, []byte("tampered"), chain.Mainnet)
	if ok {
		t.Error("signature verified for a different message")
	}

	ok, err = VerifyBitcoinMessage(addr, sig, msg, chain.Testnet)
	if err == nil || ok {
		t.Errorf("mainnet address accepted on testnet: ok=%v err=%v", ok, err)
	}
	if _, err := VerifyBitcoinMessage("not-an-address", sig, msg, chain.Mainnet); err == nil {
		t.Error("expected error for malformed address")
	}
}

func TestEvmSignMessage(t *testing.T) {
	ctx := context.Background()
	ks := newTestKeystore(t, chain.Mainnet)
	s := NewEvmSigner(Config{Keystore: ks, Password: StaticPassword(testPassword)})
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	msg := []byte("swap claim 42")
	sig, err := s.SignMessage(ctx, msg)
	if err != nil {
		t.Fatalf("SignMessage() error = %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+65*2 {
		t.Fatalf("unexpected signature encoding %q", sig)
	}

	recovered, err := RecoverEvmSigner(sig, msg)
	if err != nil {
		t.Fatalf("RecoverEvmSigner() error = %v", err)
	}
	addr, _ := s.Address(ctx)
	if recovered.Hex() != addr {
		t.Errorf("recovered %s, want %s", recovered.Hex(), addr)
	}
}

func TestEvmChainID(t *testing.T) {
	tests := []struct {
		network chain.Network
		want    uint64
	}{
		{chain.Mainnet, 1},
		{chain.Testnet, 11155111},
	}
	for _, tt := range tests {
		s := NewEvmSigner(Config{Keystore: wallet.NewKeystore(t.TempDir(), tt.network)})
		if got := s.ChainID(); got != tt.want {
			t.Errorf("ChainID(%s) = %d, want %d", tt.network, got, tt.want)
		}
	}
}

func TestPasswordSourceError(t *testing.T) {
	ks := newTestKeystore(t, chain.Mainnet)
	boom := errors.New("no tty")
	s := NewBitcoinSigner(Config{Keystore: ks, Password: func() (string, error) { return "", boom }})

	if err := s.Connect(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Connect() error = %v, want wrapped %v", err, boom)
	}
}

func TestConnectCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewEvmSigner(Config{Keystore: newTestKeystore(t, chain.Mainnet), Password: StaticPassword(testPassword)})
	if err := s.Connect(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Connect() error = %v, want context.Canceled", err)
	}
}
