package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// SeedFileName is the keystore file name inside the data directory.
const SeedFileName = "wallet.seed"

// ErrNoKeystore is returned when no seed file exists yet.
var ErrNoKeystore = errors.New("keystore not found")

// Keystore is an encrypted seed file on disk.
type Keystore struct {
	Path    string
	Network chain.Network
}

// NewKeystore returns the keystore that lives in dataDir.
func NewKeystore(dataDir string, network chain.Network) *Keystore {
	return &Keystore{Path: filepath.Join(dataDir, SeedFileName), Network: network}
}

// Exists reports whether the seed file is present.
func (k *Keystore) Exists() bool {
	_, err := os.Stat(k.Path)
	return err == nil
}

// Create encrypts mnemonic with password and writes it, refusing to overwrite.
func (k *Keystore) Create(mnemonic, password string) error {
	if k.Exists() {
		return fmt.Errorf("keystore already exists at %s", k.Path)
	}

	seed, err := EncryptMnemonic(mnemonic, password)
	if err != nil {
		return err
	}

	data, err := json.Marshal(seed)
	if err != nil {
		return fmt.Errorf("failed to marshal seed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(k.Path), 0700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}
	if err := os.WriteFile(k.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	return nil
}

// Unlock decrypts the seed and builds the HD wallet.
func (k *Keystore) Unlock(password, passphrase string) (*Wallet, error) {
	data, err := os.ReadFile(k.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoKeystore, k.Path)
		}
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	var seed EncryptedSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse keystore: %w", err)
	}

	mnemonic, err := DecryptMnemonic(&seed, password)
	if err != nil {
		return nil, err
	}

	w, err := NewFromMnemonic(mnemonic, passphrase, k.Network)
	SecureClear([]byte(mnemonic))
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return w, nil
}
