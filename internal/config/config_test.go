package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odinxorg/odinx-wallet/internal/backend"
	"github.com/odinxorg/odinx-wallet/internal/chain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Network != chain.Mainnet {
		t.Errorf("expected mainnet, got %s", cfg.Network)
	}
	if cfg.API.Listen != "127.0.0.1:8645" {
		t.Errorf("expected default listen address, got %s", cfg.API.Listen)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected 30s request timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.Clipboard.ResetAfter != 5*time.Second {
		t.Errorf("expected 5s clipboard reset, got %v", cfg.Clipboard.ResetAfter)
	}
	if cfg.Signer.PasswordEnv != "ODINX_WALLET_PASSWORD" {
		t.Errorf("unexpected password env %s", cfg.Signer.PasswordEnv)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Storage.DataDir != dir {
		t.Errorf("DataDir = %s, want %s", cfg.Storage.DataDir, dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# odinx wallet daemon configuration") {
		t.Error("config file missing header")
	}
	if !strings.Contains(string(data), "wallet_partner_id") {
		t.Error("config file missing wallet_partner_id key")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
network: testnet
wallet_partner_id: partner-42
request_timeout: 10s
api:
  listen: 0.0.0.0:9000
signer:
  account: 2
  index: 7
backends:
  btc:
    type: esplora
    mainnet: https://blockstream.info/api
    testnet: https://blockstream.info/testnet/api
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.IsTestnet() {
		t.Error("expected testnet")
	}
	if cfg.WalletPartnerID != "partner-42" {
		t.Errorf("WalletPartnerID = %s", cfg.WalletPartnerID)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.API.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %s", cfg.API.Listen)
	}
	if cfg.Signer.Account != 2 || cfg.Signer.Index != 7 {
		t.Errorf("Signer = %+v", cfg.Signer)
	}
	// unset keys keep their defaults
	if cfg.Signer.PasswordEnv != "ODINX_WALLET_PASSWORD" {
		t.Errorf("PasswordEnv default lost: %q", cfg.Signer.PasswordEnv)
	}

	backends := cfg.BackendConfigs()
	if backends["BTC"].Type != backend.TypeEsplora {
		t.Errorf("BTC backend = %s, want esplora", backends["BTC"].Type)
	}
	if backends["ETH"] == nil || backends["ETH"].Type != backend.TypeEVM {
		t.Error("ETH default backend should survive a partial override")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad network", "network: regtest\n"},
		{"bad backend asset", "backends:\n  DOGE:\n    type: mempool\n"},
		{"bad backend type", "backends:\n  BTC:\n    type: electrum\n"},
		{"empty listen", "api:\n  listen: \"\"\n"},
		{"bad yaml", "network: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(dir); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", ConfigFileName)

	cfg := DefaultConfig()
	cfg.WalletPartnerID = "abc"
	cfg.Network = chain.Testnet
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadConfig(filepath.Dir(path))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.WalletPartnerID != "abc" || loaded.Network != chain.Testnet {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	if got := ExpandPath("~/.odinx"); got != filepath.Join(home, ".odinx") {
		t.Errorf("ExpandPath = %s", got)
	}
	if got := ConfigPath("/data"); got != "/data/config.yaml" {
		t.Errorf("ConfigPath = %s", got)
	}
}
