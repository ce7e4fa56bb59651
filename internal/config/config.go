// Package config holds the daemon's YAML configuration, stored in the data
// directory and created with defaults on first run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odinxorg/odinx-wallet/internal/backend"
	"github.com/odinxorg/odinx-wallet/internal/chain"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "config.yaml"

// Config holds all configuration for the wallet daemon.
type Config struct {
	// Network selects mainnet or testnet for keys, signers and backends.
	Network chain.Network `yaml:"network"`

	// WalletPartnerID is sent with every trade API request.
	WalletPartnerID string `yaml:"wallet_partner_id"`

	// RequestTimeout bounds each trade API call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Signer    SignerConfig    `yaml:"signer"`
	Clipboard ClipboardConfig `yaml:"clipboard"`

	// Backends holds balance lookup endpoints per asset symbol.
	// If not specified, defaults to public APIs (mempool.space, etc.)
	Backends map[string]*backend.Config `yaml:"backends,omitempty"`
}

// APIConfig holds the UI bridge settings.
type APIConfig struct {
	// Listen is the host:port for JSON-RPC and WebSocket.
	Listen string `yaml:"listen"`

	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	// DataDir is the directory for all data files.
	DataDir string `yaml:"data_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// File is the log file path (empty for stderr).
	File string `yaml:"file"`
}

// SignerConfig selects the derived account and where secrets come from.
type SignerConfig struct {
	Account uint32 `yaml:"account"`
	Index   uint32 `yaml:"index"`

	// PasswordEnv names the variable holding the keystore password.
	PasswordEnv string `yaml:"password_env"`

	// PassphraseEnv names the variable holding the optional BIP39 passphrase.
	PassphraseEnv string `yaml:"passphrase_env"`
}

// ClipboardConfig holds the copy-address label timing.
type ClipboardConfig struct {
	ResetAfter time.Duration `yaml:"reset_after"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Network:        chain.Mainnet,
		RequestTimeout: 30 * time.Second,
		API: APIConfig{
			Listen:         "127.0.0.1:8645",
			AllowedOrigins: []string{},
		},
		Storage: StorageConfig{
			DataDir: "~/.odinx",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Signer: SignerConfig{
			PasswordEnv:   "ODINX_WALLET_PASSWORD",
			PassphraseEnv: "ODINX_WALLET_PASSPHRASE",
		},
		Clipboard: ClipboardConfig{
			ResetAfter: 5 * time.Second,
		},
	}
}

// IsTestnet returns true if running on testnet.
func (c *Config) IsTestnet() bool {
	return c.Network == chain.Testnet
}

// BackendConfigs returns the configured backends merged over the defaults.
func (c *Config) BackendConfigs() map[string]*backend.Config {
	merged := backend.DefaultConfigs()
	for symbol, cfg := range c.Backends {
		if cfg == nil {
			continue
		}
		merged[strings.ToUpper(symbol)] = cfg
	}
	return merged
}

// Validate checks values a typo could silently break.
func (c *Config) Validate() error {
	var errs []error
	if _, err := chain.ParseNetwork(string(c.Network)); err != nil {
		errs = append(errs, err)
	}
	if c.API.Listen == "" {
		errs = append(errs, errors.New("api.listen is required"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout must not be negative"))
	}
	if c.Clipboard.ResetAfter < 0 {
		errs = append(errs, errors.New("clipboard.reset_after must not be negative"))
	}
	for symbol, cfg := range c.Backends {
		if !chain.IsSupported(symbol) {
			errs = append(errs, fmt.Errorf("backends: unsupported asset %q", symbol))
			continue
		}
		if cfg == nil {
			continue
		}
		switch cfg.Type {
		case backend.TypeMempool, backend.TypeEsplora, backend.TypeBlockbook, backend.TypeEVM:
		default:
			errs = append(errs, fmt.Errorf("backends.%s: unknown type %q", symbol, cfg.Type))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(dataDir string) (*Config, error) {
	configPath := ConfigPath(dataDir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Storage.DataDir = dataDir

		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	cfg.Network, _ = chain.ParseNetwork(string(cfg.Network))

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# odinx wallet daemon configuration\n# Generated automatically on first run\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigPath returns the full path to the config file for the given data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(ExpandPath(dataDir), ConfigFileName)
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
