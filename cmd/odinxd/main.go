// Package main provides odinxd, the wallet daemon behind the swap UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/odinxorg/odinx-wallet/internal/backend"
	"github.com/odinxorg/odinx-wallet/internal/chain"
	"github.com/odinxorg/odinx-wallet/internal/config"
	"github.com/odinxorg/odinx-wallet/internal/env"
	"github.com/odinxorg/odinx-wallet/internal/rpc"
	"github.com/odinxorg/odinx-wallet/internal/service"
	"github.com/odinxorg/odinx-wallet/internal/signer"
	"github.com/odinxorg/odinx-wallet/internal/storage"
	"github.com/odinxorg/odinx-wallet/internal/store"
	"github.com/odinxorg/odinx-wallet/internal/wallet"
	"github.com/odinxorg/odinx-wallet/pkg/format"
	"github.com/odinxorg/odinx-wallet/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	// Parse flags
	var (
		dataDir     = flag.String("data-dir", "~/.odinx", "Data directory")
		envFile     = flag.String("env-file", ".env", "Dotenv file with the VITE_* settings")
		apiAddr     = flag.String("api", "", "JSON-RPC API address, overrides config")
		testnet     = flag.Bool("testnet", false, "Run on testnet (separate keys and data)")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides config")
		initWallet  = flag.Bool("init-wallet", false, "Create the keystore and exit")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	// Set up logging (initial, may be overridden by config)
	log := logging.New(&logging.Config{
		Level:      *logLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	if *showVersion {
		log.Infof("odinxd %s (commit: %s)", version, commit)
		os.Exit(0)
	}

	// The trade API and explorer URLs are required to serve anything.
	var environment *env.Env
	if !*initWallet {
		environment = env.MustLoad(*envFile)
	}

	effectiveDataDir := *dataDir
	if *testnet {
		effectiveDataDir = filepath.Join(*dataDir, "testnet")
	}

	cfg, err := config.LoadConfig(effectiveDataDir)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Apply CLI overrides (CLI flags take precedence over config file)
	if *testnet {
		cfg.Network = chain.Testnet
	}
	if *apiAddr != "" {
		cfg.API.Listen = *apiAddr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	cfg.Storage.DataDir = effectiveDataDir
	dataPath := config.ExpandPath(cfg.Storage.DataDir)

	log, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		logging.Fatal("Failed to open log file", "error", err)
	}
	defer closeLog()
	logging.SetDefault(log)

	log.Info("Config loaded", "path", config.ConfigPath(effectiveDataDir), "network", cfg.Network)

	keystore := wallet.NewKeystore(dataPath, cfg.Network)
	if *initWallet {
		if err := createKeystore(keystore, cfg.Signer.PasswordEnv); err != nil {
			log.Fatal("Failed to create keystore", "error", err)
		}
		log.Info("Keystore created", "path", keystore.Path)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	db, err := storage.New(&storage.Config{DataDir: dataPath})
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}
	defer db.Close()
	log.Info("Storage initialized", "path", db.Path())

	signerCfg := signer.Config{
		Keystore:   keystore,
		Password:   passwordFromEnv(cfg.Signer.PasswordEnv),
		Passphrase: os.Getenv(cfg.Signer.PassphraseEnv),
		Account:    cfg.Signer.Account,
		Index:      cfg.Signer.Index,
	}
	if !keystore.Exists() {
		log.Warn("No keystore yet, run with -init-wallet before connecting", "path", keystore.Path)
	}

	st, err := store.New(store.Config{
		BackendURL:        environment.BackendURL,
		WalletPartnerID:   cfg.WalletPartnerID,
		ClientTimeout:     cfg.RequestTimeout,
		Persist:           db,
		NewBitcoinSigner:  func() signer.Signer { return signer.NewBitcoinSigner(signerCfg) },
		NewEthereumSigner: func() signer.Signer { return signer.NewEvmSigner(signerCfg) },
		Logger:            log.Component("store"),
	})
	if err != nil {
		log.Fatal("Failed to create wallet store", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := service.NewMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register metrics", "error", err)
	}

	// Resolved per call: resets and reconnects replace the store's client.
	sdk := service.NewWithSource(
		func() service.Trader { return st.OdinTrade() },
		service.WithLogger(log.Component("sdk")),
		service.WithMetrics(metrics),
	)

	// Initialize backend registry for balance lookups
	backends, err := backend.NewRegistryFromConfigs(cfg.BackendConfigs(), cfg.Network)
	if err != nil {
		log.Fatal("Failed to initialize backends", "error", err)
	}
	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	if err := backends.ConnectAll(connectCtx); err != nil {
		log.Warn("Some backends failed to connect", "error", err)
	}
	connectCancel()
	defer backends.CloseAll()
	log.Info("Backend registry initialized", "network", cfg.Network, "backends", backends.List())

	clip := format.NewClipboard(nil, cfg.Clipboard.ResetAfter)
	defer clip.Close()

	// Start RPC server
	rpcServer := rpc.NewServer(rpc.Config{
		Store:    st,
		Service:  sdk,
		Backends: backends,
		Explorers: backend.Explorers{
			Bitcoin:  environment.BitcoinExplorerURL,
			Ethereum: environment.EthereumExplorerURL,
		},
		Clipboard:      clip,
		Gatherer:       registry,
		AllowedOrigins: cfg.API.AllowedOrigins,
	})
	if err := rpcServer.Start(cfg.API.Listen); err != nil {
		log.Fatal("Failed to start RPC server", "error", err)
	}

	printBanner(log, cfg, environment, rpcServer.Addr())

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	log.Info("Shutting down...")

	cancel()

	if err := rpcServer.Stop(); err != nil {
		log.Error("Error stopping RPC server", "error", err)
	}

	log.Info("Goodbye!")
}

// newLogger builds the configured logger. The returned func closes the log
// file, if any.
func newLogger(cfg config.LoggingConfig) (*logging.Logger, func(), error) {
	lc := &logging.Config{Level: cfg.Level, TimeFormat: time.TimeOnly}
	if cfg.File == "" {
		return logging.New(lc), func() {}, nil
	}

	path := config.ExpandPath(cfg.File)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, err
	}
	lc.Output = f
	return logging.New(lc), func() { f.Close() }, nil
}

// passwordFromEnv reads the keystore password when a signer connects.
func passwordFromEnv(key string) signer.PasswordFunc {
	return func() (string, error) {
		password := os.Getenv(key)
		if password == "" {
			return "", fmt.Errorf("%s is not set", key)
		}
		return password, nil
	}
}

// createKeystore writes a keystore from ODINX_MNEMONIC, or from a freshly
// generated mnemonic that is printed once.
func createKeystore(ks *wallet.Keystore, passwordEnv string) error {
	password := os.Getenv(passwordEnv)
	if err := wallet.ValidatePassword(password); err != nil {
		return fmt.Errorf("%s: %w", passwordEnv, err)
	}

	mnemonic := os.Getenv("ODINX_MNEMONIC")
	generated := mnemonic == ""
	if generated {
		var err error
		if mnemonic, err = wallet.GenerateMnemonic(); err != nil {
			return err
		}
	} else if !wallet.ValidateMnemonic(mnemonic) {
		return errors.New("ODINX_MNEMONIC is not a valid BIP39 mnemonic")
	}

	if err := ks.Create(mnemonic, password); err != nil {
		return err
	}
	if generated {
		fmt.Fprintf(os.Stdout, "\nRecovery phrase (write it down, it is not shown again):\n\n  %s\n\n", mnemonic)
	}
	return nil
}

func printBanner(log *logging.Logger, cfg *config.Config, environment *env.Env, apiAddr string) {
	networkLabel := "mainnet"
	if cfg.IsTestnet() {
		networkLabel = "TESTNET"
	}

	log.Info("")
	log.Info("=================================================")
	log.Infof("  OdinX Wallet Daemon (%s)", networkLabel)
	log.Infof("  Version: %s", version)
	log.Info("=================================================")
	log.Info("")
	log.Infof("  API:     http://%s", apiAddr)
	log.Infof("  WS:      ws://%s/ws", apiAddr)
	log.Infof("  Metrics: http://%s/metrics", apiAddr)
	log.Infof("  Trade API: %s", environment.BackendURL)
	log.Infof("  Data dir: %s", config.ExpandPath(cfg.Storage.DataDir))
	log.Info("")
	log.Info("=================================================")
	log.Info("")
}
