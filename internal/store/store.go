// Package store holds the process-wide wallet state: the two signers, the
// trade client bound to them, and the connection flags the UI renders.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/odinxorg/odinx-wallet/internal/odin"
	"github.com/odinxorg/odinx-wallet/internal/signer"
	"github.com/odinxorg/odinx-wallet/internal/storage"
	"github.com/odinxorg/odinx-wallet/pkg/logging"
)

// Persisted keys are namespaced so a reset never touches other settings.
const (
	KeyPrefix = "walletStore:"
	StateKey  = KeyPrefix + "state"
)

// Persister stores the wallet state between runs.
type Persister interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	ClearPrefix(prefix string) (int64, error)
}

// Config wires the store's collaborators.
type Config struct {
	BackendURL      string
	WalletPartnerID string
	ClientTimeout   time.Duration

	// Persist is optional; without it state lives only in memory.
	Persist Persister

	NewBitcoinSigner  func() signer.Signer
	NewEthereumSigner func() signer.Signer

	// NewClient defaults to odin.New.
	NewClient func(odin.Config) *odin.Client

	Logger *logging.Logger
}

// Store is the wallet store. All methods are safe for concurrent use.
type Store struct {
	cfg Config
	log *logging.Logger

	mu      sync.RWMutex
	state   State
	status  ConnectionStatus
	lastErr error
	btc     signer.Signer
	evm     signer.Signer
	client  *odin.Client
	epoch   uint64

	connect singleflight.Group

	subsMu  sync.Mutex
	subs    map[uint64]func(State)
	nextSub uint64
}

// New creates a store with placeholder signers and a URL-only client, then
// restores any persisted state.
func New(cfg Config) (*Store, error) {
	if cfg.NewBitcoinSigner == nil || cfg.NewEthereumSigner == nil {
		return nil, errors.New("store: signer factories are required")
	}
	if cfg.NewClient == nil {
		cfg.NewClient = odin.New
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetDefault().Component("store")
	}

	s := &Store{
		cfg:    cfg,
		log:    cfg.Logger,
		status: StatusIdle,
		subs:   make(map[uint64]func(State)),
	}
	s.btc = cfg.NewBitcoinSigner()
	s.evm = cfg.NewEthereumSigner()
	s.client = s.urlOnlyClient()

	s.hydrate()
	return s, nil
}

// Init builds fresh signers and a signer-bound client. Only the first call
// after New or ResetWallets does anything.
func (s *Store) Init() {
	s.mu.Lock()
	if s.state.Initialized {
		s.mu.Unlock()
		return
	}
	s.btc = s.cfg.NewBitcoinSigner()
	s.evm = s.cfg.NewEthereumSigner()
	s.client = s.cfg.NewClient(odin.Config{
		URL:             s.cfg.BackendURL,
		WalletPartnerID: s.cfg.WalletPartnerID,
		BitcoinSigner:   s.btc,
		EthereumSigner:  s.evm,
		Timeout:         s.cfg.ClientTimeout,
	})
	s.state.Initialized = true
	s.mu.Unlock()

	s.log.Debug("Wallet store initialized")
	s.notify()
}

// ConnectWallets connects both signers and records their addresses.
// Concurrent callers share one attempt. Failures are logged and reported
// in the result rather than returned.
func (s *Store) ConnectWallets(ctx context.Context) ConnectResult {
	v, _, _ := s.connect.Do("connect", func() (interface{}, error) {
		return s.connectWallets(ctx), nil
	})
	return v.(ConnectResult)
}

func (s *Store) connectWallets(ctx context.Context) ConnectResult {
	s.Init()

	s.mu.Lock()
	s.state.AttemptedToConnect = true
	s.status = StatusConnecting
	s.lastErr = nil
	btc, evm, epoch := s.btc, s.evm, s.epoch
	s.mu.Unlock()
	s.persist()
	s.notify()

	evmAddress, btcAddress, err := connectPair(ctx, evm, btc)
	if err == nil && (evmAddress == "" || btcAddress == "") {
		err = ErrEmptyAddress
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Warn("Discarding wallet connect result after reset")
		return ConnectResult{Status: StatusIdle, Err: ErrSuperseded}
	}

	var result ConnectResult
	if err != nil {
		if errors.Is(err, ErrEmptyAddress) {
			s.state.EvmAddress = evmAddress
			s.state.BtcAddress = btcAddress
		}
		s.state.Connected = false
		s.status = StatusFailed
		s.lastErr = err
		result = ConnectResult{Status: StatusFailed, Err: err}
	} else {
		s.state.EvmAddress = evmAddress
		s.state.BtcAddress = btcAddress
		s.state.Connected = true
		s.status = StatusConnected
		result = ConnectResult{Status: StatusConnected, EvmAddress: evmAddress, BtcAddress: btcAddress}
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("Error connecting wallets", "error", err)
	} else {
		s.log.Info("Wallets connected", "evm", evmAddress, "btc", btcAddress)
	}

	s.persist()
	s.notify()
	return result
}

// connectPair connects both signers concurrently, then reads their addresses.
func connectPair(ctx context.Context, evm, btc signer.Signer) (string, string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := evm.Connect(gctx); err != nil {
			return fmt.Errorf("connect %s: %w", evm.Chain(), err)
		}
		return nil
	})
	g.Go(func() error {
		if err := btc.Connect(gctx); err != nil {
			return fmt.Errorf("connect %s: %w", btc.Chain(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return readAddresses(ctx, evm, btc)
}

func readAddresses(ctx context.Context, evm, btc signer.Signer) (string, string, error) {
	evmAddress, err := evm.Address(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%s address: %w", evm.Chain(), err)
	}
	btcAddress, err := btc.Address(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%s address: %w", btc.Chain(), err)
	}
	return evmAddress, btcAddress, nil
}

// CheckConnection connects when disconnected or when the signers have not
// been built since startup; otherwise it refreshes both addresses from the
// live signers. A refresh that finds a locked signer reconnects. Any other
// refresh failure marks the store disconnected.
func (s *Store) CheckConnection(ctx context.Context) error {
	s.mu.RLock()
	connected, initialized := s.state.Connected, s.state.Initialized
	btc, evm, epoch := s.btc, s.evm, s.epoch
	s.mu.RUnlock()

	if !connected || !initialized {
		return s.ConnectWallets(ctx).Err
	}

	evmAddress, btcAddress, err := readAddresses(ctx, evm, btc)
	if errors.Is(err, signer.ErrNotConnected) {
		s.log.Debug("Signer not connected, reconnecting", "error", err)
		return s.ConnectWallets(ctx).Err
	}
	if err == nil && (evmAddress == "" || btcAddress == "") {
		err = ErrEmptyAddress
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		if errors.Is(err, ErrEmptyAddress) {
			s.state.EvmAddress = evmAddress
			s.state.BtcAddress = btcAddress
		}
		s.state.Connected = false
		s.status = StatusFailed
		s.lastErr = err
	} else {
		s.state.EvmAddress = evmAddress
		s.state.BtcAddress = btcAddress
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("Wallet connection lost", "error", err)
	}
	s.persist()
	s.notify()
	return err
}

// ResetWallets replaces the signers and client, clears this store's
// persisted keys and returns the state to its zero value. The next Init
// builds everything again.
func (s *Store) ResetWallets() error {
	s.mu.Lock()
	s.epoch++
	s.btc = s.cfg.NewBitcoinSigner()
	s.evm = s.cfg.NewEthereumSigner()
	s.client = s.urlOnlyClient()
	s.state = State{}
	s.status = StatusIdle
	s.lastErr = nil
	s.mu.Unlock()

	var err error
	if s.cfg.Persist != nil {
		if _, cerr := s.cfg.Persist.ClearPrefix(KeyPrefix); cerr != nil {
			err = fmt.Errorf("clear persisted wallet state: %w", cerr)
		}
	}

	s.log.Info("Wallets reset")
	s.notify()
	return err
}

// EvmSigner returns the current Ethereum signer.
func (s *Store) EvmSigner() signer.Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evm
}

// BtcSigner returns the current Bitcoin signer.
func (s *Store) BtcSigner() signer.Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.btc
}

// OdinTrade returns the current trade client.
func (s *Store) OdinTrade() *odin.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// State returns a snapshot of the wallet state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status returns the outcome of the last connect attempt.
func (s *Store) Status() ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// LastError returns the error of the last failed connect or refresh.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe registers fn for every state change. fn runs synchronously on
// the mutating goroutine and must not call back into mutating methods.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify() {
	state := s.State()

	s.subsMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// urlOnlyClient carries no partner ID; only the signer-bound client built
// by Init identifies the wallet partner.
func (s *Store) urlOnlyClient() *odin.Client {
	return s.cfg.NewClient(odin.Config{
		URL:     s.cfg.BackendURL,
		Timeout: s.cfg.ClientTimeout,
	})
}

func (s *Store) persist() {
	if s.cfg.Persist == nil {
		return
	}

	s.mu.RLock()
	p := persistedState{
		Connected:          s.state.Connected,
		EvmAddress:         s.state.EvmAddress,
		BtcAddress:         s.state.BtcAddress,
		AttemptedToConnect: s.state.AttemptedToConnect,
	}
	s.mu.RUnlock()

	data, err := json.Marshal(p)
	if err != nil {
		s.log.Warn("Failed to encode wallet state", "error", err)
		return
	}
	if err := s.cfg.Persist.SetSetting(StateKey, string(data)); err != nil {
		s.log.Warn("Failed to persist wallet state", "error", err)
	}
}

func (s *Store) hydrate() {
	if s.cfg.Persist == nil {
		return
	}

	raw, err := s.cfg.Persist.GetSetting(StateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("Failed to load wallet state", "error", err)
		return
	}

	var p persistedState
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn("Ignoring corrupt wallet state", "error", err)
		return
	}

	s.state.Connected = p.Connected && p.EvmAddress != "" && p.BtcAddress != ""
	s.state.EvmAddress = p.EvmAddress
	s.state.BtcAddress = p.BtcAddress
	s.state.AttemptedToConnect = p.AttemptedToConnect
	s.log.Debug("Restored wallet state", "connected", s.state.Connected)
}
