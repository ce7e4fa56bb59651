package store

import "errors"

// State is the observable wallet state.
type State struct {
	Connected          bool   `json:"connected"`
	EvmAddress         string `json:"evmAddress"`
	BtcAddress         string `json:"btcAddress"`
	Initialized        bool   `json:"initialized"`
	AttemptedToConnect bool   `json:"attemptedToConnect"`
}

// persistedState is the subset of State that survives restarts.
type persistedState struct {
	Connected          bool   `json:"connected"`
	EvmAddress         string `json:"evmAddress"`
	BtcAddress         string `json:"btcAddress"`
	AttemptedToConnect bool   `json:"attemptedToConnect"`
}

// ConnectionStatus tracks the last connect attempt.
type ConnectionStatus string

const (
	StatusIdle       ConnectionStatus = "idle"
	StatusConnecting ConnectionStatus = "connecting"
	StatusConnected  ConnectionStatus = "connected"
	StatusFailed     ConnectionStatus = "failed"
)

// ConnectResult reports the outcome of ConnectWallets.
type ConnectResult struct {
	Status     ConnectionStatus `json:"status"`
	Err        error            `json:"-"`
	EvmAddress string           `json:"evmAddress,omitempty"`
	BtcAddress string           `json:"btcAddress,omitempty"`
}

// Errors reported in ConnectResult.Err.
var (
	// ErrEmptyAddress means a signer connected but reported no address.
	ErrEmptyAddress = errors.New("signer returned an empty address")

	// ErrSuperseded means the wallets were reset while a connect was running.
	ErrSuperseded = errors.New("connect superseded by reset")
)
