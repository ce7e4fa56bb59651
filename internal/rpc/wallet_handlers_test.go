package rpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odinxorg/odinx-wallet/internal/store"
	"github.com/odinxorg/odinx-wallet/pkg/format"
)

func TestWalletConnectAndState(t *testing.T) {
	env := newTestEnv(t, nil)

	var before WalletStateResult
	decodeResult(t, env.call(t, "wallet_state", nil), &before)
	assert.False(t, before.Connected)
	assert.Equal(t, store.StatusIdle, before.Status)

	var res WalletConnectResult
	decodeResult(t, env.call(t, "wallet_connect", nil), &res)
	assert.Equal(t, store.StatusConnected, res.Status)
	assert.Equal(t, testEvmAddress, res.EvmAddress)
	assert.Equal(t, testBtcAddress, res.BtcAddress)
	assert.Empty(t, res.Error)

	var after WalletStateResult
	decodeResult(t, env.call(t, "wallet_state", nil), &after)
	assert.True(t, after.Connected)
	assert.True(t, after.Initialized)
	assert.True(t, after.AttemptedToConnect)
	assert.Equal(t, testEvmAddress, after.EvmAddress)
}

func TestWalletConnectFailureIsAResult(t *testing.T) {
	env := newTestEnv(t, errors.New("user rejected"))

	resp := env.call(t, "wallet_connect", nil)
	require.Nil(t, resp.Error)

	var res WalletConnectResult
	decodeResult(t, resp, &res)
	assert.Equal(t, store.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "user rejected")

	var state WalletStateResult
	decodeResult(t, env.call(t, "wallet_state", nil), &state)
	assert.False(t, state.Connected)
	assert.Equal(t, store.StatusFailed, state.Status)
	assert.Contains(t, state.LastError, "user rejected")
}

func TestWalletCheckAndReset(t *testing.T) {
	env := newTestEnv(t, nil)

	var checked WalletStateResult
	decodeResult(t, env.call(t, "wallet_check", nil), &checked)
	assert.True(t, checked.Connected)

	var reset WalletStateResult
	decodeResult(t, env.call(t, "wallet_reset", nil), &reset)
	assert.False(t, reset.Connected)
	assert.False(t, reset.Initialized)
	assert.Empty(t, reset.EvmAddress)
	assert.Empty(t, reset.BtcAddress)
}

func TestWalletBalances(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.call(t, "wallet_balances", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, InternalError, resp.Error.Code)

	env.call(t, "wallet_connect", nil)

	var balances []BalanceResult
	decodeResult(t, env.call(t, "wallet_balances", nil), &balances)
	require.Len(t, balances, 2)

	assert.Equal(t, "BTC", balances[0].Symbol)
	assert.Equal(t, testBtcAddress, balances[0].Address)
	assert.Equal(t, "1.5", balances[0].Confirmed)
	assert.Equal(t, "1.50000000", balances[0].Display)
	assert.Empty(t, balances[0].Error)

	assert.Equal(t, "ETH", balances[1].Symbol)
	assert.Equal(t, "node down", balances[1].Error)
	assert.Empty(t, balances[1].Display)
}

func TestWalletCopyAddress(t *testing.T) {
	env := newTestEnv(t, nil)

	var res ClipboardLabelResult
	decodeResult(t, env.call(t, "wallet_copyAddress", CopyAddressParams{Address: "0xabc"}), &res)
	assert.Equal(t, format.LabelCopied, res.Label)

	resp := env.call(t, "wallet_copyAddress", CopyAddressParams{Chain: "bitcoin"})
	require.NotNil(t, resp.Error, "no address before connect")

	env.call(t, "wallet_connect", nil)
	decodeResult(t, env.call(t, "wallet_copyAddress", CopyAddressParams{Chain: "ETH"}), &res)

	assert.Equal(t, []string{"0xabc", testEvmAddress}, env.copies())

	tests := []struct {
		name   string
		params CopyAddressParams
	}{
		{"nothing", CopyAddressParams{}},
		{"unknown chain", CopyAddressParams{Chain: "solana"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.call(t, "wallet_copyAddress", tt.params)
			require.NotNil(t, resp.Error)
			assert.Equal(t, InvalidParams, resp.Error.Code)
		})
	}
}

func TestWalletTruncateAddress(t *testing.T) {
	env := newTestEnv(t, nil)

	var res TextResult
	decodeResult(t, env.call(t, "wallet_truncateAddress", TruncateAddressParams{Address: testEvmAddress}), &res)
	assert.Equal(t, format.TruncateAddress(testEvmAddress), res.Text)

	decodeResult(t, env.call(t, "wallet_truncateAddress", TruncateAddressParams{}), &res)
	assert.Equal(t, "", res.Text)
}

func TestWalletFormatBalance(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		asset string
		value float64
		want  string
	}{
		{"BTC", 1.5, "1.50000000"},
		{"eth", 0, "0.000000000000000000"},
		{"LUSD", 2, "2.000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.asset, func(t *testing.T) {
			var res TextResult
			decodeResult(t, env.call(t, "wallet_formatBalance", FormatBalanceParams{Asset: tt.asset, Value: tt.value}), &res)
			assert.Equal(t, tt.want, res.Text)
		})
	}

	resp := env.call(t, "wallet_formatBalance", FormatBalanceParams{Asset: "DOGE", Value: 1})
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
}

func TestDecodeParamsRejectsWrongShape(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.call(t, "wallet_formatBalance", []int{1, 2})
	require.NotNil(t, resp.Error)
	assert.Equal(t, InvalidParams, resp.Error.Code)
}
