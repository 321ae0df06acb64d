package utxo

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	bchchaincfg "github.com/gcash/bchd/chaincfg"
	"github.com/gcash/bchutil"
	"github.com/stretchr/testify/require"
)

func p2wpkhAddress(t *testing.T, seed byte) (string, []byte) {
	t.Helper()
	addr, err := btcutil.NewAddressWitnessPubKeyHash(bytes.Repeat([]byte{seed}, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	return addr.EncodeAddress(), script
}

func p2pkhScript(t *testing.T, seed byte) []byte {
	t.Helper()
	addr, err := btcutil.NewAddressPubKeyHash(bytes.Repeat([]byte{seed}, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	return script
}

func bchAddress(t *testing.T, seed byte) string {
	t.Helper()
	addr, err := bchutil.NewAddressPubKeyHash(bytes.Repeat([]byte{seed}, 20), &bchchaincfg.MainNetParams)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func txHash(seed byte) string {
	return string(bytes.Repeat([]byte{"0123456789abcdef"[seed%16]}, 64))
}

type mockSource struct {
	mu      sync.Mutex
	utxos   []UnspentOutput
	balance uint64
	err     error
	calls   int
}

func (m *mockSource) GetUnspentOutputs(_ context.Context, _ string) ([]UnspentOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.utxos, nil
}

func (m *mockSource) GetBalance(_ context.Context, _ string) (uint64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.balance, nil
}

type mockBroadcaster struct {
	hash string
	err  error
	raw  []byte
}

func (m *mockBroadcaster) Broadcast(_ context.Context, rawTx []byte) (string, error) {
	m.raw = rawTx
	if m.err != nil {
		return "", m.err
	}
	return m.hash, nil
}

type staticFees struct {
	rate FeeRate
	err  error
}

func (s staticFees) FeeRate(context.Context) (FeeRate, error) {
	return s.rate, s.err
}
