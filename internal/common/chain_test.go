package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainClassification(t *testing.T) {
	tests := []struct {
		chain Chain
		utxo  bool
		evm   bool
	}{
		{Bitcoin, true, false},
		{Litecoin, true, false},
		{BitcoinCash, true, false},
		{Dogecoin, true, false},
		{Zcash, true, false},
		{Ethereum, false, true},
		{BscChain, false, true},
		{Avalanche, false, true},
		{Base, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.chain.String(), func(t *testing.T) {
			require.Equal(t, tt.utxo, tt.chain.IsUTXO())
			require.Equal(t, tt.evm, tt.chain.IsEVM())
		})
	}
}

func TestFromString(t *testing.T) {
	c, err := FromString("ethereum")
	require.NoError(t, err)
	require.Equal(t, Ethereum, c)

	c, err = FromString("AVAX")
	require.NoError(t, err)
	require.Equal(t, Avalanche, c)

	c, err = FromString("bitcoin-cash")
	require.NoError(t, err)
	require.Equal(t, BitcoinCash, c)

	_, err = FromString("solana")
	require.Error(t, err)
}

func TestNativeSymbol(t *testing.T) {
	sym, err := BscChain.NativeSymbol()
	require.NoError(t, err)
	require.Equal(t, "BNB", sym)

	sym, err = Base.NativeSymbol()
	require.NoError(t, err)
	require.Equal(t, "ETH", sym)
}

func TestParseNetwork(t *testing.T) {
	n, err := ParseNetwork("")
	require.NoError(t, err)
	require.Equal(t, Mainnet, n)

	n, err = ParseNetwork("Testnet")
	require.NoError(t, err)
	require.Equal(t, Testnet, n)

	_, err = ParseNetwork("devnet")
	require.Error(t, err)
}
